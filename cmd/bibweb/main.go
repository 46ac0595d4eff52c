package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bibgo/bibweb"
)

var version = "devel"

var rootCmd = &cobra.Command{
	Use:   "bibweb bibfile[,bibfile...] template [output]",
	Short: "render a bibtex bibliography as an HTML or Markdown reference list",
	Long: `bibweb reads one or more bibtex files and a template file, replaces the
template's <!--...--> markers with the formatted, year-grouped reference
list, and writes the result to the output file or to stdout.`,
	Args:         cobra.RangeArgs(2, 3),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("layout", string(bibweb.LayoutList), `record layout: "list" or "table"`)
	flags.Bool("markdown", false, "emit Markdown instead of HTML")
	flags.Bool("skip-optional", false, "drop optional fields (links, comments, prefixes)")
	flags.String("highlight", "", "author name to embolden in every record")
	flags.Bool("verbose", false, "enable debug logging")
	for _, name := range []string{"layout", "markdown", "skip-optional", "highlight", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.SetEnvPrefix("BIBWEB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}
	layout, err := bibweb.ParseLayout(viper.GetString("layout"))
	if err != nil {
		return err
	}
	cfg := bibweb.Config{
		Layout:       layout,
		Markdown:     viper.GetBool("markdown"),
		SkipOptional: viper.GetBool("skip-optional"),
		Highlight:    viper.GetString("highlight"),
	}

	tmpl, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("can't read template: %w", err)
	}

	files, crossrefs, err := bibweb.Load(strings.Split(args[0], ",")...)
	if err != nil {
		return err
	}
	if dr := bibweb.DuplicateIDs(files); dr.DuplicateSetCount > 0 {
		log.Warn("duplicate citation ids across inputs", "sets", dr.DuplicateSetCount)
		log.Debug(dr.String())
	}

	recs := bibweb.Normalize(files, crossrefs)
	log.Debug("normalized records", "count", len(recs))

	out, err := bibweb.Render(string(tmpl), recs, cfg)
	if err != nil {
		return err
	}
	if len(args) == 3 {
		return os.WriteFile(args[2], []byte(out), 0o644)
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
