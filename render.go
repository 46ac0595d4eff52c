package bibweb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// Template markers replaced by Render. Category markers are derived per
// class as <!--LIST_<CLASS>--> and record markers as <!--<id>-->.
const (
	markerReferences = "<!--LIST_OF_REFERENCES-->"
	markerCount      = "<!--NUMBER_OF_REFERENCES-->"
	markerNewer      = "<!--NEWER-->"
	markerOlder      = "<!--OLDER-->"
	markerDate       = "<!--DATE-->"
)

// per-class markers, matched after markerReferences has been replaced
var classMarker = regexp.MustCompile(`<!--LIST_([^>]+)-->`)

// Layout selects how a single record is formatted.
type Layout string

const (
	LayoutList  Layout = "list"  // <ul>/<li> items
	LayoutTable Layout = "table" // <table> rows, year or abbrv in the left cell
)

// ParseLayout validates a layout name from configuration.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutList, LayoutTable, "":
		if s == "" {
			return LayoutList, nil
		}
		return Layout(s), nil
	}
	return "", fmt.Errorf("unknown layout %q (want %q or %q)", s, LayoutList, LayoutTable)
}

// Config carries the rendering toggles. The zero value renders an HTML
// list with all optional fields and today's date.
type Config struct {
	Layout       Layout
	Markdown     bool   // emit Markdown instead of HTML; forces the list layout
	SkipOptional bool   // drop url/paper/slide/code/misc/comment/prefix/abbrv
	Highlight    string // author name to embolden, e.g. one's own
	Date         time.Time
}

type link struct {
	Name string
	Href string
}

// recordView is the single-record payload handed to the layout
// templates, fields in their fixed rendering order.
type recordView struct {
	Title     string
	Year      string
	Author    string
	Booktitle string
	Prefix    string
	Abbrv     string
	Comment   string
	URL       string
	Links     []link
}

var (
	listItemTmpl = template.Must(template.New("listItem").Funcs(sprig.FuncMap()).Parse(
		`<li>{{with .Prefix}}<em>{{.}}</em> {{end}}{{if .URL}}<a href="{{.URL}}"><b>{{.Title}}</b></a>{{else}}<b>{{.Title}}</b>{{end}}<br>
{{.Author}}<br>
{{with .Booktitle}}<i>{{.}}</i>{{end}}{{if and .Booktitle .Year}}, {{end}}{{.Year}}{{range .Links}} [<a href="{{.Href}}">{{.Name}}</a>]{{end}}{{with .Comment}}<br>
{{trim .}}{{end}}</li>
`))

	tableRowTmpl = template.Must(template.New("tableRow").Funcs(sprig.FuncMap()).Parse(
		`<tr><td class="bibyear">{{default .Year .Abbrv}}</td><td class="bibitem">{{with .Prefix}}<em>{{.}}</em> {{end}}{{if .URL}}<a href="{{.URL}}"><b>{{.Title}}</b></a>{{else}}<b>{{.Title}}</b>{{end}}<br>
{{.Author}}<br>
{{with .Booktitle}}<i>{{.}}</i>{{end}}{{if and .Booktitle .Year}}, {{end}}{{.Year}}{{range .Links}} [<a href="{{.Href}}">{{.Name}}</a>]{{end}}{{with .Comment}}<br>
{{trim .}}{{end}}</td></tr>
`))

	mdItemTmpl = template.Must(template.New("mdItem").Funcs(sprig.FuncMap()).Parse(
		`- {{with .Prefix}}*{{.}}* {{end}}{{if .URL}}[**{{.Title}}**]({{.URL}}){{else}}**{{.Title}}**{{end}}
  {{.Author}}
  {{with .Booktitle}}*{{.}}*{{end}}{{if and .Booktitle .Year}}, {{end}}{{.Year}}{{range .Links}} [[{{.Name}}]({{.Href}})]{{end}}{{with .Comment}}
  {{trim .}}{{end}}
`))
)

// Format renders one record with the configured layout.
func (cfg Config) Format(r Record) (string, error) {
	tmpl := listItemTmpl
	switch {
	case cfg.Markdown:
		tmpl = mdItemTmpl
	case cfg.Layout == LayoutTable:
		tmpl = tableRowTmpl
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, cfg.view(r)); err != nil {
		return "", fmt.Errorf("formatting record %q: %w", r.ID(), err)
	}
	return b.String(), nil
}

func (cfg Config) view(r Record) recordView {
	v := recordView{
		Title:     r.Field("title"),
		Year:      r.Field("year"),
		Author:    r.Field("author"),
		Booktitle: r.Field("booktitle"),
	}
	if cfg.Highlight != "" {
		v.Author = cfg.highlight(v.Author)
	}
	if cfg.SkipOptional {
		return v
	}
	v.Prefix = r.Field("prefix")
	v.Abbrv = r.Field("abbrv")
	v.Comment = r.Field("comment")
	v.URL = r.Field("url")
	for _, opt := range []struct{ field, label string }{
		{"paper", "paper"},
		{"slide", "slides"},
		{"code", "code"},
		{"misc", "misc"},
	} {
		if href := r.Field(opt.field); href != "" {
			v.Links = append(v.Links, link{Name: opt.label, Href: href})
		}
	}
	return v
}

func (cfg Config) highlight(author string) string {
	if cfg.Markdown {
		return strings.ReplaceAll(author, cfg.Highlight, "**"+cfg.Highlight+"**")
	}
	return strings.ReplaceAll(author, cfg.Highlight, "<b>"+cfg.Highlight+"</b>")
}

// Render substitutes every marker of tmpl with content generated from
// recs. A record set without usable years produces empty reference
// sections and blank NEWER/OLDER markers rather than an error.
func Render(tmpl string, recs []Record, cfg Config) (string, error) {
	refs, count, err := renderGrouped(recs, cfg)
	if err != nil {
		return "", err
	}
	out := strings.ReplaceAll(tmpl, markerReferences, refs)
	out = strings.ReplaceAll(out, markerCount, strconv.Itoa(count))

	newer, older := "", ""
	if years := sortedYears(recs); len(years) > 0 {
		newer = strconv.Itoa(years[0])
		older = strconv.Itoa(years[len(years)-1])
	}
	out = strings.ReplaceAll(out, markerNewer, newer)
	out = strings.ReplaceAll(out, markerOlder, older)

	date := cfg.Date
	if date.IsZero() {
		date = time.Now()
	}
	out = strings.ReplaceAll(out, markerDate, date.Format("02 Jan 2006"))

	// every remaining <!--LIST_*--> marker gets substituted, even when no
	// record carries the class: a class without records is an empty
	// section, not a leftover marker
	byClass := make(map[string][]Record)
	for _, class := range classes(recs) {
		byClass[strings.ToUpper(class)] = filterClass(recs, class)
	}
	var markerErr error
	out = classMarker.ReplaceAllStringFunc(out, func(marker string) string {
		name := classMarker.FindStringSubmatch(marker)[1]
		section, _, err := renderGrouped(byClass[name], cfg)
		if err != nil {
			markerErr = err
			return marker
		}
		return section
	})
	if markerErr != nil {
		return "", markerErr
	}

	for _, r := range recs {
		if r.ID() == "" {
			continue
		}
		marker := "<!--" + r.ID() + "-->"
		if !strings.Contains(out, marker) {
			continue
		}
		item, err := cfg.Format(r)
		if err != nil {
			return "", err
		}
		out = strings.ReplaceAll(out, marker, item)
	}
	return out, nil
}

// renderGrouped formats recs grouped by year, newest first, keeping the
// source order inside each group. Records without a usable year are
// skipped; they remain reachable through their <!--<id>--> markers.
func renderGrouped(recs []Record, cfg Config) (string, int, error) {
	var b strings.Builder
	count := 0
	for _, y := range sortedYears(recs) {
		openGroup(&b, y, cfg)
		for _, r := range recs {
			if r.YearInt() != y {
				continue
			}
			item, err := cfg.Format(r)
			if err != nil {
				return "", 0, err
			}
			b.WriteString(item)
			count++
		}
		closeGroup(&b, cfg)
	}
	return b.String(), count, nil
}

func openGroup(b *strings.Builder, year int, cfg Config) {
	switch {
	case cfg.Markdown:
		fmt.Fprintf(b, "### %d\n\n", year)
	case cfg.Layout == LayoutTable:
		fmt.Fprintf(b, "<h3 id=\"y%d\">%d</h3>\n<table>\n", year, year)
	default:
		fmt.Fprintf(b, "<h3 id=\"y%d\">%d</h3>\n<ul>\n", year, year)
	}
}

func closeGroup(b *strings.Builder, cfg Config) {
	switch {
	case cfg.Markdown:
		b.WriteString("\n")
	case cfg.Layout == LayoutTable:
		b.WriteString("</table>\n")
	default:
		b.WriteString("</ul>\n")
	}
}

// classes returns the distinct record classes in first-seen order.
func classes(recs []Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range recs {
		c := r.Class()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func filterClass(recs []Record, class string) []Record {
	var out []Record
	for _, r := range recs {
		if r.Class() == class {
			out = append(out, r)
		}
	}
	return out
}
