package bibweb

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// publishableTypes lists the entry types that survive normalization.
var publishableTypes = map[string]bool{
	"inproceedings": true,
	"article":       true,
}

// characters allowed to survive in a cleaned title
var titleJunk = regexp.MustCompile(`[^a-zA-Z0-9\s.:\-()]`)

// authorReplacer rewrites the latex accent escapes that show up in
// IEEE/ACM author fields as HTML entities, drops grouping braces and
// periods, and folds " And " so the author splitter only has to deal
// with one separator spelling.
var authorReplacer = strings.NewReplacer(
	`\"a`, "&auml;", `\"A`, "&Auml;",
	`\"e`, "&euml;", `\"E`, "&Euml;",
	`\"i`, "&iuml;", `\"I`, "&Iuml;",
	`\"o`, "&ouml;", `\"O`, "&Ouml;",
	`\"u`, "&uuml;", `\"U`, "&Uuml;",
	`\'\`, "",
	`\'a`, "&aacute;", `\'A`, "&Aacute;",
	`\'e`, "&eacute;", `\'E`, "&Eacute;",
	`\'i`, "&iacute;", `\'I`, "&Iacute;",
	`\'o`, "&oacute;", `\'O`, "&Oacute;",
	`\'u`, "&uacute;", `\'U`, "&Uacute;",
	`\~n`, "&ntilde;", `\~N`, "&Ntilde;",
	`\~a`, "&atilde;", `\~A`, "&Atilde;",
	`\~o`, "&otilde;", `\~O`, "&Otilde;",
	".", " ",
	"{", "", "}", "",
	" And ", " and ",
)

// Normalize merges crossref data into every entry of the given files and
// produces the final record list: publishable types only, mandatory
// author and title present, names and titles cleaned, each record tagged
// with a class derived from its source file's base name.
//
// Entries that fail the type or mandatory-field checks are dropped
// without an error; bibliography files routinely mix in @string and
// @proceedings definitions that are expected to be excluded here. The
// drops are still visible at debug level.
func Normalize(files []*File, crossrefs CrossrefTable) []Record {
	var recs []Record
	for _, f := range files {
		class := classOf(f.Name())
		for _, e := range f.Entries {
			flds := e.Fields.Overlay(nil)
			if ref := flds["crossref"]; ref != "" {
				if target, ok := crossrefs[ref]; ok {
					flds = flds.Overlay(target)
				} else {
					// leave the crossref value untouched; the record may
					// still be dropped below for want of a booktitle
					log.Debug("unresolved crossref", "file", f.Name(), "id", e.ID(), "crossref", ref)
				}
			}
			flds["class"] = class
			if flds["booktitle"] == "" && flds["journal"] != "" {
				flds["booktitle"] = flds["journal"]
			}
			if !publishableTypes[flds["type"]] {
				continue
			}
			if flds["author"] == "" || flds["title"] == "" {
				log.Debug("dropping entry without author or title",
					"file", f.Name(), "line", e.Line(), "id", e.ID())
				continue
			}
			flds["author"] = cleanupAuthor(flds["author"])
			flds["title"] = cleanupTitle(flds["title"])
			if p := flds["pages"]; p != "" {
				flds["pages"] = cleanupPages(p)
			}
			recs = append(recs, Record{Fields: flds, line: e.Line()})
		}
	}
	return recs
}

// classOf derives the record category from the source file's base name,
// extension stripped: publications from "conference.bib" carry class
// "conference".
func classOf(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cleanupAuthor rewrites a raw bibtex author field as a readable,
// display-ordered name list: accents become entities, every
// "Last, First" turns into "First Last", and the names are joined with
// ", " except before the last one, which gets ", and " when there is
// more than one author.
func cleanupAuthor(s string) string {
	s = strings.TrimSpace(authorReplacer.Replace(s))
	var names []string
	for _, name := range strings.Split(s, " and ") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if last, first, ok := strings.Cut(name, ","); ok {
			name = strings.TrimSpace(first) + " " + strings.TrimSpace(last)
		}
		names = append(names, name)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return normalizeSpace(names[0])
	}
	joined := strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	return normalizeSpace(joined)
}

// cleanupTitle strips everything outside the title whitelist, collapses
// whitespace and glues spaced colons back onto the preceding word.
func cleanupTitle(s string) string {
	s = normalizeSpace(titleJunk.ReplaceAllString(s, " "))
	return strings.ReplaceAll(s, " :", ":")
}

func cleanupPages(s string) string {
	return strings.ReplaceAll(s, "--", "-")
}
