package bibweb

import "regexp"

// CrossrefTable indexes @proceedings entries by citation id. Each value
// is the proceedings' field map with its macro-expanded, canonicalized
// title stored under "booktitle" and the type/id/title keys stripped, so
// it can be overlaid directly onto a referencing entry.
type CrossrefTable map[string]Fields

// characters allowed to survive in a canonicalized booktitle
var booktitleJunk = regexp.MustCompile(`[^a-zA-Z0-9\s.()&]`)

// Crossrefs collects the @proceedings entries of one parsed file,
// resolving titles against the file's macro table. A duplicate
// proceedings id overwrites the earlier definition.
func Crossrefs(f *File, macros MacroTable) CrossrefTable {
	table := make(CrossrefTable)
	for _, e := range f.Entries {
		if e.Type() != "proceedings" || e.ID() == "" {
			continue
		}
		rec := e.Fields.Overlay(Fields{
			"booktitle": canonicalizeBooktitle(macros.Expand(e.Field("title"))),
		})
		delete(rec, "title")
		delete(rec, "type")
		delete(rec, "id")
		table[e.ID()] = rec
	}
	return table
}

// Merge copies every entry of other into t; other wins on id collision.
func (t CrossrefTable) Merge(other CrossrefTable) {
	for id, rec := range other {
		t[id] = rec
	}
}

func canonicalizeBooktitle(title string) string {
	return normalizeSpace(booktitleJunk.ReplaceAllString(title, " "))
}
