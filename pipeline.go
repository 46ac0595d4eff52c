package bibweb

// Load parses every named bibliography file and builds the cross-file
// crossref table: per-file macro tables feed per-file proceedings
// entries, and the per-file tables are merged left to right, so a later
// file's @proceedings definition overrides an earlier one.
//
// Any unreadable file fails the whole load; there is no partial result.
func Load(bibFiles ...string) ([]*File, CrossrefTable, error) {
	files := make([]*File, 0, len(bibFiles))
	crossrefs := make(CrossrefTable)
	for _, name := range bibFiles {
		f, err := Parse(nil, name)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, f)
		crossrefs.Merge(Crossrefs(f, Macros(f)))
	}
	return files, crossrefs, nil
}

// Records is the one-call pipeline: parse, resolve crossrefs, normalize.
func Records(bibFiles ...string) ([]Record, error) {
	files, crossrefs, err := Load(bibFiles...)
	if err != nil {
		return nil, err
	}
	return Normalize(files, crossrefs), nil
}
