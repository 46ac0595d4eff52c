package bibweb

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DupInfo ties a duplicated entry to the file it came from.
type DupInfo struct {
	Entry *Entry
	File  *File
}

// DupReport lists citation ids defined more than once across the input
// files. Duplicates are legal (a later @proceedings definition simply
// overwrites the earlier one) but usually unintended, so the caller may
// surface the report as a warning.
type DupReport struct {
	DuplicateSetCount int
	DuplicateSet      map[string][]DupInfo
}

// DuplicateIDs indexes every entry with a citation id and reports the
// ids that occur more than once. @string entries are skipped; their id
// token holds the macro definition, not a citation key.
func DuplicateIDs(files []*File) *DupReport {
	dupSet := make(map[string][]DupInfo)
	for _, f := range files {
		for _, e := range f.Entries {
			if e.ID() == "" || e.Type() == "string" {
				continue
			}
			dupSet[e.ID()] = append(dupSet[e.ID()], DupInfo{Entry: e, File: f})
		}
	}
	dr := &DupReport{DuplicateSet: dupSet}
	for _, infos := range dupSet {
		if len(infos) > 1 {
			dr.DuplicateSetCount++
		}
	}
	return dr
}

func (dr *DupReport) Print(w io.Writer) (err error) {
	if dr == nil || dr.DuplicateSetCount == 0 {
		return nil
	}
	fmt.Fprintf(w, "%d duplicate ids found\n", dr.DuplicateSetCount)
	for id, infos := range dr.DuplicateSet {
		if len(infos) < 2 {
			continue
		}
		if _, err = fmt.Fprintf(w, "%s\n[%s] has %d occurrences\n",
			strings.Repeat("*", 60), id, len(infos)); err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintf(w, "%s:%d\n", info.File.Name(), info.Entry.Line())
			if err = Print(w, info.Entry); err != nil {
				return err
			}
		}
	}
	return err
}

func (dr *DupReport) String() string {
	var b bytes.Buffer
	if err := dr.Print(&b); err != nil {
		b.WriteString("error: " + err.Error())
	}
	return b.String()
}
