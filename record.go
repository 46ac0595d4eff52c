package bibweb

import (
	"fmt"
	"io"
	"sort"
)

// Fields maps lower-cased field names to trimmed values. Every parsed
// entry carries the synthesized "type" and "id" keys in addition to the
// literal key=value pairs of its body.
type Fields map[string]string

// Overlay returns a new map holding f with over merged on top; keys of
// over win on collision. Neither input is mutated.
func (f Fields) Overlay(over Fields) Fields {
	merged := make(Fields, len(f)+len(over))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

// Entry is one raw bibliography entry as parsed from a source file.
type Entry struct {
	Fields Fields
	line   int
}

func (e *Entry) Line() int {
	return e.line
}

// Field returns the value of fieldName or "" if absent.
func (e *Entry) Field(fieldName string) string {
	return e.Fields[fieldName]
}

func (e *Entry) Type() string {
	return e.Fields["type"]
}

func (e *Entry) ID() string {
	return e.Fields["id"]
}

func (e *Entry) BibtexRepr() string {
	return fmt.Sprintf("\n@%s{%s,\n", e.Type(), e.ID())
}

// File holds the entries parsed from one bibliography file, in source order.
type File struct {
	Entries []*Entry
	name    string
}

func (f *File) AddEntry(e *Entry) {
	f.Entries = append(f.Entries, e)
}

func (f *File) EntryCount() int {
	return len(f.Entries)
}

func (f *File) Name() string {
	return f.name
}

func newFile(fileName string) *File {
	return &File{name: fileName}
}

// Record is a publishable entry after normalization: crossref fields
// merged in, author/title cleaned, and a "class" tag derived from the
// source file name.
type Record struct {
	Fields Fields
	line   int
}

func (r Record) Line() int {
	return r.line
}

func (r Record) Field(fieldName string) string {
	return r.Fields[fieldName]
}

func (r Record) ID() string {
	return r.Fields["id"]
}

func (r Record) Class() string {
	return r.Fields["class"]
}

// Print writes n back out in bibtex-ish form, mostly for debugging and
// duplicate reports.
func Print(w io.Writer, n any) error {
	switch n := n.(type) {
	case *File:
		for _, e := range n.Entries {
			if err := Print(w, e); err != nil {
				return err
			}
		}
		return nil
	case *Entry:
		fmt.Fprint(w, n.BibtexRepr())
		names := make([]string, 0, len(n.Fields))
		for k := range n.Fields {
			if k == "type" || k == "id" {
				continue
			}
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(w, "%s={%s},\n", k, n.Fields[k])
		}
		fmt.Fprintln(w, "}")
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
	return nil
}
