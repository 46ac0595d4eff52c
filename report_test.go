package bibweb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateIDs(t *testing.T) {
	a := parseString(t, "@article{X,\ntitle={One},\n}\n@article{Y,\ntitle={Two},\n}\n", "a.bib")
	b := parseString(t, "@inproceedings{X,\ntitle={Three},\n}\n", "b.bib")

	t.Run("Should report ids occurring more than once across files", func(t *testing.T) {
		dr := DuplicateIDs([]*File{a, b})
		require.Equal(t, 1, dr.DuplicateSetCount)
		require.Len(t, dr.DuplicateSet["X"], 2)

		s := dr.String()
		assert.Contains(t, s, "[X] has 2 occurrences")
		assert.Contains(t, s, "a.bib:")
		assert.Contains(t, s, "b.bib:")
	})

	t.Run("Should stay quiet when ids are unique", func(t *testing.T) {
		dr := DuplicateIDs([]*File{a})
		assert.Equal(t, 0, dr.DuplicateSetCount)
		assert.Empty(t, dr.String())
	})

	t.Run("Should skip string macros and entries without ids", func(t *testing.T) {
		c := parseString(t, "@string{x = \"X\"}\n@string{x = \"Y\"}\n@comment no braces\n", "c.bib")
		dr := DuplicateIDs([]*File{c})
		assert.Equal(t, 0, dr.DuplicateSetCount)
	})
}
