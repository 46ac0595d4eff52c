package bibweb

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []Record {
	return []Record{
		{Fields: Fields{
			"type": "inproceedings", "id": "Smith20", "class": "conference",
			"author": "John Smith, and Jane Doe", "title": "A Study of X.",
			"year": "2020", "booktitle": "Proc. Y",
			"paper": "https://example.org/smith20.pdf",
			"slide": "https://example.org/smith20-slides.pdf",
		}},
		{Fields: Fields{
			"type": "article", "id": "Kim19", "class": "journal",
			"author": "Sam Kim", "title": "Queues revisited",
			"year": "2019", "booktitle": "Trans. on Systems",
			"comment": "invited paper", "abbrv": "TOS",
		}},
		{Fields: Fields{
			"type": "inproceedings", "id": "Undated", "class": "conference",
			"author": "No One", "title": "No year here",
		}},
	}
}

const testTemplate = `<html><body>
<p>updated <!--DATE-->, <!--NUMBER_OF_REFERENCES--> refs from <!--OLDER--> to <!--NEWER--></p>
<!--LIST_OF_REFERENCES-->
<h2>Conference only</h2>
<!--LIST_CONFERENCE-->
<p>featured: <!--Kim19--></p>
</body></html>
`

func TestRender(t *testing.T) {
	cfg := Config{Date: time.Date(2021, time.March, 14, 0, 0, 0, 0, time.UTC)}
	out, err := Render(testTemplate, testRecords(), cfg)
	require.NoError(t, err)

	t.Run("Should fill the scalar markers", func(t *testing.T) {
		assert.Contains(t, out, "updated 14 Mar 2021, 2 refs from 2019 to 2020")
	})

	t.Run("Should group records by year, newest first", func(t *testing.T) {
		i2020 := strings.Index(out, `<h3 id="y2020">2020</h3>`)
		i2019 := strings.Index(out, `<h3 id="y2019">2019</h3>`)
		require.GreaterOrEqual(t, i2020, 0)
		require.GreaterOrEqual(t, i2019, 0)
		assert.Less(t, i2020, i2019)
	})

	t.Run("Should format list items with links and venue", func(t *testing.T) {
		assert.Contains(t, out, "<b>A Study of X.</b>")
		assert.Contains(t, out, "John Smith, and Jane Doe")
		assert.Contains(t, out, "<i>Proc. Y</i>, 2020")
		assert.Contains(t, out, `[<a href="https://example.org/smith20.pdf">paper</a>]`)
		assert.Contains(t, out, `[<a href="https://example.org/smith20-slides.pdf">slides</a>]`)
	})

	t.Run("Should skip year-less records in grouped lists", func(t *testing.T) {
		assert.NotContains(t, out, "No year here")
	})

	t.Run("Should substitute per-category markers", func(t *testing.T) {
		conf := out[strings.Index(out, "<h2>Conference only</h2>"):]
		assert.Contains(t, conf, "A Study of X.")
		assert.NotContains(t, conf[:strings.Index(conf, "featured:")], "Queues revisited")
	})

	t.Run("Should substitute per-id markers", func(t *testing.T) {
		assert.NotContains(t, out, "<!--Kim19-->")
		assert.Contains(t, out, "invited paper")
	})
}

func TestRenderEmpty(t *testing.T) {
	cfg := Config{Date: time.Date(2021, time.March, 14, 0, 0, 0, 0, time.UTC)}
	out, err := Render(testTemplate, nil, cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "updated 14 Mar 2021, 0 refs from  to ")
	assert.NotContains(t, out, "<h3")
	assert.NotContains(t, out, markerReferences)
	assert.NotContains(t, out, "<!--LIST_CONFERENCE-->",
		"class markers become empty sections even without records")
}

func TestRenderUnknownClassMarker(t *testing.T) {
	out, err := Render("before\n<!--LIST_TECHREPORT-->\nafter\n", testRecords(), Config{})
	require.NoError(t, err)
	assert.Equal(t, "before\n\nafter\n", out,
		"a class marker with no matching records renders an empty section")
}

func TestRenderTableLayout(t *testing.T) {
	cfg := Config{Layout: LayoutTable}
	out, err := Render("<!--LIST_OF_REFERENCES-->", testRecords(), cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "</table>")
	assert.Contains(t, out, `<td class="bibyear">TOS</td>`, "abbrv takes over the year cell")
	assert.Contains(t, out, `<td class="bibyear">2020</td>`, "year cell falls back when abbrv is absent")
}

func TestRenderMarkdown(t *testing.T) {
	cfg := Config{Markdown: true}
	out, err := Render("<!--LIST_OF_REFERENCES-->", testRecords(), cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "### 2020")
	assert.Contains(t, out, "- **A Study of X.**")
	assert.Contains(t, out, "*Proc. Y*, 2020")
	assert.Contains(t, out, "[[paper](https://example.org/smith20.pdf)]")
	assert.NotContains(t, out, "<h3")
}

func TestRenderSkipOptional(t *testing.T) {
	cfg := Config{SkipOptional: true}
	out, err := Render("<!--LIST_OF_REFERENCES-->", testRecords(), cfg)
	require.NoError(t, err)

	assert.NotContains(t, out, "paper")
	assert.NotContains(t, out, "invited paper")
	assert.NotContains(t, out, "TOS")
}

func TestRenderHighlight(t *testing.T) {
	t.Run("Should embolden the configured author in HTML", func(t *testing.T) {
		cfg := Config{Highlight: "Jane Doe"}
		out, err := Render("<!--LIST_OF_REFERENCES-->", testRecords(), cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "John Smith, and <b>Jane Doe</b>")
	})

	t.Run("Should embolden the configured author in Markdown", func(t *testing.T) {
		cfg := Config{Markdown: true, Highlight: "Jane Doe"}
		out, err := Render("<!--LIST_OF_REFERENCES-->", testRecords(), cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "John Smith, and **Jane Doe**")
	})
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutList, l)

	l, err = ParseLayout("table")
	require.NoError(t, err)
	assert.Equal(t, LayoutTable, l)

	_, err = ParseLayout("grid")
	assert.Error(t, err)
}

func TestSortedYears(t *testing.T) {
	recs := testRecords()
	assert.Equal(t, []int{2020, 2019}, sortedYears(recs))
	assert.Empty(t, sortedYears(nil))
	assert.Equal(t, yearMissing, recs[2].YearInt())
}
