package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
	"inkwell/internal/render"
)

func newTestReader(t *testing.T, mutate func(*config.Config)) (*Reader, *observer.ObservedLogs) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	core, logs := observer.New(zap.DebugLevel)
	return New(&cfg, render.NewMarkdownRenderer(), zap.New(core)), logs
}

func TestReadBasicDocument(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	html, meta := rd.Read([]byte("---\ntitle: Hello\ntags:\n  - a\n  - b\n---\nBody text"), "test.md")

	assert.Equal(t, "Hello", meta["title"])
	tags, ok := meta["tags"].([]content.Tag)
	require.True(t, ok)
	require.Len(t, tags, 2)
	assert.Equal(t, "a", tags[0].Name)
	assert.Equal(t, "b", tags[1].Name)

	assert.Contains(t, html, "<p>Body text</p>")
}

func TestReadRepeatedAuthorUpconverts(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	_, meta := rd.Read([]byte("---\nauthor: Jane\nauthor: Jim\n---\nbody"), "test.md")

	assert.NotContains(t, meta, "author")
	authors, ok := meta["authors"].([]content.Author)
	require.True(t, ok)
	require.Len(t, authors, 2)
	assert.Equal(t, "Jane", authors[0].Name)
	assert.Equal(t, "Jim", authors[1].Name)
}

func TestReadMalformedHeaderKeepsBody(t *testing.T) {
	rd, logs := newTestReader(t, nil)
	html, meta := rd.Read([]byte("---\ntitle: [unterminated\n---\nStill the body"), "broken.md")

	assert.Empty(t, meta)
	assert.Contains(t, html, "Still the body")
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestReadNoHeaderFallsBack(t *testing.T) {
	rd, logs := newTestReader(t, nil)
	html, meta := rd.Read([]byte("Title: Legacy Doc\n\nplain body"), "legacy.md")

	assert.Equal(t, "Legacy Doc", meta["title"])
	assert.Contains(t, html, "plain body")
	assert.Equal(t, 1, logs.FilterLevelExact(zap.InfoLevel).Len())
}

func TestReadTocRequested(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	src := []byte("---\ntitle: Doc\ntoc: true\n---\n# First\n\n## Nested\n")
	_, meta := rd.Read(src, "toc.md")

	toc, ok := meta["parsed_toc"].([]*content.TocToken)
	require.True(t, ok)
	require.Len(t, toc, 1)
	assert.Equal(t, "First", toc[0].Name)
	assert.Equal(t, 1, toc[0].Level)
	require.Len(t, toc[0].Children, 1)
	assert.Equal(t, "Nested", toc[0].Children[0].Name)
	assert.Equal(t, 2, toc[0].Children[0].Level)
}

func TestReadTocSiblingHeadings(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	src := []byte("---\ntoc: true\n---\n## One\n\n## Two\n")
	_, meta := rd.Read(src, "toc.md")

	toc, ok := meta["parsed_toc"].([]*content.TocToken)
	require.True(t, ok)
	require.Len(t, toc, 2)
	assert.Equal(t, "One", toc[0].Name)
	assert.Equal(t, "Two", toc[1].Name)
}

func TestReadTocNoHeadings(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	_, meta := rd.Read([]byte("---\ntoc: true\n---\nno headings here"), "toc.md")

	toc, ok := meta["parsed_toc"].([]*content.TocToken)
	require.True(t, ok)
	assert.Empty(t, toc)
}

func TestReadTocCapabilityDisabled(t *testing.T) {
	rd, _ := newTestReader(t, func(cfg *config.Config) {
		cfg.Reader.EnableTOC = false
	})
	_, meta := rd.Read([]byte("---\ntoc: true\n---\n# Heading\n"), "toc.md")

	assert.Contains(t, meta, "toc")
	assert.NotContains(t, meta, "parsed_toc")
}

func TestReadNoTocFlagNoOutline(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	_, meta := rd.Read([]byte("---\ntitle: Doc\n---\n# Heading\n"), "plain.md")
	assert.NotContains(t, meta, "parsed_toc")
}

func TestReadFormattedSummaryRendered(t *testing.T) {
	rd, _ := newTestReader(t, nil)
	_, meta := rd.Read([]byte("---\nsummary: 'Some **bold** words'\n---\nbody"), "test.md")

	summary, ok := meta["summary"].(string)
	require.True(t, ok)
	assert.Contains(t, summary, "<strong>bold</strong>")
}
