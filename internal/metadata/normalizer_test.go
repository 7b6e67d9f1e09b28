package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
)

// stubRenderer marks rendered text so tests can tell it went through the
// formatted-field path.
type stubRenderer struct{}

func (stubRenderer) Render(src []byte) (string, error) {
	return "<p>" + string(src) + "</p>", nil
}

func testNormalizer(log *zap.Logger) *Normalizer {
	cfg := config.Default()
	return NewNormalizer(&cfg, stubRenderer{}, log)
}

func TestNormalizeSkipsNilValues(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "empty", Value: nil},
		{Name: "title", Value: "Hello"},
	}, "test.md")

	assert.NotContains(t, out, "empty")
	assert.Equal(t, "Hello", out["title"])
}

func TestNormalizeLowercasesNames(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{{Name: "Title", Value: "Hello"}}, "test.md")
	assert.Equal(t, "Hello", out["title"])
	assert.NotContains(t, out, "Title")
}

func TestNormalizeTags(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "tags", Value: []any{" a ", "b", nil}},
	}, "test.md")

	tags, ok := out["tags"].([]content.Tag)
	require.True(t, ok)
	require.Len(t, tags, 2)
	assert.Equal(t, "a", tags[0].Name)
	assert.Equal(t, "b", tags[1].Name)
}

func TestNormalizeAllNilTagsDropped(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "tags", Value: []any{nil, nil}},
	}, "test.md")
	assert.NotContains(t, out, "tags")
}

func TestNormalizeSingleAuthor(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{{Name: "author", Value: "Jane"}}, "test.md")

	a, ok := out["author"].(content.Author)
	require.True(t, ok)
	assert.Equal(t, "Jane", a.Name)
	assert.NotContains(t, out, "authors")
}

func TestNormalizeAuthorUpconversion(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "author", Value: []any{"Jane", "Jim"}},
	}, "test.md")

	assert.NotContains(t, out, "author")
	authors, ok := out["authors"].([]content.Author)
	require.True(t, ok)
	require.Len(t, authors, 2)
	assert.Equal(t, "Jane", authors[0].Name)
	assert.Equal(t, "Jim", authors[1].Name)
}

func TestNormalizeDuplicateCollapse(t *testing.T) {
	log, logs := observedLogger()
	n := testNormalizer(log)

	out := n.Normalize(RawMetadata{
		{Name: "slug", Value: []any{"first", "second"}},
	}, "test.md")

	assert.Equal(t, "first", out["slug"])

	warns := logs.FilterLevelExact(zap.WarnLevel)
	require.Equal(t, 1, warns.Len())
	ctx := warns.All()[0].ContextMap()
	assert.Equal(t, "test.md", ctx["source"])
	assert.Equal(t, "first", ctx["kept"])
}

func TestNormalizeDuplicateSingleValueNoWarning(t *testing.T) {
	log, logs := observedLogger()
	n := testNormalizer(log)

	out := n.Normalize(RawMetadata{
		{Name: "slug", Value: []any{"only"}},
	}, "test.md")

	assert.Equal(t, "only", out["slug"])
	assert.Equal(t, 0, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestNormalizeDuplicateAllNilSkipped(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "category", Value: []any{nil}},
	}, "test.md")
	assert.NotContains(t, out, "category")
}

func TestNormalizeFormattedFieldScalar(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "summary", Value: "Some *markdown*"},
	}, "test.md")
	assert.Equal(t, "<p>Some *markdown*</p>", out["summary"])
}

func TestNormalizeFormattedFieldListJoined(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "summary", Value: []any{"line one", "line two"}},
	}, "test.md")
	assert.Equal(t, "<p>line one\nline two</p>", out["summary"])
}

func TestNormalizeDateField(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "date", Value: "2023-04-05"},
		{Name: "modified", Value: "2023-05-06_10:00"},
	}, "test.md")

	d, ok := out["date"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2023, d.Year())

	m, ok := out["modified"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Month(5), m.Month())
}

func TestNormalizeUnparseableDateDropped(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "date", Value: "someday maybe"},
	}, "test.md")
	assert.NotContains(t, out, "date")
}

func TestNormalizeEmptyScalarFieldsDropped(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "slug", Value: "   "},
		{Name: "save_as", Value: ""},
		{Name: "status", Value: "draft"},
		{Name: "category", Value: ""},
	}, "test.md")

	assert.NotContains(t, out, "slug")
	assert.NotContains(t, out, "save_as")
	assert.NotContains(t, out, "category")
	assert.Equal(t, "draft", out["status"])
}

func TestNormalizePathNoExt(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "path_no_ext", Value: "pages/about"},
	}, "test.md")
	assert.Equal(t, "about", out["path_no_ext"])
}

func TestNormalizeUnregisteredPassthrough(t *testing.T) {
	n := testNormalizer(zap.NewNop())
	out := n.Normalize(RawMetadata{
		{Name: "Custom_Field", Value: 42},
		{Name: "things", Value: []any{"x", nil, "y"}},
	}, "test.md")

	assert.Equal(t, 42, out["custom_field"])
	assert.Equal(t, []any{"x", "y"}, out["things"])
}

// Re-normalizing scalar output must be stable: trimmed strings stay put and
// parsed dates survive a stringify round trip.
func TestNormalizeScalarIdempotence(t *testing.T) {
	n := testNormalizer(zap.NewNop())

	first := n.Normalize(RawMetadata{
		{Name: "slug", Value: "  hello-world "},
		{Name: "status", Value: "published"},
		{Name: "date", Value: "2023-04-05 10:30"},
	}, "test.md")

	second := n.Normalize(RawMetadata{
		{Name: "slug", Value: first["slug"]},
		{Name: "status", Value: first["status"]},
		{Name: "date", Value: first["date"]},
	}, "test.md")

	assert.Equal(t, first["slug"], second["slug"])
	assert.Equal(t, first["status"], second["status"])
	assert.True(t, first["date"].(time.Time).Equal(second["date"].(time.Time)))
}
