package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHeaderFound(t *testing.T) {
	src := []byte("---\ntitle: Hello\ntags:\n  - a\n---\nBody text")
	header, body, ok := SplitHeader(src)
	require.True(t, ok)
	assert.Equal(t, "title: Hello\ntags:\n  - a\n", string(header))
	assert.Equal(t, "Body text", string(body))
}

func TestSplitHeaderLeadingBlankLines(t *testing.T) {
	src := []byte("\n\n   \n---\ntitle: Hi\n---\nbody")
	header, body, ok := SplitHeader(src)
	require.True(t, ok)
	assert.Equal(t, "title: Hi\n", string(header))
	assert.Equal(t, "body", string(body))
}

func TestSplitHeaderDotsEndMarker(t *testing.T) {
	src := []byte("---\ntitle: Hi\n...\nbody")
	header, body, ok := SplitHeader(src)
	require.True(t, ok)
	assert.Equal(t, "title: Hi\n", string(header))
	assert.Equal(t, "body", string(body))
}

func TestSplitHeaderNoStartMarker(t *testing.T) {
	_, _, ok := SplitHeader([]byte("title: Hi\nbody"))
	assert.False(t, ok)
}

func TestSplitHeaderNoEndMarker(t *testing.T) {
	_, _, ok := SplitHeader([]byte("---\ntitle: Hi\nbody without end"))
	assert.False(t, ok)
}

func TestSplitHeaderEmptyInput(t *testing.T) {
	_, _, ok := SplitHeader(nil)
	assert.False(t, ok)

	_, _, ok = SplitHeader([]byte("\n\n"))
	assert.False(t, ok)
}

func TestSplitHeaderBodyVerbatim(t *testing.T) {
	// Markers later in the body must not shift the boundary: only the
	// first block counts.
	src := []byte("---\ntitle: Hi\n---\nline one\n---\nline two\n")
	header, body, ok := SplitHeader(src)
	require.True(t, ok)
	assert.Equal(t, "title: Hi\n", string(header))
	assert.Equal(t, "line one\n---\nline two\n", string(body))
}

func TestSplitHeaderCRLF(t *testing.T) {
	src := []byte("---\r\ntitle: Hi\r\n---\r\nbody\r\n")
	header, body, ok := SplitHeader(src)
	require.True(t, ok)
	assert.Equal(t, "title: Hi\r\n", string(header))
	assert.Equal(t, "body\r\n", string(body))
}

func TestSplitHeaderEndMarkerAtEOF(t *testing.T) {
	header, body, ok := SplitHeader([]byte("---\ntitle: Hi\n---"))
	require.True(t, ok)
	assert.Equal(t, "title: Hi\n", string(header))
	assert.Empty(t, body)
}
