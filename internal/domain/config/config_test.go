package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultReaderSettings(t *testing.T) {
	cfg := Default()

	formatted := cfg.Reader.FormattedSet()
	assert.Contains(t, formatted, "summary")

	deny := cfg.Reader.DupesNotAllowed()
	assert.Contains(t, deny, "slug")
	assert.Contains(t, deny, "date")
	assert.Contains(t, deny, "author")
	// tags and authors are genuine list fields, never collapsed.
	assert.NotContains(t, deny, "tags")
	assert.NotContains(t, deny, "authors")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Site.Title = ""
	cfg.Site.SiteURL = "not-a-url"
	cfg.Log.Level = "loud"
	cfg.Reader.DefaultStatus = "launched"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "site.title")
	assert.Contains(t, msg, "site.site_url")
	assert.Contains(t, msg, "log.level")
	assert.Contains(t, msg, "reader.default_status")
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  title: My Site
  site_url: https://example.com
reader:
  formatted_fields: [summary, description]
  enable_toc: false
  duplicates_allowed:
    tags: true
    custom: false
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "My Site", cfg.Site.Title)
	assert.Equal(t, []string{"summary", "description"}, cfg.Reader.FormattedFields)
	assert.False(t, cfg.Reader.EnableTOC)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Contains(t, cfg.Reader.DupesNotAllowed(), "custom")
	// Defaults survive for fields the file omits.
	assert.Equal(t, "content", cfg.Build.SourceDir)
	assert.Equal(t, "pages/", cfg.Reader.PagePrefix)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Site.Title, cfg.Site.Title)
}
