package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/content"
	domainerr "inkwell/internal/domain/errors"
)

type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Build  BuildConfig  `yaml:"build"`
	Reader ReaderConfig `yaml:"reader"`
	Log    LogConfig    `yaml:"log"`
}

type SiteConfig struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Author   string `yaml:"author"`
	SiteURL  string `yaml:"site_url"`
	Theme    string `yaml:"theme"`
	Language string `yaml:"language"`

	// Applied verbatim before slugifying tag/category/author names.
	SlugSubstitutions map[string]string `yaml:"slug_substitutions"`
}

type BuildConfig struct {
	SourceDir    string    `yaml:"source_dir"`
	PublicDir    string    `yaml:"public_dir"`
	ThemeDir     string    `yaml:"theme_dir"`
	IncludeDraft bool      `yaml:"include_draft"`
	Now          time.Time `yaml:"-"`
}

// ReaderConfig drives front-matter normalization. The maps and lists here are
// treated as read-only once loaded; the reader derives its lookup sets from
// them exactly once per run.
type ReaderConfig struct {
	// Fields whose values are rendered through the markdown renderer
	// before being stored in metadata.
	FormattedFields []string `yaml:"formatted_fields"`

	// Field name -> whether multiple definitions are allowed. Fields mapped
	// to false collapse to the first value with a warning. "tags" and
	// "authors" are always list-capable regardless of this table.
	DuplicatesAllowed map[string]bool `yaml:"duplicates_allowed"`

	// Capability flag for the heading outline. When disabled, a "toc"
	// metadata flag is left in place but no parsed_toc is produced.
	EnableTOC bool `yaml:"enable_toc"`

	// Prefix stripped from the path_no_ext derived field.
	PagePrefix string `yaml:"page_prefix"`

	DefaultStatus string `yaml:"default_status"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Inkwell",
			Theme:    "default",
			Language: "en",
		},
		Build: BuildConfig{
			SourceDir: "content",
			PublicDir: "public",
			ThemeDir:  "themes",
			Now:       time.Now(),
		},
		Reader: ReaderConfig{
			FormattedFields: []string{"summary"},
			DuplicatesAllowed: map[string]bool{
				"tags":     true,
				"authors":  true,
				"date":     false,
				"modified": false,
				"status":   false,
				"category": false,
				"author":   false,
				"slug":     false,
				"save_as":  false,
				"url":      false,
			},
			EnableTOC:     true,
			PagePrefix:    "pages/",
			DefaultStatus: "published",
		},
		Log: LogConfig{Level: "info"},
	}
}

// FormattedSet returns the formatted-field names as a lowercase lookup set.
func (r ReaderConfig) FormattedSet() map[string]struct{} {
	out := make(map[string]struct{}, len(r.FormattedFields))
	for _, f := range r.FormattedFields {
		out[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	return out
}

// DupesNotAllowed inverts DuplicatesAllowed into the set of fields whose
// multiple definitions collapse to the first value. tags and authors are
// excluded: they are genuine list fields.
func (r ReaderConfig) DupesNotAllowed() map[string]struct{} {
	out := make(map[string]struct{}, len(r.DuplicatesAllowed))
	for name, allowed := range r.DuplicatesAllowed {
		if allowed {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "tags" || name == "authors" {
			continue
		}
		out[name] = struct{}{}
	}
	return out
}

// SlugSettings extracts the slice of site configuration that tag, category
// and author records carry around for slug generation.
func (c Config) SlugSettings() content.SlugSettings {
	return content.SlugSettings{Substitutions: c.Site.SlugSubstitutions}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if s := strings.TrimSpace(c.Site.SiteURL); s != "" && !isValidAbsURL(s) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}
	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ThemeDir) == "" {
		ve.Add("build.theme_dir", "must not be empty")
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		ve.Add("log.level", "must be one of debug, info, warn, error")
	}

	switch strings.ToLower(strings.TrimSpace(c.Reader.DefaultStatus)) {
	case "published", "draft", "hidden":
	default:
		ve.Add("reader.default_status", "must be one of published, draft, hidden")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// Unmarshal on top of the defaults: fields present in the file override,
	// everything else keeps its default value.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but tolerates a missing file.
func LoadOrDefault(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := cfg.Validate(); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return Default(), err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
