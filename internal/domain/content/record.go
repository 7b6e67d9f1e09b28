package content

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SlugSettings is the slice of site configuration the value records need to
// turn a display name into a URL segment. Substitutions are applied verbatim
// before slugification (e.g. "c++" -> "cpp").
type SlugSettings struct {
	Substitutions map[string]string
}

// Tag wraps a normalized display string. Identity is the name; the settings
// reference only influences slug generation.
type Tag struct {
	Name     string
	settings SlugSettings
}

func NewTag(name string, settings SlugSettings) Tag {
	return Tag{Name: strings.TrimSpace(name), settings: settings}
}

func (t Tag) String() string { return t.Name }

func (t Tag) Slug() string { return slugWith(t.Name, t.settings) }

// Category wraps a normalized category name, same shape as Tag.
type Category struct {
	Name     string
	settings SlugSettings
}

func NewCategory(name string, settings SlugSettings) Category {
	return Category{Name: strings.TrimSpace(name), settings: settings}
}

func (c Category) String() string { return c.Name }

func (c Category) Slug() string { return slugWith(c.Name, c.settings) }

// Author wraps an author display name.
type Author struct {
	Name     string
	settings SlugSettings
}

func NewAuthor(name string, settings SlugSettings) Author {
	return Author{Name: strings.TrimSpace(name), settings: settings}
}

func (a Author) String() string { return a.Name }

func (a Author) Slug() string { return slugWith(a.Name, a.settings) }

func slugWith(s string, settings SlugSettings) string {
	for from, to := range settings.Substitutions {
		s = strings.ReplaceAll(s, from, to)
	}
	return Slugify(s)
}

// Slugify lowercases letters and digits and collapses everything else into
// single dashes. Non-ASCII letters are kept as-is.
func Slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if 'A' <= r && r <= 'Z' {
				r = r + ('a' - 'A')
			}
			out = append(out, r)
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
