package content

import (
	"strings"
	"time"
)

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusHidden    = "hidden"
)

type PageMeta struct {
	Title    string
	Slug     string
	Date     time.Time
	Modified time.Time

	Tags     []string
	Category string
	Author   string
	Authors  []string

	Status  string
	Summary string // already rendered HTML
	SaveAs  string

	// Unrecognized front-matter fields, passed through as decoded.
	Extra map[string]any

	Toc []*TocToken
}

type Heading struct {
	Level int
	ID    string
	Text  string
}

// TocToken is one node of the requested heading outline.
type TocToken struct {
	Name     string
	ID       string
	Level    int
	Children []*TocToken
}

type BodyRef struct {
	SourcePath  string
	ContentHash string
}

type Page struct {
	Meta PageMeta
	Body BodyRef
}

func (m *PageMeta) Draft() bool { return m.Status == StatusDraft }

func (m *PageMeta) Hidden() bool { return m.Status == StatusHidden }

func (m *PageMeta) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Slug = strings.TrimSpace(m.Slug)
	m.Category = strings.TrimSpace(m.Category)
	m.Author = strings.TrimSpace(m.Author)
	m.Status = strings.ToLower(strings.TrimSpace(m.Status))
	if m.Status == "" {
		m.Status = StatusPublished
	}

	m.Tags = normalizeStrings(m.Tags)
	m.Authors = dedupeStrings(m.Authors)
}

// normalizeStrings trims, lowercases and dedupes, keeping first-seen order.
func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// dedupeStrings trims and dedupes but preserves case (author names).
func dedupeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
