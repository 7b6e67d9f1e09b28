package render

import (
	"html/template"
	"time"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
)

type PostPage struct {
	Site config.SiteConfig
	Meta content.PageMeta
	HTML template.HTML

	Summary template.HTML
	TOC     []*content.TocToken

	IsDraft   bool
	PageTitle string
}

// ListKind tells the list template which taxonomy it is rendering.
type ListKind string

const (
	ListTag      ListKind = "tag"
	ListCategory ListKind = "category"
	ListAuthor   ListKind = "author"
)

type ListPage struct {
	Site      config.SiteConfig
	Kind      ListKind
	Title     string
	Key       string
	Items     []content.PageMeta
	Generated time.Time
}

type HomePage struct {
	Site      config.SiteConfig
	Items     []content.PageMeta
	Generated time.Time
	PageTitle string
}

type ArchivesGroup struct {
	Year  int
	Posts []content.PageMeta
	Count int
}

type ArchivesPage struct {
	Site   config.SiteConfig
	Groups []ArchivesGroup
	Total  int
}

type NotFoundPage struct {
	Site config.SiteConfig
	Path string
}
