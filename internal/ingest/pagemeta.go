package ingest

import (
	"path/filepath"
	"strings"
	"time"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
	"inkwell/internal/metadata"
)

// recognized lists the metadata keys that map onto typed PageMeta fields;
// everything else passes through into Extra.
var recognized = map[string]struct{}{
	"title": {}, "slug": {}, "date": {}, "modified": {},
	"tags": {}, "category": {}, "author": {}, "authors": {},
	"status": {}, "summary": {}, "save_as": {},
	"toc": {}, "parsed_toc": {},
}

// pageMetaFrom maps canonical reader metadata onto the pipeline's typed page
// record. Site-level defaults (author, status) fill gaps the document left.
func pageMetaFrom(meta metadata.Metadata, cfg *config.Config) content.PageMeta {
	var m content.PageMeta

	m.Title, _ = meta["title"].(string)
	m.Slug, _ = meta["slug"].(string)
	m.Summary, _ = meta["summary"].(string)
	m.SaveAs, _ = meta["save_as"].(string)

	if t, ok := meta["date"].(time.Time); ok {
		m.Date = t
	}
	if t, ok := meta["modified"].(time.Time); ok {
		m.Modified = t
	}

	if tags, ok := meta["tags"].([]content.Tag); ok {
		for _, t := range tags {
			m.Tags = append(m.Tags, t.Name)
		}
	}
	if cat, ok := meta["category"].(content.Category); ok {
		m.Category = cat.Name
	}
	if a, ok := meta["author"].(content.Author); ok {
		m.Author = a.Name
	}
	if as, ok := meta["authors"].([]content.Author); ok {
		for _, a := range as {
			m.Authors = append(m.Authors, a.Name)
		}
	}
	if m.Author == "" && len(m.Authors) > 0 {
		m.Author = m.Authors[0]
	}
	if m.Author == "" {
		m.Author = cfg.Site.Author
	}

	if s, ok := meta["status"].(string); ok {
		m.Status = s
	} else {
		m.Status = cfg.Reader.DefaultStatus
	}

	if toc, ok := meta["parsed_toc"].([]*content.TocToken); ok {
		m.Toc = toc
	}

	for name, value := range meta {
		if _, ok := recognized[name]; ok {
			continue
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[name] = value
	}

	m.Normalize()
	return m
}

// resolveSlug prefers the explicit slug field, then the title, then the
// source file name.
func resolveSlug(m content.PageMeta, path string) string {
	if s := strings.TrimSpace(m.Slug); s != "" {
		return content.Slugify(s)
	}
	if t := strings.TrimSpace(m.Title); t != "" {
		return content.Slugify(t)
	}
	base := filepath.Base(path)
	return content.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}
