package build

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
	"inkwell/internal/index"
	"inkwell/internal/ingest"
	"inkwell/internal/reader"
	"inkwell/internal/render"
)

type Builder struct {
	Cfg       config.Config
	IndexPath string
	Log       *zap.Logger
}

type Result struct {
	Pages    int
	Warnings []ingest.Warning
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	md := render.NewMarkdownRenderer()
	rd := reader.New(&b.Cfg, md, b.Log)

	pages, warns, err := ingest.Ingest(&b.Cfg, rd, b.Log)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	st, err := index.Open(index.OpenOptions{Path: b.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(pages, index.RebuildOptions{
		IncludeDraft: b.Cfg.Build.IncludeDraft,
	}); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}

	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", b.Cfg.Build.ThemeDir, err)
	}

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}

	if err := b.buildAll(ctx, st, rd, tpl, outDir, pages); err != nil {
		return nil, err
	}

	return &Result{Pages: len(pages), Warnings: warns}, nil
}

func (b *Builder) buildAll(
	ctx context.Context,
	st *index.Store,
	rd *reader.Reader,
	tpl render.Renderer,
	outDir string,
	pages []content.Page,
) error {
	if err := b.buildHome(ctx, st, tpl, outDir); err != nil {
		return fmt.Errorf("build home: %w", err)
	}
	if err := b.buildPosts(ctx, rd, tpl, outDir, pages); err != nil {
		return fmt.Errorf("build posts: %w", err)
	}
	if err := b.buildTaxonomy(ctx, st, tpl, outDir, render.ListTag); err != nil {
		return fmt.Errorf("build tags: %w", err)
	}
	if err := b.buildTaxonomy(ctx, st, tpl, outDir, render.ListCategory); err != nil {
		return fmt.Errorf("build categories: %w", err)
	}
	if err := b.buildTaxonomy(ctx, st, tpl, outDir, render.ListAuthor); err != nil {
		return fmt.Errorf("build authors: %w", err)
	}
	if err := b.buildArchives(ctx, st, tpl, outDir); err != nil {
		return fmt.Errorf("build archives: %w", err)
	}
	if err := b.buildNotFound(ctx, tpl, outDir); err != nil {
		return fmt.Errorf("build 404: %w", err)
	}
	if err := b.copyStaticAssets(outDir); err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}
	return nil
}

func (b *Builder) buildHome(ctx context.Context, st *index.Store, tpl render.Renderer, outDir string) error {
	items, err := st.List(index.ListOptions{Page: 1, Size: 20})
	if err != nil {
		return err
	}
	page := render.HomePage{
		Site:      b.Cfg.Site,
		Items:     items,
		Generated: b.Cfg.Build.Now,
		PageTitle: "Home",
	}
	htmlBytes, err := tpl.RenderHome(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, "index.html", htmlBytes)
}

func (b *Builder) buildPosts(
	ctx context.Context,
	rd *reader.Reader,
	tpl render.Renderer,
	outDir string,
	pages []content.Page,
) error {
	for _, p := range pages {
		meta := p.Meta
		if meta.Hidden() {
			continue
		}
		if meta.Draft() && !b.Cfg.Build.IncludeDraft {
			continue
		}

		src, err := os.ReadFile(p.Body.SourcePath)
		if err != nil {
			return fmt.Errorf("read post source(%s): %w", p.Body.SourcePath, err)
		}

		html, _ := rd.Read(src, p.Body.SourcePath)

		pp := render.PostPage{
			Site:      b.Cfg.Site,
			Meta:      meta,
			HTML:      template.HTML(html),
			Summary:   template.HTML(meta.Summary),
			TOC:       meta.Toc,
			IsDraft:   meta.Draft(),
			PageTitle: meta.Title,
		}
		htmlBytes, err := tpl.RenderPost(ctx, pp)
		if err != nil {
			return fmt.Errorf("render post(%s): %w", meta.Slug, err)
		}

		outPath := filepath.Join("posts", meta.Slug, "index.html")
		if sa := strings.TrimSpace(meta.SaveAs); sa != "" {
			// save_as overrides the default output location.
			outPath = filepath.Clean(sa)
		}
		if err := writeFile(outDir, outPath, htmlBytes); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildTaxonomy(
	ctx context.Context,
	st *index.Store,
	tpl render.Renderer,
	outDir string,
	kind render.ListKind,
) error {
	var (
		counts map[string]int
		err    error
		list   func(string, index.ListOptions) ([]content.PageMeta, error)
		dir    string
		label  string
	)
	switch kind {
	case render.ListTag:
		counts, err = st.Tags()
		list, dir, label = st.ListByTag, "tags", "Tag"
	case render.ListCategory:
		counts, err = st.Categories()
		list, dir, label = st.ListByCategory, "categories", "Category"
	case render.ListAuthor:
		counts, err = st.Authors()
		list, dir, label = st.ListByAuthor, "authors", "Author"
	}
	if err != nil {
		return err
	}

	for key := range counts {
		items, err := list(key, index.ListOptions{Page: 1, Size: 1000})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			continue
		}

		lp := render.ListPage{
			Site:      b.Cfg.Site,
			Kind:      kind,
			Title:     fmt.Sprintf("%s: %s", label, key),
			Key:       key,
			Items:     items,
			Generated: b.Cfg.Build.Now,
		}
		htmlBytes, err := tpl.RenderList(ctx, lp)
		if err != nil {
			return fmt.Errorf("render %s(%s): %w", dir, key, err)
		}

		outPath := filepath.Join(dir, content.Slugify(key), "index.html")
		if err := writeFile(outDir, outPath, htmlBytes); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildArchives(ctx context.Context, st *index.Store, tpl render.Renderer, outDir string) error {
	metas, err := st.List(index.ListOptions{Page: 1, Size: 1000000})
	if err != nil {
		return err
	}

	groupsMap := make(map[int][]content.PageMeta)
	for _, m := range metas {
		y := m.Date.Year()
		groupsMap[y] = append(groupsMap[y], m)
	}

	years := make([]int, 0, len(groupsMap))
	for y := range groupsMap {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]render.ArchivesGroup, 0, len(years))
	for _, y := range years {
		posts := groupsMap[y]
		groups = append(groups, render.ArchivesGroup{
			Year:  y,
			Posts: posts,
			Count: len(posts),
		})
	}

	page := render.ArchivesPage{
		Site:   b.Cfg.Site,
		Groups: groups,
		Total:  len(metas),
	}
	htmlBytes, err := tpl.RenderArchives(ctx, page)
	if err != nil {
		return err
	}
	return writeFile(outDir, filepath.Join("archives", "index.html"), htmlBytes)
}

func (b *Builder) buildNotFound(ctx context.Context, tpl render.Renderer, outDir string) error {
	htmlBytes, err := tpl.RenderNotFound(ctx, render.NotFoundPage{Site: b.Cfg.Site})
	if err != nil {
		return err
	}
	return writeFile(outDir, "404.html", htmlBytes)
}

func (b *Builder) copyStaticAssets(outDir string) error {
	src := filepath.Join(b.Cfg.Build.ThemeDir, b.Cfg.Site.Theme, "static")
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		in, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, in, 0o644)
	})
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}
