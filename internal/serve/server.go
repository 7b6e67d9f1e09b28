package serve

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
	"inkwell/internal/index"
	"inkwell/internal/ingest"
	"inkwell/internal/reader"
	"inkwell/internal/render"
)

// Server is the development server: it keeps the ingested pages in memory,
// rebuilds the index when a source file changes, and renders pages on demand.
type Server struct {
	cfg config.Config
	log *zap.Logger

	indexPath string
	idx       *index.Store
	rd        *reader.Reader
	tpl       render.Renderer

	mu    sync.RWMutex
	pages map[string]content.Page

	watcher *fsnotify.Watcher
}

func New(cfg config.Config, indexPath string, log *zap.Logger) (*Server, error) {
	md := render.NewMarkdownRenderer()
	tpl, err := render.NewTemplateRenderer(cfg.Build.ThemeDir, cfg.Site.Theme)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: indexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	return &Server{
		cfg:       cfg,
		log:       log,
		indexPath: indexPath,
		idx:       st,
		rd:        reader.New(&cfg, md, log),
		tpl:       tpl,
		pages:     make(map[string]content.Page),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/posts/", s.handlePost)
	mux.HandleFunc("/tags/", s.handleList(render.ListTag))
	mux.HandleFunc("/categories/", s.handleList(render.ListCategory))
	mux.HandleFunc("/authors/", s.handleList(render.ListAuthor))
	mux.HandleFunc("/archives", s.handleArchives)

	staticDir := filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme, "static")
	fileServer := http.FileServer(http.Dir(staticDir))
	mux.Handle("/css/", fileServer)
	mux.Handle("/js/", fileServer)
	mux.Handle("/images/", fileServer)
	mux.Handle("/favicon.ico", fileServer)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info("dev server listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) rebuild() error {
	pages, warns, err := ingest.Ingest(&s.cfg, s.rd, s.log)
	if err != nil {
		return err
	}
	for _, w := range warns {
		s.log.Warn("ingest warning", zap.String("path", w.Path), zap.String("msg", w.Msg))
	}

	if err := s.idx.Rebuild(pages, index.RebuildOptions{
		IncludeDraft: true, // dev server always shows drafts
	}); err != nil {
		return err
	}

	byslug := make(map[string]content.Page, len(pages))
	for _, p := range pages {
		byslug[p.Meta.Slug] = p
	}

	s.mu.Lock()
	s.pages = byslug
	s.mu.Unlock()

	s.log.Info("rebuilt site", zap.Int("pages", len(pages)))
	return nil
}

// startWatch watches the source tree and rebuilds on changes, debounced so a
// burst of editor writes triggers one rebuild.
func (s *Server) startWatch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = w

	if err := filepath.WalkDir(s.cfg.Build.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	go func() {
		var timer *time.Timer
		trigger := func() {
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				if err := s.rebuild(); err != nil {
					s.log.Error("rebuild failed", zap.Error(err))
				}
			})
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = w.Add(ev.Name)
					}
				}
				trigger()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Error("watch error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.notFound(w, r)
		return
	}
	items, err := s.idx.List(index.ListOptions{Page: 1, Size: 20})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	page := render.HomePage{
		Site:      s.cfg.Site,
		Items:     items,
		Generated: time.Now(),
		PageTitle: "Home",
	}
	s.write(w, r, func(ctx context.Context) ([]byte, error) {
		return s.tpl.RenderHome(ctx, page)
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/posts/"), "/")
	if slug == "" {
		s.notFound(w, r)
		return
	}

	s.mu.RLock()
	p, ok := s.pages[slug]
	s.mu.RUnlock()
	if !ok {
		s.notFound(w, r)
		return
	}

	src, err := os.ReadFile(p.Body.SourcePath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	html, _ := s.rd.Read(src, p.Body.SourcePath)

	page := render.PostPage{
		Site:      s.cfg.Site,
		Meta:      p.Meta,
		HTML:      template.HTML(html),
		Summary:   template.HTML(p.Meta.Summary),
		TOC:       p.Meta.Toc,
		IsDraft:   p.Meta.Draft(),
		PageTitle: p.Meta.Title,
	}
	s.write(w, r, func(ctx context.Context) ([]byte, error) {
		return s.tpl.RenderPost(ctx, page)
	})
}

func (s *Server) handleList(kind render.ListKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var prefix, label string
		var list func(string, index.ListOptions) ([]content.PageMeta, error)
		switch kind {
		case render.ListTag:
			prefix, label, list = "/tags/", "Tag", s.idx.ListByTag
		case render.ListCategory:
			prefix, label, list = "/categories/", "Category", s.idx.ListByCategory
		case render.ListAuthor:
			prefix, label, list = "/authors/", "Author", s.idx.ListByAuthor
		}

		key := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
		if key == "" {
			s.notFound(w, r)
			return
		}
		items, err := list(key, index.ListOptions{Page: 1, Size: 1000})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(items) == 0 {
			s.notFound(w, r)
			return
		}

		page := render.ListPage{
			Site:      s.cfg.Site,
			Kind:      kind,
			Title:     fmt.Sprintf("%s: %s", label, key),
			Key:       key,
			Items:     items,
			Generated: time.Now(),
		}
		s.write(w, r, func(ctx context.Context) ([]byte, error) {
			return s.tpl.RenderList(ctx, page)
		})
	}
}

func (s *Server) handleArchives(w http.ResponseWriter, r *http.Request) {
	metas, err := s.idx.List(index.ListOptions{Page: 1, Size: 1000000})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	groupsMap := make(map[int][]content.PageMeta)
	var years []int
	for _, m := range metas {
		y := m.Date.Year()
		if _, ok := groupsMap[y]; !ok {
			years = append(years, y)
		}
		groupsMap[y] = append(groupsMap[y], m)
	}

	groups := make([]render.ArchivesGroup, 0, len(years))
	for _, y := range years {
		groups = append(groups, render.ArchivesGroup{
			Year:  y,
			Posts: groupsMap[y],
			Count: len(groupsMap[y]),
		})
	}

	page := render.ArchivesPage{Site: s.cfg.Site, Groups: groups, Total: len(metas)}
	s.write(w, r, func(ctx context.Context) ([]byte, error) {
		return s.tpl.RenderArchives(ctx, page)
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	htmlBytes, err := s.tpl.RenderNotFound(r.Context(), render.NotFoundPage{
		Site: s.cfg.Site,
		Path: r.URL.Path,
	})
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, fn func(context.Context) ([]byte, error)) {
	htmlBytes, err := fn(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(htmlBytes)
}
