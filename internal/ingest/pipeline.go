package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
	"inkwell/internal/reader"
)

type Warning struct {
	Path string
	Msg  string
}

type result struct {
	page  content.Page
	warns []Warning
	skip  bool
	err   error
}

// Ingest discovers every markdown source under the configured source dir and
// runs each through the reader on a worker pool. The reader never fails a
// document, so the only hard errors here are filesystem ones.
func Ingest(cfg *config.Config, rd *reader.Reader, log *zap.Logger) ([]content.Page, []Warning, error) {
	files, err := DiscoverSource(cfg.Build.SourceDir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan SourceFile)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- processFile(cfg, rd, sf)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var pages []content.Page
	var warns []Warning
	for r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		pages = append(pages, r.page)
	}

	return dedupeSlugs(pages, &warns, log), warns, nil
}

func processFile(cfg *config.Config, rd *reader.Reader, sf SourceFile) result {
	st, err := os.Stat(sf.Path)
	if err != nil {
		return result{err: err}
	}
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return result{err: err}
	}

	_, meta := rd.Read(raw, sf.Path)
	pm := pageMetaFrom(meta, cfg)

	var warns []Warning
	if pm.Hidden() {
		return result{skip: true}
	}
	if pm.Draft() && !cfg.Build.IncludeDraft {
		return result{skip: true}
	}

	pm.Slug = resolveSlug(pm, sf.Path)
	if pm.Slug == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "empty slug"})
		return result{warns: warns, skip: true}
	}
	if pm.Title == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}

	if pm.Date.IsZero() {
		pm.Date = st.ModTime().In(time.Local)
		warns = append(warns, Warning{Path: sf.Path, Msg: "using file modification time for date"})
	}
	if pm.Modified.IsZero() {
		pm.Modified = pm.Date
	}

	return result{
		page: content.Page{
			Meta: pm,
			Body: content.BodyRef{
				SourcePath:  sf.Path,
				ContentHash: hashBytes(raw),
			},
		},
		warns: warns,
	}
}

func dedupeSlugs(pages []content.Page, warns *[]Warning, log *zap.Logger) []content.Page {
	seen := make(map[string]struct{}, len(pages))
	out := make([]content.Page, 0, len(pages))
	for _, p := range pages {
		if _, ok := seen[p.Meta.Slug]; ok {
			log.Warn("duplicate slug, skipping page",
				zap.String("slug", p.Meta.Slug),
				zap.String("source", p.Body.SourcePath))
			*warns = append(*warns, Warning{
				Path: p.Body.SourcePath,
				Msg:  "duplicate slug, skipped: " + p.Meta.Slug,
			})
			continue
		}
		seen[p.Meta.Slug] = struct{}{}
		out = append(out, p)
	}
	return out
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
