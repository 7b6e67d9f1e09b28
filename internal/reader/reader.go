// Package reader turns one markdown document into a rendered body plus a
// canonical metadata mapping. Every failure mode degrades to a well-defined
// empty or partial result with a log record; nothing propagates to callers.
package reader

import (
	"go.uber.org/zap"

	"inkwell/internal/domain/config"
	"inkwell/internal/metadata"
	"inkwell/internal/render"
)

type Reader struct {
	cfg  *config.Config
	md   *render.MarkdownRenderer
	norm *metadata.Normalizer
	log  *zap.Logger

	// Capability flag resolved once at construction. When false the "toc"
	// metadata flag is honored by doing nothing: no parsed_toc key appears.
	tocEnabled bool
}

func New(cfg *config.Config, md *render.MarkdownRenderer, log *zap.Logger) *Reader {
	return &Reader{
		cfg:        cfg,
		md:         md,
		norm:       metadata.NewNormalizer(cfg, md, log),
		log:        log,
		tocEnabled: cfg.Reader.EnableTOC,
	}
}

// Read processes a document: split off the front-matter header, decode and
// normalize it, render the body, and on request attach the heading outline.
// Documents without a header route to the legacy inline-metadata parser.
func (r *Reader) Read(src []byte, source string) (string, metadata.Metadata) {
	header, body, ok := metadata.SplitHeader(src)
	if !ok {
		r.log.Info("no front-matter header found, falling back to inline metadata parsing",
			zap.String("source", source))
		return r.readLegacy(src, source)
	}

	raw := metadata.DecodeHeader(header, source, r.log)
	meta := r.norm.Normalize(raw, source)

	html := r.renderBody(body, source, meta)
	return html, meta
}

// renderBody converts the body and, when the metadata asks for it and the
// capability is enabled, stores the heading outline under parsed_toc.
func (r *Reader) renderBody(body []byte, source string, meta metadata.Metadata) string {
	res, err := r.md.RenderBody(body)
	if err != nil {
		r.log.Error("error rendering document body",
			zap.String("source", source), zap.Error(err))
		return string(body)
	}

	if _, wantTOC := meta["toc"]; wantTOC && r.tocEnabled {
		meta["parsed_toc"] = render.BuildOutline(res.Headings)
	}
	return res.HTML
}
