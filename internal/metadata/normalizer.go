package metadata

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"inkwell/internal/domain/config"
)

// ContentRenderer renders formatted field values the same way document bodies
// are rendered. The reader owns the real markdown renderer; the normalizer
// only needs this slice of it.
type ContentRenderer interface {
	Render(src []byte) (string, error)
}

// Normalizer turns raw decoded front matter into canonical metadata. It is
// built once per run; the lookup sets are derived from configuration at
// construction time and never mutated, so a single Normalizer is safe to
// share across documents.
type Normalizer struct {
	cfg        *config.Config
	processors map[string]ProcessorFunc
	formatted  map[string]struct{}
	dupesDeny  map[string]struct{}
	renderer   ContentRenderer
	log        *zap.Logger
}

func NewNormalizer(cfg *config.Config, renderer ContentRenderer, log *zap.Logger) *Normalizer {
	return &Normalizer{
		cfg:        cfg,
		processors: Processors(),
		formatted:  cfg.Reader.FormattedSet(),
		dupesDeny:  cfg.Reader.DupesNotAllowed(),
		renderer:   renderer,
		log:        log,
	}
}

// Normalize walks the raw fields in source order and applies, per field:
// nil-skip, case folding, nil filtering inside lists, formatted-field
// rendering, author->authors upconversion, first-value collapse for fields
// that disallow duplicates, and finally the registered field processor.
// Failures never escape; they degrade to omitted fields plus a log record.
func (n *Normalizer) Normalize(raw RawMetadata, source string) Metadata {
	out := make(Metadata, len(raw))

	for _, field := range raw {
		if field.Value == nil {
			continue
		}
		name := strings.ToLower(field.Name)
		value := field.Value

		list, isList := value.([]any)
		if isList {
			list = dropNils(list)
			value = list
		}

		switch {
		case n.isFormatted(name):
			value = n.renderFormatted(name, value, list, isList, source)

		case isList && len(list) > 1 && name == "author":
			// Multiple single-author declarations become the plural field.
			name = "authors"

		case isList && n.dupeDenied(name):
			if len(list) == 0 {
				// Every entry was nil; nothing to keep.
				continue
			}
			if len(list) > 1 {
				n.log.Warn("duplicate field definition, keeping the first value",
					zap.String("field", name),
					zap.String("source", source),
					zap.Any("values", list),
					zap.Any("kept", list[0]))
			}
			value = list[0]
		}

		if proc, ok := n.processors[name]; ok {
			res := proc(value, n.cfg)
			if res.Drop {
				continue
			}
			value = res.Value
		}
		out[name] = value
	}

	n.log.Debug("normalized front matter",
		zap.String("source", source),
		zap.Any("raw", raw),
		zap.Any("normalized", out))
	return out
}

func (n *Normalizer) isFormatted(name string) bool {
	_, ok := n.formatted[name]
	return ok
}

func (n *Normalizer) dupeDenied(name string) bool {
	_, ok := n.dupesDeny[name]
	return ok
}

// renderFormatted joins list values with newlines and runs the result through
// the body renderer. A render failure keeps the unrendered text.
func (n *Normalizer) renderFormatted(name string, value any, list []any, isList bool, source string) any {
	var text string
	if isList {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprint(item))
		}
		text = strings.Join(parts, "\n")
	} else {
		text = fmt.Sprint(value)
	}

	html, err := n.renderer.Render([]byte(text))
	if err != nil {
		n.log.Error("error rendering formatted field",
			zap.String("field", name),
			zap.String("source", source),
			zap.Error(err))
		return text
	}
	return html
}

func dropNils(list []any) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		if item == nil {
			continue
		}
		out = append(out, item)
	}
	return out
}
