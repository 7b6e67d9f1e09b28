package metadata

import (
	"fmt"
	"strings"

	"inkwell/internal/domain/config"
	"inkwell/internal/domain/content"
)

// Result is the outcome of a field processor: either a replacement value to
// keep, or an instruction to omit the field from the output entirely. An
// explicit variant avoids the ambiguity a sentinel value would have with
// legitimate falsy metadata values.
type Result struct {
	Value any
	Drop  bool
}

func Keep(v any) Result { return Result{Value: v} }

func Drop() Result { return Result{Drop: true} }

// ProcessorFunc normalizes one recognized field. Processors are pure: same
// value and config in, same result out, no side effects.
type ProcessorFunc func(value any, cfg *config.Config) Result

// Processors returns the registry of per-field normalizers. It is built once
// and shared read-only across documents.
func Processors() map[string]ProcessorFunc {
	return map[string]ProcessorFunc{
		"tags":     processTags,
		"date":     processDate,
		"modified": processDate,
		"category": processCategory,
		"author":   processAuthor,
		"authors":  processAuthors,
		"slug":     processTrimmed,
		"save_as":  processTrimmed,
		"status":   processTrimmed,
		// Derived by the ingest layer from the source path; the page
		// prefix is not part of the public URL.
		"path_no_ext": processPathNoExt,
	}
}

func processTags(value any, cfg *config.Config) Result {
	items := toList(value)
	tags := make([]content.Tag, 0, len(items))
	for _, item := range items {
		tags = append(tags, content.NewTag(strip(item), cfg.SlugSettings()))
	}
	if len(tags) == 0 {
		return Drop()
	}
	return Keep(tags)
}

func processDate(value any, _ *config.Config) Result {
	t, err := ParseDate(value)
	if err != nil {
		return Drop()
	}
	return Keep(t)
}

func processCategory(value any, cfg *config.Config) Result {
	s := strip(value)
	if s == "" {
		return Drop()
	}
	return Keep(content.NewCategory(s, cfg.SlugSettings()))
}

func processAuthor(value any, cfg *config.Config) Result {
	s := strip(value)
	if s == "" {
		return Drop()
	}
	return Keep(content.NewAuthor(s, cfg.SlugSettings()))
}

func processAuthors(value any, cfg *config.Config) Result {
	items := toList(value)
	authors := make([]content.Author, 0, len(items))
	for _, item := range items {
		authors = append(authors, content.NewAuthor(strip(item), cfg.SlugSettings()))
	}
	if len(authors) == 0 {
		return Drop()
	}
	return Keep(authors)
}

func processTrimmed(value any, _ *config.Config) Result {
	s := strip(value)
	if s == "" {
		return Drop()
	}
	return Keep(s)
}

func processPathNoExt(value any, cfg *config.Config) Result {
	s := fmt.Sprint(value)
	if prefix := cfg.Reader.PagePrefix; prefix != "" {
		s = strings.ReplaceAll(s, prefix, "")
	}
	return Keep(s)
}

func strip(value any) string {
	return strings.TrimSpace(fmt.Sprint(value))
}

// toList upconverts a scalar to a one-element list; lists pass through.
func toList(value any) []any {
	if list, ok := value.([]any); ok {
		return list
	}
	return []any{value}
}
