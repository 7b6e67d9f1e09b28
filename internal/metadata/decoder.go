package metadata

import (
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RawField is one front-matter entry as written, before any normalization.
type RawField struct {
	Name  string
	Value any
}

// RawMetadata preserves the source order of the header fields. yaml.v3 maps
// would lose it, so decoding walks the document node instead.
type RawMetadata []RawField

// Metadata is the canonical output mapping: lowercase field name -> typed
// value. Fields a processor decided to drop are absent, never nil.
type Metadata map[string]any

// DecodeHeader parses header text as a YAML mapping. Both failure modes are
// non-fatal by contract: a parse error or a non-mapping root is logged and
// yields empty metadata, leaving body rendering untouched.
func DecodeHeader(header []byte, source string, log *zap.Logger) RawMetadata {
	var root yaml.Node
	if err := yaml.Unmarshal(header, &root); err != nil {
		log.Error("error parsing front-matter YAML",
			zap.String("source", source), zap.Error(err))
		return nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		// Empty header.
		return nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		log.Error("front-matter YAML did not parse as a mapping",
			zap.String("source", source))
		log.Debug("front-matter root node",
			zap.String("source", source), zap.Any("kind", doc.Kind))
		return nil
	}

	out := make(RawMetadata, 0, len(doc.Content)/2)
	seen := make(map[string]int, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		name := doc.Content[i].Value
		var value any
		if err := doc.Content[i+1].Decode(&value); err != nil {
			log.Error("error decoding front-matter value",
				zap.String("source", source),
				zap.String("field", name),
				zap.Error(err))
			return nil
		}
		// A repeated key merges into a list at its first position, so the
		// normalizer sees every declared value.
		if at, ok := seen[strings.ToLower(name)]; ok {
			out[at].Value = mergeValues(out[at].Value, value)
			continue
		}
		seen[strings.ToLower(name)] = len(out)
		out = append(out, RawField{Name: name, Value: value})
	}
	return out
}

func mergeValues(existing, incoming any) any {
	list, ok := existing.([]any)
	if !ok {
		list = []any{existing}
	}
	if more, ok := incoming.([]any); ok {
		return append(list, more...)
	}
	return append(list, incoming)
}
