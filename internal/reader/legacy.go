package reader

import (
	"bytes"
	"regexp"
	"strings"

	"inkwell/internal/metadata"
)

var legacyFieldRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*):\s*(.*)$`)

// readLegacy is the fallback for documents without a front-matter header: a
// leading block of "Key: value" lines (markdown-meta style), terminated by
// the first blank or non-matching line. Repeated keys accumulate into lists,
// indented continuation lines extend the previous value, and the collected
// fields run through the same normalization pipeline as YAML metadata.
func (r *Reader) readLegacy(src []byte, source string) (string, metadata.Metadata) {
	raw, body := splitLegacy(src)
	meta := r.norm.Normalize(raw, source)
	html := r.renderBody(body, source, meta)
	return html, meta
}

func splitLegacy(src []byte) (metadata.RawMetadata, []byte) {
	var raw metadata.RawMetadata
	byName := map[string]int{}

	rest := src
	for len(rest) > 0 {
		line, tail, more := nextLine(rest)
		text := strings.TrimSuffix(string(line), "\r")

		if strings.TrimSpace(text) == "" {
			if len(raw) > 0 && more {
				// The blank terminator is not part of the body.
				rest = tail
			}
			break
		}

		if (strings.HasPrefix(text, "    ") || strings.HasPrefix(text, "\t")) && len(raw) > 0 {
			// Continuation of the previous value.
			last := &raw[len(raw)-1]
			last.Value = appendValue(last.Value, strings.TrimSpace(text))
		} else {
			m := legacyFieldRe.FindStringSubmatch(text)
			if m == nil {
				break
			}
			name, value := m[1], strings.TrimSpace(m[2])
			if i, ok := byName[strings.ToLower(name)]; ok {
				raw[i].Value = appendValue(raw[i].Value, value)
			} else {
				byName[strings.ToLower(name)] = len(raw)
				raw = append(raw, metadata.RawField{Name: name, Value: any(value)})
			}
		}

		if !more {
			rest = nil
			break
		}
		rest = tail
	}

	return raw, rest
}

func nextLine(b []byte) (line, tail []byte, more bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// appendValue upgrades a scalar to a list on the second value.
func appendValue(existing any, value string) any {
	if list, ok := existing.([]any); ok {
		return append(list, any(value))
	}
	return []any{existing, any(value)}
}
