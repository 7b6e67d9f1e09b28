package metadata

import "bytes"

// SplitHeader locates a front-matter block at the top of a document: optional
// blank lines, a line of "---", one or more header lines, then a line of
// "---" or "...". It returns the header text, the body text strictly
// following the end-marker line, and whether a block was found.
//
// The scan is an explicit two-phase line walk (find the start marker, then
// the first subsequent end marker), so only the first such block is ever
// considered and a stray "---" later in the body cannot confuse it.
func SplitHeader(src []byte) (header, body []byte, ok bool) {
	rest := src
	for {
		line, tail, more := cutLine(rest)
		if len(bytes.TrimSpace(line)) == 0 {
			if !more {
				return nil, nil, false
			}
			rest = tail
			continue
		}
		if !isMarkerLine(line, "---") {
			return nil, nil, false
		}
		rest = tail
		break
	}

	// rest now starts at the first header line; scan for the end marker.
	off := 0
	for {
		line, tail, more := cutLine(rest[off:])
		if isMarkerLine(line, "---") || isMarkerLine(line, "...") {
			return rest[:off], tail, true
		}
		if !more {
			return nil, nil, false
		}
		off = len(rest) - len(tail)
	}
}

// cutLine splits off the first line (without its newline). more reports
// whether a newline was actually consumed.
func cutLine(b []byte) (line, tail []byte, more bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// isMarkerLine compares a line against a marker, tolerating a trailing CR
// from CRLF input.
func isMarkerLine(line []byte, marker string) bool {
	line = bytes.TrimSuffix(line, []byte("\r"))
	return string(line) == marker
}
