package metadata

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate turns a raw front-matter date value into a time.Time. YAML may
// already have decoded it into a time.Time; everything else is stringified,
// trimmed, underscore separators normalized to spaces, then parsed leniently.
func ParseDate(value any) (time.Time, error) {
	if t, ok := value.(time.Time); ok {
		return t, nil
	}

	s := strings.TrimSpace(fmt.Sprint(value))
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	return dateparse.ParseIn(s, time.Local)
}
