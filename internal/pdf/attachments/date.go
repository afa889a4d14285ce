package attachments

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"20060102150405-0700",
	"20060102150405-07",
	"20060102150405Z0000",
	"20060102150405Z00",
	"20060102150405Z0700",
	"20060102150405Z07",
	"20060102150405Z",
	"20060102150405",
	"200601021504",
	"2006010215",
	"20060102",
	"200601",
	"2006",
}

// ParseDate parses a PDF date string such as D:20240131120000+01'00'.
// The D: prefix and the apostrophes around the offset minutes are optional.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "D:")
	s = strings.ReplaceAll(s, "'", "")
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
