package report

import (
	"strings"
	"time"
	"unicode"
)

// Slug derives a filename-safe identifier from a dashboard title:
// lowercased, runs of non-alphanumeric characters collapsed to single
// hyphens. An empty result becomes "dashboard".
func Slug(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
			continue
		}
		hyphen = true
	}
	if b.Len() == 0 {
		return "dashboard"
	}
	return b.String()
}

// ReportFileName builds the output filename: slugified title plus a
// seconds-resolution timestamp.
func ReportFileName(title string, now time.Time) string {
	return Slug(title) + "-" + now.Format("20060102-150405") + ".pdf"
}
