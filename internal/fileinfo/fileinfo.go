// Package fileinfo extracts creation date and title metadata from uploaded
// filenames.
package fileinfo

import (
	"regexp"
	"strings"
	"time"
)

// RewriteRule is a configured pattern/replacement pair applied to a raw
// filename before parsing. At most one rule fires per filename.
type RewriteRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// FileInfo holds metadata recovered from an uploaded filename. Created is
// nil when the filename carries no parseable date. Correspondent, Tags and
// Extension are populated by callers from other sources; extraction itself
// only ever fills Created and Title.
type FileInfo struct {
	Created       *time.Time
	Title         string
	Correspondent string
	Tags          []string
	Extension     string
}

// Parsing patterns, tried in order; the first match wins. The final pattern
// matches any string, so extraction is total.
var (
	createdTitleRe = regexp.MustCompile(`^(?i)(?P<created>\d{8}(\d{6})?Z) - (?P<title>.*)$`)
	titleRe        = regexp.MustCompile(`^(?P<title>.*)$`)
)

// Extract parses a raw uploaded filename into a FileInfo. It never fails:
// a filename matching no date pattern yields a FileInfo whose Title is the
// whole extensionless name and whose Created is nil.
func Extract(rules []RewriteRule, filename string) FileInfo {
	// Rewrite before anything else so the rules can manipulate the
	// extension too.
	for _, r := range rules {
		if r.Pattern.MatchString(filename) {
			filename = r.Pattern.ReplaceAllString(filename, r.Replacement)
			break
		}
	}

	stem := stripExtension(filename)
	if stem == filename && strings.HasPrefix(filename, ".") {
		// A name like ".pdf" is far more likely an upload with no text
		// before the file type than a hidden file called "pdf". Parse it
		// as an empty name, which produces an empty title.
		filename = ""
	} else {
		filename = stem
	}

	if m := createdTitleRe.FindStringSubmatch(filename); m != nil {
		return FileInfo{
			Created: parseCreated(m[1]),
			Title:   m[3],
		}
	}
	m := titleRe.FindStringSubmatch(filename)
	return FileInfo{Title: m[1]}
}

// stripExtension removes the trailing extension using the conventional
// splitext definition: the extension starts at the last dot, except that a
// run of leading dots never starts one (".bashrc" has no extension).
func stripExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name
	}
	if strings.Trim(name[:idx], ".") == "" {
		return name
	}
	return name[:idx]
}

// parseCreated interprets a matched created group. The trailing Z is
// dropped and the digit run is right-padded with zeros to a full
// YYYYMMDDHHMMSS before parsing in UTC. Malformed digit runs degrade to a
// nil creation date rather than failing the extraction.
func parseCreated(s string) *time.Time {
	digits := strings.TrimSuffix(strings.ToUpper(s), "Z")
	if len(digits) < 14 {
		digits += strings.Repeat("0", 14-len(digits))
	}
	t, err := time.ParseInLocation("20060102150405", digits, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
