package spec

import (
	"regexp"
	"strings"
)

// MarkComplete rewrites the first unchecked checklist line whose
// description matches exactly (case-sensitive) to checked, preserving
// the leading whitespace and the rest of the line verbatim. Only the
// first match is rewritten when the description recurs; duplicate
// descriptions are a documented limitation of the format.
//
// The transform is idempotent: once the line is checked the pattern no
// longer matches, so a second call returns the text unchanged. The
// boolean reports whether a line was rewritten.
func MarkComplete(raw, description string) (string, bool) {
	pattern := regexp.MustCompile(`^(\s*)- \[ \] ` + regexp.QuoteMeta(description) + `\s*$`)

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if !pattern.MatchString(line) {
			continue
		}
		// Rewrite only the checkbox marker.
		lines[i] = strings.Replace(line, "- [ ]", "- [x]", 1)
		return strings.Join(lines, "\n"), true
	}
	return raw, false
}
