package spec

import (
	"regexp"
	"strings"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

// checklistRe matches one checklist line: optional indent, "- [x]" or
// "- [ ]", then the description. Non-matching lines are not tasks.
var checklistRe = regexp.MustCompile(`^\s*- \[([xX ])\]\s*(.+)$`)

// Document is the full parsed checklist: the ordered task list plus
// the raw source text it was parsed from. Derived counts are always
// recomputed from the task list, never cached across writes.
type Document struct {
	Tasks []Task
	Raw   string
}

// Parse scans the raw text and returns the parsed document. Lines that
// do not match the checklist grammar are ignored; indices are 1-based
// in line order among matches only.
func Parse(raw string) *Document {
	doc := &Document{Raw: raw}
	index := 0
	for _, line := range strings.Split(raw, "\n") {
		m := checklistRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		index++
		description := strings.TrimSpace(m[2])
		doc.Tasks = append(doc.Tasks, Task{
			Index:       index,
			Description: description,
			Completed:   m[1] == "x" || m[1] == "X",
			Hash:        HashDescription(description),
		})
	}
	return doc
}

// Validate checks that the raw text contains at least one checklist
// item. Used before parsing for user-facing feedback; a spec with zero
// items is a validation error fatal to the current project.
func Validate(raw string) error {
	if len(Parse(raw).Tasks) == 0 {
		return &perrors.ValidationError{Message: "no checklist items found"}
	}
	return nil
}

// Total returns the number of tasks in the document.
func (d *Document) Total() int { return len(d.Tasks) }

// Completed returns the number of completed tasks.
func (d *Document) Completed() int {
	n := 0
	for _, t := range d.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Pending returns the number of incomplete tasks.
func (d *Document) Pending() int { return d.Total() - d.Completed() }

// FindByIdentity returns the task with the given identity under the
// given scheme, or false if no current task matches.
func (d *Document) FindByIdentity(scheme Scheme, id Identity) (Task, bool) {
	for _, t := range d.Tasks {
		if t.Identity(scheme) == id {
			return t, true
		}
	}
	return Task{}, false
}
