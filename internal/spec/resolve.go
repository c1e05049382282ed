package spec

import "github.com/rs/zerolog"

// NextAvailable returns the first incomplete task whose identity is
// not in the skip set, iterating in ascending index order. It returns
// false when no such task exists: either every task is complete, or
// every incomplete task is in the skip set (in progress).
//
// A nil or empty skip set behaves identically. Skipped in-progress
// tasks are logged for observability only.
func NextAvailable(doc *Document, scheme Scheme, skip map[Identity]bool, logger zerolog.Logger) (Task, bool) {
	for _, t := range doc.Tasks {
		if t.Completed {
			continue
		}
		id := t.Identity(scheme)
		if skip[id] {
			logger.Debug().
				Int("index", t.Index).
				Str("identity", id.String()).
				Msg("task in progress, skipping")
			continue
		}
		return t, true
	}
	return Task{}, false
}
