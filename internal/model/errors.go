package model

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"
)

// ErrConfiguration marks a malformed or incomplete configuration.
// Model construction aborts on it; nothing downstream can be trusted
// once the record shape is wrong.
var ErrConfiguration = errors.New("configuration error")

// ErrNotFound marks a required folder or workbook that is absent.
var ErrNotFound = errors.New("not found")

// KeyNotFoundError reports an unknown FI or workflow key, or misuse
// of the "all" sentinel where a concrete key is required.
type KeyNotFoundError struct {
	Kind       string // "fi", "workflow", "purpose"
	Key        string
	Suggestion string
}

// Error implements the error interface.
func (e *KeyNotFoundError) Error() string {
	if e.Key == All {
		return fmt.Sprintf("%s: %q is a bulk sentinel, a concrete key is required here", e.Kind, e.Key)
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s key %q (did you mean %q?)", e.Kind, e.Key, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s key %q", e.Kind, e.Key)
}

// suggest picks the closest known key, if any is close enough to be
// a plausible typo.
func suggest(key string, known []string) string {
	best := ""
	bestDist := 4 // anything further is noise, not a typo
	for _, k := range known {
		if d := levenshtein.ComputeDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
