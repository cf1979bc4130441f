package cfp

import (
	"time"
)

const Version = "v0.3.1"

// CallForPapers is the window in which talk submissions are accepted.
type CallForPapers struct {
	// Start may be zero, in which case the window is considered open from the beginning of time.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsOpen reports whether submissions are accepted at the given moment.
// The end of the window is exclusive.
func (c *CallForPapers) IsOpen(t time.Time) bool {
	if c == nil {
		return false
	}
	if !c.Start.IsZero() && t.Before(c.Start) {
		return false
	}
	return t.Before(c.End)
}

// Remaining returns how much time is left until the window closes, or 0 if it already did.
func (c *CallForPapers) Remaining(t time.Time) time.Duration {
	if c == nil || !t.Before(c.End) {
		return 0
	}
	return c.End.Sub(t)
}

func NewCallForPapers(start, end time.Time) *CallForPapers {
	return &CallForPapers{Start: start, End: end}
}
