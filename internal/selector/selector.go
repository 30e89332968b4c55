// Package selector implements ordered-fallback element location for a page
// whose markup and identifiers change without notice. Each logical UI
// action owns a list of candidate strategies; when the platform ships new
// markup only the candidate list needs updating, never the calling logic.
package selector

import (
	"context"
	"time"
)

// DefaultAttemptTimeout bounds a single candidate probe when the chain
// does not set its own.
const DefaultAttemptTimeout = 2 * time.Second

// By says how a candidate query is interpreted.
type By string

const (
	ByCSS   By = "css"
	ByXPath By = "xpath"
)

// Candidate is one strategy for locating a DOM element.
type Candidate struct {
	Desc  string
	By    By
	Query string
}

// Chain is the ordered candidate list for one logical UI action, e.g.
// "find the join button".
type Chain struct {
	Action     string
	Candidates []Candidate
	Timeout    time.Duration // per-attempt bound
}

// Prober reports whether a single candidate currently resolves to an
// interactive element. Absence is reported as false, not as an error.
type Prober interface {
	Probe(ctx context.Context, c Candidate, timeout time.Duration) bool
}

// First tries each candidate in declared order and returns the first one
// that resolves. All-miss is reported as ok=false rather than an error:
// callers decide whether absence is fatal. The query side effect is
// read-only against the DOM.
func (c Chain) First(ctx context.Context, p Prober) (Candidate, bool) {
	for _, cand := range c.Candidates {
		if ctx.Err() != nil {
			return Candidate{}, false
		}
		if p.Probe(ctx, cand, c.AttemptTimeout()) {
			return cand, true
		}
	}
	return Candidate{}, false
}

// AttemptTimeout returns the per-candidate probe bound.
func (c Chain) AttemptTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultAttemptTimeout
}
