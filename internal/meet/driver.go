// Package meet owns the remote browser context and sequences the join
// protocol against a meeting page.
package meet

import (
	"context"

	"github.com/user/meetscribe/internal/selector"
)

// Driver abstracts the page operations the join protocol needs, so the
// controller's state machine can be exercised without a live browser.
// Every "First" method routes through the candidate chain and reports
// absence as ok=false, never as an error.
type Driver interface {
	// Navigate loads the meeting address. Failure here is fatal to the
	// session: nothing can proceed without a loaded page.
	Navigate(ctx context.Context, url string) error

	// ClickFirst clicks the first resolving candidate of the chain.
	ClickFirst(ctx context.Context, chain selector.Chain) (selector.Candidate, bool)

	// TypeFirst focuses the first resolving candidate and types text into it.
	TypeFirst(ctx context.Context, chain selector.Chain, text string) (selector.Candidate, bool)

	// PressEnter dispatches a keyboard-level Enter to the page, the
	// fallback submission when no join control resolves.
	PressEnter(ctx context.Context) error

	// Texts probes the chain's candidates in order and returns the
	// non-empty inner texts of the first candidate that yields at least
	// one. Mixing results across candidates risks duplicate or malformed
	// entries, so exactly one strategy is used per call.
	Texts(ctx context.Context, chain selector.Chain) ([]string, bool)

	// Close tears the browser down. Safe to call more than once.
	Close() error
}
