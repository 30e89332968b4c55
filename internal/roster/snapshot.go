// Package roster captures the participant list once per session.
package roster

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/user/meetscribe/internal/selector"
)

// panelSettle gives the participants panel a moment to render after the
// toggle click before name text is probed.
const panelSettle = 2 * time.Second

// Panel is the slice of the browser driver the snapshot needs.
type Panel interface {
	ClickFirst(ctx context.Context, chain selector.Chain) (selector.Candidate, bool)
	Texts(ctx context.Context, chain selector.Chain) ([]string, bool)
}

// Snapshot performs the one-shot participant capture. It never fails the
// session: a roster that cannot be read is an empty roster.
type Snapshot struct {
	panel  Panel
	open   selector.Chain
	names  selector.Chain
	settle time.Duration
}

func New(panel Panel, open, names selector.Chain) *Snapshot {
	return &Snapshot{panel: panel, open: open, names: names, settle: panelSettle}
}

// Capture opens the participants panel and returns the trimmed,
// deduplicated display names in discovery order. The first name strategy
// that yields anything is used exclusively for the run; mixing strategies
// risks duplicate or malformed names.
func (s *Snapshot) Capture(ctx context.Context) []string {
	if _, ok := s.panel.ClickFirst(ctx, s.open); !ok {
		slog.Warn("participants panel could not be opened, roster unavailable")
		return []string{}
	}

	select {
	case <-time.After(s.settle):
	case <-ctx.Done():
		return []string{}
	}

	texts, ok := s.panel.Texts(ctx, s.names)
	if !ok {
		slog.Warn("no participant name strategy matched, roster empty")
		return []string{}
	}

	names := Dedupe(texts)
	slog.Info("roster captured", "participants", len(names))
	return names
}

// Dedupe trims entries and removes exact duplicates, preserving first-seen
// order. No fuzzy or alias merging: "Alice" and "Alice " collapse,
// "Alice S." and "Alice Smith" do not.
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
