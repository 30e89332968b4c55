// internal/types/ids.go
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SessionID string

// RunID identifies one scheduled execution attempt. A meeting that fires
// repeatedly produces a new RunID (and a new SessionID) per firing.
type RunID string

// NewSessionID returns a time-derived session identifier with a random
// suffix. Every artifact file name is derived from this ID, so concurrent
// sessions sharing an output directory never collide, and a retried run
// (new ID) never overwrites an earlier run's files.
func NewSessionID(now time.Time) SessionID {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return SessionID(now.Format("20060102T150405") + "_" + suffix)
}

func NewRunID() RunID {
	return RunID(uuid.New().String())
}
