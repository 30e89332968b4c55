// Package engine orchestrates one capture session end to end: blocking
// join, capture streams, idle wait, and a teardown protocol that runs
// exactly once.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/meetscribe/internal/types"
)

// leaveTimeout bounds the graceful-leave attempt during teardown; the
// parent context is already cancelled by then.
const leaveTimeout = 10 * time.Second

// Controller is the meeting join surface the engine drives.
type Controller interface {
	Join(ctx context.Context) error
	EnableCaptions(ctx context.Context)
	Leave(ctx context.Context)
	Close() error
}

// CaptionSource is the caption bridge: installed before navigation,
// counted at teardown.
type CaptionSource interface {
	Install() error
	Count() int
}

// RosterSource is the one-shot participant snapshot.
type RosterSource interface {
	Capture(ctx context.Context) []string
}

// AudioRecorder is the audio capture supervisor.
type AudioRecorder interface {
	Start() error
	Stop()
	Captured() bool
}

// ArtifactSink persists the roster snapshot.
type ArtifactSink interface {
	WriteRoster(names []string) error
}

// Options wires a session's components. Captions, Roster, and Audio are
// nil when the corresponding feature toggle is off.
type Options struct {
	Session    *types.Session
	Controller Controller
	Captions   CaptionSource
	Roster     RosterSource
	Audio      AudioRecorder
	Sink       ArtifactSink
}

// Engine owns the session lifecycle. Startup is strictly sequenced:
// join (blocking) → captions → roster → audio; teardown reverses it.
type Engine struct {
	session    *types.Session
	controller Controller
	captions   CaptionSource
	roster     RosterSource
	audio      AudioRecorder
	sink       ArtifactSink

	teardownOnce sync.Once
	rosterCount  int
}

func New(opts Options) *Engine {
	return &Engine{
		session:    opts.Session,
		controller: opts.Controller,
		captions:   opts.Captions,
		roster:     opts.Roster,
		audio:      opts.Audio,
		sink:       opts.Sink,
	}
}

// Run executes one capture session and blocks until ctx is cancelled (an
// interrupt signal, or a scheduled run's deadline). The returned error is
// non-nil only for fatal startup failures, anything before the meeting is
// reached. Teardown itself never fails the run.
func (e *Engine) Run(ctx context.Context) error {
	// The observer must be registered before navigation so the page's
	// first render is already watched.
	if e.captions != nil {
		if err := e.captions.Install(); err != nil {
			e.teardown()
			return fmt.Errorf("caption bridge: %w", err)
		}
	}

	if err := e.controller.Join(ctx); err != nil {
		e.teardown()
		return fmt.Errorf("join meeting: %w", err)
	}

	if e.captions != nil {
		e.controller.EnableCaptions(ctx)
	}

	if e.roster != nil {
		names := e.roster.Capture(ctx)
		e.rosterCount = len(names)
		if err := e.sink.WriteRoster(names); err != nil {
			slog.Error("write roster", "error", err)
		}
	}

	if e.audio != nil {
		if err := e.audio.Start(); err != nil {
			slog.Warn("audio capture unavailable, continuing without it", "error", err)
		}
	}

	slog.Info("session live", "session_id", e.session.ID, "url", e.session.MeetingURL)
	<-ctx.Done()

	e.teardown()
	return nil
}

// teardown runs the shutdown protocol exactly once, in reverse dependency
// order: recorder, graceful leave, browser close, summary. Every step
// tolerates failure; teardown must always reach process exit.
func (e *Engine) teardown() {
	e.teardownOnce.Do(func() {
		slog.Info("tearing down session", "session_id", e.session.ID)

		if e.audio != nil {
			e.audio.Stop()
		}

		leaveCtx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
		defer cancel()
		e.controller.Leave(leaveCtx)

		if err := e.controller.Close(); err != nil {
			slog.Warn("close browser", "error", err)
		}

		captionCount := 0
		if e.captions != nil {
			captionCount = e.captions.Count()
		}
		slog.Info("session complete",
			"session_id", e.session.ID,
			"captions", captionCount,
			"participants", e.rosterCount,
			"audio_captured", e.audio != nil && e.audio.Captured(),
		)
	})
}
