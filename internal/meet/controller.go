package meet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/meetscribe/internal/types"
)

// State is the controller's position in the join protocol.
type State string

const (
	StateLaunching        State = "launching"
	StateAwaitingJoinForm State = "awaiting_join_form"
	StateJoining          State = "joining"
	StateInMeeting        State = "in_meeting"
	StateLeaving          State = "leaving"
	StateClosed           State = "closed"
)

// joinSettleDelay lets the platform finish its own join choreography
// before capture components start poking at the page.
const joinSettleDelay = 5 * time.Second

// Controller sequences the join protocol for one session. Errors returned
// from Join are fatal to the run; optional affordances that fail to
// resolve are logged and skipped, because a missing UI control must never
// abort an otherwise-successful join.
type Controller struct {
	driver  Driver
	session *types.Session
	settle  time.Duration

	mu    sync.Mutex
	state State
}

func NewController(driver Driver, session *types.Session) *Controller {
	return &Controller{
		driver:  driver,
		session: session,
		settle:  joinSettleDelay,
		state:   StateLaunching,
	}
}

// State returns the controller's current protocol state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	slog.Info("session state", "session_id", c.session.ID, "from", prev, "to", s)
}

// Join drives the page from launch into the meeting: navigation, name
// entry, device muting, join activation, settle. There is no retry within
// a run; a fresh run carries a fresh session ID.
func (c *Controller) Join(ctx context.Context) error {
	if err := c.driver.Navigate(ctx, c.session.MeetingURL); err != nil {
		return fmt.Errorf("load meeting page: %w", err)
	}
	c.setState(StateAwaitingJoinForm)

	// Some platforms skip naming entirely, so a missing field is fine.
	if c.session.DisplayName != "" {
		if cand, ok := c.driver.TypeFirst(ctx, NameFieldChain(), c.session.DisplayName); ok {
			slog.Debug("display name entered", "candidate", cand.Desc)
		} else {
			slog.Warn("name field not found, joining unnamed")
		}
	}

	// An unattended agent must never transmit live audio or video.
	for _, chain := range []func() (string, bool){
		func() (string, bool) { _, ok := c.driver.ClickFirst(ctx, MicMuteChain()); return "microphone", ok },
		func() (string, bool) { _, ok := c.driver.ClickFirst(ctx, CamMuteChain()); return "camera", ok },
	} {
		if device, ok := chain(); !ok {
			slog.Warn("device mute control not found", "device", device)
		}
	}

	c.setState(StateJoining)
	if _, ok := c.driver.ClickFirst(ctx, JoinButtonChain()); !ok {
		// One keyboard-level submit before giving up on the join.
		slog.Warn("join button not found, attempting keyboard submit")
		if err := c.driver.PressEnter(ctx); err != nil {
			return fmt.Errorf("join submission: %w", err)
		}
	}

	select {
	case <-time.After(c.settle):
	case <-ctx.Done():
		return ctx.Err()
	}

	c.setState(StateInMeeting)
	return nil
}

// EnableCaptions best-effort activates the platform's live caption
// rendering. Without it the caption observer has nothing to watch, which
// degrades capture but does not fail the session.
func (c *Controller) EnableCaptions(ctx context.Context) {
	if cand, ok := c.driver.ClickFirst(ctx, CaptionToggleChain()); ok {
		slog.Debug("captions enabled", "candidate", cand.Desc)
	} else {
		slog.Warn("caption toggle not found, captions may not render")
	}
}

// Leave attempts a graceful meeting exit. Absence of the leave control is
// tolerated: closing the browser is the real backstop.
func (c *Controller) Leave(ctx context.Context) {
	c.setState(StateLeaving)
	if _, ok := c.driver.ClickFirst(ctx, LeaveButtonChain()); !ok {
		slog.Warn("leave button not found, relying on browser close")
	}
}

// Close shuts the browser down and finalizes the state machine.
func (c *Controller) Close() error {
	err := c.driver.Close()
	c.setState(StateClosed)
	return err
}
