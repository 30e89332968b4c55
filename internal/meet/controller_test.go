// internal/meet/controller_test.go
package meet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/meetscribe/internal/selector"
	"github.com/user/meetscribe/internal/types"
)

// fakeDriver resolves the chains whose Action appears in resolves and
// records everything the controller asks of it.
type fakeDriver struct {
	resolves map[string]bool
	navErr   error
	enterErr error

	navigated  []string
	clicked    []string
	typed      map[string]string
	enterCount int
	closed     int
}

func newFakeDriver(resolves ...string) *fakeDriver {
	m := make(map[string]bool, len(resolves))
	for _, r := range resolves {
		m[r] = true
	}
	return &fakeDriver{resolves: m, typed: make(map[string]string)}
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return f.navErr
}

func (f *fakeDriver) ClickFirst(_ context.Context, chain selector.Chain) (selector.Candidate, bool) {
	f.clicked = append(f.clicked, chain.Action)
	if f.resolves[chain.Action] {
		return chain.Candidates[0], true
	}
	return selector.Candidate{}, false
}

func (f *fakeDriver) TypeFirst(_ context.Context, chain selector.Chain, text string) (selector.Candidate, bool) {
	if f.resolves[chain.Action] {
		f.typed[chain.Action] = text
		return chain.Candidates[0], true
	}
	return selector.Candidate{}, false
}

func (f *fakeDriver) PressEnter(_ context.Context) error {
	f.enterCount++
	return f.enterErr
}

func (f *fakeDriver) Texts(_ context.Context, chain selector.Chain) ([]string, bool) {
	return nil, false
}

func (f *fakeDriver) Close() error {
	f.closed++
	return nil
}

func testSession() *types.Session {
	return types.NewSession("https://meet.example.com/abc-defg-hij", "Notetaker",
		types.Toggles{Audio: true, Participants: true, Captions: true}, "/tmp/out")
}

func newTestController(d Driver) *Controller {
	c := NewController(d, testSession())
	c.settle = time.Millisecond
	return c
}

func TestJoin_FullProtocol(t *testing.T) {
	d := newFakeDriver("name field", "mute microphone", "mute camera", "join button")
	c := newTestController(d)

	if err := c.Join(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateInMeeting {
		t.Errorf("expected in_meeting, got %s", c.State())
	}
	if d.typed["name field"] != "Notetaker" {
		t.Errorf("expected display name typed, got %q", d.typed["name field"])
	}
	if d.enterCount != 0 {
		t.Errorf("keyboard fallback must not fire when the join button resolves, fired %d times", d.enterCount)
	}
}

func TestJoin_MissingOptionalControlsIsNotFatal(t *testing.T) {
	// Only the join button exists: no name field, no device toggles.
	d := newFakeDriver("join button")
	c := newTestController(d)

	if err := c.Join(context.Background()); err != nil {
		t.Fatalf("missing optional affordances must not abort the join: %v", err)
	}
	if c.State() != StateInMeeting {
		t.Errorf("expected in_meeting, got %s", c.State())
	}
}

func TestJoin_NavigationFailureIsFatal(t *testing.T) {
	d := newFakeDriver("join button")
	d.navErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	c := newTestController(d)

	if err := c.Join(context.Background()); err == nil {
		t.Fatal("expected fatal navigation error")
	}
	if c.State() == StateInMeeting {
		t.Error("must not reach in_meeting after navigation failure")
	}
}

func TestJoin_KeyboardFallbackExactlyOnce(t *testing.T) {
	// No join candidate resolves; the fallback submits and the join
	// proceeds.
	d := newFakeDriver()
	c := newTestController(d)

	if err := c.Join(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d.enterCount != 1 {
		t.Errorf("expected exactly one keyboard fallback, got %d", d.enterCount)
	}
	if c.State() != StateInMeeting {
		t.Errorf("expected in_meeting after fallback submit, got %s", c.State())
	}
}

func TestJoin_KeyboardFallbackFailureIsFatal(t *testing.T) {
	d := newFakeDriver()
	d.enterErr = errors.New("target crashed")
	c := newTestController(d)

	if err := c.Join(context.Background()); err == nil {
		t.Fatal("expected fatal error when both join click and fallback fail")
	}
	if d.enterCount != 1 {
		t.Errorf("fallback must still be attempted exactly once, got %d", d.enterCount)
	}
}

func TestLeaveAndClose(t *testing.T) {
	d := newFakeDriver("join button", "leave button")
	c := newTestController(d)

	if err := c.Join(context.Background()); err != nil {
		t.Fatal(err)
	}

	c.Leave(context.Background())
	if c.State() != StateLeaving {
		t.Errorf("expected leaving, got %s", c.State())
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateClosed {
		t.Errorf("expected closed, got %s", c.State())
	}
	if d.closed != 1 {
		t.Errorf("expected one driver close, got %d", d.closed)
	}
}

func TestLeave_MissingButtonTolerated(t *testing.T) {
	d := newFakeDriver("join button")
	c := newTestController(d)
	if err := c.Join(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Must not panic or error; browser close is the backstop.
	c.Leave(context.Background())
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
}
