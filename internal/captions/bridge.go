// Package captions bridges caption DOM insertions inside the remote page
// back to the host process as an ordered stream of structured events.
package captions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/user/meetscribe/internal/types"
)

// Page is the slice of the browser driver the bridge needs.
type Page interface {
	InstallScript(source string) error
	ListenConsole(fn func(line string))
}

// Log receives decoded caption events in arrival order.
type Log interface {
	AppendCaption(ev types.CaptionEvent) error
}

// wirePayload is the flat, versioned record the page script emits.
type wirePayload struct {
	V       int    `json:"v"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Decode parses one console line, returning ok=false for anything that is
// not a tagged caption payload. Malformed payloads are dropped silently:
// a page under markup churn emits plenty of unrelated console noise.
func Decode(line string) (speaker, text string, ok bool) {
	rest, found := strings.CutPrefix(line, Tag)
	if !found {
		return "", "", false
	}
	var p wirePayload
	if err := json.Unmarshal([]byte(rest), &p); err != nil {
		return "", "", false
	}
	if p.Text == "" {
		return "", "", false
	}
	return p.Speaker, p.Text, true
}

// Bridge installs the page-side observer and persists every forwarded
// caption. Events are delivered in the order received from the browser
// stream; no host-side reordering or buffering window is introduced.
type Bridge struct {
	page Page
	log  Log
	now  func() time.Time

	mu     sync.Mutex
	events []types.CaptionEvent
}

func New(page Page, log Log) *Bridge {
	return &Bridge{page: page, log: log, now: time.Now}
}

// Install registers the observer script and attaches the console listener.
// It must run before navigation so the observer already watches the page's
// first render.
func (b *Bridge) Install() error {
	if err := b.page.InstallScript(observerScript); err != nil {
		return fmt.Errorf("install caption observer: %w", err)
	}
	b.page.ListenConsole(b.handleLine)
	return nil
}

// handleLine runs on the browser event goroutine as console messages
// arrive. It is the session's only caption-log writer.
func (b *Bridge) handleLine(line string) {
	speaker, text, ok := Decode(line)
	if !ok {
		return
	}
	ev := types.CaptionEvent{Speaker: speaker, Text: text, Timestamp: b.now()}

	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()

	if err := b.log.AppendCaption(ev); err != nil {
		slog.Error("append caption", "speaker", speaker, "error", err)
	}
}

// Count returns the number of captions captured so far.
func (b *Bridge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Events returns a copy of the captured events in arrival order.
func (b *Bridge) Events() []types.CaptionEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.CaptionEvent, len(b.events))
	copy(out, b.events)
	return out
}
