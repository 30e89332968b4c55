// internal/captions/bridge_test.go
package captions

import (
	"strings"
	"testing"
	"time"

	"github.com/user/meetscribe/internal/types"
)

type fakePage struct {
	installed []string
	listener  func(line string)
}

func (f *fakePage) InstallScript(source string) error {
	f.installed = append(f.installed, source)
	return nil
}

func (f *fakePage) ListenConsole(fn func(line string)) {
	f.listener = fn
}

type fakeLog struct {
	events []types.CaptionEvent
}

func (f *fakeLog) AppendCaption(ev types.CaptionEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		speaker string
		text    string
		ok      bool
	}{
		{"valid", Tag + `{"v":1,"speaker":"Alice","text":"Hi"}`, "Alice", "Hi", true},
		{"no tag", `{"v":1,"speaker":"Alice","text":"Hi"}`, "", "", false},
		{"unrelated console noise", "Uncaught TypeError: x is not a function", "", "", false},
		{"bad json", Tag + `{"v":1,`, "", "", false},
		{"empty text", Tag + `{"v":1,"speaker":"Alice","text":""}`, "", "", false},
		{"future field tolerated", Tag + `{"v":2,"speaker":"Bob","text":"Hello","lang":"en"}`, "Bob", "Hello", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			speaker, text, ok := Decode(c.line)
			if ok != c.ok {
				t.Fatalf("expected ok=%v, got %v", c.ok, ok)
			}
			if speaker != c.speaker || text != c.text {
				t.Errorf("expected (%q, %q), got (%q, %q)", c.speaker, c.text, speaker, text)
			}
		})
	}
}

func TestBridge_ForwardsInArrivalOrder(t *testing.T) {
	page := &fakePage{}
	log := &fakeLog{}
	b := New(page, log)

	// Deterministic, strictly increasing host clock.
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	b.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	if err := b.Install(); err != nil {
		t.Fatal(err)
	}
	if len(page.installed) != 1 {
		t.Fatalf("expected one installed script, got %d", len(page.installed))
	}
	if page.listener == nil {
		t.Fatal("expected console listener attached")
	}

	page.listener(Tag + `{"v":1,"speaker":"Alice","text":"Hi"}`)
	page.listener("random page log line")
	page.listener(Tag + `{"v":1,"speaker":"Bob","text":"Hello Alice"}`)

	if len(log.events) != 2 {
		t.Fatalf("expected 2 persisted events, got %d", len(log.events))
	}
	if log.events[0].Speaker != "Alice" || log.events[1].Speaker != "Bob" {
		t.Errorf("arrival order not preserved: %+v", log.events)
	}
	if log.events[1].Timestamp.Before(log.events[0].Timestamp) {
		t.Error("host capture timestamps must be non-decreasing")
	}
	if b.Count() != 2 {
		t.Errorf("expected count 2, got %d", b.Count())
	}
}

func TestBridge_DuplicatesPassThrough(t *testing.T) {
	page := &fakePage{}
	log := &fakeLog{}
	b := New(page, log)
	if err := b.Install(); err != nil {
		t.Fatal(err)
	}

	// Re-insertion of an already-seen caption node is common during live
	// incremental rendering; the bridge must not collapse it.
	line := Tag + `{"v":1,"speaker":"Alice","text":"Hi"}`
	page.listener(line)
	page.listener(line)

	if len(log.events) != 2 {
		t.Errorf("expected duplicates preserved, got %d events", len(log.events))
	}
}

func TestObserverScript_EmitsTaggedLines(t *testing.T) {
	// The script and the host decoder share the tag literal.
	if !strings.Contains(observerScript, Tag) {
		t.Error("observer script must emit the host-side tag")
	}
	if !strings.Contains(observerScript, "MutationObserver") {
		t.Error("observer script must watch DOM mutations")
	}
}

func TestBridge_Events_ReturnsCopy(t *testing.T) {
	page := &fakePage{}
	b := New(page, &fakeLog{})
	if err := b.Install(); err != nil {
		t.Fatal(err)
	}
	page.listener(Tag + `{"v":1,"speaker":"Alice","text":"Hi"}`)

	evs := b.Events()
	evs[0].Text = "mutated"
	if b.Events()[0].Text != "Hi" {
		t.Error("Events must return a copy, not the internal slice")
	}
}
