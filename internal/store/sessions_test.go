// internal/store/sessions_test.go
package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/meetscribe/internal/types"
)

func writeArtifacts(t *testing.T, dir string) (*types.Session, *types.Session) {
	t.Helper()

	a := types.NewSession("https://meet.example.com/a", "", types.Toggles{}, dir)
	b := types.NewSession("https://meet.example.com/b", "", types.Toggles{}, dir)

	sa := New(a)
	sa.AppendCaption(types.CaptionEvent{Speaker: "Alice", Text: "Hi", Timestamp: time.Now()})
	sa.AppendCaption(types.CaptionEvent{Speaker: "Bob", Text: "Hey", Timestamp: time.Now()})
	sa.WriteRoster([]string{"Alice", "Bob", "Carol"})
	os.WriteFile(a.AudioPath(), []byte("mp3"), 0o644)

	sb := New(b)
	sb.WriteRoster(nil)

	return a, b
}

func TestListSessions(t *testing.T) {
	dir := t.TempDir()
	a, b := writeArtifacts(t, dir)

	list, err := ListSessions(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}

	byID := make(map[types.SessionID]SessionArtifacts, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}

	got := byID[a.ID]
	if got.Captions != 2 || got.Participants != 3 || !got.HasAudio {
		t.Errorf("session a artifacts wrong: %+v", got)
	}
	got = byID[b.ID]
	if got.Captions != 0 || got.Participants != 0 || got.HasAudio {
		t.Errorf("session b artifacts wrong: %+v", got)
	}
}

func TestListSessions_MissingDir(t *testing.T) {
	list, err := ListSessions(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if list != nil {
		t.Errorf("expected nil list, got %v", list)
	}
}

func TestClearSession(t *testing.T) {
	dir := t.TempDir()
	a, b := writeArtifacts(t, dir)

	if err := ClearSession(dir, a.ID); err != nil {
		t.Fatal(err)
	}

	list, err := ListSessions(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("expected only session b left, got %+v", list)
	}
}

func TestClearSession_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	if err := ClearSession(dir, "../etc"); err == nil {
		t.Error("expected traversal rejection")
	}
	if err := ClearSession(dir, ""); err == nil {
		t.Error("expected empty ID rejection")
	}
}

func TestClearSession_NotFound(t *testing.T) {
	if err := ClearSession(t.TempDir(), "20260101T000000_deadbeef"); err == nil {
		t.Error("expected not-found error")
	}
}
