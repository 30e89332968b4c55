// internal/store/schedule_test.go
package store

import (
	"os"
	"path/filepath"
	"testing"
)

func testScheduleStore(t *testing.T) *ScheduleStore {
	t.Helper()
	return NewScheduleStore(filepath.Join(t.TempDir(), "schedule.json"))
}

func standupMeeting() *Meeting {
	return &Meeting{
		Name:        "standup",
		URL:         "https://meet.example.com/abc-defg-hij",
		DisplayName: "Notetaker",
		Schedule:    "0 30 9 * * MON-FRI",
		Stay:        "30m",
		Enabled:     true,
	}
}

func TestScheduleStore_AddGetList(t *testing.T) {
	s := testScheduleStore(t)

	if err := s.Add(standupMeeting()); err != nil {
		t.Fatal(err)
	}

	m, err := s.Get("standup")
	if err != nil {
		t.Fatal(err)
	}
	if m.URL != "https://meet.example.com/abc-defg-hij" || !m.Enabled {
		t.Errorf("unexpected meeting: %+v", m)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 meeting, got %d", len(list))
	}
}

func TestScheduleStore_DuplicateName(t *testing.T) {
	s := testScheduleStore(t)
	if err := s.Add(standupMeeting()); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(standupMeeting()); err == nil {
		t.Error("expected duplicate name rejection")
	}
}

func TestScheduleStore_Remove(t *testing.T) {
	s := testScheduleStore(t)
	if err := s.Add(standupMeeting()); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("standup"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("standup"); err == nil {
		t.Error("expected not-found on second remove")
	}
}

func TestScheduleStore_SetEnabled(t *testing.T) {
	s := testScheduleStore(t)
	if err := s.Add(standupMeeting()); err != nil {
		t.Fatal(err)
	}
	if err := s.SetEnabled("standup", false); err != nil {
		t.Fatal(err)
	}
	m, err := s.Get("standup")
	if err != nil {
		t.Fatal(err)
	}
	if m.Enabled {
		t.Error("expected meeting disabled")
	}
}

func TestScheduleStore_EmptyFileMissing(t *testing.T) {
	s := testScheduleStore(t)
	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %v", list)
	}
}

func TestScheduleStore_AtomicSave(t *testing.T) {
	s := testScheduleStore(t)
	if err := s.Add(standupMeeting()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file must be renamed away")
	}
}
