package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/user/meetscribe/internal/types"
)

// SessionArtifacts summarizes the files one session left behind. This is
// the surface the downstream ingestion pipeline (and `sessions list`)
// reads; the engine itself never consults it.
type SessionArtifacts struct {
	ID           types.SessionID
	Captions     int
	Participants int
	HasAudio     bool
	ModTime      time.Time
}

// ReadCaptions loads the complete caption lines of a log. A trailing
// partial line (crash mid-append) is skipped, not an error.
func ReadCaptions(path string) ([]types.CaptionEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open caption log: %w", err)
	}
	defer f.Close()

	var events []types.CaptionEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev types.CaptionEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan caption log: %w", err)
	}
	return events, nil
}

// ReadRoster loads a participant snapshot.
func ReadRoster(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("unmarshal roster: %w", err)
	}
	return names, nil
}

// ListSessions scans an output directory and groups artifact files by
// session ID. IDs are time-derived, so lexicographic order is
// chronological.
func ListSessions(dir string) ([]SessionArtifacts, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	byID := make(map[types.SessionID]*SessionArtifacts)
	get := func(id types.SessionID) *SessionArtifacts {
		if a, ok := byID[id]; ok {
			return a
		}
		a := &SessionArtifacts{ID: id}
		byID[id] = a
		return a
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			continue
		}

		switch {
		case strings.HasSuffix(name, "_captions.json"):
			id := types.SessionID(strings.TrimSuffix(name, "_captions.json"))
			a := get(id)
			if events, err := ReadCaptions(filepath.Join(dir, name)); err == nil {
				a.Captions = len(events)
			}
			a.ModTime = laterOf(a.ModTime, info.ModTime())
		case strings.HasSuffix(name, "_participants.json"):
			id := types.SessionID(strings.TrimSuffix(name, "_participants.json"))
			a := get(id)
			if names, err := ReadRoster(filepath.Join(dir, name)); err == nil {
				a.Participants = len(names)
			}
			a.ModTime = laterOf(a.ModTime, info.ModTime())
		case strings.HasSuffix(name, "_audio.mp3"):
			id := types.SessionID(strings.TrimSuffix(name, "_audio.mp3"))
			a := get(id)
			a.HasAudio = info.Size() > 0
			a.ModTime = laterOf(a.ModTime, info.ModTime())
		}
	}

	out := make([]SessionArtifacts, 0, len(byID))
	for _, a := range byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ClearSession removes every artifact belonging to the given session ID.
func ClearSession(dir string, id types.SessionID) error {
	if id == "" || strings.ContainsAny(string(id), `/\`) {
		return fmt.Errorf("invalid session ID: %s", id)
	}
	matches, err := filepath.Glob(filepath.Join(dir, string(id)+"_*"))
	if err != nil {
		return fmt.Errorf("glob session artifacts: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("session not found: %s", id)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("remove %s: %w", m, err)
		}
	}
	return nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
