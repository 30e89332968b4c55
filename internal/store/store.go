// Package store persists session artifacts with crash-safe,
// append-friendly semantics. Every file name derives from the session ID.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/user/meetscribe/internal/types"
)

// Store writes one session's artifacts under its output directory.
type Store struct {
	session *types.Session

	mu       sync.Mutex // guards the caption log
	captions int
}

func New(session *types.Session) *Store {
	return &Store{session: session}
}

// AppendCaption appends one event to the caption log as a single JSON
// line. The file is opened per append so every completed line is durable
// on its own: a reader may parse any prefix of complete lines while the
// session is live, and a crash loses at most the line in flight.
func (s *Store) AppendCaption(ev types.CaptionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal caption: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.session.CaptionsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open caption log: %w", err)
	}
	defer f.Close()

	data = append(data, '\n')
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write caption: %w", err)
	}
	s.captions++
	return nil
}

// CaptionCount returns the number of captions appended this session.
func (s *Store) CaptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captions
}

// WriteRoster writes the participant snapshot as a single JSON array.
// A nil roster still produces [] so the downstream pipeline always finds
// valid JSON. Atomic write: temp file + rename.
func (s *Store) WriteRoster(names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	data = append(data, '\n')

	target := s.session.ParticipantsPath()
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp roster: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp roster: %w", err)
	}
	return nil
}
