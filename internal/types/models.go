// internal/types/models.go
package types

import (
	"path/filepath"
	"time"
)

// Toggles selects which capture streams a session records. All default to
// enabled; a disabled stream is simply never started.
type Toggles struct {
	Audio        bool `json:"audio"`
	Participants bool `json:"participants"`
	Captions     bool `json:"captions"`
}

// Session identifies one automation run against one meeting. It is created
// at process start and immutable for the run's duration.
type Session struct {
	ID          SessionID
	MeetingURL  string
	DisplayName string
	Toggles     Toggles
	OutputDir   string
	StartedAt   time.Time
}

// NewSession creates the immutable context for one run.
func NewSession(meetingURL, displayName string, toggles Toggles, outputDir string) *Session {
	now := time.Now()
	return &Session{
		ID:          NewSessionID(now),
		MeetingURL:  meetingURL,
		DisplayName: displayName,
		Toggles:     toggles,
		OutputDir:   outputDir,
		StartedAt:   now,
	}
}

// ParticipantsPath is the roster snapshot artifact: a single JSON array of
// unique display names.
func (s *Session) ParticipantsPath() string {
	return filepath.Join(s.OutputDir, string(s.ID)+"_participants.json")
}

// CaptionsPath is the caption log artifact: line-delimited JSON, one
// CaptionEvent per line, append-only and safe to tail while live.
func (s *Session) CaptionsPath() string {
	return filepath.Join(s.OutputDir, string(s.ID)+"_captions.json")
}

// AudioPath is the audio artifact: mono 16 kHz mp3, finalized when the
// recording subprocess terminates.
func (s *Session) AudioPath() string {
	return filepath.Join(s.OutputDir, string(s.ID)+"_audio.mp3")
}

// CaptionEvent is one caption line forwarded from the page. Timestamp is
// host-side capture time, not utterance time: the platform may batch DOM
// updates, so caption order is a proxy for speaking order only.
type CaptionEvent struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
