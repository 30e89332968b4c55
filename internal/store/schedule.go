package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Meeting is a recurring meeting the watch daemon joins on a cron
// schedule.
type Meeting struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	DisplayName string `json:"display_name,omitempty"`
	Schedule    string `json:"schedule"`
	Stay        string `json:"stay,omitempty"` // how long to remain in the meeting, e.g. "45m"
	Enabled     bool   `json:"enabled"`
}

// ScheduleStore is a JSON-file-backed store for recurring meetings.
type ScheduleStore struct {
	path string
	mu   sync.RWMutex
}

// NewScheduleStore creates a file-backed ScheduleStore at the given path.
func NewScheduleStore(path string) *ScheduleStore {
	return &ScheduleStore{path: path}
}

// Path returns the file path used by this store.
func (s *ScheduleStore) Path() string {
	return s.path
}

// List returns all meetings. Returns an empty slice if the file doesn't exist.
func (s *ScheduleStore) List() ([]*Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meetings, err := s.load()
	if err != nil {
		return nil, err
	}
	if meetings == nil {
		return []*Meeting{}, nil
	}
	return meetings, nil
}

// Get finds a meeting by name. Returns an error if not found.
func (s *ScheduleStore) Get(name string) (*Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meetings, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, m := range meetings {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("meeting not found: %s", name)
}

// Add appends a meeting. Returns an error if the name is already taken.
func (s *ScheduleStore) Add(m *Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range meetings {
		if existing.Name == m.Name {
			return fmt.Errorf("meeting already exists: %s", m.Name)
		}
	}
	meetings = append(meetings, m)
	return s.save(meetings)
}

// Remove deletes a meeting by name. Returns an error if not found.
func (s *ScheduleStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings, err := s.load()
	if err != nil {
		return err
	}
	for i, m := range meetings {
		if m.Name == name {
			meetings = append(meetings[:i], meetings[i+1:]...)
			return s.save(meetings)
		}
	}
	return fmt.Errorf("meeting not found: %s", name)
}

// SetEnabled toggles the enabled flag for a meeting. Returns an error if
// not found.
func (s *ScheduleStore) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings, err := s.load()
	if err != nil {
		return err
	}
	for _, m := range meetings {
		if m.Name == name {
			m.Enabled = enabled
			return s.save(meetings)
		}
	}
	return fmt.Errorf("meeting not found: %s", name)
}

// load reads the JSON file. Returns nil when the file doesn't exist.
func (s *ScheduleStore) load() ([]*Meeting, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	var meetings []*Meeting
	if err := json.Unmarshal(data, &meetings); err != nil {
		return nil, fmt.Errorf("unmarshal schedule: %w", err)
	}
	return meetings, nil
}

// save writes the list atomically (temp file + rename).
func (s *ScheduleStore) save(meetings []*Meeting) error {
	data, err := json.MarshalIndent(meetings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create schedule dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp schedule file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp schedule file: %w", err)
	}
	return nil
}
