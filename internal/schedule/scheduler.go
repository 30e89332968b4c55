// internal/schedule/scheduler.go
package schedule

import (
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/user/meetscribe/internal/store"
)

// Handler is the callback invoked when a scheduled meeting fires.
type Handler func(meeting *store.Meeting)

// Scheduler evaluates cron expressions from the schedule store and fires
// meetings through a handler callback.
type Scheduler struct {
	store   *store.ScheduleStore
	handler Handler
	cron    *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a new Scheduler backed by the given schedule store. The
// handler is called each time a meeting's schedule fires.
func New(st *store.ScheduleStore, handler Handler) *Scheduler {
	return &Scheduler{
		store:   st,
		handler: handler,
		cron:    cron.New(cron.WithParser(cronParser)),
	}
}

// Start loads meetings from the store, registers enabled ones that have a
// schedule as cron entries, and starts the cron ticker.
func (s *Scheduler) Start() error {
	meetings, err := s.store.List()
	if err != nil {
		return err
	}

	for _, m := range meetings {
		if m.Schedule == "" || !m.Enabled {
			continue
		}

		meeting := m
		_, err := s.cron.AddFunc(meeting.Schedule, func() {
			slog.Info("cron firing meeting", "name", meeting.Name, "url", meeting.URL)
			s.handler(meeting)
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", meeting.Name, "schedule", meeting.Schedule, "error", err)
			continue
		}
		slog.Info("scheduled meeting", "name", meeting.Name, "schedule", meeting.Schedule)
	}

	s.cron.Start()
	return nil
}

// Reload stops the existing cron, creates a new one, and calls Start() again.
func (s *Scheduler) Reload() error {
	s.cron.Stop()
	s.cron = cron.New(cron.WithParser(cronParser))
	return s.Start()
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Entries reports the number of registered cron entries.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
