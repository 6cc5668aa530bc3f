package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/life-in-weeks/internal/config"
)

// EventType separates world history from the user's own milestones.
type EventType string

const (
	EventGlobal   EventType = "global"
	EventPersonal EventType = "personal"
)

// Event is a dated entry shown alongside the grid.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// ErrEventNotFound is returned when removing an unknown or built-in event.
var ErrEventNotFound = errors.New(config.ErrEventNotFound)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// GlobalEvents returns the built-in world events, oldest first.
func GlobalEvents() []Event {
	return []Event{
		{ID: "y2k", Title: "Y2K", Date: day(2000, time.January, 1), Type: EventGlobal,
			Description: "The year 2000 problem", Color: "#8B5CF6"},
		{ID: "iphone-release", Title: "First iPhone", Date: day(2007, time.June, 29), Type: EventGlobal,
			Description: "First iPhone released", Color: "#3B82F6"},
		{ID: "bitcoin-2017", Title: "Bitcoin Peak", Date: day(2017, time.December, 17), Type: EventGlobal,
			Description: "Bitcoin reaches $20,000 for the first time", Color: "#F59E0B"},
		{ID: "covid-start", Title: "COVID-19 Pandemic", Date: day(2020, time.March, 11), Type: EventGlobal,
			Description: "WHO declares COVID-19 a pandemic", Color: "#EF4444"},
		{ID: "ai-chatgpt", Title: "ChatGPT Launch", Date: day(2022, time.November, 30), Type: EventGlobal,
			Description: "OpenAI releases ChatGPT", Color: "#10B981"},
	}
}

// EventsByYear groups events by the calendar year of their date.
func EventsByYear(events []Event) map[int][]Event {
	out := make(map[int][]Event)
	for _, e := range events {
		y := e.Date.Year()
		out[y] = append(out[y], e)
	}
	return out
}

// PlaceEvent returns the grid index of the week containing the event.
// ok is false when the event predates birth or lies beyond the target age.
func PlaceEvent(birth time.Time, targetAge int, e Event) (int, bool) {
	days := daysBetween(birth, e.Date)
	if days < 0 {
		return 0, false
	}
	idx := days / config.DaysPerWeek
	if idx >= TotalWeeks(targetAge) {
		return 0, false
	}
	return idx, true
}

// EventStore keeps personal events for the lifetime of the process.
// Global events are always listed and cannot be removed.
type EventStore struct {
	mu       sync.RWMutex
	global   []Event
	personal map[string]Event
}

// NewEventStore creates a store seeded with the built-in global events.
func NewEventStore() *EventStore {
	return &EventStore{
		global:   GlobalEvents(),
		personal: make(map[string]Event),
	}
}

// Add records a personal event and returns it with its generated ID.
func (s *EventStore) Add(title string, date time.Time, description string) (Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Event{}, errors.New(config.ErrEventTitleEmpty)
	}
	if date.IsZero() {
		return Event{}, fmt.Errorf("%w: %s", ErrInvalidDate, config.ErrDateParse)
	}
	if r := []rune(description); len(r) > config.EventDescMaxLen {
		description = string(r[:config.EventDescMaxLen])
	}

	e := Event{
		ID:          uuid.NewString(),
		Title:       title,
		Date:        Midnight(date),
		Type:        EventPersonal,
		Description: strings.TrimSpace(description),
	}

	s.mu.Lock()
	s.personal[e.ID] = e
	s.mu.Unlock()

	slog.Info(config.MsgEventAdded,
		config.LogKeyComponent, config.CompEvents,
		config.LogKeyEventID, e.ID)
	return e, nil
}

// Remove deletes a personal event.
func (s *EventStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.personal[id]; !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	delete(s.personal, id)

	slog.Info(config.MsgEventRemoved,
		config.LogKeyComponent, config.CompEvents,
		config.LogKeyEventID, id)
	return nil
}

// List returns every event sorted by date, then title.
func (s *EventStore) List() []Event {
	s.mu.RLock()
	out := make([]Event, 0, len(s.global)+len(s.personal))
	out = append(out, s.global...)
	for _, e := range s.personal {
		out = append(out, e)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
	return out
}

// ByYear returns List grouped by calendar year.
func (s *EventStore) ByYear() map[int][]Event {
	return EventsByYear(s.List())
}
