package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes classification changes from compound triggers.
type EventKind string

const (
	EventGesture EventKind = "gesture"
	EventTrigger EventKind = "trigger"
)

// Event is a recorded gesture event.
type Event struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Kind       EventKind `json:"kind"`
	Category   string    `json:"category"`
	Strength   float64   `json:"strength"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventRepository provides access to gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts an event. An empty ID is filled with a new UUID.
func (r *EventRepository) Record(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.OccurredAt = e.OccurredAt.UTC()

	_, err := r.db.Exec(
		`INSERT INTO gesture_events (id, session_id, kind, category, strength, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Kind), e.Category, e.Strength, e.OccurredAt,
	)
	return err
}

// ListBySession returns a session's events in the order they occurred.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, category, strength, occurred_at
		 FROM gesture_events WHERE session_id = ? ORDER BY occurred_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var kind string
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Category, &e.Strength, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountBySession returns the number of events of the given kind in a session.
func (r *EventRepository) CountBySession(sessionID string, kind EventKind) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM gesture_events WHERE session_id = ? AND kind = ?`,
		sessionID, string(kind),
	).Scan(&n)
	return n, err
}
