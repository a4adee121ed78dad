package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/plan"
)

// Status represents the lifecycle phase of a learning session.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Session is one learning session: a topic, its plan graph, and the
// activity currently in flight. Sessions are created in the planning
// phase, become active on start, and are persisted after every mutation.
type Session struct {
	ID                 string            `json:"session_id"`
	UserID             string            `json:"user_id"`
	Topic              string            `json:"topic"`
	Status             Status            `json:"status"`
	Graph              *plan.Graph       `json:"plan_graph"`
	CurrentObjectiveID string            `json:"current_objective_id,omitempty"`
	CurrentActivity    *content.Activity `json:"current_activity,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	StartedAt          *time.Time        `json:"started_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// New creates a session in the planning phase.
func New(userID, topic string, g *plan.Graph) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     topic,
		Status:    StatusPlanning,
		Graph:     g,
		CreatedAt: time.Now().UTC(),
	}
}

// Start transitions the session from planning to active.
func (s *Session) Start(now time.Time) error {
	if s.Status != StatusPlanning {
		return fmt.Errorf("cannot start session in status %q", s.Status)
	}
	s.Status = StatusActive
	s.StartedAt = &now
	return nil
}

// Pause suspends an active session.
func (s *Session) Pause() error {
	if s.Status != StatusActive {
		return fmt.Errorf("cannot pause session in status %q", s.Status)
	}
	s.Status = StatusPaused
	return nil
}

// Resume reactivates a paused session.
func (s *Session) Resume() error {
	if s.Status != StatusPaused {
		return fmt.Errorf("cannot resume session in status %q", s.Status)
	}
	s.Status = StatusActive
	return nil
}

// Complete marks the session finished.
func (s *Session) Complete(now time.Time) error {
	if s.Status != StatusActive {
		return fmt.Errorf("cannot complete session in status %q", s.Status)
	}
	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.CurrentActivity = nil
	return nil
}

// Abandon marks the session abandoned. Valid from any non-terminal status.
func (s *Session) Abandon() error {
	if s.Status == StatusCompleted || s.Status == StatusAbandoned {
		return fmt.Errorf("cannot abandon session in status %q", s.Status)
	}
	s.Status = StatusAbandoned
	s.CurrentActivity = nil
	return nil
}
