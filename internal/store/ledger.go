package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Event types appended by the orchestration layer.
const (
	EventSessionCreated   = "session_created"
	EventSessionStarted   = "session_started"
	EventSessionPaused    = "session_paused"
	EventSessionResumed   = "session_resumed"
	EventSessionCompleted = "session_completed"
	EventSessionAbandoned = "session_abandoned"
	EventActivityServed   = "activity_served"
	EventAnswerSubmitted  = "answer_submitted"
	EventMasteryUpdated   = "mastery_updated"
	EventRemediation      = "remediation_branch"
)

// Event is one immutable ledger entry. Events are never mutated or
// deleted individually; the per-session log is the authoritative history
// of everything that happened in that session.
type Event struct {
	Timestamp string          `json:"timestamp"`
	SessionID string          `json:"session_id"`
	Type      string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Ledger is an append-only, line-delimited event log, one file per
// session. Appends take an exclusive advisory lock on the session's file;
// reads take a shared one. The locks are advisory and host-local: they
// serialize access across processes on one machine but give no guarantees
// over a non-lock-aware network filesystem.
type Ledger struct {
	dir string
}

func (l *Ledger) path(sessionID string) string {
	return filepath.Join(l.dir, sessionID+".jsonl")
}

// Append serializes the payload and appends one event line for the
// session, under an exclusive lock, forcing it to stable storage before
// returning. Event timestamps use the store's canonical encoding, so the
// file is in lexicographic (and therefore chronological) timestamp order.
func (l *Ledger) Append(sessionID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	ev := Event{
		Timestamp: FormatTime(time.Now()),
		SessionID: sessionID,
		Type:      eventType,
		Payload:   raw,
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	path := l.path(sessionID)
	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock ledger %s: %w", sessionID, err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", sessionID, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append event to %s: %w", sessionID, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync ledger %s: %w", sessionID, err)
	}
	return nil
}

// IterEvents lazily yields the session's events in append order, holding a
// shared lock for the duration of the iteration. Lines that fail to parse
// (for example a line torn by a writer that crashed before the lock model
// existed) are silently skipped rather than failing the whole read. A
// missing ledger yields nothing.
func (l *Ledger) IterEvents(sessionID string) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		path := l.path(sessionID)
		lock := flock.New(path)
		if err := lock.RLock(); err != nil {
			return
		}
		defer lock.Unlock()

		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			var ev Event
			if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
				continue
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// ReadEvents returns the session's full event history in append order.
func (l *Ledger) ReadEvents(sessionID string) ([]Event, error) {
	var events []Event
	for ev := range l.IterEvents(sessionID) {
		events = append(events, ev)
	}
	return events, nil
}

// EventsSince returns the session's events at or after the cutoff. The
// filter compares encoded timestamp strings; the canonical fixed-width
// encoding makes that equivalent to chronological comparison.
func (l *Ledger) EventsSince(sessionID string, since time.Time) ([]Event, error) {
	cutoff := FormatTime(since)
	var events []Event
	for ev := range l.IterEvents(sessionID) {
		if ev.Timestamp >= cutoff {
			events = append(events, ev)
		}
	}
	return events, nil
}
