package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/session"
)

// SessionStore persists one JSON record per session. Individual saves are
// atomic; there is no concurrency control beyond that, so concurrent
// writers to the same session are last-writer-wins.
type SessionStore struct {
	dir string
}

// SessionSummary is the lightweight listing view of a stored session.
type SessionSummary struct {
	ID        string         `json:"session_id"`
	UserID    string         `json:"user_id"`
	Topic     string         `json:"topic"`
	Status    session.Status `json:"status"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *SessionStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save atomically writes the session record, stamping its updated-at time.
func (s *SessionStore) Save(sess *session.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := writeFileAtomic(s.path(sess.ID), data); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Load reads a session record. A missing record returns (nil, nil); an
// unparseable one is a hard error, since the caller must decide whether to
// treat the entry as lost.
func (s *SessionStore) Load(id string) (*session.Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", id, err)
	}
	return &sess, nil
}

// List returns summaries for all stored sessions, most recently updated
// first. Records that fail to parse are skipped.
func (s *SessionStore) List() ([]SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var summaries []SessionSummary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var sum SessionSummary
		if err := json.Unmarshal(data, &sum); err != nil || sum.ID == "" {
			continue
		}
		summaries = append(summaries, sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a session record, reporting whether it existed.
func (s *SessionStore) Delete(id string) (bool, error) {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	return true, nil
}
