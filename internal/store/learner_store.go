package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/mastery"
)

// LearnerStore persists one JSON record per learner model, keyed by user
// ID. Individual saves are atomic; read-modify-write sequences such as
// UpdateObjectiveMastery carry the usual lost-update caveat.
type LearnerStore struct {
	dir string
}

// LearnerSummary is the lightweight listing view of a stored model.
type LearnerSummary struct {
	UserID     string    `json:"user_id"`
	Objectives int       `json:"objectives"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *LearnerStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// Save atomically writes the learner model, stamping its updated-at time.
func (s *LearnerStore) Save(m *mastery.LearnerModel) error {
	m.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal learner model: %w", err)
	}
	if err := writeFileAtomic(s.path(m.UserID), data); err != nil {
		return fmt.Errorf("save learner model %s: %w", m.UserID, err)
	}
	return nil
}

// Load reads a learner model. A missing record returns (nil, nil); an
// unparseable one is a hard error.
func (s *LearnerStore) Load(userID string) (*mastery.LearnerModel, error) {
	data, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read learner model %s: %w", userID, err)
	}
	var m mastery.LearnerModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse learner model %s: %w", userID, err)
	}
	return &m, nil
}

// LoadOrCreate returns the stored model for userID, or a fresh empty model
// if none has been saved yet.
func (s *LearnerStore) LoadOrCreate(userID string) (*mastery.LearnerModel, error) {
	m, err := s.Load(userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = mastery.NewLearnerModel(userID)
	}
	return m, nil
}

// List returns summaries for all stored learner models, most recently
// updated first. Records that fail to parse are skipped.
func (s *LearnerStore) List() ([]LearnerSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list learner models: %w", err)
	}

	var summaries []LearnerSummary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var m mastery.LearnerModel
		if err := json.Unmarshal(data, &m); err != nil || m.UserID == "" {
			continue
		}
		summaries = append(summaries, LearnerSummary{
			UserID:     m.UserID,
			Objectives: len(m.Objectives),
			UpdatedAt:  m.UpdatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a learner model, reporting whether it existed.
func (s *LearnerStore) Delete(userID string) (bool, error) {
	if err := os.Remove(s.path(userID)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete learner model %s: %w", userID, err)
	}
	return true, nil
}

// UpdateObjectiveMastery is a read-modify-write convenience: it loads the
// whole model (creating one if absent), replaces one objective's mastery
// record, mirrors its streak, appends any evidence to the failure-pattern
// history, and saves.
//
// It is not protected against the lost-update race. Callers with
// concurrent writers for the same user must serialize these calls
// themselves (per-key lock, or single-writer-per-key routing).
func (s *LearnerStore) UpdateObjectiveMastery(userID, objectiveID string, value mastery.ObjectiveMastery, evidence []mastery.FailureMode) error {
	m, err := s.LoadOrCreate(userID)
	if err != nil {
		return err
	}

	if m.Objectives == nil {
		m.Objectives = make(map[string]*mastery.ObjectiveMastery)
	}
	if m.Streaks == nil {
		m.Streaks = make(map[string]int)
	}
	if m.FailurePatterns == nil {
		m.FailurePatterns = make(map[string][]mastery.FailureMode)
	}
	m.Objectives[objectiveID] = &value
	m.Streaks[objectiveID] = value.CorrectStreak
	if len(evidence) > 0 {
		m.FailurePatterns[objectiveID] = append(m.FailurePatterns[objectiveID], evidence...)
	}

	return s.Save(m)
}
