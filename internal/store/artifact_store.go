package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/content"
)

// Artifact is a generated content block persisted per (session, objective)
// so it can be replayed without recomputation.
type Artifact struct {
	SessionID   string        `json:"session_id"`
	ObjectiveID string        `json:"objective_id"`
	Stage       content.Stage `json:"stage"`
	Block       content.Block `json:"block"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ArtifactStore persists artifacts under artifacts/<session>/<objective>.json.
type ArtifactStore struct {
	dir string
}

func (s *ArtifactStore) path(sessionID, objectiveID string) string {
	return filepath.Join(s.dir, sessionID, objectiveID+".json")
}

// Save atomically writes an artifact, stamping its updated-at time.
func (s *ArtifactStore) Save(a *Artifact) error {
	a.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := writeFileAtomic(s.path(a.SessionID, a.ObjectiveID), data); err != nil {
		return fmt.Errorf("save artifact %s/%s: %w", a.SessionID, a.ObjectiveID, err)
	}
	return nil
}

// Load reads an artifact. A missing record returns (nil, nil); an
// unparseable one is a hard error.
func (s *ArtifactStore) Load(sessionID, objectiveID string) (*Artifact, error) {
	data, err := os.ReadFile(s.path(sessionID, objectiveID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read artifact %s/%s: %w", sessionID, objectiveID, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artifact %s/%s: %w", sessionID, objectiveID, err)
	}
	return &a, nil
}

// ListSession returns all artifacts stored for a session, most recently
// updated first. Records that fail to parse are skipped.
func (s *ArtifactStore) ListSession(sessionID string) ([]Artifact, error) {
	dir := filepath.Join(s.dir, sessionID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list artifacts for %s: %w", sessionID, err)
	}

	var artifacts []Artifact
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		var a Artifact
		if err := json.Unmarshal(data, &a); err != nil || a.ObjectiveID == "" {
			continue
		}
		artifacts = append(artifacts, a)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].UpdatedAt.After(artifacts[j].UpdatedAt)
	})
	return artifacts, nil
}

// Delete removes one artifact, reporting whether it existed.
func (s *ArtifactStore) Delete(sessionID, objectiveID string) (bool, error) {
	if err := os.Remove(s.path(sessionID, objectiveID)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete artifact %s/%s: %w", sessionID, objectiveID, err)
	}
	return true, nil
}

// DeleteSession removes every artifact for a session, returning how many
// were removed.
func (s *ArtifactStore) DeleteSession(sessionID string) (int, error) {
	dir := filepath.Join(s.dir, sessionID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("list artifacts for %s: %w", sessionID, err)
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			count++
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("delete artifacts for %s: %w", sessionID, err)
	}
	return count, nil
}
