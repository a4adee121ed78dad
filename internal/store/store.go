package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory layout under the store root. One record file per session and
// per learner, one append-only event log per session, and one artifact
// file per (session, objective) pair. Every record is self-describing (it
// carries its own id and last-updated time), so the files can be relocated
// or backed up as-is.
const (
	sessionsDir  = "sessions"
	learnersDir  = "learners"
	artifactsDir = "artifacts"
	ledgerDir    = "ledger"
)

// Store is the root of the durable layer. It hands out the per-kind
// stores; callers pass those into whatever orchestrates session flows, so
// tests can substitute a temp-directory-backed store without touching
// process-wide state.
type Store struct {
	dir string

	Sessions  *SessionStore
	Learners  *LearnerStore
	Artifacts *ArtifactStore
	Ledger    *Ledger
}

// Open creates a Store rooted at dir, creating the directory tree if
// needed.
func Open(dir string) (*Store, error) {
	for _, sub := range []string{sessionsDir, learnersDir, artifactsDir, ledgerDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	return &Store{
		dir:       dir,
		Sessions:  &SessionStore{dir: filepath.Join(dir, sessionsDir)},
		Learners:  &LearnerStore{dir: filepath.Join(dir, learnersDir)},
		Artifacts: &ArtifactStore{dir: filepath.Join(dir, artifactsDir)},
		Ledger:    &Ledger{dir: filepath.Join(dir, ledgerDir)},
	}, nil
}

// Dir returns the store root directory.
func (s *Store) Dir() string {
	return s.dir
}

// DefaultDataDir resolves the data directory in priority order:
// 1. PATHWISE_DATA environment variable
// 2. $XDG_DATA_HOME/pathwise
// 3. ~/.local/share/pathwise
func DefaultDataDir() (string, error) {
	if p := os.Getenv("PATHWISE_DATA"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "pathwise"), nil
}
