package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/plan"
	"github.com/abhisek/pathwise/internal/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	return st
}

func newStoredSession(t *testing.T, st *Store, topic string) *session.Session {
	t.Helper()
	g, err := plan.Chain([]string{"One", "Two"})
	require.NoError(t, err)
	sess := session.New("u1", topic, g)
	require.NoError(t, st.Sessions.Save(sess))
	return sess
}

func TestSessionStore_SaveLoad(t *testing.T) {
	st := newTestStore(t)
	sess := newStoredSession(t, st, "algebra")

	loaded, err := st.Sessions.Load(sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, sess.ID, loaded.ID)
	require.Equal(t, "algebra", loaded.Topic)
	require.Equal(t, session.StatusPlanning, loaded.Status)
	require.Len(t, loaded.Graph.Nodes, 2)
	require.False(t, loaded.UpdatedAt.IsZero(), "save must stamp updated-at")
}

func TestSessionStore_LoadMissing(t *testing.T) {
	st := newTestStore(t)

	loaded, err := st.Sessions.Load("nope")
	require.NoError(t, err, "a missing record is not an error")
	require.Nil(t, loaded)
}

func TestSessionStore_LoadCorruptIsHardError(t *testing.T) {
	st := newTestStore(t)
	sess := newStoredSession(t, st, "t")

	path := filepath.Join(st.Dir(), sessionsDir, sess.ID+".json")
	require.NoError(t, os.WriteFile(path, []byte("{torn"), 0o644))

	_, err := st.Sessions.Load(sess.ID)
	require.Error(t, err)
}

func TestSessionStore_ListOrderAndCorruptSkip(t *testing.T) {
	st := newTestStore(t)

	older := newStoredSession(t, st, "first")
	newer := newStoredSession(t, st, "second")

	// Re-save to guarantee newer has the later updated-at stamp.
	require.NoError(t, st.Sessions.Save(newer))

	// A corrupt record must be skipped, not fail the listing.
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), sessionsDir, "junk.json"), []byte("not json"), 0o644))

	summaries, err := st.Sessions.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, newer.ID, summaries[0].ID, "most recently updated first")
	require.Equal(t, older.ID, summaries[1].ID)
}

func TestSessionStore_Delete(t *testing.T) {
	st := newTestStore(t)
	sess := newStoredSession(t, st, "t")

	existed, err := st.Sessions.Delete(sess.ID)
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = st.Sessions.Delete(sess.ID)
	require.NoError(t, err)
	require.False(t, existed)
}

// Concurrently saving different states of the same session must leave a
// parseable record matching one of the writers in full.
func TestSessionStore_ConcurrentSaves(t *testing.T) {
	st := newTestStore(t)
	sess := newStoredSession(t, st, "race")

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			copied := *sess
			copied.Topic = fmt.Sprintf("topic-%d", i)
			if err := st.Sessions.Save(&copied); err != nil {
				t.Errorf("save: %v", err)
			}
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(st.Dir(), sessionsDir, sess.ID+".json"))
	require.NoError(t, err)

	var got session.Session
	require.NoError(t, json.Unmarshal(data, &got), "record must never be torn")
	require.Regexp(t, `^topic-\d$`, got.Topic)
}
