package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/content"
)

func testArtifact(sessionID, objectiveID string) *Artifact {
	return &Artifact{
		SessionID:   sessionID,
		ObjectiveID: objectiveID,
		Stage:       content.StageTeach,
		Block: content.Block{
			Kind: content.KindMCQ,
			MCQ: &content.MCQBlock{
				Question: "Which organelle produces ATP?",
				Options:  []string{"Nucleus", "Mitochondrion", "Ribosome"},
				Answer:   1,
			},
		},
	}
}

func TestArtifactStore_SaveLoad(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Artifacts.Save(testArtifact("s1", "x")))

	a, err := st.Artifacts.Load("s1", "x")
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, content.KindMCQ, a.Block.Kind)
	require.Equal(t, 1, a.Block.MCQ.Answer)
}

func TestArtifactStore_LoadMissing(t *testing.T) {
	st := newTestStore(t)

	a, err := st.Artifacts.Load("s1", "nope")
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestArtifactStore_ListSession(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Artifacts.Save(testArtifact("s1", "x")))
	require.NoError(t, st.Artifacts.Save(testArtifact("s1", "y")))
	require.NoError(t, st.Artifacts.Save(testArtifact("s2", "z")))

	artifacts, err := st.Artifacts.ListSession("s1")
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	artifacts, err = st.Artifacts.ListSession("empty")
	require.NoError(t, err)
	require.Empty(t, artifacts)
}

func TestArtifactStore_DeleteSession(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Artifacts.Save(testArtifact("s1", "x")))
	require.NoError(t, st.Artifacts.Save(testArtifact("s1", "y")))

	n, err := st.Artifacts.DeleteSession("s1")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	a, err := st.Artifacts.Load("s1", "x")
	require.NoError(t, err)
	require.Nil(t, a)

	n, err = st.Artifacts.DeleteSession("s1")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestArtifactStore_Delete(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Artifacts.Save(testArtifact("s1", "x")))

	existed, err := st.Artifacts.Delete("s1", "x")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = st.Artifacts.Delete("s1", "x")
	require.NoError(t, err)
	require.False(t, existed)
}
