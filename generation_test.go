package outputcache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/outputcache/internal/testutil"
)

func TestNewGenerationFind(t *testing.T) {
	t.Parallel()

	a := testutil.NewArtifact("out/a.jar", "a-v1", "alpha")
	gen := NewGeneration(a)

	got, ok := gen.Find("out/a.jar")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = gen.Find("out/missing.jar")
	assert.False(t, ok)
}

func TestNewGenerationLaterArtifactWins(t *testing.T) {
	t.Parallel()

	old := testutil.NewArtifact("out/a.jar", "a-v1", "old")
	updated := testutil.NewArtifact("out/a.jar", "a-v2", "new")
	gen := NewGeneration(old, updated)

	got, ok := gen.Find("out/a.jar")
	require.True(t, ok)
	assert.Same(t, updated, got)

	var count int
	for range gen.All() {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestNewGenerationAllPreservesOrder(t *testing.T) {
	t.Parallel()

	gen := NewGeneration(
		testutil.NewArtifact("out/a.jar", "a-v1", "a"),
		testutil.NewArtifact("out/b.jar", "b-v1", "b"),
		testutil.NewArtifact("out/c.jar", "c-v1", "c"),
	)

	var paths []string
	for a := range gen.All() {
		paths = append(paths, a.Path())
	}
	assert.Equal(t, []string{"out/a.jar", "out/b.jar", "out/c.jar"}, paths)
}

// mapStore resolves artifacts from a fixed map, standing in for a real
// remote backend.
type mapStore struct {
	artifacts map[string]*testutil.Artifact
	err       error
}

func (s *mapStore) FindOutput(_ context.Context, path string) (Artifact, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.artifacts[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return a, nil
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	a := testutil.NewArtifact("out/a.jar", "a-v1", "alpha")
	store := &mapStore{artifacts: map[string]*testutil.Artifact{"out/a.jar": a}}

	gen, err := Snapshot(context.Background(), store, []string{"out/a.jar", "out/not-built.jar"})
	require.NoError(t, err)

	got, ok := gen.Find("out/a.jar")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = gen.Find("out/not-built.jar")
	assert.False(t, ok, "not-found paths are skipped, not errors")
}

func TestSnapshotPropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	store := &mapStore{err: errors.New("backend down")}
	_, err := Snapshot(context.Background(), store, []string{"out/a.jar"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
