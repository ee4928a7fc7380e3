package outputcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/outputcache/internal/testutil"
)

func TestTransferorCopies(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := testutil.NewArtifact("out/a.jar", "a-v1", "artifact bytes")
	tr := &transferor{dir: dir, workers: 2}

	copied, deleted, err := tr.run(context.Background(), Plan{
		Fetch: map[string]Artifact{KeyFor(a): a},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, copied)
	assert.Zero(t, deleted)

	content, err := os.ReadFile(filepath.Join(dir, KeyFor(a)))
	require.NoError(t, err)
	assert.Equal(t, []byte("artifact bytes"), content)
}

func TestTransferorOverwritesExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := testutil.NewArtifact("out/a.jar", "a-v1", "fresh")
	target := filepath.Join(dir, KeyFor(a))
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o600))

	tr := &transferor{dir: dir, workers: 1}
	copied, _, err := tr.run(context.Background(), Plan{
		Fetch: map[string]Artifact{KeyFor(a): a},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, copied)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), content)
}

func TestTransferorDeletes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "stale_0000.jar")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))

	tr := &transferor{dir: dir, workers: 2}
	_, deleted, err := tr.run(context.Background(), Plan{Evict: []string{stale}})

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, stale)
}

func TestTransferorDeleteMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tr := &transferor{dir: dir, workers: 1}

	_, _, err := tr.run(context.Background(), Plan{
		Evict: []string{filepath.Join(dir, "already-gone.jar")},
	})
	require.NoError(t, err)
}

func TestTransferorToleratesUnitFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := testutil.NewArtifact("out/good.jar", "good-v1", "good")
	bad := testutil.NewArtifact("out/bad.jar", "bad-v1", "bad")
	bad.OpenErr = errors.New("backend unavailable")

	tr := &transferor{dir: dir, workers: 2}
	copied, _, err := tr.run(context.Background(), Plan{
		Fetch: map[string]Artifact{
			KeyFor(good): good,
			KeyFor(bad):  bad,
		},
	})

	// A failing sibling must not abort the batch.
	require.NoError(t, err)
	assert.Equal(t, 1, copied)
	assert.FileExists(t, filepath.Join(dir, KeyFor(good)))
	assert.NoFileExists(t, filepath.Join(dir, KeyFor(bad)))
}

func TestTransferorCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := testutil.NewArtifact("out/a.jar", "a-v1", "x")
	tr := &transferor{dir: dir, workers: 1}

	_, _, err := tr.run(ctx, Plan{Fetch: map[string]Artifact{KeyFor(a): a}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransferorByteBudget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	small := testutil.NewArtifact("out/small.bin", "s-v1", "tiny")
	// Larger than the whole budget: clamped, still transferred.
	big := testutil.NewArtifact("out/big.bin", "b-v1", "0123456789abcdef0123456789abcdef")

	tr := &transferor{dir: dir, workers: 4, byteBudget: 8}
	copied, _, err := tr.run(context.Background(), Plan{
		Fetch: map[string]Artifact{
			KeyFor(small): small,
			KeyFor(big):   big,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	assert.FileExists(t, filepath.Join(dir, KeyFor(big)))
}

func TestTransferorLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := testutil.NewArtifact("out/bad.jar", "bad-v1", "bad")
	bad.OpenErr = errors.New("boom")
	good := testutil.NewArtifact("out/good.jar", "good-v1", "good")

	tr := &transferor{dir: dir, workers: 2}
	_, _, err := tr.run(context.Background(), Plan{
		Fetch: map[string]Artifact{
			KeyFor(bad):  bad,
			KeyFor(good): good,
		},
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "fetch-")
	}
}
