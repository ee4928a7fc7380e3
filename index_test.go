package outputcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStateMissingDir(t *testing.T) {
	t.Parallel()

	idx := readState(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, idx)
}

func TestReadStateListsFlatEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_1234.jar"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_5678.so"), []byte("b"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	idx := readState(dir)

	require.Len(t, idx, 2)
	assert.Equal(t, filepath.Join(dir, "a_1234.jar"), idx["a_1234.jar"])
	assert.Equal(t, filepath.Join(dir, "b_5678.so"), idx["b_5678.so"])
	assert.NotContains(t, idx, "nested")
}
