package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meigma/outputcache"
	"github.com/meigma/outputcache/internal/testutil"
)

func testGeneration() outputcache.Generation {
	return outputcache.NewGeneration(
		testutil.NewArtifact("outputs/app.jar", "a-v1", "a"),
		testutil.NewArtifact("outputs/lib.so", "b-v1", "b"),
		testutil.NewArtifact("other/tool.jar", "c-v1", "c"),
	)
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	sel := Extensions("jar")
	got := sel.SelectOutputs(testGeneration(), nil, nil)
	assert.ElementsMatch(t, []string{"outputs/app.jar", "other/tool.jar"}, got)

	// Leading dot is equivalent.
	sel = Extensions(".so")
	got = sel.SelectOutputs(testGeneration(), nil, nil)
	assert.Equal(t, []string{"outputs/lib.so"}, got)
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	sel := Prefix("outputs/")
	got := sel.SelectOutputs(testGeneration(), nil, nil)
	assert.ElementsMatch(t, []string{"outputs/app.jar", "outputs/lib.so"}, got)
}

func TestAll(t *testing.T) {
	t.Parallel()

	got := All().SelectOutputs(testGeneration(), nil, nil)
	assert.Len(t, got, 3)
}
