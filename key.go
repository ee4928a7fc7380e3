package outputcache

import (
	"path"
	"strings"

	"github.com/opencontainers/go-digest"
)

// keyHashLen is the number of hex digest characters appended to cache
// keys. 16 characters (64 bits) makes accidental collisions between
// distinct artifact keys negligible.
const keyHashLen = 16

// KeyFor derives the cache key for an artifact. The key doubles as the
// file name in the cache directory: the base name of the logical path,
// an underscore, a fixed-width prefix of the SHA-256 digest of the
// artifact's content key, then the original extension.
//
// The hash suffix ties the name to the artifact's exact version, so a
// changed artifact lands under a new name while the prefix keeps cache
// contents human-debuggable.
func KeyFor(a Artifact) string {
	base := path.Base(a.Path())
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	sum := digest.FromString(a.Key()).Encoded()[:keyHashLen]
	return name + "_" + sum + ext
}
