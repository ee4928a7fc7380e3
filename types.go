package outputcache

import (
	"context"
	"io"
	"iter"
)

// Artifact identifies one build output residing on a remote backend.
//
// Implementations must be immutable: the key, path, and generated flag
// are fixed for the lifetime of the value. Artifacts are owned by the
// store that produced them and are read-only to the cache.
type Artifact interface {
	// Key returns an opaque content/version key identifying this exact
	// version of the artifact. Two versions of the same logical output
	// must have different keys.
	Key() string

	// Path returns the artifact's logical path on the remote backend.
	Path() string

	// Generated reports whether the artifact is a build-generated output
	// rather than a source file. Only generated outputs are cached.
	Generated() bool

	// SizeBytes returns the artifact's size in bytes, or a negative
	// value if unknown. Used only to budget in-flight transfers.
	SizeBytes() int64

	// Open opens the artifact's bytes for reading. The caller is
	// responsible for closing the returned reader.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Generation is an immutable snapshot of all remote artifacts known at
// one point in time. Successive generations are compared during diffing
// to detect artifacts that changed upstream.
type Generation interface {
	// Find returns the artifact recorded at the given logical path.
	Find(path string) (Artifact, bool)

	// All iterates over every artifact in the snapshot.
	All() iter.Seq[Artifact]
}

// Store resolves logical paths to remote artifacts.
//
// Implementations return an error wrapping [ErrNotFound] when no output
// was actually produced at the given path.
type Store interface {
	FindOutput(ctx context.Context, path string) (Artifact, error)
}

// TargetSet describes the host's build targets. The engine never
// inspects it; it is passed through to selectors unchanged.
type TargetSet interface{}

// LanguageSettings describes the host's workspace language settings.
// Like [TargetSet], it is opaque to the engine.
type LanguageSettings interface{}
