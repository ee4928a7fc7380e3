// Package testutil provides in-memory fakes for cache tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
)

// Artifact is an in-memory remote artifact. It satisfies the root
// package's Artifact interface without importing it.
type Artifact struct {
	LogicalPath string
	ContentKey  string
	Content     []byte
	Source      bool
	OpenErr     error

	opens atomic.Int64
}

// NewArtifact builds a generated artifact with the given identity and
// content.
func NewArtifact(path, key, content string) *Artifact {
	return &Artifact{
		LogicalPath: path,
		ContentKey:  key,
		Content:     []byte(content),
	}
}

func (a *Artifact) Key() string     { return a.ContentKey }
func (a *Artifact) Path() string    { return a.LogicalPath }
func (a *Artifact) Generated() bool { return !a.Source }

func (a *Artifact) SizeBytes() int64 { return int64(len(a.Content)) }

func (a *Artifact) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.OpenErr != nil {
		return nil, a.OpenErr
	}
	a.opens.Add(1)
	return io.NopCloser(bytes.NewReader(a.Content)), nil
}

// Opens reports how many times the artifact's bytes were opened. Tests
// use it to assert that unchanged artifacts are not re-copied.
func (a *Artifact) Opens() int {
	return int(a.opens.Load())
}
