package outputcache

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// generation is the built-in immutable Generation implementation.
type generation struct {
	byPath map[string]Artifact
	order  []Artifact
}

// NewGeneration builds a Generation snapshot over the given artifacts.
// When two artifacts share a logical path, the later one wins.
func NewGeneration(artifacts ...Artifact) Generation {
	g := &generation{
		byPath: make(map[string]Artifact, len(artifacts)),
		order:  make([]Artifact, 0, len(artifacts)),
	}
	for _, a := range artifacts {
		if _, dup := g.byPath[a.Path()]; !dup {
			g.order = append(g.order, a)
		}
		g.byPath[a.Path()] = a
	}
	return g
}

func (g *generation) Find(path string) (Artifact, bool) {
	a, ok := g.byPath[path]
	return a, ok
}

func (g *generation) All() iter.Seq[Artifact] {
	return func(yield func(Artifact) bool) {
		for _, a := range g.order {
			if !yield(g.byPath[a.Path()]) {
				return
			}
		}
	}
}

// Snapshot resolves the given logical paths against a store and returns
// the resulting Generation. Paths the store reports as not found are
// skipped; any other resolution error aborts the snapshot.
func Snapshot(ctx context.Context, store Store, paths []string) (Generation, error) {
	artifacts := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		a, err := store.FindOutput(ctx, p)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", p, err)
		}
		artifacts = append(artifacts, a)
	}
	return NewGeneration(artifacts...), nil
}
