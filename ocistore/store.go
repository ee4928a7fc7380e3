// Package ocistore resolves remote build outputs stored as the layers of
// an OCI artifact.
//
// Each manifest layer carries its logical path in the standard image
// title annotation; the layer digest doubles as the artifact's version
// key, so a rebuilt output is seen as a new version without any extra
// metadata.
package ocistore

import (
	"context"
	"fmt"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/meigma/outputcache"
)

// Client is the minimal OCI surface the store needs.
//
// This interface abstracts the low-level registry operations, allowing
// different implementations (ORAS-based, mock for testing).
type Client interface {
	// Resolve resolves a tag or digest to a manifest descriptor.
	Resolve(ctx context.Context, reference string) (ocispec.Descriptor, error)

	// FetchManifest fetches and parses the manifest at the descriptor.
	FetchManifest(ctx context.Context, desc ocispec.Descriptor) (*ocispec.Manifest, error)

	// FetchBlob fetches a layer blob. The caller closes the returned
	// reader.
	FetchBlob(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error)
}

// Interface compliance.
var (
	_ outputcache.Store    = (*Store)(nil)
	_ outputcache.Artifact = (*artifact)(nil)
)

// Store resolves logical paths against one OCI artifact's layers. It
// implements outputcache.Store.
type Store struct {
	client Client
	byPath map[string]ocispec.Descriptor
	order  []string
}

// New resolves the manifest at ref (for example
// "ghcr.io/org/outputs:build-1234") and indexes its layers by logical
// path. Layers without a title annotation are ignored.
func New(ctx context.Context, ref string, opts ...Option) (*Store, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	parsed, err := parseRef(ref)
	if err != nil {
		return nil, err
	}

	client := cfg.client
	if client == nil {
		client, err = newORASClient(parsed, &cfg)
		if err != nil {
			return nil, err
		}
	}

	desc, err := client.Resolve(ctx, parsed.Reference)
	if err != nil {
		return nil, fmt.Errorf("ocistore: resolve %s: %w", ref, err)
	}
	manifest, err := client.FetchManifest(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("ocistore: fetch manifest %s: %w", ref, err)
	}

	s := &Store{
		client: client,
		byPath: make(map[string]ocispec.Descriptor, len(manifest.Layers)),
	}
	for _, layer := range manifest.Layers {
		path := layer.Annotations[ocispec.AnnotationTitle]
		if path == "" {
			continue
		}
		if _, dup := s.byPath[path]; !dup {
			s.order = append(s.order, path)
		}
		s.byPath[path] = layer
	}
	return s, nil
}

// FindOutput returns the artifact for the layer indexed at path, or an
// error wrapping outputcache.ErrNotFound if the manifest has no such
// layer.
func (s *Store) FindOutput(_ context.Context, path string) (outputcache.Artifact, error) {
	desc, ok := s.byPath[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", outputcache.ErrNotFound, path)
	}
	return &artifact{client: s.client, path: path, desc: desc}, nil
}

// Generation returns a snapshot over every indexed layer, in manifest
// order. Handy as the "all known remote artifacts" set for a sync cycle.
func (s *Store) Generation() outputcache.Generation {
	artifacts := make([]outputcache.Artifact, 0, len(s.order))
	for _, path := range s.order {
		artifacts = append(artifacts, &artifact{
			client: s.client,
			path:   path,
			desc:   s.byPath[path],
		})
	}
	return outputcache.NewGeneration(artifacts...)
}

// artifact is one layer of the resolved manifest.
type artifact struct {
	client Client
	path   string
	desc   ocispec.Descriptor
}

func (a *artifact) Key() string      { return a.desc.Digest.String() }
func (a *artifact) Path() string     { return a.path }
func (a *artifact) Generated() bool  { return true }
func (a *artifact) SizeBytes() int64 { return a.desc.Size }

func (a *artifact) Open(ctx context.Context) (io.ReadCloser, error) {
	rc, err := a.client.FetchBlob(ctx, a.desc)
	if err != nil {
		return nil, fmt.Errorf("ocistore: fetch %s: %w", a.path, err)
	}
	return rc, nil
}
