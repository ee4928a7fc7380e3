package ocistore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"
)

// config holds options applied before the default client is built.
type config struct {
	client    Client
	plainHTTP bool
	username  string
	password  string
}

// Option configures a Store.
type Option func(*config)

// WithClient sets the OCI client used for registry operations. By
// default an ORAS-based client is created.
func WithClient(client Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithPlainHTTP uses plain HTTP instead of HTTPS, for local registries.
func WithPlainHTTP(plainHTTP bool) Option {
	return func(c *config) {
		c.plainHTTP = plainHTTP
	}
}

// WithCredential sets a static username/password credential for the
// registry host. Anonymous access is the default.
func WithCredential(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

func parseRef(ref string) (registry.Reference, error) {
	parsed, err := registry.ParseReference(ref)
	if err != nil {
		return registry.Reference{}, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if parsed.Reference == "" {
		return registry.Reference{}, fmt.Errorf("%w: reference must include a tag or digest", ErrInvalidReference)
	}
	return parsed, nil
}

// orasClient is the default Client, backed by an ORAS remote repository
// with a shared auth client so tokens are reused across requests.
type orasClient struct {
	repo *remote.Repository
}

func newORASClient(parsed registry.Reference, cfg *config) (*orasClient, error) {
	repo, err := remote.NewRepository(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	repo.PlainHTTP = cfg.plainHTTP

	authClient := &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
	}
	if cfg.username != "" {
		authClient.Credential = auth.StaticCredential(parsed.Registry, auth.Credential{
			Username: cfg.username,
			Password: cfg.password,
		})
	}
	repo.Client = authClient

	return &orasClient{repo: repo}, nil
}

func (c *orasClient) Resolve(ctx context.Context, reference string) (ocispec.Descriptor, error) {
	return c.repo.Resolve(ctx, reference)
}

func (c *orasClient) FetchManifest(ctx context.Context, desc ocispec.Descriptor) (*ocispec.Manifest, error) {
	raw, err := content.FetchAll(ctx, c.repo.Manifests(), desc)
	if err != nil {
		return nil, err
	}
	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &manifest, nil
}

func (c *orasClient) FetchBlob(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error) {
	return c.repo.Blobs().Fetch(ctx, desc)
}
