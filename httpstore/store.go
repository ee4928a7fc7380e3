// Package httpstore resolves remote build outputs served over HTTP.
//
// Logical paths are mapped to URLs under a base URL. Artifact version
// identity comes from the ETag (or Last-Modified) header, so an output
// republished with new bytes is seen as a new version.
package httpstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/meigma/outputcache"
)

// Interface compliance.
var (
	_ outputcache.Store    = (*Store)(nil)
	_ outputcache.Artifact = (*artifact)(nil)
)

// Store resolves logical paths against an HTTP endpoint. It implements
// outputcache.Store.
type Store struct {
	baseURL string
	client  *nethttp.Client
	headers nethttp.Header
}

// Option configures a Store.
type Option func(*Store)

// WithClient sets the HTTP client used for requests.
func WithClient(client *nethttp.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithHeaders sets additional headers on each request.
func WithHeaders(headers nethttp.Header) Option {
	return func(s *Store) {
		if headers == nil {
			return
		}
		s.headers = headers.Clone()
	}
}

// WithHeader sets a single header on each request.
func WithHeader(key, value string) Option {
	return func(s *Store) {
		if s.headers == nil {
			s.headers = make(nethttp.Header)
		}
		s.headers.Set(key, value)
	}
}

// New creates a Store serving outputs from URLs under baseURL.
func New(baseURL string, opts ...Option) (*Store, error) {
	if baseURL == "" {
		return nil, errors.New("httpstore: base URL is empty")
	}
	s := &Store{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  nethttp.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = nethttp.DefaultClient
	}
	return s, nil
}

// FindOutput probes the URL for the given logical path and returns the
// artifact backed by it. A 404 response maps to outputcache.ErrNotFound.
func (s *Store) FindOutput(ctx context.Context, path string) (outputcache.Artifact, error) {
	url := s.urlFor(path)
	req, err := s.newRequest(ctx, nethttp.MethodHead, url)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpstore: probe %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == nethttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", outputcache.ErrNotFound, path)
	case resp.StatusCode != nethttp.StatusOK:
		return nil, fmt.Errorf("httpstore: probe %s: %s", path, resp.Status)
	}

	version := strings.Trim(resp.Header.Get("ETag"), `"`)
	if version == "" {
		version = resp.Header.Get("Last-Modified")
	}
	if version == "" {
		return nil, fmt.Errorf("httpstore: %s: no ETag or Last-Modified to derive a version key", path)
	}

	return &artifact{
		store: s,
		path:  path,
		url:   url,
		key:   path + "@" + version,
		size:  resp.ContentLength,
	}, nil
}

func (s *Store) urlFor(path string) string {
	return s.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func (s *Store) newRequest(ctx context.Context, method, url string) (*nethttp.Request, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpstore: %w", err)
	}
	for key, values := range s.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return req, nil
}

// artifact is one HTTP-backed remote output.
type artifact struct {
	store *Store
	path  string
	url   string
	key   string
	size  int64
}

func (a *artifact) Key() string      { return a.key }
func (a *artifact) Path() string     { return a.path }
func (a *artifact) Generated() bool  { return true }
func (a *artifact) SizeBytes() int64 { return a.size }

// Open issues a GET for the artifact's bytes. The caller closes the
// returned reader.
func (a *artifact) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := a.store.newRequest(ctx, nethttp.MethodGet, a.url)
	if err != nil {
		return nil, err
	}
	resp, err := a.store.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpstore: fetch %s: %w", a.path, err)
	}
	if resp.StatusCode != nethttp.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("httpstore: fetch %s: %s", a.path, resp.Status)
	}
	return resp.Body, nil
}
