package ocistore

import "errors"

// Sentinel errors for OCI store operations.
var (
	// ErrInvalidReference is returned when a reference string is malformed
	// or missing a tag or digest.
	ErrInvalidReference = errors.New("ocistore: invalid reference")

	// ErrInvalidManifest is returned when the resolved manifest cannot be
	// parsed as an OCI image manifest.
	ErrInvalidManifest = errors.New("ocistore: invalid manifest")
)
