// Package backup writes and restores portable archives of places, orders,
// tags and their photos.
package backup

import "errors"

var (
	// ErrInvalidArchive indicates the input is not a readable zip archive.
	ErrInvalidArchive = errors.New("not a backup archive")

	// ErrInvalidManifest indicates the manifest is missing or malformed.
	ErrInvalidManifest = errors.New("invalid or missing manifest")

	// ErrVersionMismatch indicates the archive version is not supported.
	ErrVersionMismatch = errors.New("backup version not supported")

	// ErrInvalidMode indicates an unknown restore mode.
	ErrInvalidMode = errors.New("unknown restore mode")
)
