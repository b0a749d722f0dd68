// Package id generates identifiers for stored entities and photo files.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes.
const (
	PrefixPlace  = "place"
	PrefixOrder  = "order"
	PrefixTag    = "tag"
	PrefixToken  = "token"
	PrefixDevice = "device"
)

// photoExt is the extension every stored photo gets, regardless of source format.
const photoExt = ".jpg"

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "place-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// PhotoFilename returns a fresh "<uuid>.jpg" name for a stored order photo.
func PhotoFilename() string {
	return uuid.New().String() + photoExt
}

// IsPhotoFilename reports whether name looks like a value produced by PhotoFilename.
// Used to reject path traversal in photo lookups.
func IsPhotoFilename(name string) bool {
	if len(name) <= len(photoExt) || name[len(name)-len(photoExt):] != photoExt {
		return false
	}
	_, err := uuid.Parse(name[:len(name)-len(photoExt)])
	return err == nil
}
