// Package id generates compact unique identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// New returns a prefixed NanoID, e.g. "search-V1StGXR8_Z5jdHi6BmyT1".
// NanoIDs are URL-safe and shorter than UUIDs at comparable entropy.
// Fails only when the system cannot supply secure randomness.
func New(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustNew is New, panicking on failure. Suitable where missing entropy
// should crash the process rather than limp along.
func MustNew(prefix string) string {
	id, err := New(prefix)
	if err != nil {
		panic(fmt.Sprintf("id generation failed: %v", err))
	}
	return id
}
