// Package id generates unique identifiers for Paginoid entities.
package id

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "user-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
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
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

var (
	timeMu   sync.Mutex
	lastTime int64
)

// GenerateTimeOrdered creates a millisecond-timestamp ID.
// Book records use these as document keys: lexical key order equals
// chronological creation order, which is what the shelf renders.
// Consecutive calls within the same millisecond are bumped forward
// so IDs stay strictly monotonic within this process.
func GenerateTimeOrdered() string {
	timeMu.Lock()
	defer timeMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastTime {
		now = lastTime + 1
	}
	lastTime = now

	return strconv.FormatInt(now, 10)
}
