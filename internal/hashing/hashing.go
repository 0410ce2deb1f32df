// Package hashing computes content digests that identify files by bytes
// alone, independent of path or metadata.
package hashing

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const chunkSize = 1 << 20 // 1 MiB read buffer bounds memory for any file size

// Hasher computes SHA-256 digests of file contents, memoized per path for
// its lifetime. Callers own one Hasher per invocation so memoization never
// outlives a run.
type Hasher struct {
	mu      sync.Mutex
	digests map[string][]byte
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{digests: make(map[string][]byte)}
}

// Sum returns the content digest for path, reading the file only on the
// first call for that path. I/O errors are propagated and not cached.
func (h *Hasher) Sum(path string) ([]byte, error) {
	key := filepath.Clean(path)

	h.mu.Lock()
	cached, ok := h.digests[key]
	h.mu.Unlock()
	if ok {
		return append([]byte(nil), cached...), nil
	}

	digest, err := sumFile(key)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.digests[key] = digest
	h.mu.Unlock()

	return append([]byte(nil), digest...), nil
}

func sumFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(hasher, file, buf); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return hasher.Sum(nil), nil
}
