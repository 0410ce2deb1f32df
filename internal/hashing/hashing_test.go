package hashing

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
)

func TestSumMatchesDirectDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mkv")
	content := bytes.Repeat([]byte("frame data "), 4096)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHasher()
	got, err := h.Sum(path)
	if err != nil {
		t.Fatalf("Sum returned error: %v", err)
	}

	want := sha256.Sum256(content)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("digest mismatch: got %x, want %x", got, want)
	}
}

func TestSumMemoizesPerPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mkv")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHasher()
	first, err := h.Sum(path)
	if err != nil {
		t.Fatal(err)
	}

	// Rewriting the file must not change the memoized digest within one run.
	if err := os.WriteFile(path, []byte("mutated"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := h.Sum(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected memoized digest for repeated path")
	}

	// A fresh hasher sees the new bytes.
	fresh, err := NewHasher().Sum(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, fresh) {
		t.Fatal("expected fresh hasher to re-read file")
	}
}

func TestSumPropagatesIOErrors(t *testing.T) {
	h := NewHasher()
	if _, err := h.Sum(filepath.Join(t.TempDir(), "missing.mkv")); err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestSumIdenticalContentDifferentPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mkv")
	b := filepath.Join(dir, "renamed copy.mkv")
	content := []byte("same bytes either way")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, content, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	h := NewHasher()
	da, err := h.Sum(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := h.Sum(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Fatal("identical content must hash identically regardless of path")
	}
}
