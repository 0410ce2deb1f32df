// Package staging manages the scratch directories that hold in-progress
// encoder output until it is committed to a final destination.
package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reenc/internal/logging"
)

const cleanupLockName = ".cleanup.lock"

// NewScratchDir creates a uniquely named scratch directory under
// stagingDir. The caller removes it when the invocation ends; anything
// left behind is reclaimed later by CleanStale.
func NewScratchDir(stagingDir string) (string, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", err
	}
	scratch := filepath.Join(stagingDir, uuid.NewString())
	if err := os.Mkdir(scratch, 0o755); err != nil {
		return "", err
	}
	return scratch, nil
}

// CleanStaleResult contains the outcome of a stale directory cleanup.
type CleanStaleResult struct {
	Removed []string
	Skipped bool
}

// CleanStale removes scratch directories older than maxAge. A non-blocking
// file lock serializes cleanup across concurrent invocations sharing one
// staging directory; when another process holds the lock the sweep is
// skipped rather than risking a race on its live scratch dirs.
func CleanStale(ctx context.Context, stagingDir string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	logger = logging.NewComponentLogger(logger, "staging")
	result := CleanStaleResult{}

	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return result
	}

	lock := flock.New(filepath.Join(stagingDir, cleanupLockName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		result.Skipped = true
		return result
	}
	defer lock.Unlock() //nolint:errcheck

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dirPath := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(dirPath); err != nil {
				logger.Warn("failed to remove stale scratch directory",
					logging.String("path", dirPath),
					logging.Error(err))
				continue
			}
			result.Removed = append(result.Removed, dirPath)
			logger.Info("removed stale scratch directory",
				logging.String("path", dirPath),
				logging.Duration("age", time.Since(info.ModTime())))
		}
	}

	return result
}
