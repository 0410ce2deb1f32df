package placement

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"reenc/internal/fileutil"
	"reenc/internal/logging"
	"reenc/internal/services"
)

// Place commits src to dst. It refuses to overwrite: an existing dst is a
// precondition failure and leaves both files unmodified. When src and dst
// live on the same volume the destination becomes a hard link to the
// source bytes; otherwise a hash-verified, metadata-preserving copy is
// performed.
//
// Volume equality is tested with a disposable probe file created at dst
// immediately before the real operation. Something can still change
// between the check and the act; that window is a documented limitation,
// not a defect to close here.
func Place(src, dst string, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "place")

	if _, err := os.Lstat(dst); err == nil {
		return services.Wrap(services.ErrPrecondition, "place", "",
			fmt.Sprintf("refusing to overwrite %q with %q", dst, src), nil)
	} else if !os.IsNotExist(err) {
		return services.Wrap(services.ErrPrecondition, "place", "stat destination", dst, err)
	}

	canLink, err := sameVolume(src, dst)
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "place", "volume probe", dst, err)
	}

	if canLink {
		logger.Info("hardlinking",
			logging.String("src", src),
			logging.String("dst", dst))
		if err := os.Link(src, dst); err != nil {
			return services.Wrap(services.ErrPrecondition, "place", "link", "", err)
		}
		return nil
	}

	logger.Info("copying",
		logging.String("src", src),
		logging.String("dst", dst))
	if err := fileutil.CopyFilePreserving(src, dst); err != nil {
		return services.Wrap(services.ErrPrecondition, "place", "copy", "", err)
	}
	return nil
}

// sameVolume reports whether src and dst would reside on the same device.
// It touches a probe file at dst to learn the destination's device id, then
// removes it.
func sameVolume(src, dst string) (bool, error) {
	probe, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("touch probe: %w", err)
	}
	if err := probe.Close(); err != nil {
		_ = os.Remove(dst)
		return false, err
	}
	defer os.Remove(dst)

	var srcStat, dstStat unix.Stat_t
	if err := unix.Stat(src, &srcStat); err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}
	if err := unix.Stat(dst, &dstStat); err != nil {
		return false, fmt.Errorf("stat %s: %w", dst, err)
	}
	return srcStat.Dev == dstStat.Dev, nil
}

// ReplaceWithSymlink creates a relative symlink at linkPath pointing to
// target. The caller must have moved or removed the original file at
// linkPath first.
func ReplaceWithSymlink(linkPath, target string) error {
	rel, err := filepath.Rel(filepath.Dir(linkPath), target)
	if err != nil {
		return fmt.Errorf("relative target: %w", err)
	}
	return os.Symlink(rel, linkPath)
}
