package placement

import (
	"os"
	"path/filepath"
	"strings"
)

// BackupMarker prefixes originals preserved by the replace-in-place
// workflow. Files carrying it are never processed again.
const BackupMarker = "REENC_BACKUP-"

// Backup renames path to its backup name in the same directory and returns
// the new path.
func Backup(path string) (string, error) {
	backupPath := filepath.Join(filepath.Dir(path), BackupMarker+filepath.Base(path))
	if err := os.Rename(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

// IsBackup reports whether path was produced by Backup.
func IsBackup(path string) bool {
	return strings.Contains(filepath.Base(path), strings.TrimSuffix(BackupMarker, "-"))
}
