// Package placement commits finished outputs to their destinations
// without overwriting existing files, choosing hard links over copies when
// source and destination share a volume. It also owns the backup-marker
// naming used by the replace-in-place workflow and the advisory input
// filter that keeps backups and known non-video files out of processing.
package placement
