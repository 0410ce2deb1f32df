// Package ffmpeg wraps the ffmpeg command-line encoder behind a small
// interface so the orchestrator can be exercised without the binary.
package ffmpeg
