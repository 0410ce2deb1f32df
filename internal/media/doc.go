// Package media inspects input files through ffprobe, validates their
// stream layout, and memoizes results per path for the process lifetime.
package media
