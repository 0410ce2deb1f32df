package placement

import (
	"strings"
)

// skipSuffixes lists name endings that provably never need transcoding.
// Matching is plain suffix matching, not extension parsing, so entries
// like "readme" and "typed" also catch extensionless names. The filter is
// advisory: a video file hiding behind an odd name is still rejected
// downstream by probing.
var skipSuffixes = []string{
	"jpg", "png", "jpeg", "posts", "yml", "info", "sh", "pdf", "swf",
	"xml", "mp3", "css", "url", "txt", "html", "exe", "py", "dv", "heic",
	"db", "zip", "psd", "pyc", "pem", "jpe", "typed", "readme", "md",
	"rar",
}

// ShouldSkip reports whether path should be excluded from processing:
// backups from the replace workflow and names ending in a known non-video
// suffix.
func ShouldSkip(path string) bool {
	if IsBackup(path) {
		return true
	}
	lower := strings.ToLower(path)
	for _, suffix := range skipSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
