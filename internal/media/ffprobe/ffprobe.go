package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Duration string `json:"duration"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-loglevel", "error",
		"-show_entries", "stream=codec_name,codec_type:format=duration",
		"-print_format", "json",
		"--", path)
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, detail)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// VideoCodecs returns the codec names of all video streams in order.
func (r Result) VideoCodecs() []string {
	return r.codecsOfType("video")
}

// AudioCodecs returns the codec names of all audio streams in order.
func (r Result) AudioCodecs() []string {
	return r.codecsOfType("audio")
}

func (r Result) codecsOfType(codecType string) []string {
	var codecs []string
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			codecs = append(codecs, stream.CodecName)
		}
	}
	return codecs
}

// DurationSeconds returns the container duration in seconds, or NaN when
// absent or unparseable.
func (r Result) DurationSeconds() float64 {
	cleaned := strings.TrimSpace(r.Format.Duration)
	if cleaned == "" {
		return math.NaN()
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}
