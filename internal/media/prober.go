package media

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sync"

	"reenc/internal/logging"
	"reenc/internal/media/ffprobe"
	"reenc/internal/services"
)

// Info describes the probed properties reenc cares about. Immutable once
// probed within a run.
type Info struct {
	VideoCodec      string
	AudioCodec      string // empty when the input has no audio stream
	DurationSeconds float64
}

// HasAudio reports whether the input carries an audio stream.
func (i Info) HasAudio() bool {
	return i.AudioCodec != ""
}

type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Prober memoizes validated probe results per path. One Prober belongs to
// one invocation; the cache is never shared across runs.
type Prober struct {
	binary  string
	logger  *slog.Logger
	inspect inspectFunc

	mu      sync.Mutex
	results map[string]Info
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithInspect overrides the ffprobe invocation, used by tests.
func WithInspect(fn inspectFunc) ProberOption {
	return func(p *Prober) {
		if fn != nil {
			p.inspect = fn
		}
	}
}

// NewProber constructs a Prober shelling out to the given ffprobe binary.
func NewProber(binary string, logger *slog.Logger, opts ...ProberOption) *Prober {
	p := &Prober{
		binary:  binary,
		logger:  logging.NewComponentLogger(logger, "probe"),
		inspect: ffprobe.Inspect,
		results: make(map[string]Info),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe inspects path, validating that it carries exactly one video stream,
// at most one audio stream, and a parseable container duration. Repeated
// calls for the same path return the memoized result without re-invoking
// ffprobe.
func (p *Prober) Probe(ctx context.Context, path string) (Info, error) {
	key := filepath.Clean(path)

	p.mu.Lock()
	cached, ok := p.results[key]
	p.mu.Unlock()
	if ok {
		return cached, nil
	}

	result, err := p.inspect(ctx, p.binary, key)
	if err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "probe", "inspect", key, err)
	}

	info, err := validate(result)
	if err != nil {
		return Info{}, err
	}

	p.logger.Debug("probed input",
		logging.String(logging.FieldInput, key),
		logging.String("video_codec", info.VideoCodec),
		logging.String("audio_codec", info.AudioCodec),
		logging.Float64("duration_seconds", info.DurationSeconds))

	p.mu.Lock()
	p.results[key] = info
	p.mu.Unlock()

	return info, nil
}

// IsVideo reports whether path probes as a processable video file.
func (p *Prober) IsVideo(ctx context.Context, path string) bool {
	_, err := p.Probe(ctx, path)
	return err == nil
}

func validate(result ffprobe.Result) (Info, error) {
	videoCodecs := result.VideoCodecs()
	audioCodecs := result.AudioCodecs()

	if len(videoCodecs) != 1 {
		return Info{}, services.Wrap(services.ErrValidation, "probe", "streams",
			fmt.Sprintf("expected exactly 1 video stream, found %d", len(videoCodecs)), nil)
	}
	if len(audioCodecs) > 1 {
		return Info{}, services.Wrap(services.ErrValidation, "probe", "streams",
			fmt.Sprintf("more than 1 audio stream (%d)", len(audioCodecs)), nil)
	}

	duration := result.DurationSeconds()
	if math.IsNaN(duration) {
		return Info{}, services.Wrap(services.ErrValidation, "probe", "format", "missing container duration", nil)
	}

	info := Info{
		VideoCodec:      videoCodecs[0],
		DurationSeconds: duration,
	}
	if len(audioCodecs) == 1 {
		info.AudioCodec = audioCodecs[0]
	}
	return info, nil
}
