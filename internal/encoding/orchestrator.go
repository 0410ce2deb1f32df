package encoding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"log/slog"

	"github.com/dustin/go-humanize"

	"reenc/internal/config"
	"reenc/internal/ledger"
	"reenc/internal/logging"
	"reenc/internal/media"
	"reenc/internal/placement"
	"reenc/internal/services"
	"reenc/internal/services/ffmpeg"
	"reenc/internal/staging"
)

// Prober inspects a media file and reports its streams.
type Prober interface {
	Probe(ctx context.Context, path string) (media.Info, error)
}

// Ledger records encodes whose output grew past the input size.
type Ledger interface {
	Lookup(ctx context.Context, path string, crf int, preset string) (int64, bool, error)
	Record(ctx context.Context, path string, crf int, preset string, outputBytes int64) error
}

// Outcome describes how an encode invocation concluded.
type Outcome string

const (
	// OutcomeCommitted means a file was written at the output path.
	OutcomeCommitted Outcome = "committed"
	// OutcomeNoAction means the input needed no work and copying was suppressed.
	OutcomeNoAction Outcome = "no-action"
)

// Options carries the per-invocation encode knobs.
type Options struct {
	CRF    int
	Preset string
	// Force reencodes even when the input already matches the target codecs,
	// and bypasses the ledger and size-regression checks.
	Force bool
	// SuppressCopy turns the pass-through cases (already target, ledger hit)
	// into OutcomeNoAction instead of copying the input to the output path.
	SuppressCopy bool
	// ExtraArgs are inserted before the input arguments on the ffmpeg command.
	ExtraArgs []string
}

// Result reports what an encode produced.
type Result struct {
	Outcome Outcome
	// OutputPath is the committed file. Empty for OutcomeNoAction. It can
	// differ from the requested path because outputs are always mp4.
	OutputPath string
}

// Orchestrator drives probes, ffmpeg runs, ledger checks, and placement for
// a single encode invocation.
type Orchestrator struct {
	cfg    *config.Config
	runner ffmpeg.Runner
	prober Prober
	ledger Ledger
	logger *slog.Logger
}

// New assembles an orchestrator from its collaborators.
func New(cfg *config.Config, runner ffmpeg.Runner, prober Prober, ledger Ledger, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:    cfg,
		runner: runner,
		prober: prober,
		ledger: ledger,
		logger: logging.NewComponentLogger(logger, "encoding"),
	}
}

// AsMP4 returns path with its extension replaced by .mp4.
func AsMP4(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dir, base+".mp4")
}

// SizePercent returns the size of outPath as a percentage of inPath, rounded
// to one decimal place.
func SizePercent(outPath, inPath string) (float64, error) {
	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output: %w", err)
	}
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return 0, fmt.Errorf("stat input: %w", err)
	}
	return roundPercent(outInfo.Size(), inInfo.Size()), nil
}

func roundPercent(out, in int64) float64 {
	pct := 100 * float64(out) / float64(in)
	return float64(int64(pct*10+0.5)) / 10
}

func (o *Orchestrator) validateOptions(opts Options) error {
	if opts.CRF < 0 || opts.CRF > 51 {
		return services.Wrap(
			services.ErrValidation,
			"encoding",
			"validate options",
			fmt.Sprintf("crf must be between 0 and 51, got %d", opts.CRF),
			nil,
		)
	}
	if !config.IsPreset(opts.Preset) {
		return services.Wrap(
			services.ErrValidation,
			"encoding",
			"validate options",
			fmt.Sprintf("unknown preset %q", opts.Preset),
			nil,
		)
	}
	return nil
}

func (o *Orchestrator) checkInput(inputPath, outputPath string) error {
	info, err := os.Lstat(inputPath)
	if err != nil {
		return services.Wrap(services.ErrPrecondition, "encoding", "check input", "input is not readable", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return services.Wrap(services.ErrPrecondition, "encoding", "check input", "refusing symlink input", nil)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrPrecondition, "encoding", "check input", "input is not a regular file", nil)
	}
	if _, err := os.Lstat(outputPath); err == nil {
		return services.Wrap(services.ErrPrecondition, "encoding", "check output", fmt.Sprintf("output %q already exists", outputPath), nil)
	}
	return nil
}

type plan struct {
	videoEncoder string
	audioEncoder string
}

func (p plan) passthrough() bool {
	return p.videoEncoder == "copy" && p.audioEncoder == "copy"
}

func (o *Orchestrator) plan(info media.Info) plan {
	p := plan{videoEncoder: o.cfg.Encoder.VideoEncoder, audioEncoder: o.cfg.Encoder.AudioEncoder}
	if strings.EqualFold(info.VideoCodec, o.cfg.Encoder.TargetVideoCodec) {
		p.videoEncoder = "copy"
	}
	if !info.HasAudio() || strings.EqualFold(info.AudioCodec, o.cfg.Encoder.TargetAudioCodec) {
		p.audioEncoder = "copy"
	}
	return p
}

// Encode transcodes inputPath to outputPath according to opts. The output
// extension is forced to .mp4, so the committed path may differ from the
// requested one.
func (o *Orchestrator) Encode(ctx context.Context, inputPath, outputPath string, opts Options) (Result, error) {
	if err := o.validateOptions(opts); err != nil {
		return Result{}, err
	}
	if !strings.EqualFold(filepath.Ext(outputPath), ".mp4") {
		o.logger.Warn("output will be converted to mp4", logging.String(logging.FieldOutput, outputPath))
		outputPath = AsMP4(outputPath)
	}
	o.logger.Info("starting encode",
		logging.String(logging.FieldInput, inputPath),
		logging.String(logging.FieldOutput, outputPath),
		logging.Int("crf", opts.CRF),
		logging.String("preset", opts.Preset),
	)
	if err := o.checkInput(inputPath, outputPath); err != nil {
		return Result{}, err
	}

	info, err := o.prober.Probe(ctx, inputPath)
	if err != nil {
		return Result{}, err
	}
	p := o.plan(info)

	if !opts.Force && p.passthrough() {
		o.logger.Warn("input already matches target codecs",
			logging.String("video_codec", info.VideoCodec),
			logging.String("audio_codec", info.AudioCodec),
		)
		return o.passThrough(inputPath, outputPath, opts)
	}

	scratch, err := staging.NewScratchDir(o.cfg.Paths.StagingDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrStorage, "encoding", "create scratch dir", "unable to create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	if !opts.Force {
		prevBytes, hit, err := o.ledger.Lookup(ctx, inputPath, opts.CRF, opts.Preset)
		if err != nil {
			return Result{}, err
		}
		if hit {
			o.logger.Warn("input is in the bad-encode ledger",
				logging.String("input_size", humanSizeOf(inputPath)),
				logging.String("recorded_output_size", humanize.IBytes(uint64(prevBytes))),
			)
			return o.passThrough(inputPath, outputPath, opts)
		}
	}

	tempOut := filepath.Join(scratch, filepath.Base(outputPath))
	args := append(append([]string{}, opts.ExtraArgs...),
		"-i", inputPath,
		"-c:a", p.audioEncoder,
		"-c:v", p.videoEncoder,
		"-crf", strconv.Itoa(opts.CRF),
		"-preset", opts.Preset,
		tempOut,
	)
	if err := o.runner.Run(ctx, args); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "encoding", "run encoder", "encoder failed", err)
	}

	percent, err := SizePercent(tempOut, inputPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrStorage, "encoding", "measure output", "unable to compare file sizes", err)
	}
	o.logger.Info(fmt.Sprintf("output is %.1f%% of the original size", percent),
		logging.String("input_size", humanSizeOf(inputPath)),
		logging.String("output_size", humanSizeOf(tempOut)),
	)

	if !opts.Force && percent >= 100 {
		outInfo, statErr := os.Stat(tempOut)
		if statErr != nil {
			return Result{}, services.Wrap(services.ErrStorage, "encoding", "measure output", "unable to stat output", statErr)
		}
		if recordErr := o.ledger.Record(ctx, inputPath, opts.CRF, opts.Preset, outInfo.Size()); recordErr != nil && !errors.Is(recordErr, ledger.ErrDuplicate) {
			return Result{}, recordErr
		}
		return Result{}, services.Wrap(
			services.ErrSizeRegression,
			"encoding",
			"check output size",
			fmt.Sprintf("output grew to %.1f%% of the input", percent),
			nil,
		)
	}

	if err := placement.Place(tempOut, outputPath, o.logger); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeCommitted, OutputPath: outputPath}, nil
}

// passThrough handles the no-work cases. Copy semantics still apply unless the
// caller suppressed them.
func (o *Orchestrator) passThrough(inputPath, outputPath string, opts Options) (Result, error) {
	if opts.SuppressCopy {
		return Result{Outcome: OutcomeNoAction}, nil
	}
	if err := placement.Place(inputPath, outputPath, o.logger); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeCommitted, OutputPath: outputPath}, nil
}

func humanSizeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return humanize.IBytes(uint64(info.Size()))
}
