package encoding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reenc/internal/logging"
	"reenc/internal/services"
)

// benchmarkSampleSeconds is the length of the mid-file sample each benchmark
// pass encodes. Inputs shorter than this are encoded whole.
const benchmarkSampleSeconds = 60

// BenchmarkPoint is one crf/preset combination measured by Benchmark.
type BenchmarkPoint struct {
	CRF    int
	Preset string
}

// BenchmarkMatrix lists the combinations Benchmark measures, fastest settings
// last so the report ends with the repository defaults.
var BenchmarkMatrix = []BenchmarkPoint{
	{CRF: 28, Preset: "medium"},
	{CRF: 28, Preset: "fast"},
	{CRF: 25, Preset: "fast"},
	{CRF: 23, Preset: "fast"},
}

// BenchmarkReport holds one line per measured combination plus the report
// file location.
type BenchmarkReport struct {
	Lines      []string
	ReportPath string
}

// Benchmark encodes a sample of inputPath once per BenchmarkMatrix entry into
// outDir and writes a tab-separated report comparing elapsed time and output
// size against a stream-copied sample.
func (o *Orchestrator) Benchmark(ctx context.Context, inputPath, outDir string) (BenchmarkReport, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BenchmarkReport{}, services.Wrap(services.ErrStorage, "encoding", "create benchmark dir", "unable to create output directory", err)
	}

	info, err := o.prober.Probe(ctx, inputPath)
	if err != nil {
		return BenchmarkReport{}, err
	}

	var sampleArgs []string
	if info.DurationSeconds > benchmarkSampleSeconds {
		skip := int((info.DurationSeconds - benchmarkSampleSeconds) / 2)
		sampleArgs = []string{"-t", strconv.Itoa(benchmarkSampleSeconds), "-ss", strconv.Itoa(skip)}
	}

	samplePath := filepath.Join(outDir, "sample.mp4")
	args := append(append([]string{}, sampleArgs...),
		"-i", inputPath,
		"-c:a", "copy",
		"-c:v", "copy",
		samplePath,
	)
	if err := o.runner.Run(ctx, args); err != nil {
		return BenchmarkReport{}, services.Wrap(services.ErrExternalTool, "encoding", "cut sample", "encoder failed", err)
	}

	report := BenchmarkReport{ReportPath: filepath.Join(outDir, "report")}
	for _, point := range BenchmarkMatrix {
		outPath := filepath.Join(outDir, fmt.Sprintf("%s-%d.mp4", point.Preset, point.CRF))
		start := time.Now()
		res, err := o.Encode(ctx, inputPath, outPath, Options{
			CRF:       point.CRF,
			Preset:    point.Preset,
			Force:     true,
			ExtraArgs: sampleArgs,
		})
		if err != nil {
			return BenchmarkReport{}, err
		}
		elapsed := int(time.Since(start).Round(time.Second).Seconds())
		percent, err := SizePercent(res.OutputPath, samplePath)
		if err != nil {
			return BenchmarkReport{}, services.Wrap(services.ErrStorage, "encoding", "measure benchmark output", "unable to compare file sizes", err)
		}
		line := fmt.Sprintf("%s\t%ds\t%.1f%%", res.OutputPath, elapsed, percent)
		o.logger.Info(line, logging.String("preset", point.Preset), logging.Int("crf", point.CRF))
		report.Lines = append(report.Lines, line)
	}

	body := strings.Join(report.Lines, "\n") + "\n"
	if err := os.WriteFile(report.ReportPath, []byte(body), 0o644); err != nil {
		return BenchmarkReport{}, services.Wrap(services.ErrStorage, "encoding", "write benchmark report", "unable to write report", err)
	}
	return report, nil
}
