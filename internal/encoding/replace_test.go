package encoding_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reenc/internal/encoding"
	"reenc/internal/placement"
	"reenc/internal/services"
)

func TestReplaceNonMP4LeavesBackupAndSibling(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "movie.mkv")

	runner := &fakeRunner{outputSize: inputSize / 2}
	orch := testOrchestrator(t, runner, convertible(), nil)

	res, err := orch.Replace(context.Background(), input, encoding.ReplaceOptions{Options: defaultOptions()})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if res.Outcome != encoding.OutcomeCommitted {
		t.Fatalf("unexpected outcome: %v", res.Outcome)
	}
	want := filepath.Join(dir, "movie.mp4")
	if res.OutputPath != want {
		t.Fatalf("unexpected replacement path: %q", res.OutputPath)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("stat replacement: %v", err)
	}
	if _, err := os.Stat(input); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("original should be renamed away")
	}
	backup := filepath.Join(dir, placement.BackupMarker+"movie.mkv")
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("expected backup at %q: %v", backup, err)
	}
}

func TestReplaceMP4SwapsInPlace(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "movie.mp4")

	runner := &fakeRunner{outputSize: inputSize / 2}
	orch := testOrchestrator(t, runner, convertible(), nil)

	res, err := orch.Replace(context.Background(), input, encoding.ReplaceOptions{Options: defaultOptions()})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if res.OutputPath != input {
		t.Fatalf("mp4 input should be replaced in place, got %q", res.OutputPath)
	}
	info, err := os.Stat(input)
	if err != nil {
		t.Fatalf("stat replacement: %v", err)
	}
	if info.Size() != inputSize/2 {
		t.Fatalf("replacement should hold the encoded bytes, got %d", info.Size())
	}
}

func TestReplaceNoBackupRemovesInput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "movie.mkv")

	runner := &fakeRunner{outputSize: inputSize / 2}
	orch := testOrchestrator(t, runner, convertible(), nil)

	opts := encoding.ReplaceOptions{Options: defaultOptions(), NoBackup: true}
	if _, err := orch.Replace(context.Background(), input, opts); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if _, err := os.Stat(input); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("input should be removed")
	}
	backup := filepath.Join(dir, placement.BackupMarker+"movie.mkv")
	if _, err := os.Stat(backup); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no backup expected")
	}
}

func TestReplaceRefusesClobberingDifferentFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "movie.mkv")
	writeInput(t, dir, "movie.mp4")

	orch := testOrchestrator(t, &fakeRunner{}, convertible(), nil)
	_, err := orch.Replace(context.Background(), input, encoding.ReplaceOptions{Options: defaultOptions()})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if _, statErr := os.Stat(input); statErr != nil {
		t.Fatalf("input must be untouched: %v", statErr)
	}
}

func TestReplaceAlreadyTargetLeavesInput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "movie.mp4")

	runner := &fakeRunner{}
	orch := testOrchestrator(t, runner, alreadyTarget(), nil)

	res, err := orch.Replace(context.Background(), input, encoding.ReplaceOptions{Options: defaultOptions()})
	if err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if res.Outcome != encoding.OutcomeNoAction {
		t.Fatalf("unexpected outcome: %v", res.Outcome)
	}
	info, err := os.Stat(input)
	if err != nil {
		t.Fatalf("input must remain: %v", err)
	}
	if info.Size() != inputSize {
		t.Fatalf("input must be untouched, got %d bytes", info.Size())
	}
	if len(runner.calls) != 0 {
		t.Fatal("encoder must not run")
	}
}

func TestReplaceWithLinkPointsInputAtOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "movie.mkv")
	outDir := filepath.Join(dir, "converted")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	runner := &fakeRunner{outputSize: inputSize / 2}
	orch := testOrchestrator(t, runner, convertible(), nil)

	res, err := orch.Encode(context.Background(), input, filepath.Join(outDir, "movie.mp4"), defaultOptions())
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if err := orch.ReplaceWithLink(input, res.OutputPath, false); err != nil {
		t.Fatalf("ReplaceWithLink returned error: %v", err)
	}

	target, err := os.Readlink(input)
	if err != nil {
		t.Fatalf("input should be a symlink: %v", err)
	}
	if target != filepath.Join("converted", "movie.mp4") {
		t.Fatalf("expected relative link target, got %q", target)
	}
	backup := filepath.Join(dir, placement.BackupMarker+"movie.mkv")
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("expected backup: %v", err)
	}
}
