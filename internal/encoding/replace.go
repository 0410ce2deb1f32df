package encoding

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reenc/internal/logging"
	"reenc/internal/placement"
	"reenc/internal/services"
	"reenc/internal/staging"
)

// ReplaceOptions extends Options with the in-place replacement knobs.
type ReplaceOptions struct {
	Options
	// NoBackup removes the input outright instead of renaming it to a
	// backup-marked sibling.
	NoBackup bool
}

// Replace reencodes inputPath and swaps the result into its place. The
// replacement always lands with an .mp4 extension, so a non-mp4 input leaves
// a sibling file and the original becomes a backup (or is removed).
//
// When the input needs no work it is left untouched and OutcomeNoAction is
// returned.
func (o *Orchestrator) Replace(ctx context.Context, inputPath string, opts ReplaceOptions) (Result, error) {
	dest := inputPath
	if !strings.HasSuffix(strings.ToLower(inputPath), ".mp4") {
		dest = AsMP4(inputPath)
	}
	if dest != inputPath {
		if _, err := os.Lstat(dest); err == nil {
			return Result{}, services.Wrap(
				services.ErrPrecondition,
				"encoding",
				"check replace target",
				fmt.Sprintf("replacing %q would overwrite a different file %q", inputPath, dest),
				nil,
			)
		}
	}

	scratch, err := staging.NewScratchDir(o.cfg.Paths.StagingDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrStorage, "encoding", "create scratch dir", "unable to create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	encodeOpts := opts.Options
	encodeOpts.SuppressCopy = true
	res, err := o.Encode(ctx, inputPath, filepath.Join(scratch, filepath.Base(inputPath)), encodeOpts)
	if err != nil || res.Outcome != OutcomeCommitted {
		return res, err
	}

	if err := o.retireInput(inputPath, opts.NoBackup); err != nil {
		return Result{}, err
	}
	if err := placement.Place(res.OutputPath, dest, o.logger); err != nil {
		return Result{}, err
	}
	o.logger.Info("replaced input", logging.String(logging.FieldInput, inputPath), logging.String(logging.FieldOutput, dest))
	return Result{Outcome: OutcomeCommitted, OutputPath: dest}, nil
}

// ReplaceWithLink retires the input and leaves a relative symlink pointing at
// an already committed output. Used by the encode command's link-back mode.
func (o *Orchestrator) ReplaceWithLink(inputPath, outputPath string, noBackup bool) error {
	if err := o.retireInput(inputPath, noBackup); err != nil {
		return err
	}
	if err := placement.ReplaceWithSymlink(inputPath, outputPath); err != nil {
		return services.Wrap(services.ErrStorage, "encoding", "replace link", "unable to create symlink", err)
	}
	o.logger.Info("linked input to output", logging.String(logging.FieldInput, inputPath), logging.String(logging.FieldOutput, outputPath))
	return nil
}

func (o *Orchestrator) retireInput(inputPath string, noBackup bool) error {
	if noBackup {
		if err := os.Remove(inputPath); err != nil {
			return services.Wrap(services.ErrStorage, "encoding", "remove input", "unable to remove input", err)
		}
		return nil
	}
	backupPath, err := placement.Backup(inputPath)
	if err != nil {
		return services.Wrap(services.ErrStorage, "encoding", "back up input", "unable to back up input", err)
	}
	o.logger.Info("backed up input", logging.String(logging.FieldInput, inputPath), logging.String("backup", backupPath))
	return nil
}
