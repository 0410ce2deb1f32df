package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad or missing probe data (wrong stream counts,
	// malformed metadata).
	ErrValidation = errors.New("validation error")
	// ErrPrecondition marks filesystem preconditions that were not met
	// (destination exists, input is a symlink or not a regular file).
	ErrPrecondition = errors.New("precondition error")
	// ErrSizeRegression marks an encode whose output did not shrink the input.
	ErrSizeRegression = errors.New("size regression")
	// ErrExternalTool marks a non-zero exit from ffmpeg or ffprobe.
	ErrExternalTool = errors.New("external tool error")
	// ErrStorage marks ledger open/read/write failures.
	ErrStorage = errors.New("storage error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a classified error to the process exit code the CLI should
// return. All failures are terminal for the current file; the codes only
// distinguish the failure category for batch drivers.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation):
		return 2
	case errors.Is(err, ErrPrecondition):
		return 3
	case errors.Is(err, ErrSizeRegression):
		return 4
	case errors.Is(err, ErrStorage):
		return 5
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
