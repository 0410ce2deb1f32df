package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestCLIRunRequiresArgs(t *testing.T) {
	cli := NewCLI()
	if err := cli.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error when args are empty")
	}
}

func TestCLIRunPrependsPrologue(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		return exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
	}
	t.Cleanup(func() {
		commandContext = original
	})

	args := []string{"-i", "in.mkv", "-c:v", "libx265", "out.mp4"}
	_ = NewCLI().Run(context.Background(), args)

	if len(capturedArgs) < 3 {
		t.Fatalf("expected captured args, got %v", capturedArgs)
	}
	for i, want := range []string{"-n", "-nostdin", "-hide_banner"} {
		if capturedArgs[i] != want {
			t.Fatalf("prologue arg %d: got %q, want %q", i, capturedArgs[i], want)
		}
	}
	if got := capturedArgs[len(capturedArgs)-1]; got != "out.mp4" {
		t.Fatalf("expected destination last, got %q", got)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}
