package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %s", results[2].Detail)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	status := CheckDirectoryAccess("Staging", dir)
	if !status.Available {
		t.Fatalf("expected writable temp dir to pass, got %#v", status)
	}

	status = CheckDirectoryAccess("Staging", filepath.Join(dir, "missing"))
	if status.Available || status.Detail != "does not exist" {
		t.Fatalf("expected missing dir to fail, got %#v", status)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	status = CheckDirectoryAccess("Staging", file)
	if status.Available || status.Detail != "is not a directory" {
		t.Fatalf("expected non-directory to fail, got %#v", status)
	}
}
