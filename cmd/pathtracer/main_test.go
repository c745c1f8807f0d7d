package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// runApp runs the CLI with args and returns what it wrote to stdout and the log
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var logs bytes.Buffer
	log.SetSink(&logs)
	t.Cleanup(func() {
		log.SetSink(os.Stderr)
		log.SetLevel(log.Notice)
	})

	var stdout bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	err := app.Run(append([]string{"pathtracer"}, args...))
	return stdout.String(), logs.String(), err
}

func TestRender_ToStdout(t *testing.T) {
	out, logs, err := runApp(t, "render", "--scene", "single-sphere", "--width", "16", "--workers", "2")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "P3" || lines[1] != "16 9" || lines[2] != "255" {
		t.Fatalf("Unexpected PPM header %q", lines[:3])
	}
	if len(lines) != 3+16*9 {
		t.Errorf("Expected %d lines, got %d", 3+16*9, len(lines))
	}
	if !strings.Contains(logs, "render statistics") {
		t.Errorf("Expected statistics in the log, got %q", logs)
	}
}

func TestRender_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppm")

	out, _, err := runApp(t, "render", "--scene", "empty", "--width", "8", "--spp", "1", "--out", path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %d bytes", len(out))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "P3\n8 4\n255\n") {
		t.Errorf("Unexpected file header %q", string(data[:min(len(data), 16)]))
	}
}

func TestRender_SameImageForAnyWorkerCount(t *testing.T) {
	args := []string{"render", "--scene", "default", "--width", "24", "--spp", "2", "--depth", "4", "--seed", "3"}

	one, _, err := runApp(t, append(args, "--workers", "1")...)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	many, _, err := runApp(t, append(args, "--workers", "4")...)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if one != many {
		t.Error("Expected identical output for 1 and 4 workers")
	}
}

func TestRender_VerboseLogsBVH(t *testing.T) {
	_, logs, err := runApp(t, "-v", "render", "--scene", "sphere-grid", "--width", "8", "--spp", "1", "--depth", "2", "--split", "longest")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(logs, "BVH statistics (longest split)") || !strings.Contains(logs, "Leaf objects") {
		t.Errorf("Expected BVH table in verbose log, got %q", logs)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown scene", []string{"render", "--scene", "nope"}, "unknown scene"},
		{"unknown split", []string{"render", "--split", "median"}, "split policy"},
		{"negative width", []string{"render", "--scene", "empty", "--width", "-5"}, "invalid"},
		{"missing directory", []string{"render", "--scene", "empty", "--width", "4", "--out", "/nonexistent/dir/out.ppm"}, "creating output file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, tt.args...)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestScenes_ListsEveryScene(t *testing.T) {
	out, _, err := runApp(t, "scenes")
	if err != nil {
		t.Fatalf("scenes failed: %v", err)
	}
	for _, info := range scene.List() {
		if !strings.Contains(out, info.ID) {
			t.Errorf("Expected %q in listing:\n%s", info.ID, out)
		}
	}
}
