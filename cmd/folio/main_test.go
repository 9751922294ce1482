package main

// Notes:
// - runMain: we test dispatch and exit codes through observable output.
//   build runs end to end against temporary sites and the embedded sample.
// - serve and snapshot are covered in their own files; snapshot capture
//   needs a browser and is not exercised here.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-folio/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Site fixtures
// ---------------------------------------------------------------------------

// writeSite creates a local site with two dated posts and returns its root.
func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"posts/index.json": `[{"slug": "alpha", "file": "alpha.md"}, {"slug": "beta", "file": "beta.md"}]`,
		"posts/alpha.md":   "---\ntitle: Alpha\npublished: 2024-01-02\nimage: ../assets/alpha.svg\n---\n# Alpha\n\nFirst post.",
		"posts/beta.md":    "---\ntitle: Beta\npublished: 2023-05-01\n---\nSecond post.",
		"assets/alpha.svg": "<svg xmlns=\"http://www.w3.org/2000/svg\"/>",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// testEnv returns an Environment writing to buffers with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Environment{
		Now:    func() time.Time { return now },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}, &stdout, &stderr
}

func assertFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestRunMain_Dispatch - Command routing and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"folio"}, ExitUsage, "", "Usage: folio"},
		{"unknown command", []string{"folio", "publish"}, ExitUsage, "", "Unknown command: publish"},
		{"version", []string{"folio", "version"}, ExitSuccess, "folio " + Version, ""},
		{"version flag", []string{"folio", "--version"}, ExitSuccess, "folio " + Version, ""},
		{"help", []string{"folio", "help"}, ExitSuccess, "Commands:", ""},
		{"help build", []string{"folio", "help", "build"}, ExitSuccess, "--inline-css", ""},
		{"help unknown", []string{"folio", "help", "publish"}, ExitUsage, "", "Unknown command"},
		{"completion bash", []string{"folio", "completion", "bash"}, ExitSuccess, "complete -F _folio folio", ""},
		{"completion bad shell", []string{"folio", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
		{"build help flag", []string{"folio", "build", "-h"}, ExitSuccess, "", "Usage: folio build"},
		{"build bad flag", []string{"folio", "build", "--bogus"}, ExitUsage, "", "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Build - Static build end to end
// ---------------------------------------------------------------------------

func TestRunMain_Build(t *testing.T) {
	t.Parallel()

	t.Run("local site", func(t *testing.T) {
		t.Parallel()

		root := writeSite(t)
		out := filepath.Join(t.TempDir(), "public")
		env, stdout, stderr := testEnv()

		code := runMain([]string{"folio", "build", root, "-o", out, "-q"}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		if stdout.Len() != 0 {
			t.Errorf("quiet build printed %q", stdout)
		}

		index := assertFile(t, filepath.Join(out, "index.html"))
		// Newest first.
		if a, b := strings.Index(index, "Alpha"), strings.Index(index, "Beta"); a < 0 || b < 0 || a > b {
			t.Errorf("index should list Alpha before Beta:\n%s", index)
		}
		detail := assertFile(t, filepath.Join(out, "p", "alpha", "index.html"))
		if !strings.Contains(detail, "First post.") {
			t.Errorf("detail page missing body:\n%s", detail)
		}
		assertFile(t, filepath.Join(out, "p", "beta", "fragment.html"))
		assertFile(t, filepath.Join(out, "assets", "alpha.svg"))
		assertFile(t, filepath.Join(out, "theme", "style.css"))
	})

	t.Run("output inside the site, built twice", func(t *testing.T) {
		t.Parallel()

		root := writeSite(t)
		out := filepath.Join(root, "public")

		for run := 1; run <= 2; run++ {
			env, _, stderr := testEnv()
			code := runMain([]string{"folio", "build", root, "-o", out, "-q"}, env)
			if code != ExitSuccess {
				t.Fatalf("run %d: exit code = %d, stderr: %s", run, code, stderr)
			}
		}
		assertFile(t, filepath.Join(out, "posts", "index.json"))
		if _, err := os.Stat(filepath.Join(out, "public")); !os.IsNotExist(err) {
			t.Errorf("output copied into itself: stat error = %v", err)
		}
	})

	t.Run("embedded sample", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		env, stdout, stderr := testEnv()

		code := runMain([]string{"folio", "build", "--sample", "-o", out}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		if !strings.Contains(stdout.String(), "Built") {
			t.Errorf("stdout = %q, want build summary", stdout)
		}
		assertFile(t, filepath.Join(out, "posts", "index.json"))
	})

	t.Run("fallback to sample on missing manifest", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		out := t.TempDir()
		env, _, stderr := testEnv()

		code := runMain([]string{"folio", "build", root, "--fallback", "-o", out}, env)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr)
		}
		assertFile(t, filepath.Join(out, "index.html"))
	})

	t.Run("missing manifest fails", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		env, _, stderr := testEnv()

		code := runMain([]string{"folio", "build", root, "-o", t.TempDir()}, env)
		if code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
		if !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr = %q, want a hint", stderr)
		}
	})

	t.Run("missing site directory", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		missing := filepath.Join(t.TempDir(), "nope")

		if code := runMain([]string{"folio", "build", missing}, env); code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()

		if code := runMain([]string{"folio", "build", writeSite(t), "--mode", "eager"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()

		if code := runMain([]string{"folio", "build", "a", "b"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv()

		code := runMain([]string{"folio", "build", writeSite(t), "--style", "neon", "-o", t.TempDir()}, env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "available: default") {
			t.Errorf("stderr = %q, want available styles", stderr)
		}
	})
}
