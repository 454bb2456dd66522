//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"s":   Smoke,
	"fmt": Lint.Fmt,
	"fz":  Test.Fuzz,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

const binary = "bin/rtn"

// Build compiles the rtn binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building rtn...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/rtn")
}

// Check runs format, lint, test, and smoke sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Smoke)
}

// smokeOutline has a nested branch, a blank line and a link, so render,
// check and the share round trip all see the interesting cases.
const smokeOutline = "Plan\n\tDesign\n\t\tsee RTN/[1]/\n\n\tBuild\n"

// Smoke builds the binary and drives it against a small outline: render,
// nav, check, and a share encode/decode round trip.
func Smoke() error {
	st.Deps(Build)
	fmt.Println("Running smoke tests...")

	dir, err := os.MkdirTemp("", "rtn-smoke-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "plan.txt")
	if err := os.WriteFile(file, []byte(smokeOutline), 0o600); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}

	out, err := sh.Output(binary, "render", "--color", "never", file)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if !strings.Contains(out, "── Build") || !strings.Contains(out, "└── see RTN/[1]/") {
		return fmt.Errorf("unexpected render output:\n%s", out)
	}

	if _, err := sh.Output(binary, "nav", file, "DNL/[1]/", "--from", "2", "--validate"); err != nil {
		return fmt.Errorf("nav: %w", err)
	}

	if err := sh.Run(binary, "check", "--color", "never", dir); err != nil {
		return fmt.Errorf("check: %w", err)
	}

	link, err := sh.Output(binary, "share", "encode", "--base", "https://rtn.invalid/", file)
	if err != nil {
		return fmt.Errorf("share encode: %w", err)
	}
	pulled, err := sh.Output(binary, "share", "decode", "--outline", strings.TrimSpace(link))
	if err != nil {
		return fmt.Errorf("share decode: %w", err)
	}
	if strings.TrimSpace(pulled) != strings.TrimSpace(smokeOutline) {
		return fmt.Errorf("share round trip changed the outline:\n%s", pulled)
	}

	fmt.Println("✓ Smoke tests passed")
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	for _, path := range []string{"bin", "coverage.out", "testdata/fuzz"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs rtn to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing rtn...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/rtn")
}

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// fuzzTargets maps each fuzz test to its package.
var fuzzTargets = []struct{ name, pkg string }{
	{"FuzzRenderText", "./pkg/tree/"},
	{"FuzzDecode", "./pkg/codec/"},
	{"FuzzFromMarkdown", "./pkg/importer/"},
	{"FuzzWriteAtomic", "./pkg/fsutil/"},
}

// Fuzz runs every fuzz test for FUZZ_TIME each (default 20s).
func (Test) Fuzz() error {
	budget := cmp.Or(os.Getenv("FUZZ_TIME"), "20s")
	for _, fuzz := range fuzzTargets {
		fmt.Printf("Fuzzing %s for %s...\n", fuzz.name, budget)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+fuzz.name+"$", "-fuzztime", budget, fuzz.pkg); err != nil {
			return fmt.Errorf("%s: %w", fuzz.name, err)
		}
	}
	return nil
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	fmt.Println("Running linters (CI mode)...")
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", "-w", ".")
}

// Gate runs the checks a change must pass before merge.
func (CI) Gate() error {
	fmt.Println("Running CI gate checks...")
	st.SerialDeps(
		CI.Fmt,
		Lint.CI,
		Build,
		Test.Default,
		Smoke,
		CI.ModTidy,
	)
	fmt.Println("\n✓ All CI gate checks passed!")
	return nil
}

// Fmt fails when gofmt would change a file.
func (CI) Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	fmt.Println("Checking go.mod/go.sum are tidy...")
	files := []string{"go.mod", "go.sum"}

	before := make([][]byte, len(files))
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[i] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for i, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if !bytes.Equal(before[i], after) {
			return errors.New(name + " changed after 'go mod tidy'; commit the result")
		}
	}
	return nil
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}
