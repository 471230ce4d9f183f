// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package probe reports whether the optional compiled extension is loadable
// and whether it was built with OpenMP parallel support. The probe is
// advisory: every failure degrades to an informational line and the caller
// always exits zero.
package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/apex/log"

	"github.com/obskit/specctlgo/internal/cache"
)

// ExtensionName is the filename of the optional compiled extension.
const ExtensionName = "specext.so"

// Prober runs the two capability checks. The loader and describer are
// injectable for tests.
type Prober struct {
	// Path is the extension location under test.
	Path string
	// Open attempts to load the extension.
	Open func(path string) error
	// Describe returns the toolchain's description of the compiled binary,
	// including its recorded build settings.
	Describe func(ctx context.Context, path string) ([]byte, error)
}

// New returns a Prober wired to the real plugin loader and toolchain.
func New() *Prober {
	return &Prober{
		Path:     ExtensionPath(),
		Open:     openPlugin,
		Describe: describeBinary,
	}
}

// ExtensionPath resolves where the extension is expected: SPECCTL_EXT wins,
// then the ext/ subtree of the cache partition.
func ExtensionPath() string {
	if p, ok := os.LookupEnv("SPECCTL_EXT"); ok && p != "" {
		return p
	}
	dir, ok := cache.VersionDir()
	if !ok {
		return ExtensionName
	}
	return filepath.Join(dir, "ext", ExtensionName)
}

// Report runs both checks and writes human-readable status lines. It never
// returns an error: absence of the extension is a normal, expected outcome
// for installations without the compiled component.
func (p *Prober) Report(ctx context.Context, w io.Writer) {
	if err := p.Open(p.Path); err != nil {
		// Load failure is silent: most installations have no extension.
		log.Debugf("extension not loadable: %v", err)
	} else {
		fmt.Fprintf(w, "specext extension is available (%s)\n", p.Path)
	}

	// The parallelism check is independent of loadability: the build settings
	// are recorded in the binary whether or not this process can dlopen it.
	out, err := p.Describe(ctx, p.Path)
	if err != nil {
		fmt.Fprintln(w, "unable to determine OpenMP status of the specext extension")
		log.Debugf("describe failed: %v", err)
		return
	}

	if DetectParallel(ParseBuildSettings(out)) {
		fmt.Fprintln(w, "specext extension was built with OpenMP parallel support")
	} else {
		fmt.Fprintln(w, "specext extension was built without OpenMP parallel support")
	}
}

// openPlugin loads the extension into the running process.
func openPlugin(path string) error {
	_, err := plugin.Open(path)
	return err
}

// describeBinary invokes `go version -m` on the extension. The toolchain
// writes incidental diagnostics to stderr, so stderr is discarded for the
// duration of the check.
func describeBinary(ctx context.Context, path string) ([]byte, error) {
	goBin, err := exec.LookPath("go")
	if err != nil {
		return nil, fmt.Errorf("go toolchain not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, goBin, "version", "-m", path)
	cmd.Stderr = io.Discard
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s: %w", path, err)
	}
	return out, nil
}

// ParseBuildSettings extracts the cgo compiler and linker arguments from a
// `go version -m` report. Each returned element is one flag token.
func ParseBuildSettings(report []byte) []string {
	var args []string
	for _, line := range strings.Split(string(report), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "build" {
			continue
		}
		// Flag values may themselves contain spaces, so rejoin everything
		// after the "build" marker before splitting on '='.
		key, value, ok := strings.Cut(strings.Join(fields[1:], " "), "=")
		if !ok {
			continue
		}
		switch key {
		case "CGO_CFLAGS", "CGO_CXXFLAGS", "CGO_LDFLAGS":
			args = append(args, strings.Fields(value)...)
		}
	}
	return args
}

// DetectParallel reports whether any compile argument carries the OpenMP
// flag token.
func DetectParallel(args []string) bool {
	for _, a := range args {
		if strings.Contains(a, "openmp") {
			return true
		}
	}
	return false
}
