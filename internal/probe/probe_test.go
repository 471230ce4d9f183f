// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const reportWithOpenMP = `specext.so: go1.24.0
	path	github.com/obskit/specext
	mod	github.com/obskit/specext	v0.2.0
	build	-buildmode=plugin
	build	CGO_ENABLED=1
	build	CGO_CFLAGS=-fopenmp -O2
	build	CGO_LDFLAGS=-lgomp
`

const reportWithoutOpenMP = `specext.so: go1.24.0
	path	github.com/obskit/specext
	build	-buildmode=plugin
	build	CGO_ENABLED=1
	build	CGO_CFLAGS=-O2 -march=native
`

func TestParseBuildSettings(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   []string
	}{
		{
			name:   "cflags and ldflags",
			report: reportWithOpenMP,
			want:   []string{"-fopenmp", "-O2", "-lgomp"},
		},
		{
			name:   "cflags only",
			report: reportWithoutOpenMP,
			want:   []string{"-O2", "-march=native"},
		},
		{
			name:   "no build settings",
			report: "specext.so: go1.24.0\n\tpath\tgithub.com/obskit/specext\n",
			want:   nil,
		},
		{
			name:   "empty report",
			report: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBuildSettings([]byte(tt.report))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectParallel(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{name: "gcc flag", args: []string{"-O2", "-fopenmp"}, want: true},
		{name: "embedded token", args: []string{"-fopenmp=libomp"}, want: true},
		{name: "absent", args: []string{"-O2", "-march=native"}, want: false},
		{name: "empty", args: nil, want: false},
		{name: "case as supplied", args: []string{"-FOPENMP"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectParallel(tt.args))
		})
	}
}

func TestReportExtensionMissing(t *testing.T) {
	p := &Prober{
		Path:     "/nonexistent/specext.so",
		Open:     func(string) error { return errors.New("no such file") },
		Describe: func(context.Context, string) ([]byte, error) { return nil, errors.New("no such file") },
	}

	var out bytes.Buffer
	p.Report(context.Background(), &out)

	// No success line for the load stage, only the unknown-status line.
	assert.NotContains(t, out.String(), "is available")
	assert.Contains(t, out.String(), "unable to determine OpenMP status")
}

func TestReportParallelDetected(t *testing.T) {
	p := &Prober{
		Path:     "specext.so",
		Open:     func(string) error { return nil },
		Describe: func(context.Context, string) ([]byte, error) { return []byte(reportWithOpenMP), nil },
	}

	var out bytes.Buffer
	p.Report(context.Background(), &out)

	assert.Contains(t, out.String(), "specext extension is available")
	assert.Contains(t, out.String(), "built with OpenMP parallel support")
}

func TestReportParallelNotDetected(t *testing.T) {
	p := &Prober{
		Path:     "specext.so",
		Open:     func(string) error { return nil },
		Describe: func(context.Context, string) ([]byte, error) { return []byte(reportWithoutOpenMP), nil },
	}

	var out bytes.Buffer
	p.Report(context.Background(), &out)

	assert.Contains(t, out.String(), "built without OpenMP parallel support")
}

func TestReportLoadFailsButSettingsReadable(t *testing.T) {
	// The parallelism check is independent of loadability.
	p := &Prober{
		Path:     "specext.so",
		Open:     func(string) error { return errors.New("plugin was built with a different toolchain") },
		Describe: func(context.Context, string) ([]byte, error) { return []byte(reportWithOpenMP), nil },
	}

	var out bytes.Buffer
	p.Report(context.Background(), &out)

	assert.NotContains(t, out.String(), "is available")
	assert.Contains(t, out.String(), "built with OpenMP parallel support")
}

func TestExtensionPathOverride(t *testing.T) {
	t.Setenv("SPECCTL_EXT", "/opt/specext/specext.so")
	assert.Equal(t, "/opt/specext/specext.so", ExtensionPath())

	t.Setenv("SPECCTL_EXT", "")
	t.Setenv("SPECCTL_CACHE_DIR", t.TempDir())
	p := ExtensionPath()
	assert.Contains(t, p, "ext")
	assert.Contains(t, p, ExtensionName)
}
