// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obskit/specctlgo/internal/standards"
)

// captureStdout redirects os.Stdout around fn and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

// runApp builds the app and runs one subcommand end to end.
func runApp(t *testing.T, args ...string) string {
	t.Helper()
	args = append([]string{"specctl"}, args...)
	return captureStdout(t, func() {
		app, err := InitApp(context.Background(), args)
		require.NoError(t, err)
		require.NoError(t, app.Run(context.Background(), args))
	})
}

func TestOutputValidator(t *testing.T) {
	for _, valid := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(valid), valid)
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("value"))
	assert.Error(t, JammedFlagValidator("--flag"))
}

func TestPositiveFloatValidator(t *testing.T) {
	assert.NoError(t, PositiveFloatValidator(10.0))
	assert.Error(t, PositiveFloatValidator(0.0))
	assert.Error(t, PositiveFloatValidator(-1.5))
}

func TestStarToRow(t *testing.T) {
	s := standards.Star{
		Name:  "J0027-0015",
		RA:    "00:27:20.5",
		Dec:   "-00:15:12.0",
		GMag:  18.5,
		Type:  "DB",
		TempK: 8672,
		Norm:  3.1,
	}

	row := starToRow(s)
	assert.Equal(t, "J0027-0015", row.Name)
	assert.Equal(t, "00:27:20.5", row.RA)
	assert.Equal(t, 8672.0, row.TempK)
	assert.Equal(t, 3.1, row.Norm)
	assert.Zero(t, row.Sep)
}

func TestSqPositionalMatch(t *testing.T) {
	s, err := standards.ByName("J0027-0015")
	require.NoError(t, err)

	// A target a fraction of a degree off the catalog position still
	// resolves, and the emitted row carries the separation.
	ra := fmt.Sprintf("%.6f", s.Coord.RA+0.01)
	dec := fmt.Sprintf("%.6f", s.Coord.Dec)

	out := runApp(t, "sq", "--ra", ra, "--dec", dec, "--output", "json")
	assert.Contains(t, out, `"name":"J0027-0015"`)
	assert.Contains(t, out, `"sep":`)
}

func TestSqPositionalMiss(t *testing.T) {
	args := []string{"specctl", "sq", "--ra", "180.0", "--dec", "85.0", "--output", "json"}
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	err = app.Run(context.Background(), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no standard within")
}

func TestFqPositionalMatch(t *testing.T) {
	s, err := standards.ByName("J0027-0015")
	require.NoError(t, err)

	out := runApp(t, "fq",
		"--ra", fmt.Sprintf("%.6f", s.Coord.RA),
		"--dec", fmt.Sprintf("%.6f", s.Coord.Dec),
		"--wmin", "5000", "--wmax", "5100", "--dw", "50",
		"--output", "json")
	assert.Contains(t, out, `"wave":5000`)
	assert.Contains(t, out, `"flux":`)
}

func TestInitApp(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"specctl", "sq"})
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "specctl", app.Name)

	want := []string{
		"completion", "cq", "diff", "fetch", "fq",
		"install", "probe", "purge", "sq", "xq",
	}
	var got []string
	for _, c := range app.Commands {
		got = append(got, c.Name)
	}
	assert.Equal(t, want, got)

	// Flags must be sorted for --help.
	for _, c := range app.Commands {
		for i := 1; i < len(c.Flags); i++ {
			assert.LessOrEqual(t,
				c.Flags[i-1].Names()[0], c.Flags[i].Names()[0],
				"flags out of order on %s", c.Name)
		}
	}
}
