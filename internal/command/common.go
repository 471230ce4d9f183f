// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/attrs"
	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/coords"
	"github.com/obskit/specctlgo/internal/meta"
	"github.com/obskit/specctlgo/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr specctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "specctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec from config.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		if spec, err := config.GetString("transform", ""); err == nil {
			al.ApplyGlobalTransform(spec)
		}
	}
	return
}

// EmitSlice marshals a slice of flat records as JSON and passes it to the
// common output routine.
func EmitSlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return output.Emit(raw, al, cmd, os.Stdout)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// TargetFromFlags parses the --ra/--dec pair. ok is false when neither flag
// was given; an error means one was given without the other, or a value did
// not parse.
func TargetFromFlags(cmd *cli.Command) (coords.Point, bool, error) {
	ra := cmd.String("ra")
	dec := cmd.String("dec")

	if ra == "" && dec == "" {
		return coords.Point{}, false, nil
	}
	if ra == "" || dec == "" {
		return coords.Point{}, false, fmt.Errorf("--ra and --dec must be given together")
	}

	p, err := coords.Parse(ra, dec)
	if err != nil {
		return coords.Point{}, false, err
	}
	return p, true, nil
}
