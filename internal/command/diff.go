// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/obskit/specctlgo/internal/cache"
	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/meta"
)

// DiffCommandAction is the action handler for the "diff" subcommand. It
// compares the bundled asset manifest against what is actually installed in
// the current version's partition, so a reader can see what fetch would add.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	config.Config.Namespace = "diff"

	manifest := cache.ManifestRaw()
	installed, err := cache.InstalledRaw()
	if err != nil {
		return err
	}

	d, err := gojsondiff.New().Compare(manifest, installed)
	if err != nil {
		return fmt.Errorf("failed to compare manifests: %w", err)
	}

	if !d.Modified() {
		fmt.Fprintln(os.Stdout, "cache matches the bundled manifest")
		return nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(manifest, &left); err != nil {
		return err
	}

	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       cmd.Bool("color"),
	})
	out, err := f.Format(d)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, out)
	return nil
}

// DiffCommandBuilder constructs the cli.Command for "diff".
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "diff the bundled manifest against the cache",
		UsageText: `specctl diff [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			tldrFlag,
		}, NewGlobalFlags("diff")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return DiffCommandAction(ctx, cmd)
		},
	}
}
