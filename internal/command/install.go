// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/cache"
	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/meta"
)

// InstallCommandAction is the action handler for the "install" subcommand.
// It copies local files into the current version's cache partition, keyed by
// basename, so later lookups find them without a download.
func InstallCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "install") {
		return nil
	}

	config.Config.Namespace = "install"

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("at least one file to install is required")
	}

	if !cache.Enabled() {
		return fmt.Errorf("caching is disabled; enable it to install files")
	}

	subdir := cmd.String("subdir")

	type installRow struct {
		File string `json:"file"`
		Path string `json:"path"`
	}
	var rows []installRow
	for _, src := range args {
		var path string
		var err error
		if subdir != "" {
			path, err = cache.Install(src, subdir)
		} else {
			path, err = cache.Install(src)
		}
		if err != nil {
			return fmt.Errorf("failed to install %s: %w", src, err)
		}
		rows = append(rows, installRow{File: src, Path: path})
	}

	attrs := BuildAttrs(cmd, "file", "path")
	return EmitSlice(rows, attrs, cmd)
}

// InstallCommandBuilder constructs the cli.Command for "install".
func InstallCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "install local files into the cache",
		UsageText: `specctl install <file> [file ...] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "subdir",
				Usage: "cache subdirectory to install into",
			},
			tldrFlag,
		}, NewGlobalFlags("install")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return InstallCommandAction(ctx, cmd)
		},
	}
}
