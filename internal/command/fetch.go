// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/obskit/specctlgo/internal/cache"
	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/fetch"
	"github.com/obskit/specctlgo/internal/meta"
	"github.com/obskit/specctlgo/internal/picker"
)

type fetchRow struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Bytes  int    `json:"bytes"`
	Path   string `json:"path"`
}

// FetchCommandAction is the action handler for the "fetch" subcommand. It
// downloads reference assets into the cache, verifying digests against the
// bundled manifest. With no names and a terminal attached, it offers an
// interactive picker.
func FetchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "fetch") {
		return nil
	}

	config.Config.Namespace = "fetch"

	if !cache.Enabled() {
		return fmt.Errorf("caching is disabled; enable it to fetch assets")
	}

	targets, err := resolveAssets(cmd)
	if err != nil {
		if errors.Is(err, picker.ErrAborted) {
			return nil
		}
		return err
	}

	var rows []fetchRow
	for _, a := range targets {
		status := "fetched"
		if cache.Cached(a) {
			status = "cached"
		}

		entry, err := cache.FetchAsset(ctx, a, fetch.Get)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", a.Name, err)
		}

		rows = append(rows, fetchRow{
			Name:   a.Name,
			Status: status,
			Bytes:  len(entry.Data),
			Path:   entry.Path,
		})
	}

	attrs := BuildAttrs(cmd, "name", "status", "bytes", "path")
	return EmitSlice(rows, attrs, cmd)
}

// resolveAssets turns the positional args into manifest entries. "all"
// expands to the whole manifest; no args falls back to the picker when
// stdout is a terminal.
func resolveAssets(cmd *cli.Command) ([]cache.Asset, error) {
	args := cmd.Args().Slice()

	if len(args) == 1 && args[0] == "all" {
		return cache.Assets()
	}

	if len(args) > 0 {
		var targets []cache.Asset
		for _, name := range args {
			a, err := cache.AssetByName(name)
			if err != nil {
				return nil, err
			}
			targets = append(targets, *a)
		}
		return targets, nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, fmt.Errorf("no asset names given; see `specctl fetch --help`")
	}

	assets, err := cache.Assets()
	if err != nil {
		return nil, err
	}
	chosen, err := picker.Pick("Fetch which asset?", assets)
	if err != nil {
		return nil, err
	}
	return []cache.Asset{*chosen}, nil
}

// FetchCommandBuilder constructs the cli.Command for "fetch".
func FetchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "download reference assets into the cache",
		UsageText: `specctl fetch [asset ...|all] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			tldrFlag,
		}, NewGlobalFlags("fetch")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return FetchCommandAction(ctx, cmd)
		},
	}
}
