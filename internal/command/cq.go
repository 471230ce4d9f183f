// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/cache"
	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/meta"
)

type cacheRow struct {
	Key    string `json:"key"`
	Subdir string `json:"subdir"`
	Size   string `json:"size"`
	Bytes  int64  `json:"bytes"`
	Stored string `json:"stored"`
}

// CqCommandAction is the action handler for the "cq" subcommand. It lists
// the entries in the current version's cache partition.
func CqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "cq") {
		return nil
	}

	config.Config.Namespace = "cq"

	infos, err := cache.List()
	if err != nil {
		return err
	}

	var rows []cacheRow
	for _, info := range infos {
		rows = append(rows, cacheRow{
			Key:    info.Key,
			Subdir: info.Subdir,
			Size:   humanize.Bytes(uint64(info.Size)),
			Bytes:  info.Size,
			Stored: humanize.Time(info.Stored),
		})
	}

	attrs := BuildAttrs(cmd, "key", "subdir", "size", "!bytes", "stored")
	log.Debugf("attrs: %v", attrs)

	return EmitSlice(rows, attrs, cmd)
}

// CqCommandBuilder constructs the cli.Command for "cq".
func CqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cq",
		Usage:     "cache query",
		UsageText: `specctl cq [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			tldrFlag,
		}, NewGlobalFlags("cq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return CqCommandAction(ctx, cmd)
		},
	}
}
