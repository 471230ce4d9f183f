// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/meta"
	"github.com/obskit/specctlgo/internal/standards"
)

type siteRow struct {
	File string  `json:"file"`
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

// XqCommandAction is the action handler for the "xq" subcommand. It lists
// the observatory extinction index, or resolves the site nearest to a
// --lon/--lat pair.
func XqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "xq") {
		return nil
	}

	config.Config.Namespace = "xq"

	attrs := BuildAttrs(cmd, "file", "name", "lon", "lat")
	log.Debugf("attrs: %v", attrs)

	var rows []siteRow
	if cmd.IsSet("lon") || cmd.IsSet("lat") {
		if !cmd.IsSet("lon") || !cmd.IsSet("lat") {
			return fmt.Errorf("--lon and --lat must be given together")
		}

		site, err := standards.MatchSite(cmd.Float("lon"), cmd.Float("lat"), cmd.Float("toler"))
		if err != nil {
			return err
		}
		if site == nil {
			return fmt.Errorf(
				"no extinction data within %.1f deg of lon=%.2f lat=%.2f",
				cmd.Float("toler"), cmd.Float("lon"), cmd.Float("lat"))
		}
		rows = append(rows, siteRow(*site))
	} else {
		sites, err := standards.Sites()
		if err != nil {
			return err
		}
		for _, s := range sites {
			rows = append(rows, siteRow(s))
		}
	}

	return EmitSlice(rows, attrs, cmd)
}

// XqCommandBuilder constructs the cli.Command for "xq".
func XqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "xq",
		Usage:     "extinction site query",
		UsageText: `specctl xq [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.FloatFlag{
				Name:  "lon",
				Usage: "site longitude, degrees west of Greenwich",
			},
			&cli.FloatFlag{
				Name:  "lat",
				Usage: "site latitude, degrees",
			},
			&cli.FloatFlag{
				Name:  "toler",
				Usage: "matching tolerance, degrees",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("xq.toler", altsrc.StringSourcer(cfg.Source)),
				),
				Value: 5.0,
			},
			tldrFlag,
		}, NewGlobalFlags("xq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return XqCommandAction(ctx, cmd)
		},
	}
}
