// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/meta"
	"github.com/obskit/specctlgo/internal/standards"
)

// starRow is the flat record emitted for each standard.
type starRow struct {
	Name  string  `json:"name"`
	RA    string  `json:"ra_2000"`
	Dec   string  `json:"dec_2000"`
	GMag  float64 `json:"g_mag"`
	Type  string  `json:"type"`
	TempK float64 `json:"t_k"`
	Norm  float64 `json:"a"`
	// Sep is only populated for positional matches, arcminutes.
	Sep float64 `json:"sep,omitempty"`
}

func starToRow(s standards.Star) starRow {
	return starRow{
		Name:  s.Name,
		RA:    s.RA,
		Dec:   s.Dec,
		GMag:  s.GMag,
		Type:  s.Type,
		TempK: s.TempK,
		Norm:  s.Norm,
	}
}

// SqCommandAction is the action handler for the "sq" subcommand. It lists
// the blackbody standard table, or resolves a single standard by --ra/--dec
// within the --toler radius.
func SqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, "sq") {
		return nil
	}

	config.Config.Namespace = "sq"

	attrs := BuildAttrs(cmd, "name", "ra_2000", "dec_2000", "g_mag", "type", "t_k", "a")
	log.Debugf("attrs: %v", attrs)

	target, ok, err := TargetFromFlags(cmd)
	if err != nil {
		return err
	}

	var rows []starRow
	if ok {
		match, err := standards.FindStandard(target, cmd.Float("toler"))
		if err != nil {
			return err
		}
		if match.Star == nil {
			return fmt.Errorf(
				"no standard within %.1f arcmin; closest is %s at %.1f arcmin",
				cmd.Float("toler"), match.Name, match.Sep)
		}

		row := starToRow(*match.Star)
		row.Sep = match.Sep
		rows = append(rows, row)

		//nolint:errcheck
		attrs.Set("sep")
	} else {
		stars, err := standards.Load()
		if err != nil {
			return err
		}
		for _, s := range stars {
			rows = append(rows, starToRow(s))
		}
	}

	return EmitSlice(rows, attrs, cmd)
}

// SqCommandBuilder constructs the cli.Command for "sq", wiring metadata,
// flags, and action/validator handlers.
func SqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "sq",
		Usage:     "standard star query",
		UsageText: `specctl sq [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			tldrFlag,
		}, NewTargetFlags("sq")...), NewGlobalFlags("sq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := SqCommandValidator(ctx, cmd); err != nil {
				return err
			}
			return SqCommandAction(ctx, cmd)
		},
	}
}

// SqCommandValidator performs validation for "sq" and delegates to
// GlobalFlagsValidator.
func SqCommandValidator(ctx context.Context, cmd *cli.Command) error {
	return GlobalFlagsValidator(ctx, cmd)
}
