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

// FqCommandAction is the action handler for the "fq" subcommand. It resolves
// a standard by --star name or --ra/--dec and synthesizes its blackbody
// spectrum over the requested wavelength grid.
func FqCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "fq") {
		return nil
	}

	config.Config.Namespace = "fq"

	star, err := resolveStar(cmd)
	if err != nil {
		return err
	}
	log.Debugf("star: %s T=%gK peak=%.0fA", star.Name, star.TempK, star.PeakWave())

	points, err := star.Spectrum(cmd.Float("wmin"), cmd.Float("wmax"), cmd.Float("dw"))
	if err != nil {
		return err
	}

	attrs := BuildAttrs(cmd, "wave", "flux")
	log.Debugf("attrs: %v", attrs)

	return EmitSlice(points, attrs, cmd)
}

// resolveStar locates a standard by name or sky position. Exactly one of
// --star or the --ra/--dec pair must be given.
func resolveStar(cmd *cli.Command) (*standards.Star, error) {
	name := cmd.String("star")
	target, positional, err := TargetFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	switch {
	case name != "" && positional:
		return nil, fmt.Errorf("--star and --ra/--dec are mutually exclusive")
	case name != "":
		return standards.ByName(name)
	case positional:
		match, err := standards.FindStandard(target, cmd.Float("toler"))
		if err != nil {
			return nil, err
		}
		if match.Star == nil {
			return nil, fmt.Errorf(
				"no standard within %.1f arcmin; closest is %s at %.1f arcmin",
				cmd.Float("toler"), match.Name, match.Sep)
		}
		return match.Star, nil
	default:
		return nil, fmt.Errorf("either --star or --ra/--dec is required")
	}
}

// FqCommandBuilder constructs the cli.Command for "fq".
func FqCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "fq",
		Usage:     "flux query",
		UsageText: `specctl fq [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append(append([]cli.Flag{
			&cli.StringFlag{
				Name:  "star",
				Usage: "standard star name",
			},
			&cli.FloatFlag{
				Name:  "wmin",
				Usage: "grid start wavelength, Angstroms",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("fq.wmin", altsrc.StringSourcer(cfg.Source)),
				),
				Value: 3000.0,
				Validator: func(value float64) error {
					return FlagValidators(value, PositiveFloatValidator)
				},
			},
			&cli.FloatFlag{
				Name:  "wmax",
				Usage: "grid end wavelength, Angstroms",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("fq.wmax", altsrc.StringSourcer(cfg.Source)),
				),
				Value: 10000.0,
				Validator: func(value float64) error {
					return FlagValidators(value, PositiveFloatValidator)
				},
			},
			&cli.FloatFlag{
				Name:  "dw",
				Usage: "grid step, Angstroms",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("fq.dw", altsrc.StringSourcer(cfg.Source)),
				),
				Value: 10.0,
				Validator: func(value float64) error {
					return FlagValidators(value, PositiveFloatValidator)
				},
			},
			tldrFlag,
		}, NewTargetFlags("fq")...), NewGlobalFlags("fq")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return FqCommandAction(ctx, cmd)
		},
	}
}
