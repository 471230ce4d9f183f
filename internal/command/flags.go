// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var (
	cfg config.Type

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}

	tolerFlag *cli.FloatFlag = &cli.FloatFlag{
		Name:  "toler",
		Usage: "matching tolerance, arcminutes",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SPECCTL_TOLER"),
		),
		Value: 20.0,
	}
)

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewTargetFlags constructs the --ra/--dec flag pair shared by the commands
// that locate a standard by sky position. Values accept sexagesimal or
// decimal degrees.
func NewTargetFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ra",
			Usage: "target right ascension (hh:mm:ss.s or decimal degrees)",
		},
		&cli.StringFlag{
			Name:  "dec",
			Usage: "target declination (+dd:mm:ss.s or decimal degrees)",
		},
		NameSpacedToler(ns),
	}
}

// NameSpacedToler adds namespaced and global config file sources to the
// shared tolerance flag.
func NameSpacedToler(ns string) *cli.FloatFlag {
	f := *tolerFlag
	f.Sources.Chain = append(f.Sources.Chain,
		yaml.YAML(ns+"."+f.Name, altsrc.StringSourcer(cfg.Source)),
		yaml.YAML(f.Name, altsrc.StringSourcer(cfg.Source)),
	)
	return &f
}

// pathHas checks if the given executable exists on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
