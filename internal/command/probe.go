// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/meta"
	"github.com/obskit/specctlgo/internal/probe"
)

// ProbeCommandAction is the action handler for the "probe" subcommand. It
// reports whether the optional compiled extension is loadable and whether it
// was built with OpenMP support. The report is informational and the command
// succeeds regardless of what it finds.
func ProbeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "probe") {
		return nil
	}

	probe.New().Report(ctx, os.Stdout)
	return nil
}

// ProbeCommandBuilder constructs the cli.Command for "probe".
func ProbeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "report optional extension availability",
		UsageText: `specctl probe`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			tldrFlag,
		},
		Action: ProbeCommandAction,
	}
}
