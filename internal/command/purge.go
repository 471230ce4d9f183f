// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/obskit/specctlgo/internal/cache"
	"github.com/obskit/specctlgo/internal/config"
	"github.com/obskit/specctlgo/internal/meta"
)

// PurgeCommandAction is the action handler for the "purge" subcommand. It
// removes aged entries from the current version's partition and, with
// --versions, drops the partitions left behind by other versions.
func PurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "purge") {
		return nil
	}

	config.Config.Namespace = "purge"

	if !cmd.Bool("force") && !confirmPurge() {
		fmt.Fprintln(os.Stderr, "purge cancelled")
		return nil
	}

	if cmd.Bool("versions") {
		removed, err := cache.PurgeVersions()
		if err != nil {
			return err
		}
		for _, dir := range removed {
			log.Infof("removed stale partition %s", dir)
		}
		return nil
	}

	return cache.Purge(cmd.Int("hours"))
}

// confirmPurge prompts on the terminal before destroying cache content.
// Non-interactive invocations must pass --force instead.
func confirmPurge() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	fmt.Fprint(os.Stderr, "Purge cache entries? [y/N] ")
	reply, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	reply = strings.ToLower(strings.TrimSpace(reply))
	return reply == "y" || reply == "yes"
}

// PurgeCommandBuilder constructs the cli.Command for "purge".
func PurgeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "purge",
		Usage:     "purge cache entries",
		UsageText: `specctl purge [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Usage:   "skip the confirmation prompt",
				Value:   false,
				Aliases: []string{"y"},
			},
			&cli.IntFlag{
				Name:  "hours",
				Usage: "purge entries older than this many hours",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("purge.hours", altsrc.StringSourcer(cfg.Source)),
				),
				Value: 0,
			},
			tldrFlag,
			&cli.BoolFlag{
				Name:  "versions",
				Usage: "remove cache partitions left by other versions",
				Value: false,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := GlobalFlagsValidator(ctx, cmd); err != nil {
				return err
			}
			return PurgeCommandAction(ctx, cmd)
		},
	}
}
