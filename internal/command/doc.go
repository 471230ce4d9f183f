// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package command defines the CLI command set for specctl. It wires flags,
// validators, actions, and shell completion for subcommands.
package command
