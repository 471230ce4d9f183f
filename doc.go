// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// specctlgo is the main package for the specctl command line tool. It wires
// the CLI, delegates to internal packages, and serves as the entry point.
package main
