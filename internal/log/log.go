// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a line handler and a log level taken from the
// SPECCTL_LOG env variable (default ERROR).
func InitLogger() {
	level := strings.ToUpper(os.Getenv("SPECCTL_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&LineHandler{})
	log.SetLevelFromString(level)
}

// LineHandler writes one "timestamp L message k=v ..." line per entry.
// Warnings and errors go to stderr so they survive output redirection.
type LineHandler struct{}

// HandleLog implements the log.Handler interface.
func (h *LineHandler) HandleLog(e *log.Entry) error {
	var w io.Writer = os.Stdout
	if e.Level >= log.WarnLevel {
		w = os.Stderr
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var fields []string
	for k, v := range e.Fields {
		fields = append(fields, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(fields)

	if len(fields) == 0 {
		fmt.Fprintf(w, "%s %.1s %s\n", timestamp, level, e.Message)
	} else {
		fmt.Fprintf(w, "%s %.1s %s %s\n", timestamp, level, e.Message, strings.Join(fields, " "))
	}
	return nil
}
