// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package driller resolves dotted attribute paths against dataset rows.
package driller

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Drill resolves path inside the raw JSON document. Paths use gjson syntax
// (dots descend, numbers index arrays). Column names that themselves contain
// dots, like RA_2000 never does but user data keys can, are retried as a
// single escaped key when the descent finds nothing.
func Drill(raw string, path string) gjson.Result {
	result := gjson.Get(raw, path)
	if result.Exists() || !strings.Contains(path, ".") {
		return result
	}

	escaped := strings.ReplaceAll(path, ".", `\.`)
	return gjson.Get(raw, escaped)
}
