// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package standards carries the archived flux-standard star table and the
// per-site extinction curve index, both embedded in the binary, plus the
// coordinate matching used to pick a record for an observed target.
package standards

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/obskit/specctlgo/internal/coords"
)

//go:embed blackbody_info.txt
var blackbodyInfo string

// Star is one record of the blackbody standard-star table. File is a
// placeholder kept for column compatibility with the other standard-star
// archives; the flux is synthesized from TempK and Norm at runtime.
type Star struct {
	File  string
	Name  string
	RA    string
	Dec   string
	Coord coords.Point
	GMag  float64
	Type  string
	TempK float64
	// Norm is the flux normalization a, in units of 1e-23.
	Norm float64
}

// Load parses the embedded blackbody table and enforces its invariants:
// positive temperature, positive normalization, unique star names.
func Load() ([]Star, error) {
	cols, rows, err := parseTable(blackbodyInfo)
	if err != nil {
		return nil, fmt.Errorf("blackbody table: %w", err)
	}

	required := []string{"File", "Name", "RA_2000", "DEC_2000", "g_MAG", "TYPE", "T_K", "a_x10m23"}
	for _, r := range required {
		if _, ok := cols[r]; !ok {
			return nil, fmt.Errorf("blackbody table: missing column %s", r)
		}
	}

	seen := make(map[string]bool, len(rows))
	stars := make([]Star, 0, len(rows))
	for i, row := range rows {
		s := Star{
			File: row[cols["File"]],
			Name: row[cols["Name"]],
			RA:   row[cols["RA_2000"]],
			Dec:  row[cols["DEC_2000"]],
			Type: row[cols["TYPE"]],
		}

		if seen[s.Name] {
			return nil, fmt.Errorf("blackbody table row %d: duplicate star name %s", i+1, s.Name)
		}
		seen[s.Name] = true

		if s.Coord, err = coords.Parse(s.RA, s.Dec); err != nil {
			return nil, fmt.Errorf("blackbody table row %d: %w", i+1, err)
		}
		if s.GMag, err = strconv.ParseFloat(row[cols["g_MAG"]], 64); err != nil {
			return nil, fmt.Errorf("blackbody table row %d: bad g_MAG: %w", i+1, err)
		}
		if s.TempK, err = strconv.ParseFloat(row[cols["T_K"]], 64); err != nil {
			return nil, fmt.Errorf("blackbody table row %d: bad T_K: %w", i+1, err)
		}
		if s.Norm, err = strconv.ParseFloat(row[cols["a_x10m23"]], 64); err != nil {
			return nil, fmt.Errorf("blackbody table row %d: bad a_x10m23: %w", i+1, err)
		}

		if s.TempK <= 0 {
			return nil, fmt.Errorf("blackbody table row %d: T_K must be positive", i+1)
		}
		if s.Norm <= 0 {
			return nil, fmt.Errorf("blackbody table row %d: a_x10m23 must be positive", i+1)
		}

		stars = append(stars, s)
	}

	return stars, nil
}

// ByName returns the star with the given name, case-insensitively.
func ByName(name string) (*Star, error) {
	stars, err := Load()
	if err != nil {
		return nil, err
	}
	for i := range stars {
		if strings.EqualFold(stars[i].Name, name) {
			return &stars[i], nil
		}
	}
	return nil, fmt.Errorf("no standard star named %s", name)
}

// Match is the outcome of a positional lookup. Star is nil when the nearest
// record fell outside the tolerance; Name and Sep always describe the nearest
// record, so callers can report hits and near misses alike.
type Match struct {
	Star *Star
	Name string
	// Sep is the angular separation in arcmin.
	Sep float64
}

// FindStandard matches a target position against the standard-star table.
// tolerArcmin is the maximum acceptable separation.
func FindStandard(target coords.Point, tolerArcmin float64) (Match, error) {
	stars, err := Load()
	if err != nil {
		return Match{}, err
	}

	points := make([]coords.Point, len(stars))
	for i, s := range stars {
		points[i] = s.Coord
	}

	idx, sepDeg := coords.Nearest(target, points)
	if idx < 0 {
		return Match{}, fmt.Errorf("standard star table is empty")
	}

	m := Match{Name: stars[idx].Name, Sep: sepDeg * 60}
	if m.Sep <= tolerArcmin {
		log.Debugf("matched standard %s at %.2f arcmin", m.Name, m.Sep)
		m.Star = &stars[idx]
	}
	return m, nil
}

// parseTable reads a whitespace-aligned text table with a '#'-comment
// preamble and a header row of column names. Every data row must have
// exactly as many fields as the header.
func parseTable(raw string) (map[string]int, [][]string, error) {
	var header []string
	var rows [][]string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if header == nil {
			header = fields
			continue
		}
		if len(fields) != len(header) {
			return nil, nil, fmt.Errorf("row has %d fields, header has %d: %q",
				len(fields), len(header), line)
		}
		rows = append(rows, fields)
	}

	if header == nil {
		return nil, nil, fmt.Errorf("no header row found")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return cols, rows, nil
}
