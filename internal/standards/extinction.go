// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package standards

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/obskit/specctlgo/internal/coords"
)

//go:embed extinction_index.txt
var extinctionIndex string

// Site is one record of the extinction curve index: the archived extinction
// file for an observing site and the site's position. Lon is degrees west of
// Greenwich.
type Site struct {
	File string
	Name string
	Lon  float64
	Lat  float64
}

// Sites parses the embedded extinction curve index.
func Sites() ([]Site, error) {
	cols, rows, err := parseTable(extinctionIndex)
	if err != nil {
		return nil, fmt.Errorf("extinction index: %w", err)
	}

	for _, r := range []string{"File", "Lon", "Lat", "Name"} {
		if _, ok := cols[r]; !ok {
			return nil, fmt.Errorf("extinction index: missing column %s", r)
		}
	}

	sites := make([]Site, 0, len(rows))
	for i, row := range rows {
		s := Site{
			File: row[cols["File"]],
			Name: row[cols["Name"]],
		}
		if s.Lon, err = strconv.ParseFloat(row[cols["Lon"]], 64); err != nil {
			return nil, fmt.Errorf("extinction index row %d: bad Lon: %w", i+1, err)
		}
		if s.Lat, err = strconv.ParseFloat(row[cols["Lat"]], 64); err != nil {
			return nil, fmt.Errorf("extinction index row %d: bad Lat: %w", i+1, err)
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// MatchSite finds the extinction curve for the site closest to the given
// observatory position, within tolerDeg degrees. Longitude is degrees west.
// A miss returns nil with no error; the caller decides whether skipping the
// correction is acceptable.
func MatchSite(lonWest, lat, tolerDeg float64) (*Site, error) {
	sites, err := Sites()
	if err != nil {
		return nil, err
	}

	// Treat (lon, lat) as a point on the sphere so separation math is shared
	// with the sky case. West longitudes map onto RA without wrapping issues
	// for the distances involved.
	target := coords.Point{RA: lonWest, Dec: lat}
	points := make([]coords.Point, len(sites))
	for i, s := range sites {
		points[i] = coords.Point{RA: s.Lon, Dec: s.Lat}
	}

	idx, sepDeg := coords.Nearest(target, points)
	if idx < 0 || sepDeg > tolerDeg {
		return nil, nil
	}
	return &sites[idx], nil
}
