// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package coords parses equatorial sky coordinates and computes angular
// separations for matching targets against archived reference tables.
package coords

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a sky position in decimal degrees.
type Point struct {
	RA  float64
	Dec float64
}

// ParseRA accepts right ascension either as sexagesimal hours ("05:05:30.6")
// or as decimal degrees ("76.3775"). The result is decimal degrees in
// [0, 360).
func ParseRA(s string) (float64, error) {
	if strings.Contains(s, ":") {
		hours, err := parseSexagesimal(s)
		if err != nil {
			return 0, fmt.Errorf("invalid RA %q: %w", s, err)
		}
		if hours < 0 || hours >= 24 {
			return 0, fmt.Errorf("invalid RA %q: hours out of range", s)
		}
		return hours * 15.0, nil
	}

	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid RA %q: %w", s, err)
	}
	if deg < 0 || deg >= 360 {
		return 0, fmt.Errorf("invalid RA %q: degrees out of range", s)
	}
	return deg, nil
}

// ParseDec accepts declination either as sexagesimal degrees ("+52:49:54",
// "-00:30:00") or as decimal degrees. The result is decimal degrees in
// [-90, +90].
func ParseDec(s string) (float64, error) {
	var deg float64
	var err error

	if strings.Contains(s, ":") {
		deg, err = parseSexagesimal(s)
	} else {
		deg, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid Dec %q: %w", s, err)
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("invalid Dec %q: degrees out of range", s)
	}
	return deg, nil
}

// Parse builds a Point from RA and Dec strings in either supported notation.
func Parse(ra, dec string) (Point, error) {
	r, err := ParseRA(ra)
	if err != nil {
		return Point{}, err
	}
	d, err := ParseDec(dec)
	if err != nil {
		return Point{}, err
	}
	return Point{RA: r, Dec: d}, nil
}

// parseSexagesimal converts "dd:mm:ss.s" into a float in the leading unit.
// The sign on the leading field applies to the whole value, including the
// "-00:mm:ss" case.
func parseSexagesimal(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("expected 2 or 3 fields, got %d", len(parts))
	}

	negative := strings.HasPrefix(parts[0], "-")
	lead, err := strconv.ParseFloat(strings.TrimPrefix(parts[0], "+"), 64)
	if err != nil {
		return 0, err
	}
	lead = math.Abs(lead)

	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, err
	}
	if minutes < 0 || minutes >= 60 {
		return 0, fmt.Errorf("minutes out of range: %g", minutes)
	}

	seconds := 0.0
	if len(parts) == 3 {
		seconds, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, err
		}
		if seconds < 0 || seconds >= 60 {
			return 0, fmt.Errorf("seconds out of range: %g", seconds)
		}
	}

	value := lead + minutes/60.0 + seconds/3600.0
	if negative {
		value = -value
	}
	return value, nil
}

// Separation returns the great-circle angular separation between two points
// in degrees, computed with the haversine formula so that small separations
// stay numerically stable.
func Separation(a, b Point) float64 {
	ra1, dec1 := a.RA*math.Pi/180, a.Dec*math.Pi/180
	ra2, dec2 := b.RA*math.Pi/180, b.Dec*math.Pi/180

	sinDec := math.Sin((dec2 - dec1) / 2)
	sinRA := math.Sin((ra2 - ra1) / 2)
	h := sinDec*sinDec + math.Cos(dec1)*math.Cos(dec2)*sinRA*sinRA

	return 2 * math.Asin(math.Min(1, math.Sqrt(h))) * 180 / math.Pi
}

// Nearest returns the index of the point closest to target and the
// separation in degrees. An empty slice yields -1.
func Nearest(target Point, points []Point) (int, float64) {
	best := -1
	bestSep := math.MaxFloat64
	for i, p := range points {
		if sep := Separation(target, p); sep < bestSep {
			best = i
			bestSep = sep
		}
	}
	return best, bestSep
}
