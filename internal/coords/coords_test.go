// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRA(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "sexagesimal hours", in: "05:05:30.6", want: 76.3775},
		{name: "sexagesimal no seconds", in: "12:30", want: 187.5},
		{name: "decimal degrees", in: "76.6525", want: 76.6525},
		{name: "zero", in: "00:00:00", want: 0},
		{name: "hours out of range", in: "24:00:01", wantErr: true},
		{name: "degrees out of range", in: "361.0", wantErr: true},
		{name: "minutes out of range", in: "05:61:00", wantErr: true},
		{name: "garbage", in: "five hours", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRA(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "positive sexagesimal", in: "+52:49:54", want: 52.831666666666},
		{name: "negative sexagesimal", in: "-09:10:30", want: -9.175},
		{name: "negative zero degrees", in: "-00:30:00", want: -0.5},
		{name: "decimal degrees", in: "52.86694", want: 52.86694},
		{name: "pole", in: "90.0", want: 90},
		{name: "beyond pole", in: "90:00:01", wantErr: true},
		{name: "seconds out of range", in: "10:00:60", wantErr: true},
		{name: "garbage", in: "north", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{name: "identical", a: Point{RA: 76, Dec: 52}, b: Point{RA: 76, Dec: 52}, want: 0},
		{name: "one degree in dec", a: Point{RA: 0, Dec: 0}, b: Point{RA: 0, Dec: 1}, want: 1},
		{name: "one degree in ra at equator", a: Point{RA: 10, Dec: 0}, b: Point{RA: 11, Dec: 0}, want: 1},
		{name: "ra compressed at high dec", a: Point{RA: 10, Dec: 60}, b: Point{RA: 11, Dec: 60}, want: 0.5},
		{name: "antipodal", a: Point{RA: 0, Dec: 0}, b: Point{RA: 180, Dec: 0}, want: 180},
		{name: "pole to pole", a: Point{RA: 42, Dec: 90}, b: Point{RA: 300, Dec: -90}, want: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Separation(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-3)
		})
	}
}

func TestSeparationWrapsAroundZeroRA(t *testing.T) {
	a := Point{RA: 359.5, Dec: 0}
	b := Point{RA: 0.5, Dec: 0}
	assert.InDelta(t, 1.0, Separation(a, b), 1e-6)
}

func TestNearest(t *testing.T) {
	points := []Point{
		{RA: 10, Dec: 10},
		{RA: 76.3775, Dec: 52.8317},
		{RA: 200, Dec: -30},
	}

	idx, sep := Nearest(Point{RA: 76.4, Dec: 52.83}, points)
	assert.Equal(t, 1, idx)
	assert.Less(t, sep, 0.05)

	idx, _ = Nearest(Point{RA: 199, Dec: -29}, points)
	assert.Equal(t, 2, idx)

	idx, _ = Nearest(Point{RA: 0, Dec: 0}, nil)
	assert.Equal(t, -1, idx)
}
