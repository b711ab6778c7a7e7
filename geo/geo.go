// geo/geo.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package geo implements the discrete-step movement model that drone
// flight paths are planned on: a plane-projected (lng, lat) grid with a
// fixed step size and a 16-direction compass, with wrap-around longitude
// and impassable poles.
package geo

import (
	"math"
)

const (
	// Step is the fixed lng/lat delta covered by one drone move.
	Step = 0.00015

	// CloseThreshold is the distance below which two positions are
	// considered to be the same place for delivery purposes.
	CloseThreshold = 0.00015
)

// Angles lists the legal flight directions in degrees; east is 0, north is
// 90, counter-clockwise.
var Angles = [16]float64{
	0, 22.5, 45, 67.5, 90, 112.5, 135, 157.5,
	180, 202.5, 225, 247.5, 270, 292.5, 315, 337.5,
}

// Position is a (longitude, latitude) pair on the planning plane.
type Position struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Valid reports whether both coordinates are finite and within the legal
// lng/lat ranges. (NaN fails the range comparisons, so it needs no special
// handling.)
func (p Position) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// GridKey identifies the grid cell a Position quantizes to; positions
// within a half-Step of the same cell center share a key.
type GridKey struct {
	Lng, Lat int64
}

// GridKey returns the quantized cell for the position. It is used for the
// pathfinder's closed set and recency window, where nearby continuous
// positions must collapse to a single discrete state.
func (p Position) GridKey() GridKey {
	return GridKey{
		Lng: int64(math.Round(p.Lng / Step)),
		Lat: int64(math.Round(p.Lat / Step)),
	}
}

// Region is a named closed polygon; flight paths may not enter it.
type Region struct {
	Name     string     `json:"name"`
	Vertices []Position `json:"vertices"`
}

// Closed reports whether the region is a well-formed closed ring: at least
// four vertices with the first repeated as the last.
func (r Region) Closed() bool {
	if len(r.Vertices) < 4 {
		return false
	}
	first, last := r.Vertices[0], r.Vertices[len(r.Vertices)-1]
	if !first.Valid() || !last.Valid() {
		return false
	}
	return first.Lng == last.Lng && first.Lat == last.Lat
}

// Distance returns the Euclidean distance between the two positions on the
// planning plane. The second return value is false if either position is
// invalid.
func Distance(p1, p2 Position) (float64, bool) {
	if !p1.Valid() || !p2.Valid() {
		return 0, false
	}
	dx := p1.Lng - p2.Lng
	dy := p1.Lat - p2.Lat
	return math.Sqrt(dx*dx + dy*dy), true
}

// IsClose reports whether the two positions are strictly closer than
// CloseThreshold; a position exactly one Step away is not close. The
// second return value is false if either position is invalid.
func IsClose(p1, p2 Position) (bool, bool) {
	d, ok := Distance(p1, p2)
	if !ok {
		return false, false
	}
	return d < CloseThreshold, true
}

// LegalAngle reports whether the given angle is one of the 16 compass
// directions a drone may fly.
func LegalAngle(angle float64) bool {
	for _, a := range Angles {
		if a == angle {
			return true
		}
	}
	return false
}

// NextPosition returns the position one Step from start in the given
// direction. The move is rejected (ok == false) when start is invalid, the
// angle is not one of the 16 legal directions, or the move would cross a
// pole. Longitude wraps around at +/-180.
func NextPosition(start Position, angle float64) (Position, bool) {
	if !start.Valid() || !LegalAngle(angle) {
		return Position{}, false
	}

	rad := angle * math.Pi / 180
	lng := start.Lng + math.Cos(rad)*Step
	lat := start.Lat + math.Sin(rad)*Step

	// The poles are impassable.
	if lat > 90 || lat < -90 {
		return Position{}, false
	}

	if lng > 180 {
		lng = -180 + (lng - 180)
	} else if lng < -180 {
		lng = 180 + (lng + 180)
	}

	return Position{Lng: lng, Lat: lat}, true
}
