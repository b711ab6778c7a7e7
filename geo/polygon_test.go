// geo/polygon_test.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"testing"
)

// closedSquare is the unit square as a closed ring.
var closedSquare = []Position{
	{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1}, {Lng: 0, Lat: 1}, {Lng: 0, Lat: 0},
}

func TestPointInPolygon(t *testing.T) {
	type testCase struct {
		name     string
		point    Position
		polygon  []Position
		expected bool
	}

	testCases := []testCase{
		{
			name:     "InsideSquare",
			point:    Position{Lng: 0.5, Lat: 0.5},
			polygon:  closedSquare,
			expected: true,
		},
		{
			name:     "OutsideSquare",
			point:    Position{Lng: 2, Lat: 2},
			polygon:  closedSquare,
			expected: false,
		},
		{
			name:     "LeftOfSquare",
			point:    Position{Lng: -0.5, Lat: 0.5},
			polygon:  closedSquare,
			expected: false,
		},
		{
			name:     "OnBottomEdge",
			point:    Position{Lng: 0.5, Lat: 0},
			polygon:  closedSquare,
			expected: true,
		},
		{
			name:     "OnVerticalEdge",
			point:    Position{Lng: 1, Lat: 0.5},
			polygon:  closedSquare,
			expected: true,
		},
		{
			name:     "OnVertex",
			point:    Position{Lng: 0, Lat: 0},
			polygon:  closedSquare,
			expected: true,
		},
		{
			name:     "JustOutsideEdge",
			point:    Position{Lng: 1.0001, Lat: 0.5},
			polygon:  closedSquare,
			expected: false,
		},
		{
			name:  "InsideConcave",
			point: Position{Lng: 0.5, Lat: 0.8},
			polygon: []Position{
				{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1},
				{Lng: 0.5, Lat: 0.4}, {Lng: 0, Lat: 1}, {Lng: 0, Lat: 0},
			},
			expected: false,
		},
		{
			name:  "InsideConcaveArm",
			point: Position{Lng: 0.9, Lat: 0.8},
			polygon: []Position{
				{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1},
				{Lng: 0.5, Lat: 0.4}, {Lng: 0, Lat: 1}, {Lng: 0, Lat: 0},
			},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := PointInPolygon(tc.point, tc.polygon)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v for point %v", tc.expected, result, tc.point)
			}
		})
	}
}

func TestIsValidMove(t *testing.T) {
	// A thin vertical wall between start and end.
	wall := Region{Name: "wall", Vertices: []Position{
		{Lng: 0.4, Lat: -1}, {Lng: 0.6, Lat: -1}, {Lng: 0.6, Lat: 1}, {Lng: 0.4, Lat: 1}, {Lng: 0.4, Lat: -1},
	}}

	start := Position{Lng: 0, Lat: 0}
	end := Position{Lng: 1, Lat: 0}

	if IsValidMove(start, end, []Region{wall}) {
		t.Errorf("move through a restricted area reported valid")
	}

	if !IsValidMove(start, Position{Lng: 0.2, Lat: 0}, []Region{wall}) {
		t.Errorf("move clear of the restricted area reported invalid")
	}

	// Moves ending inside the region fail on the endpoint test.
	if IsValidMove(start, Position{Lng: 0.5, Lat: 0}, []Region{wall}) {
		t.Errorf("move ending inside a restricted area reported valid")
	}

	// Malformed regions (fewer than three vertices) are skipped.
	malformed := Region{Vertices: []Position{{Lng: 0.4, Lat: -1}, {Lng: 0.6, Lat: 1}}}
	if !IsValidMove(start, end, []Region{malformed}) {
		t.Errorf("malformed region must not block moves")
	}

	if !IsValidMove(start, end, nil) {
		t.Errorf("move with no restricted areas reported invalid")
	}
}
