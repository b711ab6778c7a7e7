// geo/geo_test.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	type testCase struct {
		name     string
		p1, p2   Position
		expected float64
		ok       bool
	}

	testCases := []testCase{
		{
			name:     "SamePosition",
			p1:       Position{Lng: -3.186874, Lat: 55.944494},
			p2:       Position{Lng: -3.186874, Lat: 55.944494},
			expected: 0,
			ok:       true,
		},
		{
			name:     "UnitTriangle",
			p1:       Position{Lng: 0, Lat: 0},
			p2:       Position{Lng: 3, Lat: 4},
			expected: 5,
			ok:       true,
		},
		{
			name: "InvalidLongitude",
			p1:   Position{Lng: 181, Lat: 0},
			p2:   Position{Lng: 0, Lat: 0},
			ok:   false,
		},
		{
			name: "InvalidLatitude",
			p1:   Position{Lng: 0, Lat: 0},
			p2:   Position{Lng: 0, Lat: -90.5},
			ok:   false,
		},
		{
			name: "NaNCoordinate",
			p1:   Position{Lng: math.NaN(), Lat: 0},
			p2:   Position{Lng: 0, Lat: 0},
			ok:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := Distance(tc.p1, tc.p2)
			if ok != tc.ok {
				t.Fatalf("got ok %v, expected %v", ok, tc.ok)
			}
			if ok && math.Abs(d-tc.expected) > 1e-12 {
				t.Errorf("got %v, expected %v", d, tc.expected)
			}
		})
	}
}

func TestDistanceSymmetryAndTriangle(t *testing.T) {
	pts := []Position{
		{Lng: 0, Lat: 0},
		{Lng: -3.19, Lat: 55.94},
		{Lng: 179.5, Lat: -12.25},
		{Lng: 0.001, Lat: 0.002},
	}

	for _, a := range pts {
		for _, b := range pts {
			dab, _ := Distance(a, b)
			dba, _ := Distance(b, a)
			if dab != dba {
				t.Errorf("distance not symmetric: %v vs %v", dab, dba)
			}
			for _, c := range pts {
				dac, _ := Distance(a, c)
				dbc, _ := Distance(b, c)
				if dac > dab+dbc+1e-12 {
					t.Errorf("triangle inequality violated for %v %v %v", a, b, c)
				}
			}
		}
	}
}

func TestIsClose(t *testing.T) {
	a := Position{Lng: 0, Lat: 0}

	if close, ok := IsClose(a, a); !ok || !close {
		t.Errorf("a position must be close to itself")
	}

	// Exactly one Step away is not close: the comparison is strict.
	b := Position{Lng: Step, Lat: 0}
	if close, ok := IsClose(a, b); !ok || close {
		t.Errorf("position exactly Step away must not be close")
	}

	c := Position{Lng: Step / 2, Lat: 0}
	if close, ok := IsClose(a, c); !ok || !close {
		t.Errorf("position half a Step away must be close")
	}

	if _, ok := IsClose(a, Position{Lng: 200, Lat: 0}); ok {
		t.Errorf("invalid position must not report ok")
	}
}

func TestNextPosition(t *testing.T) {
	type testCase struct {
		name     string
		start    Position
		angle    float64
		expected Position
		ok       bool
	}

	testCases := []testCase{
		{
			name:     "East",
			start:    Position{Lng: 0, Lat: 0},
			angle:    0,
			expected: Position{Lng: Step, Lat: 0},
			ok:       true,
		},
		{
			name:     "North",
			start:    Position{Lng: 0, Lat: 0},
			angle:    90,
			expected: Position{Lng: 0, Lat: Step},
			ok:       true,
		},
		{
			name:     "WrapEastward",
			start:    Position{Lng: 179.99990, Lat: 0},
			angle:    0,
			expected: Position{Lng: -179.99995, Lat: 0},
			ok:       true,
		},
		{
			name:     "WrapWestward",
			start:    Position{Lng: -179.99990, Lat: 0},
			angle:    180,
			expected: Position{Lng: 179.99995, Lat: 0},
			ok:       true,
		},
		{
			name:  "PoleBlocked",
			start: Position{Lng: 0, Lat: 89.99999},
			angle: 90,
			ok:    false,
		},
		{
			name:  "SouthPoleBlocked",
			start: Position{Lng: 0, Lat: -89.99999},
			angle: 270,
			ok:    false,
		},
		{
			name:  "IllegalAngle",
			start: Position{Lng: 0, Lat: 0},
			angle: 30,
			ok:    false,
		},
		{
			name:  "InvalidStart",
			start: Position{Lng: 181, Lat: 0},
			angle: 0,
			ok:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := NextPosition(tc.start, tc.angle)
			if ok != tc.ok {
				t.Fatalf("got ok %v, expected %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if math.Abs(p.Lng-tc.expected.Lng) > 1e-9 || math.Abs(p.Lat-tc.expected.Lat) > 1e-9 {
				t.Errorf("got %+v, expected %+v", p, tc.expected)
			}
		})
	}
}

func TestNextPositionRoundTrip(t *testing.T) {
	// Moving at angle theta and then at theta+180 must return to the
	// start within epsilon.
	start := Position{Lng: 10, Lat: 47.3}
	for _, angle := range Angles {
		mid, ok := NextPosition(start, angle)
		if !ok {
			t.Fatalf("angle %v: unexpected invalid move", angle)
		}
		back := math.Mod(angle+180, 360)
		end, ok := NextPosition(mid, back)
		if !ok {
			t.Fatalf("angle %v: unexpected invalid return move", back)
		}
		if d, _ := Distance(start, end); d > 1e-7 {
			t.Errorf("angle %v: round trip missed start by %v", angle, d)
		}
	}
}

func TestStepAccumulation(t *testing.T) {
	// n identical cardinal moves end exactly n steps away.
	p := Position{Lng: 0, Lat: 0}
	start := p
	const n = 7
	for range n {
		var ok bool
		p, ok = NextPosition(p, 0)
		if !ok {
			t.Fatal("unexpected invalid move")
		}
	}
	d, _ := Distance(start, p)
	if math.Abs(d-n*Step) > 1e-9 {
		t.Errorf("after %d moves, distance %v, expected %v", n, d, n*Step)
	}
}

func TestGridKey(t *testing.T) {
	a := Position{Lng: 0, Lat: 0}
	b := Position{Lng: Step / 4, Lat: -Step / 4}
	if a.GridKey() != b.GridKey() {
		t.Errorf("positions within a half-step must share a grid key")
	}

	c := Position{Lng: Step, Lat: 0}
	if a.GridKey() == c.GridKey() {
		t.Errorf("positions a full step apart must not share a grid key")
	}
}

func TestRegionClosed(t *testing.T) {
	square := Region{Vertices: []Position{
		{Lng: 0, Lat: 0}, {Lng: 1, Lat: 0}, {Lng: 1, Lat: 1}, {Lng: 0, Lat: 1}, {Lng: 0, Lat: 0},
	}}
	if !square.Closed() {
		t.Errorf("closed square reported as not closed")
	}

	open := Region{Vertices: square.Vertices[:4]}
	if open.Closed() {
		t.Errorf("open ring reported as closed")
	}

	tooFew := Region{Vertices: []Position{{Lng: 0, Lat: 0}, {Lng: 1, Lat: 1}, {Lng: 0, Lat: 0}}}
	if tooFew.Closed() {
		t.Errorf("three-vertex ring reported as closed")
	}
}
