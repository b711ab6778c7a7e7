// geo/polygon.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"math"
)

// PointInPolygon reports whether p is inside the closed ring described by
// verts using a rightward ray cast. Points on the boundary count as
// inside. The ring is expected to repeat its first vertex at the end; the
// modular edge walk also tolerates an unclosed ring.
func PointInPolygon(p Position, verts []Position) bool {
	n := len(verts)
	if n == 0 {
		return false
	}

	x, y := p.Lng, p.Lat
	inside := false

	p1 := verts[0]
	for i := 0; i <= n; i++ {
		p2 := verts[i%n]

		if pointOnSegment(x, y, p1.Lng, p1.Lat, p2.Lng, p2.Lat) {
			return true
		}

		// Standard crossing test, except that a vertical edge always
		// toggles when x is at or left of it; non-vertical edges compare
		// against the ray/edge intersection.
		if y > math.Min(p1.Lat, p2.Lat) && y <= math.Max(p1.Lat, p2.Lat) &&
			x <= math.Max(p1.Lng, p2.Lng) {
			if p1.Lng == p2.Lng {
				inside = !inside
			} else {
				xIntersect := (y-p1.Lat)*(p2.Lng-p1.Lng)/(p2.Lat-p1.Lat) + p1.Lng
				if x <= xIntersect {
					inside = !inside
				}
			}
		}

		p1 = p2
	}
	return inside
}

// pointOnSegment reports whether (px, py) lies on the segment from
// (x1, y1) to (x2, y2): collinear within a 1e-12 cross-product tolerance
// and between the endpoints.
func pointOnSegment(px, py, x1, y1, x2, y2 float64) bool {
	cross := (py-y1)*(x2-x1) - (px-x1)*(y2-y1)
	if math.Abs(cross) > 1e-12 {
		return false
	}

	dot := (px-x1)*(px-x2) + (py-y1)*(py-y2)
	return dot <= 0
}

// moveSamples is the number of points sampled along a candidate move when
// testing it against restricted areas.
const moveSamples = 100

// IsValidMove reports whether the straight segment from start to end stays
// clear of every restricted area. Each region is tested at the endpoint
// and at interior samples along the segment; regions with fewer than three
// vertices are skipped as malformed.
func IsValidMove(start, end Position, regions []Region) bool {
	for _, r := range regions {
		if len(r.Vertices) < 3 {
			continue
		}

		// Endpoint first: the most common failure is stepping into a
		// region, and it saves sampling the whole segment.
		if PointInPolygon(end, r.Vertices) {
			return false
		}

		for i := 1; i < moveSamples; i++ {
			t := float64(i) / moveSamples
			sample := Position{
				Lng: start.Lng + t*(end.Lng-start.Lng),
				Lat: start.Lat + t*(end.Lat-start.Lat),
			}
			if PointInPolygon(sample, r.Vertices) {
				return false
			}
		}
	}
	return true
}
