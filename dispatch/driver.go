// dispatch/driver.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/medifly/dispatch/geo"
	"github.com/medifly/dispatch/ilp"
	"github.com/medifly/dispatch/util"
)

// emptyResult is what infeasible or degraded planning calls return; it is
// a valid result, not an error.
func emptyResult() Result {
	return Result{DronePaths: []DronePath{}}
}

// CalcDeliveryPath plans sorties until every record is served or no drone
// can serve anything more. Each iteration evaluates every drone against
// the remaining records and flies the one that serves the most in a
// single sortie; ties go to the first drone in fleet order.
func (p *Planner) CalcDeliveryPath(ctx context.Context, recs []Record) Result {
	result := emptyResult()
	if len(recs) == 0 {
		return result
	}

	snap, err := ilp.FetchSnapshot(ctx, p.client, p.lg)
	if err != nil {
		p.lg.Warnf("fleet snapshot unavailable: %v", err)
		return result
	}

	idx := BuildAvailabilityIndex(snap.Availability)
	legs := newLegCache(snap.RestrictedAreas)

	remaining := slices.Clone(recs)
	for len(remaining) > 0 {
		var bestDrone *ilp.Drone
		var bestHome ilp.ServicePoint
		var bestSubset []Record

		for i, d := range snap.Drones {
			home, ok := homeServicePoint(d.ID, snap.Availability, snap.ServicePoints)
			if !ok {
				continue
			}

			subset := findMaxSubset(ctx, d, home, remaining, idx, legs)
			if len(subset) > len(bestSubset) {
				bestDrone = &snap.Drones[i]
				bestHome = home
				bestSubset = subset
			}
		}

		if bestDrone == nil || len(bestSubset) == 0 {
			break
		}

		dronePath := p.buildDronePath(ctx, *bestDrone, bestHome, bestSubset, legs)
		if len(dronePath.Deliveries) == 0 {
			break
		}

		result.DronePaths = append(result.DronePaths, dronePath)

		moves := computeMoves(dronePath)
		result.TotalMoves += moves
		result.TotalCost += computeCost(*bestDrone, moves)

		p.lg.Info("planned sortie",
			slog.String("drone", bestDrone.ID),
			slog.Int("deliveries", len(bestSubset)),
			slog.Int("moves", moves))

		served := make(map[int]bool, len(bestSubset))
		for _, rec := range bestSubset {
			served[rec.ID] = true
		}
		remaining = util.FilterSlice(remaining, func(r Record) bool { return !served[r.ID] })
	}
	return result
}

// homeServicePoint finds the drone's home base: the first service point
// whose availability entry lists the drone.
func homeServicePoint(droneID string, table []ilp.ServicePointDrones,
	servicePoints []ilp.ServicePoint) (ilp.ServicePoint, bool) {
	for _, entry := range table {
		for _, da := range entry.Drones {
			if da.ID != droneID {
				continue
			}
			for _, sp := range servicePoints {
				if sp.ID == entry.ServicePointID {
					return sp, true
				}
			}
		}
	}
	return ilp.ServicePoint{}, false
}

// buildDronePath turns a chosen subset into the concrete sortie: one leg
// per record in ascending id order, then the return leg with the sentinel
// delivery id. Every leg ends with a hover duplicate of its final
// position. If any leg turns out to be infeasible the path built so far
// is returned and the sortie is abandoned by the caller.
func (p *Planner) buildDronePath(ctx context.Context, d ilp.Drone, home ilp.ServicePoint,
	recs []Record, legs *legCache) DronePath {
	dronePath := DronePath{DroneID: d.ID, Deliveries: []DeliveryPath{}}
	if len(recs) == 0 {
		return dronePath
	}

	ordered := slices.Clone(recs)
	slices.SortStableFunc(ordered, func(a, b Record) int { return a.ID - b.ID })

	current := home.Location
	for _, rec := range ordered {
		leg := legs.leg(ctx, current, rec.Delivery)
		if len(leg) == 0 {
			return dronePath
		}

		flight := make([]geo.Position, 0, len(leg)+1)
		flight = append(flight, leg...)
		flight = append(flight, leg[len(leg)-1]) // hover

		dronePath.Deliveries = append(dronePath.Deliveries, DeliveryPath{
			DeliveryID: rec.ID,
			FlightPath: flight,
		})

		// Advance to the last pre-hover position of the leg.
		current = flight[len(flight)-2]
	}

	returnLeg := legs.leg(ctx, current, home.Location)
	if len(returnLeg) == 0 {
		return dronePath
	}

	flight := make([]geo.Position, 0, len(returnLeg)+1)
	flight = append(flight, returnLeg...)
	flight = append(flight, returnLeg[len(returnLeg)-1])

	dronePath.Deliveries = append(dronePath.Deliveries, DeliveryPath{
		DeliveryID: ReturnLegID,
		FlightPath: flight,
	})

	return dronePath
}

// computeMoves counts the moves in a sortie: one fewer than the positions
// of each leg, which also absorbs the hover duplicate.
func computeMoves(dp DronePath) int {
	total := 0
	for _, leg := range dp.Deliveries {
		if n := len(leg.FlightPath); n > 0 {
			total += n - 1
		}
	}
	return total
}

func computeCost(d ilp.Drone, moves int) float64 {
	c := d.Capability
	return c.CostInitial + float64(moves)*c.CostPerMove + c.CostFinal
}

// lineString is the literal GeoJSON shape emitted for a flattened flight
// path.
type lineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// EmptyLineString is the GeoJSON emitted when no route can be planned.
const EmptyLineString = `{"type":"LineString","coordinates":[]}`

// CalcDeliveryPathGeoJSON plans a single-drone sortie covering every
// record and returns the flattened flight path as a GeoJSON LineString
// string. The first drone whose maximum subset covers the whole batch is
// flown; when no drone can cover it the empty LineString is returned.
func (p *Planner) CalcDeliveryPathGeoJSON(ctx context.Context, recs []Record) string {
	if len(recs) == 0 {
		return EmptyLineString
	}

	snap, err := ilp.FetchSnapshot(ctx, p.client, p.lg)
	if err != nil {
		p.lg.Warnf("fleet snapshot unavailable: %v", err)
		return EmptyLineString
	}

	idx := BuildAvailabilityIndex(snap.Availability)
	legs := newLegCache(snap.RestrictedAreas)

	var chosen *ilp.Drone
	var chosenHome ilp.ServicePoint
	for i, d := range snap.Drones {
		home, ok := homeServicePoint(d.ID, snap.Availability, snap.ServicePoints)
		if !ok {
			continue
		}
		if subset := findMaxSubset(ctx, d, home, recs, idx, legs); len(subset) == len(recs) {
			chosen = &snap.Drones[i]
			chosenHome = home
			break
		}
	}
	if chosen == nil {
		return EmptyLineString
	}

	dronePath := p.buildDronePath(ctx, *chosen, chosenHome, recs, legs)

	ls := lineString{Type: "LineString", Coordinates: [][2]float64{}}
	for _, leg := range dronePath.Deliveries {
		for _, pos := range leg.FlightPath {
			ls.Coordinates = append(ls.Coordinates, [2]float64{pos.Lng, pos.Lat})
		}
	}

	b, err := json.Marshal(ls)
	if err != nil {
		// A LineString of floats cannot fail to marshal.
		return EmptyLineString
	}
	return string(b)
}
