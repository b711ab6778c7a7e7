// dispatch/sortie.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

import (
	"context"
	"math"
	"slices"

	"github.com/medifly/dispatch/geo"
	"github.com/medifly/dispatch/ilp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// legKey identifies one A* leg by its exact endpoints. Restricted areas
// are fixed for the lifetime of a cache, so they are not part of the key.
type legKey struct {
	fromLng, fromLat float64
	toLng, toLat     float64
}

// legCache memoizes computed flight legs for the duration of one planning
// call. The same leg is needed first when the sortie planner evaluates a
// candidate and again when the final path is built, and candidate legs
// repeat across outer-loop iterations.
type legCache struct {
	paths   *lru.Cache[legKey, []geo.Position]
	regions []geo.Region
}

const legCacheSize = 512

func newLegCache(regions []geo.Region) *legCache {
	paths, _ := lru.New[legKey, []geo.Position](legCacheSize)
	return &legCache{paths: paths, regions: regions}
}

// leg returns the A* path between the two positions, computing and caching
// it on first use. Infeasible legs are cached as nil like any other.
func (lc *legCache) leg(ctx context.Context, from, to geo.Position) []geo.Position {
	key := legKey{from.Lng, from.Lat, to.Lng, to.Lat}
	if path, ok := lc.paths.Get(key); ok {
		return path
	}
	path := geo.FindPath(ctx, from, to, lc.regions)
	lc.paths.Add(key, path)
	return path
}

// findMaxSubset greedily selects the dispatch records the drone can serve
// in a single sortie out of its home service point.
//
// Eligible candidates are walked in ascending record-id order. Each is
// accepted only if, with the return leg tentatively counted, the sortie
// still fits the drone's capacity and move budget, and, once any selected
// record carries a maxCost cap, the amortised per-delivery sortie cost
// stays within the tightest cap seen so far. Return-leg moves are
// re-counted at each step rather than locked in, so the chosen subset is
// always feasible as written.
func findMaxSubset(ctx context.Context, d ilp.Drone, home ilp.ServicePoint,
	remaining []Record, idx AvailabilityIndex, legs *legCache) []Record {
	if d.Capability == nil {
		return nil
	}
	cap := d.Capability

	var candidates []Record
	for _, rec := range remaining {
		if CanServe(d, rec) && idx.IsAvailable(d.ID, rec.Date, rec.Time) {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	slices.SortStableFunc(candidates, func(a, b Record) int { return a.ID - b.ID })

	var chosen []Record
	usedCapacity := 0.0
	usedMoves := 0
	currentPos := home.Location
	minMaxCost := math.Inf(1)

	for _, candidate := range candidates {
		reqCapacity := 0.0
		if candidate.Requirements.Capacity != nil {
			reqCapacity = *candidate.Requirements.Capacity
		}
		nextCapacity := usedCapacity + reqCapacity
		if nextCapacity > cap.Capacity {
			continue
		}

		forward := legs.leg(ctx, currentPos, candidate.Delivery)
		if len(forward) == 0 {
			continue
		}
		tmpMoves := usedMoves + len(forward) - 1

		returnLeg := legs.leg(ctx, candidate.Delivery, home.Location)
		if len(returnLeg) == 0 {
			continue
		}
		movesIfIncluded := tmpMoves + len(returnLeg) - 1

		if movesIfIncluded > cap.MaxMoves {
			continue
		}

		// Track the tightest maxCost cap across chosen records; a cap of
		// zero or less means no constraint.
		recMaxCost := 0.0
		if candidate.Requirements.MaxCost != nil {
			recMaxCost = *candidate.Requirements.MaxCost
		}
		newMinMaxCost := minMaxCost
		if recMaxCost > 0 && recMaxCost < minMaxCost {
			newMinMaxCost = recMaxCost
		}

		if !math.IsInf(newMinMaxCost, 1) {
			flightCost := cap.CostInitial + float64(movesIfIncluded)*cap.CostPerMove + cap.CostFinal
			perDeliveryCost := flightCost / float64(len(chosen)+1)
			if perDeliveryCost > newMinMaxCost {
				continue
			}
		}

		chosen = append(chosen, candidate)
		usedCapacity = nextCapacity
		usedMoves = tmpMoves
		currentPos = candidate.Delivery
		minMaxCost = newMinMaxCost
	}
	return chosen
}
