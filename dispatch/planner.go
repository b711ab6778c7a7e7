// dispatch/planner.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

import (
	"context"

	"github.com/medifly/dispatch/ilp"
	"github.com/medifly/dispatch/log"
	"github.com/medifly/dispatch/util"
)

// Planner answers fleet queries and plans delivery sorties. All fleet
// data is fetched fresh from the platform per call and treated as an
// immutable snapshot for that call only; the Planner itself is stateless
// and safe for concurrent use.
type Planner struct {
	client ilp.Client
	lg     *log.Logger
}

func NewPlanner(client ilp.Client, lg *log.Logger) *Planner {
	return &Planner{client: client, lg: lg}
}

// DronesWithCooling returns the ids of drones whose cooling capability
// matches state. Drones without a recorded capability are excluded either
// way.
func (p *Planner) DronesWithCooling(ctx context.Context, state bool) []string {
	drones, err := p.client.Drones(ctx)
	if err != nil {
		p.lg.Warnf("drones unavailable: %v", err)
		return nil
	}

	withCooling := util.FilterSlice(drones, func(d ilp.Drone) bool {
		return d.Capability != nil && d.Capability.Cooling == state
	})
	return util.MapSlice(withCooling, func(d ilp.Drone) string { return d.ID })
}

// DroneByID returns the drone with the given id, or nil when there is no
// such drone.
func (p *Planner) DroneByID(ctx context.Context, id string) *ilp.Drone {
	if id == "" {
		return nil
	}

	drones, err := p.client.Drones(ctx)
	if err != nil {
		p.lg.Warnf("drones unavailable: %v", err)
		return nil
	}

	for _, d := range drones {
		if d.ID == id {
			return &d
		}
	}
	return nil
}

// QueryAttribute returns the ids of drones whose named attribute equals
// value.
func (p *Planner) QueryAttribute(ctx context.Context, attribute, value string) []string {
	drones, err := p.client.Drones(ctx)
	if err != nil {
		p.lg.Warnf("drones unavailable: %v", err)
		return nil
	}

	matched := util.FilterSlice(drones, func(d ilp.Drone) bool {
		return MatchAttribute(d, attribute, value)
	})
	return util.MapSlice(matched, func(d ilp.Drone) string { return d.ID })
}

// Query returns the ids of drones matching every valid clause of the
// query list.
func (p *Planner) Query(ctx context.Context, queries []Query) []string {
	drones, err := p.client.Drones(ctx)
	if err != nil {
		p.lg.Warnf("drones unavailable: %v", err)
		return nil
	}

	matched := util.FilterSlice(drones, func(d ilp.Drone) bool {
		return MatchAll(d, queries)
	})
	return util.MapSlice(matched, func(d ilp.Drone) string { return d.ID })
}

// QueryAvailableDrones returns the ids of drones that can serve every one
// of the given dispatch records: capability requirements met and available
// at each record's date and time.
func (p *Planner) QueryAvailableDrones(ctx context.Context, recs []Record) []string {
	if len(recs) == 0 {
		return nil
	}

	drones, err := p.client.Drones(ctx)
	if err != nil {
		p.lg.Warnf("drones unavailable: %v", err)
		return nil
	}
	table, err := p.client.DronesForServicePoints(ctx)
	if err != nil {
		p.lg.Warnf("availability table unavailable: %v", err)
		return nil
	}

	idx := BuildAvailabilityIndex(table)

	canServeAll := func(d ilp.Drone) bool {
		for _, rec := range recs {
			if !CanServe(d, rec) {
				return false
			}
			if !idx.IsAvailable(d.ID, rec.Date, rec.Time) {
				return false
			}
		}
		return true
	}

	matched := util.FilterSlice(drones, canServeAll)
	return util.MapSlice(matched, func(d ilp.Drone) string { return d.ID })
}
