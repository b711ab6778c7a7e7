// ilp/ilp.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package ilp provides read-only access to the Information-Logistics
// Platform, which owns the drone fleet, its home service points, the
// per-drone availability tables, and the restricted areas that flight
// paths must avoid.
package ilp

import (
	"context"
	"os"

	"github.com/medifly/dispatch/geo"
	"github.com/medifly/dispatch/log"

	"golang.org/x/sync/errgroup"
)

// Capability describes what a drone can carry and what flying it costs.
type Capability struct {
	Cooling     bool    `json:"cooling"`
	Heating     bool    `json:"heating"`
	Capacity    float64 `json:"capacity"`
	MaxMoves    int     `json:"maxMoves"`
	CostPerMove float64 `json:"costPerMove"`
	CostInitial float64 `json:"costInitial"`
	CostFinal   float64 `json:"costFinal"`
}

// Drone is a single fleet member. Capability is nil when the platform has
// no capability recorded for it; such drones cannot be assigned work.
type Drone struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Capability *Capability `json:"capability"`
}

// ServicePoint is a drone home base: the takeoff and landing location for
// every sortie the drone flies.
type ServicePoint struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Location geo.Position `json:"location"`
}

// Window is a single span of availability: a day of week (uppercase
// English name) plus from/until times, HH:MM or HH:MM:SS.
type Window struct {
	DayOfWeek string `json:"dayOfWeek"`
	From      string `json:"from"`
	Until     string `json:"until"`
}

// DroneAvailability lists the windows during which one drone may fly out
// of a particular service point.
type DroneAvailability struct {
	ID           string   `json:"id"`
	Availability []Window `json:"availability"`
}

// ServicePointDrones is one entry of the drones-for-service-points table.
// The same drone id may appear under multiple service points; its windows
// accumulate, but its home for path planning is the first service point
// that lists it.
type ServicePointDrones struct {
	ServicePointID int                 `json:"servicePointId"`
	Drones         []DroneAvailability `json:"drones"`
}

// Client is the read-only accessor for platform data. Implementations may
// return empty slices for missing collections; callers degrade gracefully.
type Client interface {
	Drones(ctx context.Context) ([]Drone, error)
	ServicePoints(ctx context.Context) ([]ServicePoint, error)
	DronesForServicePoints(ctx context.Context) ([]ServicePointDrones, error)
	RestrictedAreas(ctx context.Context) ([]geo.Region, error)
}

// Snapshot is the immutable fleet state a single planning call runs
// against. Nothing outlives the call that fetched it.
type Snapshot struct {
	Drones          []Drone
	ServicePoints   []ServicePoint
	Availability    []ServicePointDrones
	RestrictedAreas []geo.Region
}

// FetchSnapshot gathers all four collections concurrently. A failure to
// fetch drones, service points, or the availability table fails the
// snapshot; a failure to fetch restricted areas degrades to "no no-fly
// zones" with a warning, matching the platform's own behavior when the
// list is absent.
func FetchSnapshot(ctx context.Context, c Client, lg *log.Logger) (Snapshot, error) {
	var snap Snapshot

	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		snap.Drones, err = c.Drones(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.ServicePoints, err = c.ServicePoints(ctx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Availability, err = c.DronesForServicePoints(ctx)
		return err
	})
	eg.Go(func() error {
		regions, err := c.RestrictedAreas(ctx)
		if err != nil {
			lg.Warnf("restricted areas unavailable, planning without no-fly zones: %v", err)
			return nil
		}
		snap.RestrictedAreas = regions
		return nil
	})

	if err := eg.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// DefaultEndpoint is used when ILP_ENDPOINT is unset or blank.
const DefaultEndpoint = "https://ilp-rest-2025-bvh6e9hschfagrgy.ukwest-01.azurewebsites.net/"

// EndpointFromEnv returns the upstream base URL from the ILP_ENDPOINT
// environment variable, falling back to DefaultEndpoint.
func EndpointFromEnv() string {
	if env := os.Getenv("ILP_ENDPOINT"); env != "" {
		return env
	}
	return DefaultEndpoint
}
