// dispatch/record.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package dispatch plans medical-delivery sorties: it matches dispatch
// records against the drone fleet, picks the drones to fly, and computes
// the step-by-step flight paths together with total moves and cost.
package dispatch

import (
	"github.com/medifly/dispatch/geo"
)

// Requirements are the constraints a dispatch record places on the drone
// that serves it. Nil fields impose no constraint.
type Requirements struct {
	Capacity *float64 `json:"capacity,omitempty"`
	Cooling  *bool    `json:"cooling,omitempty"`
	Heating  *bool    `json:"heating,omitempty"`
	MaxCost  *float64 `json:"maxCost,omitempty"`
}

// Record is a single dispatch request: fly one medical payload to the
// delivery point at the given date and time.
type Record struct {
	ID           int           `json:"id"`
	Date         string        `json:"date"` // YYYY-MM-DD
	Time         string        `json:"time"` // HH:MM or HH:MM:SS
	Requirements *Requirements `json:"requirements"`
	Delivery     geo.Position  `json:"delivery"`
}

// ReturnLegID is the sentinel delivery id for the final leg back to the
// home service point.
const ReturnLegID = -1

// DeliveryPath is one leg of a sortie. The last position of FlightPath is
// always a hover duplicate of the position before it.
type DeliveryPath struct {
	DeliveryID int            `json:"deliveryId"`
	FlightPath []geo.Position `json:"flightPath"`
}

// DronePath is the full flight plan for one drone's sortie, including the
// return leg.
type DronePath struct {
	DroneID    string         `json:"droneId"`
	Deliveries []DeliveryPath `json:"deliveries"`
}

// Result is the outcome of planning a batch of dispatch records.
type Result struct {
	DronePaths []DronePath `json:"dronePaths"`
	TotalCost  float64     `json:"totalCost"`
	TotalMoves int         `json:"totalMoves"`
}

// Query is one clause of a structured fleet query.
type Query struct {
	Attribute string `json:"attribute"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}
