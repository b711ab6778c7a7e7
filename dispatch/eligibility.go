// dispatch/eligibility.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

import (
	"strings"
	"time"

	"github.com/medifly/dispatch/ilp"
)

// CanServe reports whether the drone's capability meets the record's
// requirements. Both must be present. A cooling/heating requirement of
// false imposes no constraint. The maxCost requirement is deliberately not
// checked here; it is enforced inside the sortie planner where the
// amortised cost is known.
func CanServe(d ilp.Drone, rec Record) bool {
	if d.Capability == nil || rec.Requirements == nil {
		return false
	}

	c := d.Capability
	req := rec.Requirements

	if req.Capacity != nil && c.Capacity < *req.Capacity {
		return false
	}
	if req.Cooling != nil && *req.Cooling && !c.Cooling {
		return false
	}
	if req.Heating != nil && *req.Heating && !c.Heating {
		return false
	}
	return true
}

// AvailabilityIndex maps each drone id to its accumulated availability
// windows. Windows accumulate across every service point that lists the
// drone.
type AvailabilityIndex map[string][]ilp.Window

// BuildAvailabilityIndex flattens the drones-for-service-points table into
// a per-drone window list.
func BuildAvailabilityIndex(table []ilp.ServicePointDrones) AvailabilityIndex {
	idx := make(AvailabilityIndex)
	for _, sp := range table {
		for _, da := range sp.Drones {
			if len(da.Availability) == 0 {
				continue
			}
			idx[da.ID] = append(idx[da.ID], da.Availability...)
		}
	}
	return idx
}

// IsAvailable reports whether the drone may fly on the given date at the
// given time. The date is YYYY-MM-DD; the time accepts HH:MM and
// HH:MM:SS. A window matches when its day of week equals the date's
// (uppercase English) and the time falls strictly between from and until;
// exact boundary times are rejected. Unparsable dates or times disqualify.
func (idx AvailabilityIndex) IsAvailable(droneID, date, clock string) bool {
	windows := idx[droneID]
	if len(windows) == 0 {
		return false
	}
	if date == "" || clock == "" {
		return false
	}

	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	t, ok := parseClock(clock)
	if !ok {
		return false
	}
	dow := strings.ToUpper(d.Weekday().String())

	for _, w := range windows {
		if w.DayOfWeek == "" || w.From == "" || w.Until == "" {
			continue
		}
		if w.DayOfWeek != dow {
			continue
		}

		from, okFrom := parseClock(w.From)
		until, okUntil := parseClock(w.Until)
		if !okFrom || !okUntil {
			continue
		}

		if t > from && t < until {
			return true
		}
	}
	return false
}

// parseClock converts HH:MM or HH:MM:SS to seconds since midnight.
func parseClock(s string) (int, bool) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
}
