// dispatch/query.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package dispatch

import (
	"strconv"
	"strings"

	"github.com/medifly/dispatch/ilp"
)

// MatchAttribute reports whether the drone's named attribute equals value
// under the attribute's type. Unknown attributes never match; neither do
// capability attributes of a drone without a recorded capability, nor
// numeric values that fail to parse.
func MatchAttribute(d ilp.Drone, attribute, value string) bool {
	c := d.Capability

	switch attribute {
	case "id":
		return d.ID == value

	case "name":
		return d.Name == value

	case "cooling":
		return c != nil && c.Cooling == parseQueryBool(value)

	case "heating":
		return c != nil && c.Heating == parseQueryBool(value)

	case "capacity":
		if c == nil {
			return false
		}
		v, err := strconv.ParseFloat(value, 64)
		return err == nil && c.Capacity == v

	case "maxMoves":
		if c == nil {
			return false
		}
		v, err := strconv.Atoi(value)
		return err == nil && c.MaxMoves == v

	case "costPerMove":
		if c == nil {
			return false
		}
		v, err := strconv.ParseFloat(value, 64)
		return err == nil && c.CostPerMove == v

	case "costInitial":
		if c == nil {
			return false
		}
		v, err := strconv.ParseFloat(value, 64)
		return err == nil && c.CostInitial == v

	case "costFinal":
		if c == nil {
			return false
		}
		v, err := strconv.ParseFloat(value, 64)
		return err == nil && c.CostFinal == v

	default:
		return false
	}
}

// parseQueryBool parses a boolean query value the lenient way: anything
// other than "true" (case-insensitive) is false, never an error.
func parseQueryBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// ValidQuery reports whether a query clause is structurally usable: all
// three fields present and non-blank. Invalid clauses are dropped before
// matching rather than failing it, so a query list that is entirely
// invalid matches every drone.
func ValidQuery(q Query) bool {
	return strings.TrimSpace(q.Attribute) != "" &&
		strings.TrimSpace(q.Operator) != "" &&
		strings.TrimSpace(q.Value) != ""
}

// MatchQuery evaluates a single valid query clause against a drone.
// String and boolean attributes accept only "="; numeric attributes accept
// "=", "!=", "<", and ">". Everything else evaluates to false.
func MatchQuery(d ilp.Drone, q Query) bool {
	c := d.Capability

	numeric := func(lhs float64) bool {
		rhs, err := strconv.ParseFloat(q.Value, 64)
		if err != nil {
			return false
		}
		return numericCompare(lhs, q.Operator, rhs)
	}

	switch q.Attribute {
	case "id":
		return stringCompare(d.ID, q.Operator, q.Value)

	case "name":
		return stringCompare(d.Name, q.Operator, q.Value)

	case "cooling":
		return c != nil && booleanCompare(c.Cooling, q.Operator, parseQueryBool(q.Value))

	case "heating":
		return c != nil && booleanCompare(c.Heating, q.Operator, parseQueryBool(q.Value))

	case "capacity":
		return c != nil && numeric(c.Capacity)

	case "maxMoves":
		return c != nil && numeric(float64(c.MaxMoves))

	case "costPerMove":
		return c != nil && numeric(c.CostPerMove)

	case "costInitial":
		return c != nil && numeric(c.CostInitial)

	case "costFinal":
		return c != nil && numeric(c.CostFinal)

	default:
		return false
	}
}

// MatchAll reports whether the drone satisfies every valid clause in the
// query list; invalid clauses are silently dropped first.
func MatchAll(d ilp.Drone, queries []Query) bool {
	for _, q := range queries {
		if !ValidQuery(q) {
			continue
		}
		if !MatchQuery(d, q) {
			return false
		}
	}
	return true
}

func numericCompare(lhs float64, operator string, rhs float64) bool {
	switch operator {
	case "=":
		return lhs == rhs
	case "!=":
		return lhs != rhs
	case "<":
		return lhs < rhs
	case ">":
		return lhs > rhs
	default:
		return false
	}
}

func stringCompare(lhs, operator, rhs string) bool {
	return operator == "=" && lhs == rhs
}

func booleanCompare(lhs bool, operator string, rhs bool) bool {
	return operator == "=" && lhs == rhs
}
