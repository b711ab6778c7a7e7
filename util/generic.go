// util/generic.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"golang.org/x/exp/constraints"
)

// MapSlice returns the slice that is the result of applying the provided
// xform function to all of the elements of the given slice.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	var to []T
	for _, item := range from {
		to = append(to, xform(item))
	}
	return to
}

// FilterSlice applies the given filter function pred to the given slice,
// returning a new slice that only contains elements where pred returned
// true.
func FilterSlice[V any](s []V, pred func(V) bool) []V {
	var filtered []V
	for _, item := range s {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Clamp restricts the value x to the range [low, high].
func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// Select returns a if sel is true and b otherwise; it is a placeholder
// until Go has a ternary operator.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}
