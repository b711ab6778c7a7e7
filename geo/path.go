// geo/path.go
// Copyright(c) 2025 dispatch contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geo

import (
	"container/heap"
	"context"
	"slices"
)

// node is a single A* search state. The parent chain is walked once to
// reconstruct the path and then discarded with the rest of the search.
type node struct {
	pos    Position
	g      float64 // cost in grid distance from the start
	f      float64 // g plus heuristic to the goal
	parent *node
	seq    int // insertion order; breaks f ties FIFO for determinism
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// heuristic estimates the remaining moves to the goal; straight-line
// distance divided by Step is an admissible lower bound.
func heuristic(p, goal Position) float64 {
	d, ok := Distance(p, goal)
	if !ok {
		return 1e308
	}
	return d / Step
}

// recencyWindow is the number of recently-expanded grid cells that
// neighbors are rejected against. Together with the quantized closed set
// it keeps the search from oscillating in local minima on what is in
// principle an infinite grid.
const recencyWindow = 10

// ctxCheckInterval is how many expansions happen between context checks.
const ctxCheckInterval = 256

// FindPath runs A* over the implicit 16-neighbour grid from start towards
// goal, avoiding the given restricted areas. The returned path runs from
// start to a position within CloseThreshold of the goal; it is nil when no
// route exists or the context is cancelled. Search states are deduplicated
// by their quantized grid cell.
func FindPath(ctx context.Context, start, goal Position, regions []Region) []Position {
	if !start.Valid() || !goal.Valid() {
		return nil
	}

	open := &nodeHeap{}
	seq := 0
	s := &node{pos: start, g: 0, f: heuristic(start, goal)}
	heap.Push(open, s)

	closed := make(map[GridKey]bool)
	gBest := map[GridKey]float64{start.GridKey(): 0}
	var recent []GridKey

	expansions := 0
	for open.Len() > 0 {
		expansions++
		if expansions%ctxCheckInterval == 0 && ctx.Err() != nil {
			return nil
		}

		u := heap.Pop(open).(*node)
		uk := u.pos.GridKey()
		if closed[uk] {
			continue
		}
		closed[uk] = true

		recent = append(recent, uk)
		if len(recent) > recencyWindow {
			recent = recent[1:]
		}

		if close, ok := IsClose(u.pos, goal); ok && close {
			return reconstruct(u)
		}

		for _, angle := range Angles {
			vpos, ok := NextPosition(u.pos, angle)
			if !ok {
				continue
			}
			vk := vpos.GridKey()
			if closed[vk] {
				continue
			}
			if !IsValidMove(u.pos, vpos, regions) {
				continue
			}
			if slices.Contains(recent, vk) {
				continue
			}

			tentative := u.g + Step
			if best, seen := gBest[vk]; seen && tentative >= best {
				continue
			}
			gBest[vk] = tentative

			seq++
			heap.Push(open, &node{
				pos:    vpos,
				g:      tentative,
				f:      tentative + heuristic(vpos, goal),
				parent: u,
				seq:    seq,
			})
		}
	}

	// Open set drained without reaching the goal.
	return nil
}

// reconstruct walks the parent chain back to the start and returns the
// path in start-to-goal order.
func reconstruct(end *node) []Position {
	var path []Position
	for n := end; n != nil; n = n.parent {
		path = append(path, n.pos)
	}
	slices.Reverse(path)
	return path
}
