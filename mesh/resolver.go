package mesh

import (
	"errors"
	"log/slog"

	"github.com/notargets/freefemio/types"
)

var ErrBoundaryEdgeNotFound = errors.New("boundary edge not found in triangle connectivity")

// Resolution is the outcome of anchoring a boundary edge onto a triangle
type Resolution uint8

const (
	NotFound Resolution = iota
	Found
	Reversed // found after swapping the edge's start and end nodes
)

func (r Resolution) String() string {
	return [...]string{"NotFound", "Found", "Reversed"}[r]
}

/*
Resolver maps node-pair boundary edges onto (triangle, slot) pairs.

Candidates are the directed edges implied by each triangle's node order:
(n0,n1) at slot 0, (n1,n2) at slot 1 and (n2,n0) at slot 2. Lookup priority
is slot 0 over all triangles, then slot 1, then slot 2, with the lowest
triangle id winning within a slot. Only when no candidate matches in the
given orientation is the edge retried with its nodes swapped.
*/
type Resolver struct {
	index  map[types.EdgeInt]types.EdgeSlot
	NoFlip bool
	Strict bool
	Logger *slog.Logger
}

type ResolverOption func(*Resolver)

// WithoutReversal disables the swapped-orientation retry
func WithoutReversal() ResolverOption {
	return func(r *Resolver) { r.NoFlip = true }
}

// WithStrict makes reconstruction fail on an unresolvable edge instead of
// dropping it
func WithStrict(strict bool) ResolverOption {
	return func(r *Resolver) { r.Strict = strict }
}

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.Logger = logger }
}

// NewResolver indexes the directed edges of triangles. Node ids must be
// non-negative.
func NewResolver(triangles [][3]int, opts ...ResolverOption) (r *Resolver) {
	r = &Resolver{
		index: make(map[types.EdgeInt]types.EdgeSlot, 3*len(triangles)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	for slot := 0; slot < 3; slot++ {
		for k, tri := range triangles {
			es := types.EdgeSlot{Triangle: k, Slot: slot}
			e := types.NewEdgeInt(es.Nodes(tri))
			if _, ok := r.index[e]; !ok {
				r.index[e] = es
			}
		}
	}
	return
}

func (r *Resolver) lookup(start, end int) (es types.EdgeSlot, ok bool) {
	if start < 0 || end < 0 {
		return
	}
	es, ok = r.index[types.NewEdgeInt([2]int{start, end})]
	return
}

// Resolve anchors one boundary edge, logging reversals and misses
func (r *Resolver) Resolve(be types.BoundaryEdge) (es types.EdgeSlot, res Resolution) {
	var ok bool
	if es, ok = r.lookup(be.Start, be.End); ok {
		return es, Found
	}
	if !r.NoFlip {
		if es, ok = r.lookup(be.End, be.Start); ok {
			r.Logger.Info("reversing boundary edge",
				"edge", be.String(), "triangle", es.Triangle, "slot", es.Slot)
			return es, Reversed
		}
	}
	r.Logger.Warn("could not find boundary edge", "edge", be.String())
	return types.EdgeSlot{}, NotFound
}

/*
ResolveAll resolves every edge into a single mapping. A colliding key is
overwritten by the later edge. Unresolved edges are dropped and returned, or
in strict mode reported as an error wrapping ErrBoundaryEdgeNotFound.
*/
func (r *Resolver) ResolveAll(edges []types.BoundaryEdge) (bes map[types.EdgeSlot]int,
	dropped []types.BoundaryEdge, err error) {
	bes = make(map[types.EdgeSlot]int, len(edges))
	for _, be := range edges {
		es, res := r.Resolve(be)
		if res == NotFound {
			if r.Strict {
				return nil, nil, &EdgeError{Edge: be}
			}
			dropped = append(dropped, be)
			continue
		}
		bes[es] = be.Label
	}
	return
}

type EdgeError struct {
	Edge types.BoundaryEdge
}

func (e *EdgeError) Error() string {
	return "boundary edge " + e.Edge.String() + ": " + ErrBoundaryEdgeNotFound.Error()
}

func (e *EdgeError) Unwrap() error { return ErrBoundaryEdgeNotFound }
