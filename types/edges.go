package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores an edge's two node ids packed into one comparable value,
independent of direction. An edge between nodes [4] and [0] is always
stored as [0,4], in ascending order of the ids.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
EdgeInt stores a directed edge, start node then end node, so that the
direction can be recovered. The sign records whether the start id is the
larger of the two.
*/
type EdgeInt int64

func NewEdgeInt(verts [2]int) (packed EdgeInt) {
	var (
		limit = math.MaxUint32 >> 1 // leaves room for the sign bit of an int64
		sign  bool
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into an int64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		sign = true
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeInt(i1 + i2<<32)
	if sign {
		packed = -packed
	}
	return
}

func (e EdgeInt) GetVertices() (verts [2]int) {
	var (
		eTmp EdgeInt
		sign bool
	)
	if e < 0 {
		sign = true
		e = -e
	}
	eTmp = e >> 32
	verts[1] = int(eTmp)
	verts[0] = int(e - eTmp*(1<<32))
	if sign {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (e EdgeInt) Reverse() EdgeInt {
	verts := e.GetVertices()
	return NewEdgeInt([2]int{verts[1], verts[0]})
}

func (e EdgeInt) GetKey() (ek EdgeKey) {
	ek = NewEdgeKey(e.GetVertices())
	return
}

// EdgeSlot addresses one edge of a triangle. Slot k is the edge running from
// the triangle's k-th node to its (k+1)%3-th node.
type EdgeSlot struct {
	Triangle int
	Slot     int
}

func (es EdgeSlot) String() string {
	return fmt.Sprintf("(%d, %d)", es.Triangle, es.Slot)
}

// Nodes returns the slot's edge in connectivity order for triangle tri
func (es EdgeSlot) Nodes(tri [3]int) [2]int {
	return [2]int{tri[es.Slot], tri[(es.Slot+1)%3]}
}

// BoundaryEdge is a labelled edge given only by its two node ids
type BoundaryEdge struct {
	Start, End int
	Label      int
}

func (be BoundaryEdge) String() string {
	return fmt.Sprintf("[%d %d %d]", be.Start, be.End, be.Label)
}

func (be BoundaryEdge) Reverse() BoundaryEdge {
	return BoundaryEdge{Start: be.End, End: be.Start, Label: be.Label}
}

func (be BoundaryEdge) Key() EdgeKey {
	return NewEdgeKey([2]int{be.Start, be.End})
}
