package mesh

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/notargets/freefemio/types"
)

// cborMesh is the binary export layout. Boundary edges are kept anchored as
// (triangle, slot, label) triples so no resolution is needed on decode.
type cborMesh struct {
	Nodes          [][2]float64 `cbor:"nodes"`
	NodeLabels     []int        `cbor:"node_labels"`
	Triangles      [][3]int     `cbor:"triangles"`
	TriangleLabels []int        `cbor:"triangle_labels"`
	BoundaryEdges  [][3]int     `cbor:"boundary_edges"`
}

func EncodeCBOR(w io.Writer, m *TriMesh) error {
	cm := cborMesh{
		Nodes:          m.Nodes,
		NodeLabels:     m.NodeLabels,
		Triangles:      m.Triangles,
		TriangleLabels: m.TriangleLabels,
	}
	for _, es := range m.BoundarySlots() {
		cm.BoundaryEdges = append(cm.BoundaryEdges, [3]int{es.Triangle, es.Slot, m.BoundaryEdges[es]})
	}
	return cbor.NewEncoder(w).Encode(cm)
}

func DecodeCBOR(r io.Reader) (m *TriMesh, err error) {
	var cm cborMesh
	if err = cbor.NewDecoder(r).Decode(&cm); err != nil {
		return nil, fmt.Errorf("decoding cbor mesh: %w", err)
	}
	m = &TriMesh{
		Nodes:          cm.Nodes,
		NodeLabels:     cm.NodeLabels,
		Triangles:      cm.Triangles,
		TriangleLabels: cm.TriangleLabels,
		BoundaryEdges:  make(map[types.EdgeSlot]int, len(cm.BoundaryEdges)),
	}
	for _, be := range cm.BoundaryEdges {
		m.BoundaryEdges[types.EdgeSlot{Triangle: be[0], Slot: be[1]}] = be[2]
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}
	return
}
