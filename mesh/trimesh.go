package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/freefemio/types"
)

// TriMesh is a labelled 2D triangulation with boundary edges anchored to
// triangle edge slots. All ids are 0-based.
type TriMesh struct {
	Nodes          [][2]float64
	NodeLabels     []int
	Triangles      [][3]int
	TriangleLabels []int
	BoundaryEdges  map[types.EdgeSlot]int
}

/*
New assembles a mesh from decoded node, triangle and boundary data. Each
boundary edge is resolved onto a triangle slot; an edge that cannot be
resolved is dropped with a logged diagnostic unless the resolver is strict.
*/
func New(nodes [][2]float64, nodeLabels []int, triangles [][3]int, triangleLabels []int,
	edges []types.BoundaryEdge, opts ...ResolverOption) (m *TriMesh, err error) {
	m = &TriMesh{
		Nodes:          nodes,
		NodeLabels:     nodeLabels,
		Triangles:      triangles,
		TriangleLabels: triangleLabels,
	}
	if err = m.checkTopology(); err != nil {
		return nil, err
	}
	for _, be := range edges {
		if err = m.checkNode(be.Start); err == nil {
			err = m.checkNode(be.End)
		}
		if err != nil {
			return nil, fmt.Errorf("boundary edge %s: %w", be, err)
		}
	}
	r := NewResolver(triangles, opts...)
	if m.BoundaryEdges, _, err = r.ResolveAll(edges); err != nil {
		return nil, err
	}
	return
}

func (m *TriMesh) NumNodes() int     { return len(m.Nodes) }
func (m *TriMesh) NumTriangles() int { return len(m.Triangles) }

func (m *TriMesh) checkNode(id int) (err error) {
	if id < 0 || id >= len(m.Nodes) {
		err = fmt.Errorf("node id %d out of range [0,%d)", id, len(m.Nodes))
	}
	return
}

func (m *TriMesh) checkTopology() (err error) {
	if len(m.NodeLabels) != len(m.Nodes) {
		return fmt.Errorf("have %d node labels for %d nodes", len(m.NodeLabels), len(m.Nodes))
	}
	if len(m.TriangleLabels) != len(m.Triangles) {
		return fmt.Errorf("have %d triangle labels for %d triangles",
			len(m.TriangleLabels), len(m.Triangles))
	}
	for k, tri := range m.Triangles {
		for _, id := range tri {
			if err = m.checkNode(id); err != nil {
				return fmt.Errorf("triangle %d: %w", k, err)
			}
		}
	}
	return
}

// Validate checks that every id the mesh references exists
func (m *TriMesh) Validate() (err error) {
	if err = m.checkTopology(); err != nil {
		return
	}
	for es := range m.BoundaryEdges {
		if es.Triangle < 0 || es.Triangle >= len(m.Triangles) || es.Slot < 0 || es.Slot > 2 {
			return fmt.Errorf("boundary edge slot %s does not exist", es)
		}
	}
	return
}

// BoundarySlots returns the boundary edge keys ordered by triangle, then slot
func (m *TriMesh) BoundarySlots() (slots []types.EdgeSlot) {
	slots = make([]types.EdgeSlot, 0, len(m.BoundaryEdges))
	for es := range m.BoundaryEdges {
		slots = append(slots, es)
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Triangle != slots[j].Triangle {
			return slots[i].Triangle < slots[j].Triangle
		}
		return slots[i].Slot < slots[j].Slot
	})
	return
}

// BoundaryEdgeList converts the anchored boundary edges back to node pairs,
// oriented along the owning triangle
func (m *TriMesh) BoundaryEdgeList() (edges []types.BoundaryEdge) {
	slots := m.BoundarySlots()
	edges = make([]types.BoundaryEdge, len(slots))
	for i, es := range slots {
		nodes := es.Nodes(m.Triangles[es.Triangle])
		edges[i] = types.BoundaryEdge{Start: nodes[0], End: nodes[1], Label: m.BoundaryEdges[es]}
	}
	return
}

// BoundaryLabels returns the distinct boundary labels in ascending order
func (m *TriMesh) BoundaryLabels() (labels []int) {
	seen := make(map[int]bool)
	for _, label := range m.BoundaryEdges {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Ints(labels)
	return
}

// X and Y return the node coordinates as separate slices
func (m *TriMesh) X() (x []float64) {
	x = make([]float64, len(m.Nodes))
	for i, n := range m.Nodes {
		x[i] = n[0]
	}
	return
}

func (m *TriMesh) Y() (y []float64) {
	y = make([]float64, len(m.Nodes))
	for i, n := range m.Nodes {
		y[i] = n[1]
	}
	return
}

func (m *TriMesh) Statistics() string {
	return fmt.Sprintf("Mesh Statistics:\n  Nodes: %d\n  Triangles: %d\n  Boundary edges: %d\n  Boundary labels: %v\n",
		len(m.Nodes), len(m.Triangles), len(m.BoundaryEdges), m.BoundaryLabels())
}
