package mesh

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/freefemio/types"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

// unitSquare is two counter-clockwise triangles sharing the diagonal 0-2
func unitSquare(t *testing.T, opts ...ResolverOption) *TriMesh {
	t.Helper()
	m, err := New(
		[][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[]int{1, 1, 2, 4},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
		[]int{0, 7},
		[]types.BoundaryEdge{
			{Start: 0, End: 1, Label: 1},
			{Start: 1, End: 2, Label: 2},
			{Start: 2, End: 3, Label: 3},
			{Start: 3, End: 0, Label: 4},
		},
		opts...,
	)
	require.NoError(t, err)
	return m
}

func TestResolveSingleTriangle(t *testing.T) {
	triangles := [][3]int{{0, 1, 2}}
	{ // Edge given in triangle order lands on slot 1, no diagnostic
		logger, buf := captureLogger()
		r := NewResolver(triangles, WithLogger(logger))
		es, res := r.Resolve(types.BoundaryEdge{Start: 1, End: 2, Label: -3})
		assert.Equal(t, Found, res)
		assert.Equal(t, types.EdgeSlot{Triangle: 0, Slot: 1}, es)
		assert.Empty(t, buf.String())

		bes, dropped, err := r.ResolveAll([]types.BoundaryEdge{{Start: 1, End: 2, Label: -3}})
		require.NoError(t, err)
		assert.Empty(t, dropped)
		assert.Equal(t, map[types.EdgeSlot]int{{Triangle: 0, Slot: 1}: -3}, bes)
	}
	{ // Reversed input resolves to the same slot after one retry
		logger, buf := captureLogger()
		r := NewResolver(triangles, WithLogger(logger))
		es, res := r.Resolve(types.BoundaryEdge{Start: 2, End: 1, Label: -3})
		assert.Equal(t, Reversed, res)
		assert.Equal(t, types.EdgeSlot{Triangle: 0, Slot: 1}, es)
		assert.Contains(t, buf.String(), "reversing boundary edge")

		bes, _, err := r.ResolveAll([]types.BoundaryEdge{{Start: 2, End: 1, Label: -3}})
		require.NoError(t, err)
		assert.Equal(t, map[types.EdgeSlot]int{{Triangle: 0, Slot: 1}: -3}, bes)
	}
	{ // All three slots, including the wrap-around one
		r := NewResolver(triangles, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
		for slot, edge := range [][2]int{{0, 1}, {1, 2}, {2, 0}} {
			es, res := r.Resolve(types.BoundaryEdge{Start: edge[0], End: edge[1], Label: 5})
			assert.Equal(t, Found, res)
			assert.Equal(t, types.EdgeSlot{Triangle: 0, Slot: slot}, es)

			es, res = r.Resolve(types.BoundaryEdge{Start: edge[1], End: edge[0], Label: 5})
			assert.Equal(t, Reversed, res)
			assert.Equal(t, types.EdgeSlot{Triangle: 0, Slot: slot}, es)
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	logger, buf := captureLogger()
	r := NewResolver([][3]int{{0, 1, 2}, {1, 3, 2}}, WithLogger(logger))
	_, res := r.Resolve(types.BoundaryEdge{Start: 0, End: 3, Label: 9})
	assert.Equal(t, NotFound, res)
	assert.Contains(t, buf.String(), "could not find boundary edge")

	_, res = r.Resolve(types.BoundaryEdge{Start: -1, End: 3, Label: 9})
	assert.Equal(t, NotFound, res)

	{ // Without the reversal retry a backwards edge is a miss
		r := NewResolver([][3]int{{0, 1, 2}}, WithoutReversal(), WithLogger(logger))
		_, res := r.Resolve(types.BoundaryEdge{Start: 2, End: 1})
		assert.Equal(t, NotFound, res)
	}
}

func TestResolvePriority(t *testing.T) {
	// Degenerate connectivity where the directed edge 0->1 appears twice:
	// slot 1 of triangle 0 and slot 0 of triangle 1. Slot order wins over
	// triangle order.
	r := NewResolver([][3]int{{2, 0, 1}, {0, 1, 3}}, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	es, res := r.Resolve(types.BoundaryEdge{Start: 0, End: 1})
	assert.Equal(t, Found, res)
	assert.Equal(t, types.EdgeSlot{Triangle: 1, Slot: 0}, es)

	// Within a slot the lowest triangle id wins
	r = NewResolver([][3]int{{4, 5, 6}, {4, 5, 7}}, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	es, _ = r.Resolve(types.BoundaryEdge{Start: 4, End: 5})
	assert.Equal(t, types.EdgeSlot{Triangle: 0, Slot: 0}, es)

	// A forward match anywhere beats a reversed match
	r = NewResolver([][3]int{{1, 0, 2}, {3, 2, 0}}, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	es, res = r.Resolve(types.BoundaryEdge{Start: 2, End: 0})
	assert.Equal(t, Found, res)
	assert.Equal(t, types.EdgeSlot{Triangle: 1, Slot: 1}, es)
}

func TestNewMesh(t *testing.T) {
	m := unitSquare(t)
	assert.Equal(t, 4, m.NumNodes())
	assert.Equal(t, 2, m.NumTriangles())
	assert.Equal(t, map[types.EdgeSlot]int{
		{Triangle: 0, Slot: 0}: 1,
		{Triangle: 0, Slot: 1}: 2,
		{Triangle: 1, Slot: 1}: 3,
		{Triangle: 1, Slot: 2}: 4,
	}, m.BoundaryEdges)
	assert.Equal(t, []int{1, 2, 3, 4}, m.BoundaryLabels())
	assert.Equal(t, []float64{0, 1, 1, 0}, m.X())
	assert.Equal(t, []float64{0, 0, 1, 1}, m.Y())
	assert.NoError(t, m.Validate())
	assert.Contains(t, m.Statistics(), "Boundary edges: 4")

	assert.Equal(t, []types.BoundaryEdge{
		{Start: 0, End: 1, Label: 1},
		{Start: 1, End: 2, Label: 2},
		{Start: 2, End: 3, Label: 3},
		{Start: 3, End: 0, Label: 4},
	}, m.BoundaryEdgeList())
}

func TestNewMeshDropsUnresolvedEdges(t *testing.T) {
	var (
		nodes     = [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		triangles = [][3]int{{0, 1, 2}, {0, 2, 3}}
		edges     = []types.BoundaryEdge{
			{Start: 1, End: 0, Label: 1}, // reversed
			{Start: 1, End: 3, Label: 8}, // no such edge
		}
	)
	logger, buf := captureLogger()
	m, err := New(nodes, make([]int, 4), triangles, make([]int, 2), edges, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, map[types.EdgeSlot]int{{Triangle: 0, Slot: 0}: 1}, m.BoundaryEdges)
	assert.Contains(t, buf.String(), "reversing boundary edge")
	assert.Contains(t, buf.String(), "could not find boundary edge")

	_, err = New(nodes, make([]int, 4), triangles, make([]int, 2), edges, WithLogger(logger), WithStrict(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBoundaryEdgeNotFound))
	var ee *EdgeError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, types.BoundaryEdge{Start: 1, End: 3, Label: 8}, ee.Edge)
}

func TestNewMeshInvalid(t *testing.T) {
	testCases := []struct {
		name      string
		nodes     [][2]float64
		nodeLabel []int
		triangles [][3]int
		triLabel  []int
		edges     []types.BoundaryEdge
		errMsg    string
	}{
		{
			name:      "node label count",
			nodes:     [][2]float64{{0, 0}, {1, 0}, {0, 1}},
			nodeLabel: []int{0},
			triangles: [][3]int{{0, 1, 2}},
			triLabel:  []int{0},
			errMsg:    "node labels",
		},
		{
			name:      "triangle label count",
			nodes:     [][2]float64{{0, 0}, {1, 0}, {0, 1}},
			nodeLabel: []int{0, 0, 0},
			triangles: [][3]int{{0, 1, 2}},
			errMsg:    "triangle labels",
		},
		{
			name:      "triangle node out of range",
			nodes:     [][2]float64{{0, 0}, {1, 0}, {0, 1}},
			nodeLabel: []int{0, 0, 0},
			triangles: [][3]int{{0, 1, 3}},
			triLabel:  []int{0},
			errMsg:    "out of range",
		},
		{
			name:      "boundary node out of range",
			nodes:     [][2]float64{{0, 0}, {1, 0}, {0, 1}},
			nodeLabel: []int{0, 0, 0},
			triangles: [][3]int{{0, 1, 2}},
			triLabel:  []int{0},
			edges:     []types.BoundaryEdge{{Start: -1, End: 0}},
			errMsg:    "boundary edge",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.nodes, tc.nodeLabel, tc.triangles, tc.triLabel, tc.edges)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestWriteMsh(t *testing.T) {
	m := unitSquare(t)
	m.Nodes[2] = [2]float64{1.5, 0.25}
	var buf bytes.Buffer
	require.NoError(t, WriteMsh(&buf, m))
	assert.Equal(t, `4 2 4
0 0 1
1 0 1
1.5 0.25 2
0 1 4
1 2 3 0
1 3 4 7
1 2 1
2 3 2
3 4 3
4 1 4
`, buf.String())
}

func boundarySet(m *TriMesh) (set map[types.EdgeKey]int) {
	set = make(map[types.EdgeKey]int)
	for _, be := range m.BoundaryEdgeList() {
		set[be.Key()] = be.Label
	}
	return
}

func TestMshRoundTrip(t *testing.T) {
	// A fan of four triangles around node 4, with irrational coordinates
	// and boundary edges supplied against the winding
	nodes := [][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1.0 / 3.0, 2.0 / 7.0}}
	triangles := [][3]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}
	edges := []types.BoundaryEdge{
		{Start: 1, End: 0, Label: -1},
		{Start: 2, End: 1, Label: -2},
		{Start: 3, End: 2, Label: -3},
		{Start: 0, End: 3, Label: -4},
	}
	logger, _ := captureLogger()
	m, err := New(nodes, []int{1, 2, 3, 4, 0}, triangles, []int{1, 1, 2, 2}, edges, WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, m.BoundaryEdges, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteMsh(&buf, m))
	m2, err := ReadMsh(strings.NewReader(buf.String()), WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, m.Nodes, m2.Nodes)
	assert.Equal(t, m.NodeLabels, m2.NodeLabels)
	assert.Equal(t, m.Triangles, m2.Triangles)
	assert.Equal(t, m.TriangleLabels, m2.TriangleLabels)
	assert.Equal(t, boundarySet(m), boundarySet(m2))
	assert.Equal(t, m.BoundaryEdges, m2.BoundaryEdges)

	{ // And through files, msh and cbor
		dir := t.TempDir()
		fn, err := SaveMsh(filepath.Join(dir, "fan.msh"), m)
		require.NoError(t, err)
		m3, err := ReadMeshFile(fn, WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, m.Triangles, m3.Triangles)
		assert.Equal(t, boundarySet(m), boundarySet(m3))

		var cb bytes.Buffer
		require.NoError(t, EncodeCBOR(&cb, m))
		m4, err := DecodeCBOR(&cb)
		require.NoError(t, err)
		assert.Equal(t, m.Nodes, m4.Nodes)
		assert.Equal(t, m.BoundaryEdges, m4.BoundaryEdges)

		_, err = ReadMeshFile(filepath.Join(dir, "fan.neu"))
		assert.Error(t, err)
	}
}

func TestReadMshErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"empty", "", "header"},
		{"bad header", "3 x 0\n", "invalid header"},
		{"negative count", "3 -1 0\n", "invalid header"},
		{"short node", "1 0 0\n0.0 1.0\n", "node needs"},
		{"truncated", "2 0 0\n0 0 1\n", "unexpected EOF"},
		{"bad coordinate", "1 0 0\n0 a 1\n", "invalid coordinate"},
		{"bad triangle", "3 1 0\n0 0 0\n1 0 0\n0 1 0\n1 2 q 0\n", "invalid node index"},
		{"fractional label", "1 0 0\n0 0 1.5\n", "not an integer"},
		{"triangle out of range", "3 1 0\n0 0 0\n1 0 0\n0 1 0\n1 2 4 0\n", "out of range"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadMsh(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestBoundarySlotsOrdered(t *testing.T) {
	m := unitSquare(t)
	slots := m.BoundarySlots()
	assert.True(t, sort.SliceIsSorted(slots, func(i, j int) bool {
		return slots[i].Triangle*3+slots[i].Slot < slots[j].Triangle*3+slots[j].Slot
	}))
}
