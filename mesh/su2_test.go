package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/freefemio/types"
)

const squareSU2 = `% unit square, two triangles
NDIME= 2
NELEM= 2
5 0 1 2 0
5 0 2 3 1
NPOIN= 4
0.0 0.0 0
1.0 0.0 1
1.0 1.0 2
0.0 1.0 3
NMARK= 2
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 2 1
MARKER_TAG= farfield
MARKER_ELEMS= 2
3 2 3
3 0 3
`

func TestReadSU2(t *testing.T) {
	logger, buf := captureLogger()
	m, names, err := ReadSU2(strings.NewReader(squareSU2), WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "wall", 2: "farfield"}, names)
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.Triangles)
	assert.Equal(t, [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, m.Nodes)
	assert.Equal(t, []int{2, 1, 2, 2}, m.NodeLabels)
	assert.Equal(t, map[types.EdgeSlot]int{
		{Triangle: 0, Slot: 0}: 1,
		{Triangle: 0, Slot: 1}: 1,
		{Triangle: 1, Slot: 1}: 2,
		{Triangle: 1, Slot: 2}: 2,
	}, m.BoundaryEdges)
	// 2-1 and 0-3 run against the triangle winding
	assert.Equal(t, 2, strings.Count(buf.String(), "reversing boundary edge"))

	fn := filepath.Join(t.TempDir(), "square.su2")
	require.NoError(t, os.WriteFile(fn, []byte(squareSU2), 0644))
	m2, err := ReadMeshFile(fn, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, m.BoundaryEdges, m2.BoundaryEdges)
}

func TestReadSU2Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"3D", "NDIME= 3\n", "unsupported dimension"},
		{"missing dimension", "NPOIN= 0\n", "NDIME"},
		{"missing points", "NDIME= 2\nNELEM= 0\n", "NPOIN"},
		{"quad", "NDIME= 2\nNELEM= 1\n9 0 1 2 3\n", "only triangles"},
		{"bad count", "NDIME= 2\nNPOIN= x\n", "invalid NPOIN="},
		{"short nodes", "NDIME= 2\nNPOIN= 2\n0 0\n", "unexpected EOF"},
		{"marker tag", "NDIME= 2\nNPOIN= 0\nNMARK= 1\nMARKER_ELEMS= 0\n", "MARKER_TAG"},
		{"marker element type", "NDIME= 2\nNPOIN= 2\n0 0\n1 0\nNMARK= 1\nMARKER_TAG= w\nMARKER_ELEMS= 1\n5 0 1\n", "line elements"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadSU2(strings.NewReader(tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
