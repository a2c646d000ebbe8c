package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/freefemio/types"
)

/*
WriteMsh writes m in the FreeFem++ .msh layout:

	nv nt ne
	x y label                 (nv lines)
	n0 n1 n2 label            (nt lines, 1-based)
	start end label           (ne lines, 1-based)

Boundary edges are written in (triangle, slot) order, oriented along their
triangle.
*/
func WriteMsh(w io.Writer, m *TriMesh) (err error) {
	bw := bufio.NewWriter(w)
	edges := m.BoundaryEdgeList()
	fmt.Fprintf(bw, "%d %d %d\n", len(m.Nodes), len(m.Triangles), len(edges))
	for i, n := range m.Nodes {
		fmt.Fprintf(bw, "%s %s %d\n", formatFloat(n[0]), formatFloat(n[1]), m.NodeLabels[i])
	}
	for k, tri := range m.Triangles {
		fmt.Fprintf(bw, "%d %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1, m.TriangleLabels[k])
	}
	for _, be := range edges {
		fmt.Fprintf(bw, "%d %d %d\n", be.Start+1, be.End+1, be.Label)
	}
	return bw.Flush()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// SaveMsh writes m to filename and returns the filename
func SaveMsh(filename string, m *TriMesh) (string, error) {
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err = WriteMsh(file, m); err != nil {
		file.Close()
		return "", err
	}
	return filename, file.Close()
}

// ReadMsh reads the .msh layout produced by WriteMsh, resolving boundary
// edges back onto triangle slots
func ReadMsh(r io.Reader, opts ...ResolverOption) (m *TriMesh, err error) {
	var (
		scanner    = bufio.NewScanner(r)
		nv, nt, ne int
		fields     []string
		lineNum    int
	)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	next := func(want int, what string) ([]string, error) {
		for scanner.Scan() {
			lineNum++
			f := strings.Fields(scanner.Text())
			if len(f) == 0 {
				continue
			}
			if len(f) < want {
				return nil, fmt.Errorf("line %d: %s needs %d fields, got %d", lineNum, what, want, len(f))
			}
			return f, nil
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected EOF reading %s", what)
	}

	if fields, err = next(3, "header"); err != nil {
		return
	}
	if nv, err = strconv.Atoi(fields[0]); err == nil {
		if nt, err = strconv.Atoi(fields[1]); err == nil {
			ne, err = strconv.Atoi(fields[2])
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	if nv < 0 || nt < 0 || ne < 0 {
		return nil, fmt.Errorf("invalid header counts %d %d %d", nv, nt, ne)
	}

	nodes := make([][2]float64, nv)
	nodeLabels := make([]int, nv)
	for i := 0; i < nv; i++ {
		if fields, err = next(3, "node"); err != nil {
			return
		}
		for j := 0; j < 2; j++ {
			if nodes[i][j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid coordinate: %w", lineNum, err)
			}
		}
		if nodeLabels[i], err = parseLabel(fields[2]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	triangles := make([][3]int, nt)
	triangleLabels := make([]int, nt)
	for k := 0; k < nt; k++ {
		if fields, err = next(4, "triangle"); err != nil {
			return
		}
		for j := 0; j < 3; j++ {
			if triangles[k][j], err = strconv.Atoi(fields[j]); err != nil {
				return nil, fmt.Errorf("line %d: invalid node index: %w", lineNum, err)
			}
			triangles[k][j]--
		}
		if triangleLabels[k], err = parseLabel(fields[3]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	edges := make([]types.BoundaryEdge, ne)
	for e := 0; e < ne; e++ {
		if fields, err = next(3, "boundary edge"); err != nil {
			return
		}
		var v [2]int
		for j := 0; j < 2; j++ {
			if v[j], err = strconv.Atoi(fields[j]); err != nil {
				return nil, fmt.Errorf("line %d: invalid node index: %w", lineNum, err)
			}
		}
		edges[e] = types.BoundaryEdge{Start: v[0] - 1, End: v[1] - 1}
		if edges[e].Label, err = parseLabel(fields[2]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return New(nodes, nodeLabels, triangles, triangleLabels, edges, opts...)
}

// parseLabel accepts integral labels written either as integers or floats
func parseLabel(tok string) (label int, err error) {
	if label, err = strconv.Atoi(tok); err == nil {
		return
	}
	var f float64
	if f, err = strconv.ParseFloat(tok, 64); err != nil {
		return 0, fmt.Errorf("invalid label [%s]", tok)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("label [%s] is not an integer", tok)
	}
	return int(f), nil
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string, opts ...ResolverOption) (*TriMesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch ext {
	case ".msh":
		return ReadMsh(file, opts...)
	case ".cbor":
		return DecodeCBOR(file)
	case ".su2":
		m, _, err := ReadSU2(file, opts...)
		return m, err
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
