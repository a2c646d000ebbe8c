package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/freefemio/types"
)

// SU2 element type identifiers (VTK numbering)
const (
	su2Line     = 3
	su2Triangle = 5
)

/*
ReadSU2 reads a two dimensional SU2 native mesh made of triangles. Marker i
(in file order) becomes boundary label i+1, and each boundary node takes the
label of the last marker that touches it; interior nodes and all triangles
are labelled 0. Marker edges carry no orientation guarantee, so they go
through the boundary resolver like any other edge list. The returned names
map each label to its MARKER_TAG.
*/
func ReadSU2(r io.Reader, opts ...ResolverOption) (m *TriMesh, names map[int]string, err error) {
	var (
		scanner   = bufio.NewScanner(r)
		nodes     [][2]float64
		triangles [][3]int
		edges     []types.BoundaryEdge
		ndime     int
		hasNDIME  bool
		hasNPOIN  bool
	)
	names = make(map[int]string)

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			line := scanner.Text()
			if idx := strings.Index(line, "%"); idx >= 0 {
				line = line[:idx]
			}
			if line = strings.TrimSpace(line); line != "" {
				return line, true
			}
		}
		return "", false
	}
	keyword := func(line, key string) (val int, ok bool, err error) {
		if !strings.HasPrefix(line, key) {
			return
		}
		ok = true
		if val, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, key))); err != nil {
			err = fmt.Errorf("invalid %s line: %s", key, line)
		}
		return
	}

	for {
		line, more := nextLine()
		if !more {
			break
		}
		var (
			n  int
			ok bool
		)
		if n, ok, err = keyword(line, "NDIME="); ok {
			if err != nil {
				return
			}
			hasNDIME, ndime = true, n
			if ndime != 2 {
				return nil, nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}
		} else if n, ok, err = keyword(line, "NPOIN="); ok {
			if err != nil {
				return
			}
			hasNPOIN = true
			nodes = make([][2]float64, n)
			for i := 0; i < n; i++ {
				if line, more = nextLine(); !more {
					return nil, nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(line)
				if len(fields) < 2 {
					return nil, nil, fmt.Errorf("invalid node line: expected at least 2 coordinates")
				}
				for j := 0; j < 2; j++ {
					if nodes[i][j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
			}
		} else if n, ok, err = keyword(line, "NELEM="); ok {
			if err != nil {
				return
			}
			triangles = make([][3]int, n)
			for k := 0; k < n; k++ {
				if line, more = nextLine(); !more {
					return nil, nil, fmt.Errorf("unexpected EOF reading elements")
				}
				var v [4]int
				if v, err = atoiFields(line, 4); err != nil {
					return nil, nil, fmt.Errorf("invalid element line: %v", err)
				}
				if v[0] != su2Triangle {
					return nil, nil, fmt.Errorf("unable to deal with element type %d, only triangles", v[0])
				}
				triangles[k] = [3]int{v[1], v[2], v[3]}
			}
		} else if n, ok, err = keyword(line, "NMARK="); ok {
			if err != nil {
				return
			}
			for i := 0; i < n; i++ {
				if line, more = nextLine(); !more || !strings.HasPrefix(line, "MARKER_TAG=") {
					return nil, nil, fmt.Errorf("expected MARKER_TAG=, got: %s", line)
				}
				label := i + 1
				names[label] = strings.TrimSpace(strings.TrimPrefix(line, "MARKER_TAG="))
				if line, more = nextLine(); !more {
					return nil, nil, fmt.Errorf("unexpected EOF reading marker elements for %s", names[label])
				}
				var nMarkerElems int
				if nMarkerElems, ok, err = keyword(line, "MARKER_ELEMS="); !ok || err != nil {
					return nil, nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", line)
				}
				for j := 0; j < nMarkerElems; j++ {
					if line, more = nextLine(); !more {
						return nil, nil, fmt.Errorf("unexpected EOF reading boundary elements")
					}
					var v [3]int
					if v, err = atoiFields3(line); err != nil {
						return nil, nil, fmt.Errorf("invalid boundary element line: %v", err)
					}
					if v[0] != su2Line {
						return nil, nil, fmt.Errorf("BCs should only contain line elements in 2D, got type %d", v[0])
					}
					edges = append(edges, types.BoundaryEdge{Start: v[1], End: v[2], Label: label})
				}
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading file: %v", err)
	}
	if !hasNDIME {
		return nil, nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, nil, fmt.Errorf("missing required NPOIN= section")
	}

	nodeLabels := make([]int, len(nodes))
	for _, be := range edges {
		for _, id := range [2]int{be.Start, be.End} {
			if id >= 0 && id < len(nodes) {
				nodeLabels[id] = be.Label
			}
		}
	}
	if m, err = New(nodes, nodeLabels, triangles, make([]int, len(triangles)), edges, opts...); err != nil {
		return nil, nil, err
	}
	return
}

func atoiFields(line string, n int) (v [4]int, err error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return v, fmt.Errorf("want %d fields, got %d", n, len(fields))
	}
	for i := 0; i < n; i++ {
		if v[i], err = strconv.Atoi(fields[i]); err != nil {
			return
		}
	}
	return
}

func atoiFields3(line string) (v [3]int, err error) {
	var v4 [4]int
	if v4, err = atoiFields(line, 3); err != nil {
		return
	}
	copy(v[:], v4[:3])
	return
}
