package freefem

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/freefemio/mesh"
	"github.com/notargets/freefemio/types"
	"github.com/notargets/freefemio/utils"
)

// Section names used by the mesh export
const (
	TrianglesSection  = "triangles"
	BoundariesSection = "boundaries"
	NodesSection      = "nodes"
)

// Decoder turns solver output into typed matrices, vectors and meshes. The
// zero value decodes matrices to CSR and drops unresolvable boundary edges.
type Decoder struct {
	SparseFormat utils.SparseFormat
	Strict       bool // fail on boundary edges that cannot be anchored
	NoFlip       bool // do not retry boundary edges in reversed orientation
	Logger       *slog.Logger
}

type Option func(*Decoder)

func WithSparseFormat(sf utils.SparseFormat) Option {
	return func(d *Decoder) { d.SparseFormat = sf }
}

func WithStrictBoundaries(strict bool) Option {
	return func(d *Decoder) { d.Strict = strict }
}

func WithoutReversal() Option {
	return func(d *Decoder) { d.NoFlip = true }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) { d.Logger = logger }
}

func NewDecoder(opts ...Option) (d *Decoder) {
	d = &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// MatrixData decodes the named matrix section to coordinate data
func (d *Decoder) MatrixData(blob, name string) (coo utils.COOData, err error) {
	var section string
	if section, err = Section(blob, name); err != nil {
		return
	}
	if coo, err = DecodeMatrix(section); err != nil {
		err = fmt.Errorf("matrix %s: %w", name, err)
	}
	return
}

// Matrix decodes the named matrix in the decoder's sparse format
func (d *Decoder) Matrix(blob, name string) (m mat.Matrix, err error) {
	var coo utils.COOData
	if coo, err = d.MatrixData(blob, name); err != nil {
		return
	}
	return coo.ToSparse(d.SparseFormat)
}

// MatrixByFlag decodes a matrix introduced by a literal sentinel line
func (d *Decoder) MatrixByFlag(blob, flag string) (m mat.Matrix, err error) {
	var (
		section string
		coo     utils.COOData
	)
	if section, err = SectionByFlag(blob, flag); err != nil {
		return
	}
	if coo, err = DecodeMatrix(section); err != nil {
		return nil, fmt.Errorf("matrix %s: %w", flag, err)
	}
	return coo.ToSparse(d.SparseFormat)
}

// Vector decodes the named vector section
func (d *Decoder) Vector(blob, name string) (v *mat.VecDense, err error) {
	var (
		section string
		vals    []float64
	)
	if section, err = Section(blob, name); err != nil {
		return
	}
	if vals, err = DecodeVector(section); err != nil {
		return nil, fmt.Errorf("vector %s: %w", name, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("vector %s is empty", name)
	}
	return mat.NewVecDense(len(vals), vals), nil
}

// Mesh reconstructs the mesh exported in the nodes, triangles and
// boundaries sections of blob
func (d *Decoder) Mesh(blob string) (m *mesh.TriMesh, err error) {
	var sections map[string]string
	if sections, err = Sections(blob, TrianglesSection, BoundariesSection, NodesSection); err != nil {
		return
	}
	return d.DecodeMesh(sections[NodesSection], sections[TrianglesSection], sections[BoundariesSection])
}

/*
DecodeMesh builds a mesh from the three framed mesh sections:

	nodes:      x y label
	triangles:  n0 n1 n2 region_label   (1-based)
	boundaries: start end label         (1-based)
*/
func (d *Decoder) DecodeMesh(nodeSection, triangleSection, boundarySection string) (m *mesh.TriMesh, err error) {
	var (
		nodeVals [][]float64
		triVals  [][]int
		bdyVals  [][]int
	)
	if nodeVals, err = utils.LoadStr[float64](nodeSection).Values(); err != nil {
		return nil, fmt.Errorf("%s: %w", NodesSection, err)
	}
	if triVals, err = utils.LoadStr[int](triangleSection).Values(); err != nil {
		return nil, fmt.Errorf("%s: %w", TrianglesSection, err)
	}
	if bdyVals, err = utils.LoadStr[int](boundarySection).Values(); err != nil {
		return nil, fmt.Errorf("%s: %w", BoundariesSection, err)
	}

	nodes := make([][2]float64, len(nodeVals))
	nodeLabels := make([]int, len(nodeVals))
	for i, row := range nodeVals {
		if len(row) != 3 {
			return nil, fmt.Errorf("%s: line %d has %d fields, want 3", NodesSection, i, len(row))
		}
		nodes[i] = [2]float64{row[0], row[1]}
		if nodeLabels[i] = int(row[2]); float64(nodeLabels[i]) != row[2] {
			return nil, fmt.Errorf("%s: line %d label %v is not an integer", NodesSection, i, row[2])
		}
	}

	triangles := make([][3]int, len(triVals))
	triangleLabels := make([]int, len(triVals))
	for k, row := range triVals {
		if len(row) != 4 {
			return nil, fmt.Errorf("%s: line %d has %d fields, want 4", TrianglesSection, k, len(row))
		}
		triangles[k] = [3]int{row[0] - 1, row[1] - 1, row[2] - 1}
		triangleLabels[k] = row[3]
	}

	edges := make([]types.BoundaryEdge, len(bdyVals))
	for e, row := range bdyVals {
		if len(row) != 3 {
			return nil, fmt.Errorf("%s: line %d has %d fields, want 3", BoundariesSection, e, len(row))
		}
		edges[e] = types.BoundaryEdge{Start: row[0] - 1, End: row[1] - 1, Label: row[2]}
	}

	opts := []mesh.ResolverOption{mesh.WithStrict(d.Strict), mesh.WithLogger(d.logger())}
	if d.NoFlip {
		opts = append(opts, mesh.WithoutReversal())
	}
	return mesh.New(nodes, nodeLabels, triangles, triangleLabels, edges, opts...)
}
