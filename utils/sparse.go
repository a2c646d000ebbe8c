package utils

import (
	"fmt"
	"strings"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// SparseFormat selects the representation a decoded matrix is returned in
type SparseFormat uint8

const (
	SparseCSR SparseFormat = iota
	SparseCSC
	SparseCOO
	SparseDOK
	SparseRaw
)

var sparseFormatNames = map[string]SparseFormat{
	"csr": SparseCSR,
	"csc": SparseCSC,
	"coo": SparseCOO,
	"dok": SparseDOK,
	"raw": SparseRaw,
}

func NewSparseFormat(label string) (sf SparseFormat, err error) {
	var ok bool
	if label == "" {
		return SparseCSR, nil
	}
	if sf, ok = sparseFormatNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown sparse format [%s], want one of csr, csc, coo, dok, raw", label)
	}
	return
}

func (sf SparseFormat) String() string {
	return [...]string{"csr", "csc", "coo", "dok", "raw"}[sf]
}

/*
COOData holds a sparse matrix as parallel coordinate arrays, 0-based.
Entries are neither sorted nor deduplicated; a repeated (I, J) pair adds to
the same coefficient once the data is consolidated into a matrix.
*/
type COOData struct {
	NRows, NCols int
	Symmetric    bool
	I, J         []int
	V            []float64
}

func (d COOData) Dims() (r, c int) { return d.NRows, d.NCols }

// NNZ is the number of stored coefficients, duplicates counted individually
func (d COOData) NNZ() int { return len(d.V) }

// Dense expands the data into a dense matrix with duplicates summed
func (d COOData) Dense() (m *mat.Dense) {
	m = mat.NewDense(d.NRows, d.NCols, nil)
	for n, v := range d.V {
		m.Set(d.I[n], d.J[n], m.At(d.I[n], d.J[n])+v)
	}
	return
}

/*
ToSparse builds a matrix in the requested representation. SparseCOO keeps
each stored coefficient as given, the other formats accumulate duplicates.
SparseRaw returns the receiver unchanged.
*/
func (d COOData) ToSparse(sf SparseFormat) (m mat.Matrix, err error) {
	if d.NRows <= 0 || d.NCols <= 0 {
		err = fmt.Errorf("cannot build a %d x %d sparse matrix", d.NRows, d.NCols)
		return
	}
	switch sf {
	case SparseRaw:
		return d, nil
	case SparseCOO:
		I, J, V := make([]int, len(d.I)), make([]int, len(d.J)), make([]float64, len(d.V))
		copy(I, d.I)
		copy(J, d.J)
		copy(V, d.V)
		return sparse.NewCOO(d.NRows, d.NCols, I, J, V), nil
	}
	dok := sparse.NewDOK(d.NRows, d.NCols)
	for n, v := range d.V {
		i, j := d.I[n], d.J[n]
		dok.Set(i, j, dok.At(i, j)+v)
	}
	switch sf {
	case SparseDOK:
		m = dok
	case SparseCSR:
		m = dok.ToCSR()
	case SparseCSC:
		m = dok.ToCSC()
	default:
		err = fmt.Errorf("unsupported sparse format %d", sf)
	}
	return
}

// At and T satisfy mat.Matrix so the raw form can stand in for a matrix
func (d COOData) At(i, j int) (v float64) {
	for n := range d.V {
		if d.I[n] == i && d.J[n] == j {
			v += d.V[n]
		}
	}
	return
}

func (d COOData) T() mat.Matrix { return mat.Transpose{Matrix: d} }
