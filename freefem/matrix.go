package freefem

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/notargets/freefemio/utils"
)

var ErrMalformedHeader = errors.New("malformed matrix header")

/*
DecodeMatrix reads a framed matrix section:

	# <banner comment lines, optional>
	nb_row nb_col is_symmetric nb_coef
	i j a_ij                          (nb_coef lines, 1-based)

Indices are shifted to 0-based. Coefficients are kept in wire order with
duplicates preserved. Lines after the nb_coef data lines are ignored.
*/
func DecodeMatrix(section string) (d utils.COOData, err error) {
	var (
		lines     = strings.Split(section, "\n")
		headerAt  = -1
		nbCoef    int
		symmetric int
	)
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		headerAt = i
		break
	}
	if headerAt < 0 {
		return d, fmt.Errorf("no header line: %w", ErrMalformedHeader)
	}
	header := strings.Fields(lines[headerAt])
	if len(header) != 4 {
		return d, fmt.Errorf("header [%s] has %d tokens, want 4: %w",
			lines[headerAt], len(header), ErrMalformedHeader)
	}
	vals := [4]int{}
	for i, tok := range header {
		if vals[i], err = strconv.Atoi(tok); err != nil {
			return utils.COOData{}, fmt.Errorf("header token [%s] is not an integer: %w", tok, ErrMalformedHeader)
		}
	}
	d.NRows, d.NCols, symmetric, nbCoef = vals[0], vals[1], vals[2], vals[3]
	if d.NRows < 0 || d.NCols < 0 || nbCoef < 0 {
		return utils.COOData{}, fmt.Errorf("header [%s] has negative counts: %w", lines[headerAt], ErrMalformedHeader)
	}
	d.Symmetric = symmetric != 0

	tbl := utils.LoadStr[float64](strings.Join(lines[headerAt+1:], "\n"))
	if len(tbl) < nbCoef {
		return utils.COOData{}, fmt.Errorf("header declares %d coefficients, found %d lines", nbCoef, len(tbl))
	}
	d.I, d.J, d.V = make([]int, nbCoef), make([]int, nbCoef), make([]float64, nbCoef)
	for n, row := range tbl[:nbCoef] {
		if len(row) != 3 {
			return utils.COOData{}, fmt.Errorf("coefficient %d has %d fields, want 3", n, len(row))
		}
		coef, cerr := utils.Table[float64]{row}.Flatten()
		if cerr != nil {
			return utils.COOData{}, fmt.Errorf("coefficient %d: %w", n, cerr)
		}
		if math.IsInf(coef[0], 0) || math.IsInf(coef[1], 0) {
			return utils.COOData{}, fmt.Errorf("coefficient %d has infinite index", n)
		}
		i, j := int(coef[0]), int(coef[1])
		if float64(i) != coef[0] || float64(j) != coef[1] {
			return utils.COOData{}, fmt.Errorf("coefficient %d has non-integer index (%v, %v)", n, coef[0], coef[1])
		}
		i, j = i-1, j-1
		if i < 0 || i >= d.NRows || j < 0 || j >= d.NCols {
			return utils.COOData{}, fmt.Errorf("coefficient %d index (%d, %d) outside %d x %d",
				n, i+1, j+1, d.NRows, d.NCols)
		}
		d.I[n], d.J[n], d.V[n] = i, j, coef[2]
	}
	return
}

// DecodeVector flattens a framed vector section into one sequence of values
func DecodeVector(section string) (v []float64, err error) {
	if v, err = utils.LoadStr[float64](section).Flatten(); err != nil {
		return nil, fmt.Errorf("decoding vector: %w", err)
	}
	return
}
