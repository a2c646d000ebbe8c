package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when numeric values are requested from a table
// holding a cell that could not be converted.
var ErrNotNumeric = errors.New("table cell is not numeric")

type Numeric interface {
	~int | ~float64
}

// Cell is one token of a decoded text table. When Valid is false the token
// failed conversion and only Raw is meaningful.
type Cell[T Numeric] struct {
	Value T
	Raw   string
	Valid bool
}

func (c Cell[T]) String() string {
	if c.Valid {
		return fmt.Sprint(c.Value)
	}
	return c.Raw
}

// Table is a decoded block of text, one row per non-empty line. Rows may be
// ragged when the source lines have different token counts.
type Table[T Numeric] [][]Cell[T]

type tableOptions struct {
	delimiter string
	skipRows  int
}

type TableOption func(*tableOptions)

// WithDelimiter splits lines on delim instead of runs of whitespace.
func WithDelimiter(delim string) TableOption {
	return func(o *tableOptions) { o.delimiter = delim }
}

// WithSkipRows drops the first n lines of the block before decoding.
func WithSkipRows(n int) TableOption {
	return func(o *tableOptions) { o.skipRows = n }
}

/*
LoadStr decodes a text block into a table of T. It is lenient: a token that
does not convert to T is kept as a raw string cell instead of failing, so
stray comments or markers embedded in numeric output survive decoding and
the caller decides what to do with them.
*/
func LoadStr[T Numeric](data string, opts ...TableOption) (tbl Table[T]) {
	var (
		o     tableOptions
		lines = strings.Split(data, "\n")
	)
	for _, opt := range opts {
		opt(&o)
	}
	if o.skipRows > 0 {
		if o.skipRows >= len(lines) {
			return
		}
		lines = lines[o.skipRows:]
	}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		var tokens []string
		if o.delimiter == "" {
			tokens = strings.Fields(line)
		} else {
			tokens = strings.Split(line, o.delimiter)
		}
		row := make([]Cell[T], len(tokens))
		for i, tok := range tokens {
			row[i] = convertCell[T](strings.TrimSpace(tok))
		}
		tbl = append(tbl, row)
	}
	return
}

func convertCell[T Numeric](tok string) (c Cell[T]) {
	c.Raw = tok
	var zero T
	switch any(zero).(type) {
	case int:
		if v, err := strconv.Atoi(tok); err == nil {
			c.Value, c.Valid = T(v), true
		}
	case float64:
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			c.Value, c.Valid = T(v), true
		}
	}
	return
}

func (tbl Table[T]) Dims() (nr, nc int) {
	nr = len(tbl)
	if nr > 0 {
		nc = len(tbl[0])
	}
	return
}

// IsRectangular reports whether every row has the same number of cells.
func (tbl Table[T]) IsRectangular() bool {
	_, nc := tbl.Dims()
	for _, row := range tbl {
		if len(row) != nc {
			return false
		}
	}
	return true
}

// Values returns the numeric contents, failing on the first degraded cell.
func (tbl Table[T]) Values() (vals [][]T, err error) {
	vals = make([][]T, len(tbl))
	for i, row := range tbl {
		vals[i] = make([]T, len(row))
		for j, c := range row {
			if !c.Valid {
				err = fmt.Errorf("row %d, column %d [%s]: %w", i, j, c.Raw, ErrNotNumeric)
				return nil, err
			}
			vals[i][j] = c.Value
		}
	}
	return
}

// Flatten returns all numeric values in row-major order.
func (tbl Table[T]) Flatten() (flat []T, err error) {
	for i, row := range tbl {
		for j, c := range row {
			if !c.Valid {
				err = fmt.Errorf("row %d, column %d [%s]: %w", i, j, c.Raw, ErrNotNumeric)
				return nil, err
			}
			flat = append(flat, c.Value)
		}
	}
	return
}
