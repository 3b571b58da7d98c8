package embeddings

import "math"

// Table holds one embedding vector per input item, stored column-wise:
// column i is the vector for input i, row r is dimension r.
type Table struct {
	Columns [][]float64 `json:"columns"`
}

// NewTable wraps columns without copying.
func NewTable(columns [][]float64) Table {
	return Table{Columns: columns}
}

func (t Table) NumColumns() int { return len(t.Columns) }

// NumRows is the embedding dimension (the longest column).
func (t Table) NumRows() int {
	n := 0
	for _, c := range t.Columns {
		if len(c) > n {
			n = len(c)
		}
	}
	return n
}

// Column returns the vector for input item i.
func (t Table) Column(i int) []float64 {
	if i < 0 || i >= len(t.Columns) {
		return nil
	}
	return t.Columns[i]
}

// At returns the value at dimension row of item col, or NaN when the cell
// does not exist.
func (t Table) At(row, col int) float64 {
	c := t.Column(col)
	if row < 0 || row >= len(c) {
		return math.NaN()
	}
	return c[row]
}

// Rows returns the row-major view: one row per dimension, one value per
// input item. Short columns are padded with NaN.
func (t Table) Rows() [][]float64 {
	rows := make([][]float64, t.NumRows())
	for r := range rows {
		row := make([]float64, len(t.Columns))
		for c := range t.Columns {
			row[c] = t.At(r, c)
		}
		rows[r] = row
	}
	return rows
}

// Clone deep-copies the table.
func (t Table) Clone() Table {
	if t.Columns == nil {
		return Table{}
	}
	cols := make([][]float64, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = append([]float64(nil), c...)
	}
	return Table{Columns: cols}
}
