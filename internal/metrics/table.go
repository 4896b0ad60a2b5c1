package metrics

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// tableReader resolves column names once and converts cells by name.
type tableReader struct {
	name string
	t    models.Table
	idx  map[string]int
}

func newTableReader(name string, t models.Table, required []string) (*tableReader, error) {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[columnKey(c)] = i
	}
	var missing []string
	for _, c := range required {
		if _, ok := idx[columnKey(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Table: name, Columns: missing}
	}
	return &tableReader{name: name, t: t, idx: idx}, nil
}

// cell returns nil for columns the table does not have.
func (r *tableReader) cell(row []any, col string) any {
	i, ok := r.idx[columnKey(col)]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

func (r *tableReader) invalid(i int, row []any, col string, err error) error {
	return &InvalidValueError{Table: r.name, Column: col, Row: i, Value: r.cell(row, col), Err: err}
}

func (r *tableReader) int64Val(i int, row []any, col string) (int64, error) {
	n, err := toInt64(r.cell(row, col))
	if err != nil {
		return 0, r.invalid(i, row, col, err)
	}
	return n, nil
}

func (r *tableReader) intVal(i int, row []any, col string) (int, error) {
	n, err := r.int64Val(i, row, col)
	return int(n), err
}

func (r *tableReader) optIntVal(i int, row []any, col string) (*int, error) {
	n, err := toOptInt(r.cell(row, col))
	if err != nil {
		return nil, r.invalid(i, row, col, err)
	}
	return n, nil
}

func (r *tableReader) floatVal(i int, row []any, col string) (float64, error) {
	f, err := toFloat(r.cell(row, col))
	if err != nil {
		return 0, r.invalid(i, row, col, err)
	}
	return f, nil
}

func (r *tableReader) optFloatVal(i int, row []any, col string) (*float64, error) {
	f, err := toOptFloat(r.cell(row, col))
	if err != nil {
		return nil, r.invalid(i, row, col, err)
	}
	return f, nil
}

func (r *tableReader) dateVal(i int, row []any, col string) (time.Time, error) {
	d, err := toDate(r.cell(row, col))
	if err != nil {
		return d, r.invalid(i, row, col, err)
	}
	return d, nil
}

func (r *tableReader) optTimeVal(i int, row []any, col string) (*models.TimeOfDay, error) {
	t, err := toOptTimeOfDay(r.cell(row, col))
	if err != nil {
		return nil, r.invalid(i, row, col, err)
	}
	return t, nil
}

func (r *tableReader) strVal(i int, row []any, col string) (string, error) {
	s, err := toString(r.cell(row, col))
	if err != nil {
		return "", r.invalid(i, row, col, err)
	}
	return s, nil
}

func (r *tableReader) optStrVal(i int, row []any, col string) (*string, error) {
	s, err := toOptString(r.cell(row, col))
	if err != nil {
		return nil, r.invalid(i, row, col, err)
	}
	return s, nil
}
