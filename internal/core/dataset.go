package core

// Row is one record of a Dataset.
type Row struct {
	// Index is the row position inside its source file, starting at 0.
	Index int

	// Values holds one cell per Dataset column; absent cells are "".
	Values []string
}

// Dataset is an in-memory table of named columns and ordered rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnIndex returns the position of name in Columns, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Concat appends tables in order into one Dataset. Columns are the union of
// all table columns in first-seen order; row order is preserved.
func Concat(tables ...*Dataset) (*Dataset, error) {
	if len(tables) == 0 {
		return nil, ErrNoData
	}

	out := &Dataset{}
	pos := make(map[string]int)
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		total += len(t.Rows)
		for _, c := range t.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	out.Rows = make([]Row, 0, total)
	for _, t := range tables {
		if t == nil {
			continue
		}
		mapping := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			mapping[i] = pos[c]
		}
		for _, r := range t.Rows {
			values := make([]string, len(out.Columns))
			for i, v := range r.Values {
				if i < len(mapping) {
					values[mapping[i]] = v
				}
			}
			out.Rows = append(out.Rows, Row{Index: r.Index, Values: values})
		}
	}

	return out, nil
}
