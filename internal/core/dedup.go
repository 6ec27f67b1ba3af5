package core

import (
	"fmt"
	"strconv"
	"strings"
)

// DedupKey is the identity of a bind event.
var DedupKey = []string{"ipAddress", "hostName", "user"}

// DropDuplicates returns a new Dataset holding the first row seen for each
// distinct combination of the key columns. Retained rows keep their input
// order. With no keys given DedupKey is used.
func DropDuplicates(ds *Dataset, keys ...string) (*Dataset, error) {
	if ds == nil {
		return nil, fmt.Errorf("dedup: nil dataset")
	}
	if len(keys) == 0 {
		keys = DedupKey
	}

	idx := make([]int, len(keys))
	var missing []string
	for i, k := range keys {
		idx[i] = ds.ColumnIndex(k)
		if idx[i] < 0 {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	out := &Dataset{
		Columns: append([]string(nil), ds.Columns...),
		Rows:    make([]Row, 0, len(ds.Rows)),
	}
	seen := make(map[string]struct{}, len(ds.Rows))

	var b strings.Builder
	for _, r := range ds.Rows {
		b.Reset()
		for _, i := range idx {
			v := ""
			if i < len(r.Values) {
				v = r.Values[i]
			}
			// Length prefix keeps ("a,b","c") distinct from ("a","b,c").
			b.WriteString(strconv.Itoa(len(v)))
			b.WriteByte(':')
			b.WriteString(v)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, r)
	}

	return out, nil
}
