package sqlite

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// LoadResult reports the outcome of LoadJSONL.
type LoadResult struct {
	Loaded  int
	Skipped int
}

// LoadJSONL inserts the records of a JSONL file into an existing table of b.
// Each line is a JSON object keyed by column name; missing keys are null and
// unknown keys are ignored. Values use JSON forms of the native types:
// numbers for integers, floats, links and epoch-millisecond timestamps
// (RFC 3339 strings are accepted too), base64 strings for binaries, arrays
// for lists, and the strings "NaN", "Infinity" and "-Infinity" for
// non-finite floats.
//
// Malformed lines and records that do not fit the schema are skipped and
// counted. The load runs in one transaction.
func LoadJSONL(b *Builder, table, path string) (LoadResult, error) {
	var res LoadResult
	cols, ok := b.tables[table]
	if !ok {
		return res, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}

	records, skipped, err := readJSONL(path)
	if err != nil {
		return res, err
	}
	res.Skipped = skipped

	err = b.Batch(func() error {
		for _, rec := range records {
			values, err := recordValues(cols, rec)
			if err != nil {
				res.Skipped++
				continue
			}
			if _, err := b.Insert(table, values...); err != nil {
				res.Skipped++
				continue
			}
			res.Loaded++
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, fmt.Errorf("loading %s into %s: %w", path, table, err)
	}
	return res, nil
}

// recordValues converts one JSON object into column-ordered native values.
func recordValues(cols []types.ColumnDescriptor, rec json.RawMessage) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}

	values := make([]any, len(cols))
	for i, c := range cols {
		v, ok := obj[c.Name]
		if !ok || v == nil {
			continue
		}
		native, err := fromJSON(c, v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		values[i] = native
	}
	return values, nil
}

// fromJSON converts a decoded JSON value into the native value for col.
func fromJSON(col types.ColumnDescriptor, v any) (any, error) {
	switch col.Type {
	case types.TypeLink:
		if n, ok := v.(json.Number); ok {
			id, err := n.Int64()
			return types.PositionID(id), err
		}
	case types.TypeObjectList:
		arr, ok := v.([]any)
		if !ok {
			break
		}
		ids := make([]types.PositionID, len(arr))
		for i, e := range arr {
			n, ok := e.(json.Number)
			if !ok {
				return nil, mismatch(types.TypeLink, e)
			}
			id, err := n.Int64()
			if err != nil {
				return nil, err
			}
			ids[i] = types.PositionID(id)
		}
		return ids, nil
	case types.TypeScalarList:
		arr, ok := v.([]any)
		if !ok {
			break
		}
		elem := types.ColumnDescriptor{Type: col.ElementType, Nullable: true}
		out := make([]any, len(arr))
		for i, e := range arr {
			if e == nil {
				continue
			}
			n, err := fromJSON(elem, e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case types.TypeInteger:
		if n, ok := v.(json.Number); ok {
			return n.Int64()
		}
	case types.TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case types.TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case types.TypeBinary:
		if s, ok := v.(string); ok {
			return base64.StdEncoding.DecodeString(s)
		}
	case types.TypeTimestamp:
		switch t := v.(type) {
		case json.Number:
			ms, err := t.Int64()
			if err != nil {
				return nil, err
			}
			return time.UnixMilli(ms).UTC(), nil
		case string:
			return time.Parse(time.RFC3339Nano, t)
		}
	case types.TypeFloat, types.TypeDouble:
		switch f := v.(type) {
		case json.Number:
			x, err := f.Float64()
			if err != nil {
				return nil, err
			}
			if col.Type == types.TypeFloat {
				return float32(x), nil
			}
			return x, nil
		case string:
			x, ok := decodeFloat(f)
			if !ok {
				break
			}
			if col.Type == types.TypeFloat {
				return float32(x), nil
			}
			return x, nil
		}
	}
	return nil, mismatch(col.Type, v)
}
