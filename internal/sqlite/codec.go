package sqlite

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Write errors.
var (
	ErrInvalidColumn = errors.New("invalid column definition")
	ErrInvalidValue  = errors.New("invalid value for column")
)

// Text stored for non-finite floats. SQLite turns a NaN REAL into NULL, so
// NaN is kept as text in the REAL column; the infinities are stored the same
// way inside JSON lists, which cannot hold them as numbers.
const (
	storedNaN    = "NaN"
	storedPosInf = "Infinity"
	storedNegInf = "-Infinity"
)

// Text layouts accepted for timestamps stored as text by other writers.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// encodeValue converts a native value for column col into the value bound
// to the INSERT statement.
func encodeValue(col types.ColumnDescriptor, v any) (any, error) {
	if v == nil {
		if !col.Nullable {
			return nil, fmt.Errorf("%w: null in non-nullable column", ErrInvalidValue)
		}
		return nil, nil
	}

	switch col.Type {
	case types.TypeLink:
		switch p := v.(type) {
		case types.PositionID:
			return int64(p), nil
		case int64:
			return p, nil
		}
		return nil, mismatch(col.Type, v)
	case types.TypeObjectList:
		ids, ok := v.([]types.PositionID)
		if !ok {
			return nil, mismatch(col.Type, v)
		}
		if ids == nil {
			ids = []types.PositionID{}
		}
		data, err := json.Marshal(ids)
		if err != nil {
			return nil, fmt.Errorf("encoding object list: %w", err)
		}
		return string(data), nil
	case types.TypeScalarList:
		elems, ok := v.([]any)
		if !ok {
			return nil, mismatch(col.Type, v)
		}
		return encodeScalarList(col.ElementType, elems)
	case types.TypeFloat, types.TypeDouble:
		f, ok := toFloat(v)
		if !ok {
			return nil, mismatch(col.Type, v)
		}
		if math.IsNaN(f) {
			return storedNaN, nil
		}
		return f, nil
	default:
		return encodeScalar(col.Type, v)
	}
}

// encodeScalar converts one scalar for storage in a column or JSON list.
func encodeScalar(t types.StorageType, v any) (any, error) {
	switch t {
	case types.TypeInteger:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		}
	case types.TypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case types.TypeText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case types.TypeBinary:
		if b, ok := v.([]byte); ok {
			return slices.Clone(b), nil
		}
	case types.TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return ts.UnixMilli(), nil
		}
	case types.TypeFloat, types.TypeDouble:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
	}
	return nil, mismatch(t, v)
}

// encodeScalarList renders a scalar list as a JSON array. Booleans stay JSON
// booleans, binaries become base64 strings, non-finite floats become strings.
func encodeScalarList(elem types.StorageType, elems []any) (string, error) {
	out := make([]any, len(elems))
	for i, e := range elems {
		if e == nil {
			continue
		}
		switch elem {
		case types.TypeBoolean:
			b, ok := e.(bool)
			if !ok {
				return "", fmt.Errorf("element %d: %w", i, mismatch(elem, e))
			}
			out[i] = b
		case types.TypeFloat, types.TypeDouble:
			f, ok := toFloat(e)
			if !ok {
				return "", fmt.Errorf("element %d: %w", i, mismatch(elem, e))
			}
			out[i] = jsonFloat(f)
		default:
			v, err := encodeScalar(elem, e)
			if err != nil {
				return "", fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding scalar list: %w", err)
	}
	return string(data), nil
}

func jsonFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return storedNaN
	case math.IsInf(f, 1):
		return storedPosInf
	case math.IsInf(f, -1):
		return storedNegInf
	default:
		return f
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func mismatch(t types.StorageType, v any) error {
	return fmt.Errorf("%w: %T is not a %s value", ErrInvalidValue, v, t)
}

// decodeValue converts a value read from column col into its native type.
// A value that does not decode is returned unchanged, and the formatter
// renders it as unknown; reads never fail on content.
func decodeValue(col types.ColumnDescriptor, raw any) any {
	if raw == nil {
		return nil
	}
	switch col.Type {
	case types.TypeLink:
		if n, ok := raw.(int64); ok {
			return types.PositionID(n)
		}
	case types.TypeObjectList:
		var ids []types.PositionID
		if err := json.Unmarshal(textBytes(raw), &ids); err == nil {
			if ids == nil {
				ids = []types.PositionID{}
			}
			return ids
		}
	case types.TypeScalarList:
		if elems, err := decodeScalarList(col.ElementType, textBytes(raw)); err == nil {
			return elems
		}
	default:
		if v, ok := decodeScalar(col.Type, raw); ok {
			return v
		}
	}
	return raw
}

// decodeScalar converts a driver value into the native value of t.
func decodeScalar(t types.StorageType, raw any) (any, bool) {
	switch t {
	case types.TypeInteger:
		switch n := raw.(type) {
		case int64:
			return n, true
		case float64:
			// Reals outside the int64 range stay undecoded.
			if n == math.Trunc(n) && n >= math.MinInt64 && n < 1<<63 {
				return int64(n), true
			}
		}
	case types.TypeBoolean:
		switch b := raw.(type) {
		case int64:
			return b != 0, true
		case bool:
			return b, true
		}
	case types.TypeText:
		switch s := raw.(type) {
		case string:
			return s, true
		case []byte:
			return string(s), true
		case int64:
			// Declared types such as STRING have numeric affinity, so
			// numeric-looking text comes back as a number.
			return strconv.FormatInt(s, 10), true
		case float64:
			return strconv.FormatFloat(s, 'g', -1, 64), true
		}
	case types.TypeBinary:
		switch b := raw.(type) {
		case []byte:
			return b, true
		case string:
			return []byte(b), true
		}
	case types.TypeTimestamp:
		switch ts := raw.(type) {
		case int64:
			return time.UnixMilli(ts).UTC(), true
		case time.Time:
			return ts, true
		case string:
			return parseTimestamp(ts)
		}
	case types.TypeFloat:
		if f, ok := decodeFloat(raw); ok {
			return float32(f), true
		}
	case types.TypeDouble:
		return decodeFloat(raw)
	}
	return nil, false
}

func decodeFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case string:
		switch n {
		case storedNaN:
			return math.NaN(), true
		case storedPosInf:
			return math.Inf(1), true
		case storedNegInf:
			return math.Inf(-1), true
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func parseTimestamp(s string) (any, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return nil, false
}

// decodeScalarList parses a JSON array written by encodeScalarList.
func decodeScalarList(elem types.StorageType, data []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	out := make([]any, len(raw))
	for i, e := range raw {
		if e == nil {
			continue
		}
		v, ok := decodeElement(elem, e)
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, mismatch(elem, e))
		}
		out[i] = v
	}
	return out, nil
}

func decodeElement(elem types.StorageType, e any) (any, bool) {
	switch v := e.(type) {
	case json.Number:
		switch elem {
		case types.TypeInteger, types.TypeTimestamp:
			n, err := v.Int64()
			if err != nil {
				return nil, false
			}
			return decodeScalar(elem, n)
		case types.TypeFloat, types.TypeDouble:
			f, err := v.Float64()
			if err != nil {
				return nil, false
			}
			return decodeScalar(elem, f)
		}
	case bool:
		return decodeScalar(elem, v)
	case string:
		if elem == types.TypeBinary {
			b, err := base64.StdEncoding.DecodeString(v)
			if err != nil {
				return nil, false
			}
			return b, true
		}
		return decodeScalar(elem, v)
	}
	return nil, false
}

func textBytes(raw any) []byte {
	switch v := raw.(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		return nil
	}
}
