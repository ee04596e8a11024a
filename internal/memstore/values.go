package memstore

import (
	"fmt"
	"slices"
	"time"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// normalize checks v against column c and converts it to the canonical
// native type. Slices are copied so callers cannot mutate stored rows.
func normalize(c types.ColumnDescriptor, v any) (any, error) {
	if v == nil {
		if !c.Nullable {
			return nil, fmt.Errorf("%w: null in non-nullable column", ErrInvalidValue)
		}
		return nil, nil
	}

	switch c.Type {
	case types.TypeObjectList:
		ids, ok := v.([]types.PositionID)
		if !ok {
			return nil, mismatch(c.Type, v)
		}
		return slices.Clone(ids), nil
	case types.TypeScalarList:
		elems, ok := v.([]any)
		if !ok {
			return nil, mismatch(c.Type, v)
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			if e == nil {
				continue
			}
			n, err := scalar(c.ElementType, e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case types.TypeLink:
		switch p := v.(type) {
		case types.PositionID:
			return p, nil
		case int64:
			return types.PositionID(p), nil
		case int:
			return types.PositionID(p), nil
		}
		return nil, mismatch(c.Type, v)
	default:
		if !c.Type.IsScalar() {
			// Unknown storage types are stored untouched.
			return v, nil
		}
		return scalar(c.Type, v)
	}
}

// scalar converts one scalar value to the native type of t.
func scalar(t types.StorageType, v any) (any, error) {
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
			return b, nil
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
			return ts, nil
		}
	case types.TypeFloat:
		switch n := v.(type) {
		case float32:
			return n, nil
		case float64:
			return float32(n), nil
		}
	case types.TypeDouble:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		}
	}
	return nil, mismatch(t, v)
}

func mismatch(t types.StorageType, v any) error {
	return fmt.Errorf("%w: %T is not a %s value", ErrInvalidValue, v, t)
}
