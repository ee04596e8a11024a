package inspect

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// UnknownValue is emitted for cells the formatter cannot interpret: storage
// types outside the known set, or native values whose Go type does not match
// the declared storage type.
const UnknownValue = "<unknown>"

// TimestampLayout is the long date/time layout used for timestamp cells.
const TimestampLayout = "January 2, 2006 3:04:05 PM MST"

// Literal renderings of non-finite floating point values.
const (
	textNaN         = "NaN"
	textPosInfinity = "Infinity"
	textNegInfinity = "-Infinity"
)

// nullElement renders a nil element inside a scalar list.
const nullElement = "null"

// Formatter converts one typed value of a row into a types.Cell. It never
// fails: values it cannot interpret degrade to UnknownValue.
type Formatter struct {
	loc *time.Location
}

// NewFormatter returns a Formatter that renders timestamps in loc. A nil loc
// means UTC.
func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{loc: loc}
}

// Format returns the cell for column i of the row under cur. Absent values
// format to the Null cell whatever the declared type.
func (f Formatter) Format(col types.ColumnDescriptor, cur types.RowCursor, i int) (cell types.Cell) {
	defer func() {
		if r := recover(); r != nil {
			cell = types.TextCell(col.Type, UnknownValue)
		}
	}()

	if cur.IsNull(i) {
		return types.NullCell(col.Type)
	}
	v := cur.Value(i)
	if v == nil {
		return types.NullCell(col.Type)
	}

	switch col.Type {
	case types.TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return types.TextCell(col.Type, UnknownValue)
		}
		return types.BoolCell(b)

	case types.TypeInteger, types.TypeText, types.TypeBinary, types.TypeTimestamp,
		types.TypeFloat, types.TypeDouble:
		text, ok := f.scalar(col.Type, v)
		if !ok {
			text = UnknownValue
		}
		return types.TextCell(col.Type, text)

	case types.TypeLink:
		pos, ok := positionOf(v)
		if !ok {
			return types.TextCell(col.Type, UnknownValue)
		}
		return types.TextCell(col.Type, pos.String())

	case types.TypeObjectList:
		ids, ok := v.([]types.PositionID)
		if !ok {
			return types.TextCell(col.Type, UnknownValue)
		}
		elems := make([]string, len(ids))
		for j, id := range ids {
			elems[j] = id.String()
		}
		return types.ListCell(col.Type, RenderCollection(col.LinkTarget, elems), elems)

	case types.TypeScalarList:
		values, ok := v.([]any)
		if !ok || !col.ElementType.IsScalar() {
			return types.TextCell(col.Type, UnknownValue)
		}
		elems := make([]string, len(values))
		for j, e := range values {
			elems[j] = f.element(col.ElementType, e)
		}
		return types.ListCell(col.Type, RenderCollection(col.ElementType.String(), elems), elems)

	default:
		return types.TextCell(col.Type, UnknownValue)
	}
}

// element renders one scalar list element.
func (f Formatter) element(t types.StorageType, v any) string {
	if v == nil {
		return nullElement
	}
	text, ok := f.scalar(t, v)
	if !ok {
		return UnknownValue
	}
	return text
}

// scalar renders a non-null scalar value of storage type t. It reports false
// when v does not hold a value of that type.
func (f Formatter) scalar(t types.StorageType, v any) (string, bool) {
	switch t {
	case types.TypeInteger:
		switch n := v.(type) {
		case int64:
			return strconv.FormatInt(n, 10), true
		case int:
			return strconv.Itoa(n), true
		case int32:
			return strconv.FormatInt(int64(n), 10), true
		}
	case types.TypeBoolean:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), true
		}
	case types.TypeText:
		if s, ok := v.(string); ok {
			return s, true
		}
	case types.TypeBinary:
		if b, ok := v.([]byte); ok {
			return describeBinary(b), true
		}
	case types.TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return fmt.Sprintf("%s (%d)", ts.In(f.loc).Format(TimestampLayout), ts.UnixMilli()), true
		}
	case types.TypeFloat:
		switch n := v.(type) {
		case float32:
			return formatFloat(float64(n), 32), true
		case float64:
			return formatFloat(n, 32), true
		}
	case types.TypeDouble:
		switch n := v.(type) {
		case float64:
			return formatFloat(n, 64), true
		case float32:
			return formatFloat(float64(n), 32), true
		}
	}
	return "", false
}

// describeBinary summarizes a byte sequence without encoding its content.
func describeBinary(b []byte) string {
	return fmt.Sprintf("byte[%d] (%s)", len(b), humanize.Bytes(uint64(len(b))))
}

// formatFloat renders v as plain decimal text, switching to exponent form
// only for very large or very small magnitudes.
func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return textNaN
	case math.IsInf(v, 1):
		return textPosInfinity
	case math.IsInf(v, -1):
		return textNegInfinity
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(v, 'g', -1, bitSize)
	}
	return strconv.FormatFloat(v, 'f', -1, bitSize)
}

func positionOf(v any) (types.PositionID, bool) {
	switch p := v.(type) {
	case types.PositionID:
		return p, true
	case int64:
		return types.PositionID(p), true
	default:
		return 0, false
	}
}
