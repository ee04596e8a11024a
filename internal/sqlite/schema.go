package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Declared column types understood by the store. The first word of a
// declared type selects the storage type; size arguments such as
// VARCHAR(64) are ignored.
//
//	INTEGER INT BIGINT SMALLINT TINYINT  Integer
//	BOOLEAN BOOL                         Boolean (0/1)
//	TEXT VARCHAR CHAR STRING CLOB        Text
//	BLOB BINARY                          Binary
//	TIMESTAMP DATETIME                   Timestamp (epoch milliseconds)
//	FLOAT                                Float
//	DOUBLE REAL                          Double
//	LINK <table>                         Link (rowid of <table>)
//	LIST <scalar>                        ScalarList (JSON array)
//	LIST <table>                         ObjectList (JSON array of rowids)
//
// Anything else maps to types.TypeUnknown. In LIST declarations a scalar
// type name wins over a table of the same name.
var scalarDeclTypes = map[string]types.StorageType{
	"INTEGER":   types.TypeInteger,
	"INT":       types.TypeInteger,
	"BIGINT":    types.TypeInteger,
	"SMALLINT":  types.TypeInteger,
	"TINYINT":   types.TypeInteger,
	"BOOLEAN":   types.TypeBoolean,
	"BOOL":      types.TypeBoolean,
	"TEXT":      types.TypeText,
	"VARCHAR":   types.TypeText,
	"CHAR":      types.TypeText,
	"STRING":    types.TypeText,
	"CLOB":      types.TypeText,
	"BLOB":      types.TypeBinary,
	"BINARY":    types.TypeBinary,
	"TIMESTAMP": types.TypeTimestamp,
	"DATETIME":  types.TypeTimestamp,
	"FLOAT":     types.TypeFloat,
	"DOUBLE":    types.TypeDouble,
	"REAL":      types.TypeDouble,
}

// Canonical declared type per storage type, used when creating tables.
var declTypeNames = map[types.StorageType]string{
	types.TypeInteger:   "INTEGER",
	types.TypeBoolean:   "BOOLEAN",
	types.TypeText:      "TEXT",
	types.TypeBinary:    "BLOB",
	types.TypeTimestamp: "TIMESTAMP",
	types.TypeFloat:     "FLOAT",
	types.TypeDouble:    "DOUBLE",
}

const (
	declLink = "LINK"
	declList = "LIST"
)

// identRE limits table and column names the builder accepts, so that link
// targets survive as plain words inside declared types.
var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// describeColumn maps a declared type to a column descriptor.
func describeColumn(name, declType string, notNull bool) types.ColumnDescriptor {
	col := types.ColumnDescriptor{Name: name, Nullable: !notNull}

	words := strings.Fields(declType)
	if len(words) == 0 {
		return col
	}
	head := strings.ToUpper(words[0])
	if i := strings.IndexByte(head, '('); i >= 0 {
		head = head[:i]
	}

	switch {
	case head == declLink && len(words) == 2:
		col.Type = types.TypeLink
		col.LinkTarget = words[1]
	case head == declList && len(words) == 2:
		if elem, ok := scalarDeclTypes[strings.ToUpper(words[1])]; ok {
			col.Type = types.TypeScalarList
			col.ElementType = elem
		} else {
			col.Type = types.TypeObjectList
			col.LinkTarget = words[1]
		}
	default:
		if t, ok := scalarDeclTypes[head]; ok {
			col.Type = t
		}
	}
	return col
}

// declaredType is the inverse of describeColumn for columns the builder
// creates.
func declaredType(col types.ColumnDescriptor) (string, error) {
	switch col.Type {
	case types.TypeLink, types.TypeObjectList:
		if !identRE.MatchString(col.LinkTarget) {
			return "", fmt.Errorf("%w: link target %q", ErrInvalidColumn, col.LinkTarget)
		}
		kw := declLink
		if col.Type == types.TypeObjectList {
			kw = declList
		}
		return kw + " " + col.LinkTarget, nil
	case types.TypeScalarList:
		elem, ok := declTypeNames[col.ElementType]
		if !ok {
			return "", fmt.Errorf("%w: scalar list of %s", ErrInvalidColumn, col.ElementType)
		}
		return declList + " " + elem, nil
	default:
		name, ok := declTypeNames[col.Type]
		if !ok {
			return "", fmt.Errorf("%w: storage type %s", ErrInvalidColumn, col.Type)
		}
		return name, nil
	}
}

// createTableSQL renders the CREATE TABLE statement for a table of cols.
func createTableSQL(name string, cols []types.ColumnDescriptor) (string, error) {
	if !identRE.MatchString(name) {
		return "", fmt.Errorf("%w: table name %q", ErrInvalidColumn, name)
	}
	defs := make([]string, len(cols))
	for i, c := range cols {
		if !identRE.MatchString(c.Name) {
			return "", fmt.Errorf("%w: column name %q", ErrInvalidColumn, c.Name)
		}
		decl, err := declaredType(c)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", c.Name, err)
		}
		def := quoteIdent(c.Name) + " " + decl
		if !c.Nullable {
			def += " NOT NULL"
		}
		defs[i] = def
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n);", quoteIdent(name), strings.Join(defs, ",\n    ")), nil
}

// quoteIdent quotes an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
