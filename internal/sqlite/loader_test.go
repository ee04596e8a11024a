// Tests for the JSONL fixture importer.
package sqlite

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadJSONL(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.jsonl", "{\"a\":1}\n\nnot json\n{\"b\":2}\n")

	records, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"a":1}`, string(records[0]))
	assert.JSONEq(t, `{"b":2}`, string(records[1]))

	_, _, err = readJSONL(filepath.Join(dir, "missing.jsonl"))
	assert.Error(t, err)
}

func TestLoadJSONL(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "load.db")
	b, err := Create(dbPath)
	require.NoError(t, err)
	require.NoError(t, b.CreateTable("events",
		types.ColumnDescriptor{Name: "label", Type: types.TypeText},
		types.ColumnDescriptor{Name: "at", Type: types.TypeTimestamp},
		types.ColumnDescriptor{Name: "level", Type: types.TypeDouble, Nullable: true},
		types.ColumnDescriptor{Name: "parent", Type: types.TypeLink, LinkTarget: "events", Nullable: true},
		types.ColumnDescriptor{Name: "tags", Type: types.TypeScalarList, ElementType: types.TypeText, Nullable: true},
	))

	src := writeFile(t, dir, "events.jsonl", `{"label":"boot","at":1709647629000,"level":"NaN","extra":true}
{"label":"up","at":"2024-03-05T14:08:00Z","level":1.5,"parent":1,"tags":["a",null]}
{"label":"bad","at":"soon"}
{"at":1709647629000}
{broken
{"label":"down","at":1709647700000,"level":null}
`)

	res, err := LoadJSONL(b, "events", src)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Loaded: 3, Skipped: 3}, res)
	require.NoError(t, b.Close())

	s := openSession(t, sqliteConfig(dbPath))
	view, err := s.Scan("events", types.ScanOptions{})
	require.NoError(t, err)
	pos, rows := drain(t, view, 5)
	assert.Equal(t, []types.PositionID{1, 2, 3}, pos)

	assert.Equal(t, "boot", rows[0][0])
	assert.True(t, math.IsNaN(rows[0][2].(float64)))
	assert.Equal(t, time.Date(2024, time.March, 5, 14, 8, 0, 0, time.UTC), rows[1][1])
	assert.Equal(t, types.PositionID(1), rows[1][3])
	assert.Equal(t, []any{"a", nil}, rows[1][4])
	assert.Nil(t, rows[2][2])
}

func TestLoadJSONLUnknownTable(t *testing.T) {
	dir := t.TempDir()
	b, err := Create(filepath.Join(dir, "x.db"))
	require.NoError(t, err)
	defer b.Close()

	_, err = LoadJSONL(b, "nope", writeFile(t, dir, "x.jsonl", "{}\n"))
	assert.True(t, errors.Is(err, types.ErrTableNotFound))
}
