// Tests for read sessions on SQLite object stores: opening, schema
// discovery, decoding, and ordered scans.
package sqlite

import (
	"bytes"
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

func sqliteConfig(path string) types.Config {
	return types.Config{Backend: types.BackendSQLite, Path: path}
}

// seeded writes the sample database into a temp dir and returns its config.
func seeded(t *testing.T) types.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.db")
	require.NoError(t, Seed(path))
	return sqliteConfig(path)
}

func openSession(t *testing.T, cfg types.Config) types.Session {
	t.Helper()
	s, err := NewBackend().OpenSession(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBackend_OpenSessionErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.db")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte("not a database "), 100), 0o644))

	tests := []struct {
		name string
		cfg  types.Config
	}{
		{"missing file", sqliteConfig(filepath.Join(dir, "absent.db"))},
		{"directory", sqliteConfig(dir)},
		{"not a database", sqliteConfig(garbage)},
		{"empty path", sqliteConfig("")},
		{"wrong backend", types.Config{Backend: types.BackendMemory, Path: garbage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewBackend().OpenSession(tt.cfg)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrConnection), "got %v", err)
		})
	}
}

func TestBackend_SessionIsReadOnly(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg).(*session)

	_, err := s.tx.Exec("DELETE FROM users")
	assert.Error(t, err)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	cfg := seeded(t)
	s, err := NewBackend().OpenSession(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.TableNames()
	assert.Error(t, err)
}

func TestSession_TableNames(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg)

	names, err := s.TableNames()
	require.NoError(t, err)
	assert.Equal(t, []string{SampleUsers, SampleDogs, SampleReadings}, names)
}

func TestSession_TableNamesHidesInternalTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.db")
	b, err := Create(path)
	require.NoError(t, err)
	// AUTOINCREMENT makes SQLite create sqlite_sequence.
	require.NoError(t, b.Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`))
	require.NoError(t, b.Exec(`INSERT INTO things (name) VALUES ('a')`))
	require.NoError(t, b.Close())

	s := openSession(t, sqliteConfig(path))
	names, err := s.TableNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"things"}, names)

	_, err = s.Columns("sqlite_sequence")
	assert.True(t, errors.Is(err, types.ErrTableNotFound))
}

func TestSession_Columns(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg)

	cols, err := s.Columns(SampleUsers)
	require.NoError(t, err)
	for i, want := range sampleTables[0].cols {
		assert.Equal(t, want, cols[i], "column %d", i)
	}

	cols, err = s.Columns(SampleReadings)
	require.NoError(t, err)
	assert.Equal(t, sampleTables[2].cols, cols)

	_, err = s.Columns("missing")
	assert.True(t, errors.Is(err, types.ErrTableNotFound))
}

func TestSession_RowCount(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg)

	n, err := s.RowCount(SampleDogs)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = s.RowCount("missing")
	assert.True(t, errors.Is(err, types.ErrTableNotFound))
}

func drain(t *testing.T, v types.View, cols int) (positions []types.PositionID, values [][]any) {
	t.Helper()
	defer v.Close()
	for v.Next() {
		cur := v.Cursor()
		positions = append(positions, cur.Position())
		row := make([]any, cols)
		for i := range row {
			if !cur.IsNull(i) {
				row[i] = cur.Value(i)
			}
		}
		values = append(values, row)
	}
	require.NoError(t, v.Err())
	return positions, values
}

func TestSession_ScanDecodesNativeValues(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg)

	view, err := s.Scan(SampleUsers, types.ScanOptions{})
	require.NoError(t, err)
	pos, rows := drain(t, view, 7)
	require.Len(t, rows, 3)
	assert.Equal(t, []types.PositionID{1, 2, 3}, pos)

	ann := rows[0]
	assert.Equal(t, int64(1), ann[0])
	assert.Equal(t, "Ann", ann[1])
	assert.True(t, math.IsNaN(ann[2].(float64)))
	assert.Equal(t, true, ann[3])
	assert.Equal(t, time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC), ann[4])
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, ann[5])
	assert.Equal(t, []types.PositionID{1, 2}, ann[6])

	assert.Nil(t, rows[1][1])
	assert.Equal(t, 3.5, rows[1][2])
	assert.Equal(t, []types.PositionID{}, rows[1][6])
	assert.True(t, math.IsInf(rows[2][2].(float64), 1))

	view, err = s.Scan(SampleDogs, types.ScanOptions{})
	require.NoError(t, err)
	_, dogs := drain(t, view, 3)
	assert.Equal(t, float32(21.5), dogs[0][1])
	assert.Equal(t, types.PositionID(1), dogs[0][2])
	assert.True(t, math.IsInf(float64(dogs[2][1].(float32)), -1))
	assert.Nil(t, dogs[2][2])

	view, err = s.Scan(SampleReadings, types.ScanOptions{})
	require.NoError(t, err)
	_, readings := drain(t, view, 4)
	samples := readings[0][2].([]any)
	require.Len(t, samples, 3)
	assert.Equal(t, 20.5, samples[0])
	assert.Equal(t, 21.0, samples[1])
	assert.True(t, math.IsNaN(samples[2].(float64)))
	assert.Equal(t, []any{"indoor", "calibrated"}, readings[0][3])
	assert.Equal(t, []any{}, readings[1][2])
	assert.Nil(t, readings[1][3])
}

func TestSession_ScanOrderAndWindow(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg)

	tests := []struct {
		name string
		opts types.ScanOptions
		want []types.PositionID
	}{
		{"native order", types.ScanOptions{}, []types.PositionID{1, 2, 3}},
		{"offset", types.ScanOptions{Offset: 1}, []types.PositionID{2, 3}},
		{"limit", types.ScanOptions{Limit: 2}, []types.PositionID{1, 2}},
		{"offset past end", types.ScanOptions{Offset: 10}, nil},
		{"joined asc", types.ScanOptions{Sort: &types.SortSpec{Column: "joined"}}, []types.PositionID{3, 1, 2}},
		{"joined desc", types.ScanOptions{Sort: &types.SortSpec{Column: "joined", Direction: types.SortDescending}}, []types.PositionID{2, 1, 3}},
		{"name asc puts null first", types.ScanOptions{Sort: &types.SortSpec{Column: "name"}}, []types.PositionID{2, 1, 3}},
		{"score asc puts NaN last", types.ScanOptions{Sort: &types.SortSpec{Column: "score"}}, []types.PositionID{2, 3, 1}},
		{"active desc ties by position", types.ScanOptions{Sort: &types.SortSpec{Column: "active", Direction: types.SortDescending}}, []types.PositionID{1, 3, 2}},
		{"sorted window", types.ScanOptions{Sort: &types.SortSpec{Column: "joined"}, Offset: 1, Limit: 1}, []types.PositionID{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := s.Scan(SampleUsers, tt.opts)
			require.NoError(t, err)
			pos, _ := drain(t, view, 7)
			assert.Equal(t, tt.want, pos)
		})
	}
}

func TestSession_ScanRejectsBadSort(t *testing.T) {
	cfg := seeded(t)
	s := openSession(t, cfg)

	for _, col := range []string{"missing", "avatar", "dogs"} {
		_, err := s.Scan(SampleUsers, types.ScanOptions{Sort: &types.SortSpec{Column: col}})
		assert.True(t, errors.Is(err, types.ErrInvalidSortColumn), col)
	}
	_, err := s.Scan("missing", types.ScanOptions{})
	assert.True(t, errors.Is(err, types.ErrTableNotFound))
}

func TestSession_ForeignDeclaredTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	b, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, b.Exec(`CREATE TABLE legacy (shape GEOMETRY, label VARCHAR(32) NOT NULL, seen DATETIME, loose, code STRING, big INTEGER)`))
	require.NoError(t, b.Exec(`INSERT INTO legacy VALUES (x'0102', 'a', '2024-01-02 03:04:05', 7, '12', 1e20)`))
	require.NoError(t, b.Close())

	s := openSession(t, sqliteConfig(path))
	cols, err := s.Columns("legacy")
	require.NoError(t, err)
	assert.Equal(t, []types.ColumnDescriptor{
		{Name: "shape", Type: types.TypeUnknown, Nullable: true},
		{Name: "label", Type: types.TypeText},
		{Name: "seen", Type: types.TypeTimestamp, Nullable: true},
		{Name: "loose", Type: types.TypeUnknown, Nullable: true},
		{Name: "code", Type: types.TypeText, Nullable: true},
		{Name: "big", Type: types.TypeInteger, Nullable: true},
	}, cols)

	view, err := s.Scan("legacy", types.ScanOptions{})
	require.NoError(t, err)
	_, rows := drain(t, view, 6)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0][1])
	// STRING has numeric affinity, so SQLite stores '12' as an integer.
	assert.Equal(t, "12", rows[0][4])
	// A real too large for int64 is handed back as stored.
	assert.Equal(t, 1e20, rows[0][5])
	seen, ok := rows[0][2].(time.Time)
	require.True(t, ok, "got %T", rows[0][2])
	assert.Equal(t, int64(1704164645000), seen.UnixMilli())
}
