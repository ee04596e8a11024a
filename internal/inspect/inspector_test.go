package inspect

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/inspector/internal/memstore"
	"github.com/mesh-intelligence/inspector/pkg/types"
)

var usersCfg = types.Config{Backend: types.BackendMemory, Path: "users-db"}

// newUsersStore builds the Users example database plus a pets table.
func newUsersStore(t *testing.T) (*memstore.Store, *memstore.Table) {
	t.Helper()
	store := memstore.New()
	db := store.Create(usersCfg.Path)

	users, err := db.CreateTable("Users",
		types.ColumnDescriptor{Name: "id", Type: types.TypeInteger},
		types.ColumnDescriptor{Name: "name", Type: types.TypeText, Nullable: true},
		types.ColumnDescriptor{Name: "score", Type: types.TypeDouble},
	)
	require.NoError(t, err)

	// Inserted out of id order so native and sorted order differ.
	for _, r := range [][]any{
		{int64(3), "Bo", math.Inf(1)},
		{int64(1), "Ann", math.NaN()},
		{int64(2), nil, 3.5},
	} {
		_, err := users.Insert(r...)
		require.NoError(t, err)
	}

	pets, err := db.CreateTable("Pets",
		types.ColumnDescriptor{Name: "name", Type: types.TypeText},
		types.ColumnDescriptor{Name: "owner", Type: types.TypeLink, LinkTarget: "Users", Nullable: true},
		types.ColumnDescriptor{Name: "friends", Type: types.TypeObjectList, LinkTarget: "Pets"},
		types.ColumnDescriptor{Name: "weights", Type: types.TypeScalarList, ElementType: types.TypeFloat, Nullable: true},
	)
	require.NoError(t, err)
	_, err = pets.Insert("Rex", types.PositionID(2), []types.PositionID{}, []any{float32(1.5), float32(2)})
	require.NoError(t, err)
	_, err = pets.Insert("Tom", nil, []types.PositionID{1}, nil)
	require.NoError(t, err)

	return store, users
}

func cellValues(row types.Row) []any {
	out := make([]any, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value()
	}
	return out
}

func TestScanRows_UsersExample(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	rows, err := in.ScanRows(usersCfg, "Users", 0, 2, &types.SortSpec{Column: "id", Direction: types.SortAscending})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []any{"1", "Ann", "NaN"}, cellValues(rows[0]))
	assert.Equal(t, []any{"2", nil, "3.5"}, cellValues(rows[1]))
	assert.True(t, rows[1].Cells[1].Null)
}

func TestListTablesAndColumns(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	tables, err := in.ListTables(usersCfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Users", "Pets"}, tables)

	cols, err := in.ListColumns(usersCfg, "Pets")
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, "owner", cols[1].Name)
	assert.Equal(t, types.TypeLink, cols[1].Type)
	assert.True(t, cols[1].Nullable)
	assert.Equal(t, "Users", cols[1].LinkTarget)
	assert.Equal(t, types.TypeFloat, cols[3].ElementType)

	_, err = in.ListColumns(usersCfg, "Missing")
	assert.True(t, errors.Is(err, types.ErrTableNotFound))
}

func TestRowLengthMatchesColumns(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	for _, table := range []string{"Users", "Pets"} {
		cols, err := in.ListColumns(usersCfg, table)
		require.NoError(t, err)
		rows, err := in.ScanRows(usersCfg, table, 0, 100, nil)
		require.NoError(t, err)
		for _, r := range rows {
			require.Len(t, r.Cells, len(cols))
			for i, c := range r.Cells {
				assert.Equal(t, cols[i].Type, c.Type, "%s cell %d", table, i)
			}
		}
	}
}

func TestScanRows_LinksAndLists(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	rows, err := in.ScanRows(usersCfg, "Pets", 0, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []any{"Rex", "2", "Pets{}", "Float{1.5,2}"}, cellValues(rows[0]))
	assert.Equal(t, []any{"Tom", nil, "Pets{1}", nil}, cellValues(rows[1]))
}

func TestScanRows_Paging(t *testing.T) {
	store := memstore.New()
	db := store.Create("paging")
	tbl, err := db.CreateTable("nums",
		types.ColumnDescriptor{Name: "n", Type: types.TypeInteger},
		types.ColumnDescriptor{Name: "label", Type: types.TypeText, Nullable: true},
	)
	require.NoError(t, err)
	for i := range 23 {
		var label any
		if i%4 != 0 {
			label = string(rune('a' + i%5))
		}
		_, err := tbl.Insert(int64((i*7)%23), label)
		require.NoError(t, err)
	}
	cfg := types.Config{Backend: types.BackendMemory, Path: "paging"}
	in := New(store)

	sorts := []*types.SortSpec{
		nil,
		{Column: "n", Direction: types.SortAscending},
		{Column: "label", Direction: types.SortDescending},
	}
	for _, sort := range sorts {
		full, err := in.ScanRows(cfg, "nums", 0, 1000, sort)
		require.NoError(t, err)
		require.Len(t, full, 23)

		for _, k := range []int{1, 4, 5, 23, 30} {
			var paged []types.Row
			for start := 0; ; start += k {
				page, err := in.ScanRows(cfg, "nums", start, k, sort)
				require.NoError(t, err)
				if len(page) == 0 {
					break
				}
				require.LessOrEqual(t, len(page), k)
				paged = append(paged, page...)
			}
			assert.Equal(t, full, paged, "page size %d", k)
		}
	}
}

func TestScanRows_WindowClamping(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	tests := []struct {
		name         string
		start, count int
		want         int
	}{
		{"negative start treated as zero", -5, 2, 2},
		{"start past end", 3, 10, 0},
		{"start far past end", 1000, 10, 0},
		{"zero count", 0, 0, 0},
		{"negative count", 0, -1, 0},
		{"count truncated", 1, 100, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := in.ScanRows(usersCfg, "Users", tt.start, tt.count, nil)
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestScanRows_Idempotent(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)
	sort := &types.SortSpec{Column: "score", Direction: types.SortDescending}

	first, err := in.ScanRows(usersCfg, "Users", 0, 10, sort)
	require.NoError(t, err)
	second, err := in.ScanRows(usersCfg, "Users", 0, 10, sort)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanRows_SortOrder(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	asc, err := in.ScanRows(usersCfg, "Users", 0, 10, &types.SortSpec{Column: "id", Direction: types.SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []types.PositionID{2, 3, 1}, positions(asc))

	desc, err := in.ScanRows(usersCfg, "Users", 0, 10, &types.SortSpec{Column: "id", Direction: types.SortDescending})
	require.NoError(t, err)
	assert.Equal(t, []types.PositionID{1, 3, 2}, positions(desc))

	// Nulls sort first ascending.
	byName, err := in.ScanRows(usersCfg, "Users", 0, 10, &types.SortSpec{Column: "name", Direction: types.SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []any{nil, "Ann", "Bo"}, []any{byName[0].Cells[1].Value(), byName[1].Cells[1].Value(), byName[2].Cells[1].Value()})

	// NaN sorts after every number.
	byScore, err := in.ScanRows(usersCfg, "Users", 0, 10, &types.SortSpec{Column: "score", Direction: types.SortAscending})
	require.NoError(t, err)
	assert.Equal(t, []any{"3.5", "Infinity", "NaN"}, []any{byScore[0].Cells[2].Value(), byScore[1].Cells[2].Value(), byScore[2].Cells[2].Value()})
}

func positions(rows []types.Row) []types.PositionID {
	out := make([]types.PositionID, len(rows))
	for i, r := range rows {
		out[i] = r.Position
	}
	return out
}

func TestScanRows_Errors(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	_, err := in.ScanRows(usersCfg, "Missing", 0, 10, nil)
	assert.True(t, errors.Is(err, types.ErrTableNotFound))

	_, err = in.ScanRows(usersCfg, "Users", 0, 10, &types.SortSpec{Column: "nope"})
	assert.True(t, errors.Is(err, types.ErrInvalidSortColumn))

	_, err = in.ScanRows(usersCfg, "Pets", 0, 10, &types.SortSpec{Column: "friends"})
	assert.True(t, errors.Is(err, types.ErrInvalidSortColumn))

	// Sort is validated even when no rows are requested.
	_, err = in.ScanRows(usersCfg, "Users", 0, 0, &types.SortSpec{Column: "nope"})
	assert.True(t, errors.Is(err, types.ErrInvalidSortColumn))

	_, err = in.ScanRows(types.Config{Backend: types.BackendMemory, Path: "absent"}, "Users", 0, 10, nil)
	assert.True(t, errors.Is(err, types.ErrConnection))
}

func TestCountRows(t *testing.T) {
	store, _ := newUsersStore(t)
	in := New(store)

	n, err := in.CountRows(usersCfg, "Users")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = in.CountRows(usersCfg, "Missing")
	assert.True(t, errors.Is(err, types.ErrTableNotFound))

	_, err = in.CountRows(types.Config{Backend: types.BackendMemory, Path: "absent"}, "Users")
	assert.True(t, errors.Is(err, types.ErrConnection))
}

func TestUnknownStorageTypeInScan(t *testing.T) {
	store := memstore.New()
	db := store.Create("future")
	tbl, err := db.CreateTable("things",
		types.ColumnDescriptor{Name: "id", Type: types.TypeInteger},
		types.ColumnDescriptor{Name: "shape", Type: types.StorageType(250)},
	)
	require.NoError(t, err)
	_, err = tbl.Insert(int64(1), struct{ X, Y int }{1, 2})
	require.NoError(t, err)

	in := New(store)
	rows, err := in.ScanRows(types.Config{Backend: types.BackendMemory, Path: "future"}, "things", 0, 1, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"1", UnknownValue}, cellValues(rows[0]))
}

// failingOpener returns a fixed error from OpenSession.
type failingOpener struct{ err error }

func (o failingOpener) OpenSession(types.Config) (types.Session, error) { return nil, o.err }

func TestOpenErrorsWrapConnection(t *testing.T) {
	in := New(failingOpener{err: errors.New("disk on fire")})

	_, err := in.ListTables(usersCfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrConnection))
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestSessionsAreReleased(t *testing.T) {
	store, users := newUsersStore(t)
	in := New(store)

	_, _ = in.ListTables(usersCfg)
	_, _ = in.ListColumns(usersCfg, "Missing")
	_, _ = in.CountRows(usersCfg, "Users")
	_, _ = in.ScanRows(usersCfg, "Users", 0, 10, &types.SortSpec{Column: "nope"})
	_, _ = in.ScanRows(usersCfg, "Users", 0, 10, nil)

	// Insert needs the write lock, so it only completes once every session
	// above has released its read lock.
	done := make(chan error, 1)
	go func() {
		_, err := users.Insert(int64(4), "Cy", 1.0)
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("a session was not released")
	}
}

func TestSessionLogging(t *testing.T) {
	store, _ := newUsersStore(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in := New(store, WithLogger(logger))

	_, err := in.CountRows(usersCfg, "Users")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "session opened")
	assert.Contains(t, out, "session closed")
	assert.Contains(t, out, "op=count_rows")
	assert.Contains(t, out, "table=Users")
	assert.Contains(t, out, "session=")
}
