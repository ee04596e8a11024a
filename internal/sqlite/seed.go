package sqlite

import (
	"fmt"
	"math"
	"time"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// Sample table names written by Seed.
const (
	SampleUsers    = "users"
	SampleDogs     = "dogs"
	SampleReadings = "readings"
)

// sampleTables defines the sample schema in creation order.
var sampleTables = []struct {
	name string
	cols []types.ColumnDescriptor
}{
	{SampleUsers, []types.ColumnDescriptor{
		{Name: "id", Type: types.TypeInteger},
		{Name: "name", Type: types.TypeText, Nullable: true},
		{Name: "score", Type: types.TypeDouble},
		{Name: "active", Type: types.TypeBoolean},
		{Name: "joined", Type: types.TypeTimestamp},
		{Name: "avatar", Type: types.TypeBinary, Nullable: true},
		{Name: "dogs", Type: types.TypeObjectList, LinkTarget: SampleDogs},
	}},
	{SampleDogs, []types.ColumnDescriptor{
		{Name: "name", Type: types.TypeText},
		{Name: "weight", Type: types.TypeFloat},
		{Name: "owner", Type: types.TypeLink, LinkTarget: SampleUsers, Nullable: true},
	}},
	{SampleReadings, []types.ColumnDescriptor{
		{Name: "sensor", Type: types.TypeText},
		{Name: "taken", Type: types.TypeTimestamp},
		{Name: "samples", Type: types.TypeScalarList, ElementType: types.TypeDouble},
		{Name: "tags", Type: types.TypeScalarList, ElementType: types.TypeText, Nullable: true},
	}},
}

// Seed writes the sample database to path, replacing any existing file.
func Seed(path string) (err error) {
	b, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return SeedInto(b)
}

// SeedInto creates the sample tables in b and fills them.
func SeedInto(b *Builder) error {
	for _, t := range sampleTables {
		if err := b.CreateTable(t.name, t.cols...); err != nil {
			return err
		}
	}

	joined := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	users := [][]any{
		{int64(1), "Ann", math.NaN(), true, joined, []byte{0x89, 'P', 'N', 'G'}, []types.PositionID{1, 2}},
		{int64(2), nil, 3.5, false, joined.Add(48 * time.Hour), nil, []types.PositionID{}},
		{int64(3), "Bo", math.Inf(1), true, joined.Add(-time.Hour), nil, []types.PositionID{3}},
	}
	for _, u := range users {
		if _, err := b.Insert(SampleUsers, u...); err != nil {
			return fmt.Errorf("seeding %s: %w", SampleUsers, err)
		}
	}

	dogs := [][]any{
		{"Rex", float32(21.5), types.PositionID(1)},
		{"Fido", float32(8), types.PositionID(1)},
		{"Spot", float32(math.Inf(-1)), nil},
	}
	for _, d := range dogs {
		if _, err := b.Insert(SampleDogs, d...); err != nil {
			return fmt.Errorf("seeding %s: %w", SampleDogs, err)
		}
	}

	readings := [][]any{
		{"t-1", joined, []any{20.5, 21.0, math.NaN()}, []any{"indoor", "calibrated"}},
		{"t-2", joined.Add(time.Minute), []any{}, nil},
	}
	for _, r := range readings {
		if _, err := b.Insert(SampleReadings, r...); err != nil {
			return fmt.Errorf("seeding %s: %w", SampleReadings, err)
		}
	}
	return nil
}
