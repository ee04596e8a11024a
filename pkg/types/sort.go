package types

import (
	"errors"
	"fmt"
	"strings"
)

// SortDirection specifies the direction of a sort.
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

// String returns the SQL keyword for the direction.
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "ASC"
	case SortDescending:
		return "DESC"
	default:
		return fmt.Sprintf("SortDirection(%d)", int(d))
	}
}

// ErrInvalidDirection is returned by ParseSortDirection.
var ErrInvalidDirection = errors.New("invalid sort direction")

// ParseSortDirection accepts asc/ascending and desc/descending in any case.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// SortSpec orders a scan by a single column. A nil *SortSpec means the
// engine's native order.
type SortSpec struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}
