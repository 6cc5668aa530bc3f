package engine

import (
	"time"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// CellState is the temporal classification of one week of the grid.
type CellState int

const (
	Future CellState = iota
	Current
	Lived
)

// String returns the wire name of the state.
func (s CellState) String() string {
	switch s {
	case Lived:
		return "lived"
	case Current:
		return "current"
	default:
		return "future"
	}
}

// MarshalText lets JSON encoders emit the state by name.
func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Cell is one week of life. Year and Week are zero-based grid coordinates.
type Cell struct {
	Index int       `json:"index"`
	Year  int       `json:"year"`
	Week  int       `json:"week"`
	Date  time.Time `json:"date"`
	State CellState `json:"state"`
}

// CurrentWeekIndex is the index of the cell holding "now", clamped into the grid.
// Someone who outlived the target age lands on the last cell.
func CurrentWeekIndex(birth time.Time, targetAge int, now time.Time) int {
	total := TotalWeeks(targetAge)
	idx := WeeksLived(birth, now)
	if idx > total-1 {
		idx = total - 1
	}
	return idx
}

// Classify returns the state of cell i relative to the current week index.
func Classify(i, current int) CellState {
	switch {
	case i < current:
		return Lived
	case i == current:
		return Current
	default:
		return Future
	}
}

// CellDate is the first day of week i: birth midnight plus 7*i calendar days.
func CellDate(birth time.Time, i int) time.Time {
	return Midnight(birth).AddDate(0, 0, i*config.DaysPerWeek)
}

// BuildGrid materializes every week of the lifespan in chronological order.
func BuildGrid(birth time.Time, targetAge int, now time.Time) []Cell {
	total := TotalWeeks(targetAge)
	current := CurrentWeekIndex(birth, targetAge, now)
	start := Midnight(birth)

	cells := make([]Cell, total)
	for i := range cells {
		cells[i] = Cell{
			Index: i,
			Year:  i / config.GridColumns,
			Week:  i % config.GridColumns,
			Date:  start.AddDate(0, 0, i*config.DaysPerWeek),
			State: Classify(i, current),
		}
	}
	return cells
}
