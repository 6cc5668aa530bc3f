package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// Snapshot is one complete evaluation of the life grid at a given instant.
type Snapshot struct {
	Profile      Profile   `json:"-"`
	BirthDate    time.Time `json:"birth_date"`
	TargetAge    int       `json:"target_age"`
	Now          time.Time `json:"now"`
	Stats        Stats     `json:"stats"`
	CurrentIndex int       `json:"current_index"`
	Cells        []Cell    `json:"cells"`
}

// Observer receives the outcome of every snapshot computation.
// internal/metrics provides the Prometheus implementation.
type Observer interface {
	ObserveSnapshot(start time.Time, s Snapshot)
	ObserveRejected(err error)
}

// Life is the validating entry point in front of the pure week calculator
// and grid classifier. It owns no state besides its collaborators.
type Life struct {
	Clock    Clock
	Observer Observer // optional
}

// Snapshot validates the inputs, then computes stats and the full grid for
// the clock's current instant.
func (l *Life) Snapshot(p Profile, targetAge int) (Snapshot, error) {
	return l.SnapshotAt(p, targetAge, l.Clock.Now())
}

// SnapshotAt is Snapshot with an explicit reference instant.
func (l *Life) SnapshotAt(p Profile, targetAge int, now time.Time) (Snapshot, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompEngine)

	if err := ValidateTargetAge(targetAge); err != nil {
		l.reject(log, err)
		return Snapshot{}, err
	}
	if err := ValidateBirthDate(p.BirthDate, now); err != nil {
		l.reject(log, err)
		return Snapshot{}, err
	}

	birth := Midnight(p.BirthDate)
	s := Snapshot{
		Profile:      p,
		BirthDate:    birth,
		TargetAge:    targetAge,
		Now:          Midnight(now),
		Stats:        LifeStats(birth, targetAge, now),
		CurrentIndex: CurrentWeekIndex(birth, targetAge, now),
		Cells:        BuildGrid(birth, targetAge, now),
	}

	log.Debug(config.MsgSnapshotBuilt,
		config.LogKeyTarget, targetAge,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyLived, s.Stats.WeeksLived),
			slog.Int(config.LogKeyRemaining, s.Stats.WeeksRemaining),
			slog.Float64(config.LogKeyPercent, s.Stats.PercentLived),
		),
		config.LogKeyCells, len(s.Cells),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)

	if l.Observer != nil {
		l.Observer.ObserveSnapshot(start, s)
	}
	return s, nil
}

func (l *Life) reject(log *slog.Logger, err error) {
	log.Warn(config.MsgSnapshotReject, config.LogKeyError, err)
	if l.Observer != nil {
		l.Observer.ObserveRejected(err)
	}
}

// Cell returns the cell at index i, or false when i is outside the grid.
func (s Snapshot) Cell(i int) (Cell, bool) {
	if i < 0 || i >= len(s.Cells) {
		return Cell{}, false
	}
	return s.Cells[i], true
}
