package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// Validation failures raised before any grid is built.
var (
	ErrInvalidConfiguration = errors.New(config.ErrInvalidConfig)
	ErrInvalidDate          = errors.New(config.ErrInvalidDate)
)

// ValidateTargetAge rejects lifespans the grid cannot represent.
func ValidateTargetAge(targetAge int) error {
	if targetAge < 1 || targetAge > config.MaxTargetAge {
		return fmt.Errorf("%w: %s (got %d)", ErrInvalidConfiguration, config.ErrTargetAgeRange, targetAge)
	}
	return nil
}

// ValidateBirthDate accepts dates from 1900-01-01 up to and including today.
func ValidateBirthDate(birth, now time.Time) error {
	if birth.IsZero() {
		return fmt.Errorf("%w: %s", ErrInvalidDate, config.ErrDateParse)
	}
	earliest := time.Date(config.MinBirthYear, time.January, 1, 0, 0, 0, 0, birth.Location())
	if Midnight(birth).Before(earliest) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, config.ErrBirthBeforeMin)
	}
	if daysBetween(birth, now) < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDate, config.ErrBirthInFuture)
	}
	return nil
}
