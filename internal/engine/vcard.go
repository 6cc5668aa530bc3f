package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/life-in-weeks/internal/config"
)

// Profile is the person whose life is drawn. Name is informational only.
type Profile struct {
	Name      string
	BirthDate time.Time
}

// ParseBirthDate reads a birth date typed by the user or found in a vCard BDAY.
// The result is a local-midnight date. Year-less vCard dates (--MM-DD) cannot
// anchor a life grid and are rejected.
func ParseBirthDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(f, value); err == nil {
			return time.Time{}, fmt.Errorf("%w: %s: %q", ErrInvalidDate, config.ErrYearUnknown, value)
		}
	}

	layouts := []string{
		config.DateFormatISO,
		config.DateFormatBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range layouts {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s: %q", ErrInvalidDate, config.ErrDateParse, value)
}

// sourceReader remembers the first failure of the underlying stream, so the
// decode loop can tell a broken card from a broken connection or file.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && s.err == nil {
		s.err = err
	}
	return n, err
}

// ReadProfile returns the first card of the stream carrying a usable BDAY.
// Malformed cards are skipped so one broken entry does not hide the others,
// but a failing stream or a cancelled ctx ends the read.
func ReadProfile(ctx context.Context, r io.Reader) (Profile, error) {
	src := &sourceReader{r: r}
	decoder := vcard.NewDecoder(src)
	log := slog.With(config.LogKeyComponent, config.CompEngine)

	for {
		if err := ctx.Err(); err != nil {
			return Profile{}, err
		}

		card, err := decoder.Decode()
		if src.err != nil {
			return Profile{}, fmt.Errorf("%s: %w", config.ErrVCardRead, src.err)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, err := ParseBirthDate(bday.Value)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = strings.Trim(strings.ReplaceAll(n.Value, ";", " "), " ")
		}

		return Profile{Name: name, BirthDate: birth}, nil
	}

	return Profile{}, errors.New(config.ErrNoBirthday)
}
