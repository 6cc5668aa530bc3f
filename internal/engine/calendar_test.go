package engine_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

func TestEncodeCalendar(t *testing.T) {
	data, err := engine.EncodeCalendar(engine.CalendarInput{
		Profile:   engine.Profile{Name: "Alice", BirthDate: date(1990, 6, 15)},
		TargetAge: 90,
		Events:    engine.GlobalEvents(),
		Now:       time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		BirthdaySummary: func(name string) string {
			return "Happy birthday " + name
		},
	})
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 6, "Birthday series plus five global events")

	bday := events[0]
	summary, err := bday.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Happy birthday Alice", summary)

	rule, err := bday.Props.RecurrenceRule()
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, rrule.YEARLY, rule.Freq)
	assert.Equal(t, 90, rule.Count)

	uid, err := events[1].Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, "y2k@"+config.ICalDomain, uid)
}

func TestEncodeCalendar_Empty(t *testing.T) {
	data, err := engine.EncodeCalendar(engine.CalendarInput{Now: date(2024, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestEncodeCalendar_FallbackSummary(t *testing.T) {
	data, err := engine.EncodeCalendar(engine.CalendarInput{
		Profile:   engine.Profile{BirthDate: date(2000, 2, 29)},
		TargetAge: 10,
		Now:       date(2024, 1, 1),
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Birthday: Me")
	assert.Contains(t, string(data), "DTSTART;VALUE=DATE:20000229")
	assert.Contains(t, string(data), "COUNT=10")
}
