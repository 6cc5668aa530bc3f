package engine

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
	"github.com/tartampluch/life-in-weeks/internal/config"
)

// CalendarInput is everything the iCalendar export needs.
type CalendarInput struct {
	Profile   Profile
	TargetAge int
	Events    []Event
	Now       time.Time

	// BirthdaySummary localizes the title of the yearly birthday series.
	BirthdaySummary func(name string) string
}

// EncodeCalendar renders the life timeline as an iCalendar feed: one yearly
// birthday series bounded by the target age, and one all-day event per entry.
func EncodeCalendar(in CalendarInput) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, config.ICalVersion)
	cal.Props.SetText(ical.PropProductID, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(ical.PropCalendarScale, config.ICalScale)
	cal.Props.SetText(ical.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(in.Now.UTC())

	if !in.Profile.BirthDate.IsZero() {
		cal.Children = append(cal.Children, birthdaySeries(in, stamp).Component)
	}

	for _, e := range in.Events {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, fmt.Sprintf(config.FormatUID, e.ID, config.ICalDomain))
		ev.Props.SetText(ical.PropSummary, e.Title)
		if e.Description != "" {
			ev.Props.SetText(ical.PropDescription, e.Description)
		}
		ev.Props.SetText(config.PropCategories, string(e.Type))
		ev.Props.Set(stamp)

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(e.Date)
		ev.Props.Set(start)

		cal.Children = append(cal.Children, ev.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

func birthdaySeries(in CalendarInput, stamp *ical.Prop) *ical.Event {
	name := in.Profile.Name
	if name == "" {
		name = config.FallbackName
	}
	summary := fmt.Sprintf("%s: %s", config.FallbackBirthday, name)
	if in.BirthdaySummary != nil {
		summary = in.BirthdaySummary(name)
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf(config.FormatUID, config.BirthdaySeriesID, config.ICalDomain))
	ev.Props.SetText(ical.PropSummary, summary)
	ev.Props.Set(stamp)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(Midnight(in.Profile.BirthDate))
	ev.Props.Set(start)

	ev.Props.SetRecurrenceRule(&rrule.ROption{
		Freq:  rrule.YEARLY,
		Count: normalizeTargetAge(in.TargetAge),
	})
	return ev
}
