package service

import (
	"time"

	"github.com/friendlines/interview-api/internal/domain"
)

// Clock supplies the current time. Injected so tests can fix "now"; the
// daily quota window and time-of-day bucket both depend on it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock
func SystemClock() Clock { return systemClock{} }

// timeOfDayBucket maps a local hour to its interview-context bucket
func timeOfDayBucket(hour int) domain.TimeOfDay {
	switch {
	case hour < 12:
		return domain.TimeMorning
	case hour < 17:
		return domain.TimeMidday
	default:
		return domain.TimeEvening
	}
}

var weekdayNames = map[domain.Language][7]string{
	domain.LanguageEnglish: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	domain.LanguageHebrew:  {"יום ראשון", "יום שני", "יום שלישי", "יום רביעי", "יום חמישי", "יום שישי", "שבת"},
	domain.LanguageSpanish: {"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
}

// weekdayName localizes a weekday for the interview language
func weekdayName(lang domain.Language, day time.Weekday) string {
	names, ok := weekdayNames[lang]
	if !ok {
		names = weekdayNames[domain.LanguageEnglish]
	}
	return names[int(day)]
}

// startOfDay returns local midnight for t, the lower bound of the daily
// interview quota window.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
