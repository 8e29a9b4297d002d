package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
)

// Gazetted holidays observed on the same month/day every year.
var (
	KashmirDay = &cal.Holiday{
		Name:  "Kashmir Solidarity Day",
		Type:  cal.ObservancePublic,
		Month: time.February,
		Day:   5,
		Func:  cal.CalcDayOfMonth,
	}
	PakistanDay = &cal.Holiday{
		Name:  "Pakistan Day",
		Type:  cal.ObservancePublic,
		Month: time.March,
		Day:   23,
		Func:  cal.CalcDayOfMonth,
	}
	LabourDay = &cal.Holiday{
		Name:  "Labour Day",
		Type:  cal.ObservancePublic,
		Month: time.May,
		Day:   1,
		Func:  cal.CalcDayOfMonth,
	}
	IndependenceDay = &cal.Holiday{
		Name:  "Independence Day",
		Type:  cal.ObservancePublic,
		Month: time.August,
		Day:   14,
		Func:  cal.CalcDayOfMonth,
	}
	IqbalDay = &cal.Holiday{
		Name:  "Iqbal Day",
		Type:  cal.ObservancePublic,
		Month: time.November,
		Day:   9,
		Func:  cal.CalcDayOfMonth,
	}
	QuaidDay = &cal.Holiday{
		Name:  "Quaid-e-Azam Day",
		Type:  cal.ObservancePublic,
		Month: time.December,
		Day:   25,
		Func:  cal.CalcDayOfMonth,
	}

	GazettedHolidays = []*cal.Holiday{
		KashmirDay,
		PakistanDay,
		LabourDay,
		IndependenceDay,
		IqbalDay,
		QuaidDay,
	}
)

// DefaultGazetted resolves the built-in gazetted holidays for year.
// The resulting holidays are recurring, so the year only anchors the stored date.
func DefaultGazetted(year int) []Holiday {
	holidays := make([]Holiday, 0, len(GazettedHolidays))
	for _, h := range GazettedHolidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		holidays = append(holidays, Holiday{
			Date:      Day(actual),
			Name:      h.Name,
			Recurring: true,
		})
	}
	return holidays
}
