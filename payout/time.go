package payout

import "time"

// =============================================================================
// TIME POINT - Day-granularity calendar dates
// =============================================================================
// All payout math works on whole calendar days. Time-of-day is never
// significant: every TimePoint is normalized to midnight UTC, and every
// persisted date is an ISO "YYYY-MM-DD" string.

const isoDate = "2006-01-02"

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime normalizes an arbitrary time to its calendar day.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return FromTime(tp.Time.AddDate(0, 0, n)) }
func (tp TimePoint) AddMonths(n int) TimePoint { return FromTime(tp.Time.AddDate(0, n, 0)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// ISOWeek returns the ISO-8601 week-numbering year and week (week 1 is the
// week containing the year's first Thursday).
func (tp TimePoint) ISOWeek() (year, week int) { return tp.Time.ISOWeek() }

func (tp TimePoint) String() string { return tp.Time.Format(isoDate) }

// ISO returns the persisted form of the date, or "" for the zero value.
func (tp TimePoint) ISO() string {
	if tp.IsZero() {
		return ""
	}
	return tp.String()
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }

func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// StartOfISOWeek returns the Monday of the ISO week containing the date.
func StartOfISOWeek(tp TimePoint) TimePoint {
	wd := int(tp.Weekday())
	if wd == 0 { // Sunday
		wd = 7
	}
	return tp.AddDays(1 - wd)
}
