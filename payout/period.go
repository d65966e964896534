package payout

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD CALCULATOR - Pure period math per payment frequency
// =============================================================================
// No I/O. Given a frequency, an optional monthly cutoff day and a reference
// date, computes period boundaries and the canonical period key.
//
// Key encodings (deterministic, reversible):
//   monthly:  "YYYY-MM"            calendar month (of the period's end)
//   weekly:   "YYYY-Www"           ISO-8601 week numbering
//   biweekly: "YYYY-MM-Q1" or -Q2  days 1-15 / day 16 to end of month
//   daily:    "YYYY-MM-DD"

// PeriodKey returns the canonical key of the period containing the date,
// ignoring any monthly cutoff configuration.
func PeriodKey(freq PaymentFrequency, date TimePoint) string {
	switch freq {
	case FrequencyWeekly:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case FrequencyBiweekly:
		half := "Q1"
		if date.Day() > 15 {
			half = "Q2"
		}
		return fmt.Sprintf("%04d-%02d-%s", date.Year(), int(date.Month()), half)
	case FrequencyDaily:
		return date.String()
	default: // monthly
		return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
	}
}

// PeriodFor returns the period containing the date for the given frequency.
// paymentDay only affects monthly periods: it is the cutoff day on which a
// period ends, clamped to each month's length. Weekly and daily frequencies
// ignore it.
func PeriodFor(freq PaymentFrequency, paymentDay *int, date TimePoint) Period {
	switch freq {
	case FrequencyWeekly:
		start := StartOfISOWeek(date)
		year, week := date.ISOWeek()
		return Period{
			Key:   PeriodKey(freq, date),
			Label: fmt.Sprintf("Week %02d, %d", week, year),
			Start: start,
			End:   start.AddDays(6),
		}

	case FrequencyBiweekly:
		year, month := date.Year(), date.Month()
		if date.Day() <= 15 {
			return Period{
				Key:   PeriodKey(freq, date),
				Label: fmt.Sprintf("%s %d (days 1-15)", month, year),
				Start: StartOfMonth(year, month),
				End:   NewTimePoint(year, month, 15),
			}
		}
		return Period{
			Key:   PeriodKey(freq, date),
			Label: fmt.Sprintf("%s %d (days 16-%d)", month, year, DaysInMonth(year, month)),
			Start: NewTimePoint(year, month, 16),
			End:   EndOfMonth(year, month),
		}

	case FrequencyDaily:
		return Period{
			Key:   date.String(),
			Label: date.String(),
			Start: date,
			End:   date,
		}

	default:
		return monthlyPeriod(paymentDay, date)
	}
}

// monthlyPeriod cuts monthly periods. Without a cutoff day the period is the
// calendar month. With one, periods run from the day after one cutoff to the
// next cutoff, and the key is derived from the month of the period's end
// (the only keying that stays unique across adjacent cutoff periods).
func monthlyPeriod(paymentDay *int, date TimePoint) Period {
	year, month := date.Year(), date.Month()

	if paymentDay == nil || *paymentDay < 1 {
		end := EndOfMonth(year, month)
		return Period{
			Key:   PeriodKey(FrequencyMonthly, end),
			Label: fmt.Sprintf("%s %d", month, year),
			Start: StartOfMonth(year, month),
			End:   end,
		}
	}

	cut := clampToMonth(*paymentDay, year, month)

	var start, end TimePoint
	if date.Day() <= cut {
		end = NewTimePoint(year, month, cut)
		prev := StartOfMonth(year, month).AddDays(-1)
		prevCut := clampToMonth(*paymentDay, prev.Year(), prev.Month())
		start = NewTimePoint(prev.Year(), prev.Month(), prevCut).AddDays(1)
	} else {
		start = NewTimePoint(year, month, cut).AddDays(1)
		next := StartOfMonth(year, month).AddMonths(1)
		nextCut := clampToMonth(*paymentDay, next.Year(), next.Month())
		end = NewTimePoint(next.Year(), next.Month(), nextCut)
	}

	return Period{
		Key:   PeriodKey(FrequencyMonthly, end),
		Label: fmt.Sprintf("%s %d", end.Month(), end.Year()),
		Start: start,
		End:   end,
	}
}

func clampToMonth(day int, year int, month time.Month) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	return day
}

// =============================================================================
// PERIOD CONTEXT - Current/next period for a reference date
// =============================================================================

// PeriodContext is the calculator's output for one reference date.
type PeriodContext struct {
	Current        Period
	Next           Period
	IntervalDays   int
	NextCycleStart TimePoint
	NextCycleEnd   TimePoint
}

// BuildPeriodContext computes the current period (the one containing the
// reference date), its contiguous successor, and the next cycle boundaries.
// Returns nil when the details carry no usable payment frequency.
//
// With allowFutureStart a period starting after the reference date is
// accepted as current; otherwise the calculator steps back so that
// start <= referenceDate <= end always holds.
func BuildPeriodContext(details *PayoutDetails, ref TimePoint, allowFutureStart bool) *PeriodContext {
	if details == nil || !details.PaymentType.Valid() {
		return nil
	}

	current := PeriodFor(details.PaymentType, details.PaymentDay, ref)
	if current.Start.After(ref) && !allowFutureStart {
		current = PeriodFor(details.PaymentType, details.PaymentDay, current.Start.AddDays(-1))
	}

	next := PeriodFor(details.PaymentType, details.PaymentDay, current.End.AddDays(1))

	return &PeriodContext{
		Current:        current,
		Next:           next,
		IntervalDays:   current.Days(),
		NextCycleStart: next.Start,
		NextCycleEnd:   next.End,
	}
}
