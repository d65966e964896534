/*
schedule.go - ScheduleSummary assembly (the read path)

PURPOSE:
  Composes the period calculator and the record-map reducers into the
  summary callers render: current/next/previous periods, each merged with
  any persisted record.

KEY BEHAVIORS:
  - Missing payout configuration never throws: the summary comes back with
    nil periods and intervalDays 0, but the configuration echoes are still
    populated so callers can always render something.
  - "Previous" is the latest PAID record, and its boundaries come from the
    record's own stored cycleStart/cycleEnd, not from live frequency math.
    A historical period's displayed boundaries never change, even if the
    calendar's frequency is edited later.
  - "Next" is computed live when no seed record exists at its key, which is
    what makes the two-write mark-paid self-healing (see payment.go).
*/
package payout

import "context"

// ScheduleOptions tune a schedule computation.
type ScheduleOptions struct {
	// ReferenceDate defaults to today when zero.
	ReferenceDate TimePoint

	// AllowFutureStart accepts a current period starting after the
	// reference date instead of stepping back to the containing one.
	AllowFutureStart bool
}

// ScheduleEngine produces schedule summaries for calendars.
type ScheduleEngine struct {
	Calendars CalendarStore

	// Now is the clock, overridable in tests.
	Now func() TimePoint
}

func NewScheduleEngine(calendars CalendarStore) *ScheduleEngine {
	return &ScheduleEngine{Calendars: calendars, Now: Today}
}

// GetSchedule fetches the calendar and computes its schedule summary.
// Returns (nil, nil) when the calendar does not exist.
func (e *ScheduleEngine) GetSchedule(ctx context.Context, calendarID string, opts ScheduleOptions) (*ScheduleSummary, error) {
	cal, err := e.Calendars.GetCalendarByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, nil
	}
	return e.ComputeFromCalendar(cal, opts), nil
}

// ComputeFromCalendar builds the summary from an already-loaded calendar.
func (e *ScheduleEngine) ComputeFromCalendar(cal *Calendar, opts ScheduleOptions) *ScheduleSummary {
	ref := opts.ReferenceDate
	if ref.IsZero() {
		ref = e.Now()
	}

	ledger := NewLedger(cal.PayoutRecords)
	summary := &ScheduleSummary{Records: ledger.Records()}

	if cal.PayoutDetails != nil {
		summary.PaymentType = cal.PayoutDetails.PaymentType
		summary.PaymentDay = cal.PayoutDetails.PaymentDay
		summary.PreferredMethod = cal.PayoutDetails.PaymentMethod
	}
	if summary.PreferredMethod == "" {
		summary.PreferredMethod = MethodTransfer
	}

	pctx := BuildPeriodContext(cal.PayoutDetails, ref, opts.AllowFutureStart)
	if pctx == nil {
		// Degenerate summary: nothing to compute, but never nil.
		return summary
	}

	summary.IntervalDays = pctx.IntervalDays
	summary.NextCycleStart = pctx.NextCycleStart
	summary.NextCycleEnd = pctx.NextCycleEnd
	summary.Current = periodStatus(pctx.Current, ledger)
	summary.Next = periodStatus(pctx.Next, ledger)

	if key, rec, ok := ledger.LatestPaid(); ok {
		summary.Previous = historicalStatus(key, rec)
	}

	return summary
}

// periodStatus merges a live period with its persisted record, if any.
func periodStatus(p Period, ledger *Ledger) *PeriodStatus {
	status := &PeriodStatus{Period: p}
	if rec, ok := ledger.Record(p.Key); ok {
		status.Record = &rec
		status.HasRecord = true
	}
	return status
}

// historicalStatus reconstructs a period from a record's frozen boundaries.
func historicalStatus(key string, rec PayoutRecord) *PeriodStatus {
	p := Period{Key: key}
	if start, err := ParseDate(rec.CycleStart); err == nil {
		p.Start = start
	}
	if end, err := ParseDate(rec.CycleEnd); err == nil {
		p.End = end
	}
	if !p.Start.IsZero() && !p.End.IsZero() {
		p.Label = p.Start.String() + " to " + p.End.String()
	}
	recCopy := rec
	return &PeriodStatus{Period: p, Record: &recCopy, HasRecord: true}
}
