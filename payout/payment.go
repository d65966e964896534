/*
payment.go - The "mark period as paid" state transition (the write path)

PURPOSE:
  Validates/derives the target period, writes the paid record together with
  any configuration override, seeds the next period's pending record, and
  returns a freshly recomputed schedule.

ROLLOVER:
  maintainSchedule=true  -> next cycle starts on the calendar-aligned date
                            regardless of when payment actually happened;
                            a late payment does not shift future periods.
  maintainSchedule=false -> next cycle starts the day after the actual
                            payment (the schedule slides forward).

CONSISTENCY:
  Two writes, no transaction. A crash between them leaves the next period
  un-seeded, which the schedule engine heals by recomputing "next" live.
  Concurrent calls for the same calendar and period are not serialized:
  last write wins. Store errors propagate unwrapped; no retries.
*/
package payout

import (
	"context"

	"github.com/shopspring/decimal"
)

// MarkPaidInput is the request for MarkPaymentPaid.
type MarkPaidInput struct {
	CalendarID string
	PeriodKey  string

	// Amount is rounded to 2 decimals before persisting.
	Amount *float64

	// PaymentMethod wins over PayoutDetails.PaymentMethod, which wins over
	// the calendar's existing default, which falls back to transfer.
	PaymentMethod PaymentMethod

	// MaintainSchedule keeps the rollover calendar-aligned.
	MaintainSchedule bool

	Note string

	// PayoutDetails, when set, is persisted as a configuration override in
	// the same write as the record.
	PayoutDetails *PayoutDetails
}

// PaymentProcessor executes mark-paid transitions.
type PaymentProcessor struct {
	Calendars CalendarStore
	Engine    *ScheduleEngine

	// Now is the clock, overridable in tests.
	Now func() TimePoint
}

func NewPaymentProcessor(calendars CalendarStore, engine *ScheduleEngine) *PaymentProcessor {
	return &PaymentProcessor{Calendars: calendars, Engine: engine, Now: Today}
}

// MarkPaymentPaid marks the target period as paid and rolls the schedule
// forward. Returns (nil, nil) when the calendar is missing or carries no
// usable payout configuration.
func (p *PaymentProcessor) MarkPaymentPaid(ctx context.Context, in MarkPaidInput) (*ScheduleSummary, error) {
	cal, err := p.Calendars.GetCalendarByID(ctx, in.CalendarID)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		return nil, nil
	}

	today := p.Now()
	pctx := BuildPeriodContext(cal.PayoutDetails, today, in.MaintainSchedule)
	if pctx == nil {
		return nil, nil
	}

	if in.PeriodKey == "" {
		in.PeriodKey = pctx.Current.Key
	}

	ledger := NewLedger(cal.PayoutRecords)
	target := p.resolveTarget(in.PeriodKey, pctx, ledger)

	// Inclusive day-span of the target period, with today standing in for
	// an unresolvable boundary.
	end := target.End
	if end.IsZero() {
		end = today
	}
	intervalDays := pctx.IntervalDays
	if !target.Start.IsZero() {
		intervalDays = DaysBetween(target.Start, end) + 1
	}

	nextStart := today.AddDays(1)
	if in.MaintainSchedule {
		nextStart = pctx.NextCycleStart
	}
	nextEnd := pctx.NextCycleEnd
	if nextEnd.IsZero() && !nextStart.IsZero() {
		nextEnd = nextStart.AddDays(intervalDays - 1)
	}

	record := p.buildPaidPatch(in, cal, target, today, nextStart, nextEnd)

	if err := p.Calendars.UpdatePayoutDetailsAndRecord(ctx, in.CalendarID, in.PeriodKey, in.PayoutDetails, record); err != nil {
		return nil, err
	}

	// Pre-seed the upcoming period so it is visible before it is paid.
	// Not transactional with the write above; a missing seed is healed by
	// the live recomputation in the schedule engine.
	if !nextStart.IsZero() && !nextEnd.IsZero() {
		if err := p.Calendars.UpdatePayoutRecord(ctx, in.CalendarID, pctx.Next.Key, pendingSeedPatch(nextStart, nextEnd)); err != nil {
			return nil, err
		}
	}

	return p.Engine.GetSchedule(ctx, in.CalendarID, ScheduleOptions{ReferenceDate: today})
}

// resolveTarget picks the period being paid: the live current period when the
// key matches, otherwise the boundaries frozen on an existing record at that
// key (which is what lets a past period be paid independent of today).
func (p *PaymentProcessor) resolveTarget(periodKey string, pctx *PeriodContext, ledger *Ledger) Period {
	if periodKey == pctx.Current.Key {
		return pctx.Current
	}
	target := Period{Key: periodKey}
	if rec, ok := ledger.Record(periodKey); ok {
		if start, err := ParseDate(rec.CycleStart); err == nil {
			target.Start = start
		}
		if end, err := ParseDate(rec.CycleEnd); err == nil {
			target.End = end
		}
	}
	return target
}

func (p *PaymentProcessor) buildPaidPatch(in MarkPaidInput, cal *Calendar, target Period, today, nextStart, nextEnd TimePoint) RecordPatch {
	paid := StatusPaid
	todayISO := today.ISO()

	scheduled := target.End.ISO()
	if scheduled == "" {
		scheduled = todayISO
	}

	patch := RecordPatch{
		Status:               &paid,
		ActualPaymentDate:    &todayISO,
		LastPaymentDate:      &todayISO,
		ScheduledPaymentDate: &scheduled,
	}
	if cal.OwnerID != "" {
		patch.LastPaymentBy = &cal.OwnerID
	}
	if in.Note != "" {
		patch.Note = &in.Note
	}
	if in.Amount != nil {
		rounded, _ := decimal.NewFromFloat(*in.Amount).Round(2).Float64()
		patch.AmountPaid = &rounded
	}

	method := resolveMethod(in, cal)
	patch.PaymentMethod = &method

	if s := target.Start.ISO(); s != "" {
		patch.CycleStart = &s
	}
	if e := target.End.ISO(); e != "" {
		patch.CycleEnd = &e
	}
	if s := nextStart.ISO(); s != "" {
		patch.NextCycleStart = &s
	}
	if e := nextEnd.ISO(); e != "" {
		patch.NextCycleEnd = &e
	}
	return patch
}

// resolveMethod applies the payment method precedence:
// explicit argument > payoutDetails argument > calendar default > transfer.
func resolveMethod(in MarkPaidInput, cal *Calendar) PaymentMethod {
	if in.PaymentMethod != "" {
		return in.PaymentMethod
	}
	if in.PayoutDetails != nil && in.PayoutDetails.PaymentMethod != "" {
		return in.PayoutDetails.PaymentMethod
	}
	if cal.PayoutDetails != nil && cal.PayoutDetails.PaymentMethod != "" {
		return cal.PayoutDetails.PaymentMethod
	}
	return MethodTransfer
}

func pendingSeedPatch(start, end TimePoint) RecordPatch {
	pending := StatusPending
	startISO, endISO := start.ISO(), end.ISO()
	return RecordPatch{
		Status:               &pending,
		ScheduledPaymentDate: &endISO,
		CycleStart:           &startISO,
		CycleEnd:             &endISO,
	}
}
