/*
store.go - Persistence interfaces for calendar documents

PURPOSE:
  Defines the boundary between the payout engine and the document store.
  The engine never caches calendars; every operation is a sequential
  read-then-compute-then-write unit of work that suspends only at these
  I/O boundaries.

CONTRACT:
  - GetCalendarByID returns (nil, nil) when the calendar is absent.
  - Record updates are per-period-key patches; the store merges them into
    the payoutRecords map (shallow merge, RecordPatch semantics).
  - UpdatePayoutDetailsAndRecord is a single combined write so that a
    payment and its configuration override land together.
  - ReplacePayoutRecords swaps the whole map (used by migration only).
  - No locking or transaction spans multiple calls: MarkPaymentPaid's two
    writes are intentionally non-atomic (see payment.go).

IMPLEMENTATIONS:
  - store/memory: in-memory, for tests and dev
  - store/sqlite: embedded, calendar documents as JSON columns
  - store/mongo:  production document store
*/
package payout

import "context"

// CalendarStore is the document store holding calendars.
type CalendarStore interface {
	// GetCalendarByID returns the calendar, or (nil, nil) when absent.
	GetCalendarByID(ctx context.Context, id string) (*Calendar, error)

	// ListCalendarsByOwner returns every calendar owned by the user.
	ListCalendarsByOwner(ctx context.Context, ownerID string) ([]*Calendar, error)

	// CreateCalendar inserts a new calendar document.
	CreateCalendar(ctx context.Context, cal *Calendar) error

	// UpdatePayoutDetails replaces the calendar's payout configuration.
	UpdatePayoutDetails(ctx context.Context, calendarID string, details PayoutDetails) error

	// UpdatePayoutDetailsAndRecord applies a configuration override and a
	// record patch in one write. details may be nil.
	UpdatePayoutDetailsAndRecord(ctx context.Context, calendarID, periodKey string, details *PayoutDetails, patch RecordPatch) error

	// UpdatePayoutRecord merges a patch into the record at the period key.
	UpdatePayoutRecord(ctx context.Context, calendarID, periodKey string, patch RecordPatch) error

	// ReplacePayoutRecords replaces the calendar's record map entirely.
	ReplacePayoutRecords(ctx context.Context, calendarID string, records map[string]PayoutRecord) error
}

// EventStore is the collaborator that knows about worked hours. It is
// consumed only by AggregateHoursForPeriod (hours.go).
type EventStore interface {
	// CalculateWorkHours sums worked hours on the calendar between the two
	// dates, inclusive. onlyCompleted restricts the sum to completed events.
	CalculateWorkHours(ctx context.Context, calendarID string, start, end TimePoint, onlyCompleted bool) (float64, error)
}
