/*
Package payout implements the payout cycle scheduling and ledger engine.

PURPOSE:
  Given a professional's payment frequency (daily/weekly/biweekly/monthly),
  this package computes billing periods, reconciles persisted payout records
  against those periods, executes the "mark period as paid" transition with
  forward rollover, and migrates legacy period keys into frequency-correct
  ones.

KEY CONCEPTS IN THIS FILE (types.go):
  - PayoutDetails: per-calendar payment configuration
  - PayoutRecord:  persisted state of one billing period (pending -> paid)
  - RecordPatch:   shallow-merge patch applied to a record
  - Period:        ephemeral, computed date range identified by a period key
  - ScheduleSummary: the read model returned to callers

DESIGN PRINCIPLES:
  1. Records are created lazily and never deleted; status only moves
     pending -> paid.
  2. A record's cycleStart/cycleEnd are frozen at write time, so historical
     periods stay stable even if the frequency is edited later.
  3. Every persisted date is an ISO "YYYY-MM-DD" string.

SEE ALSO:
  - period.go:   period boundary and key computation
  - ledger.go:   reducers over the record map
  - schedule.go: ScheduleSummary assembly
  - payment.go:  mark-paid state transition
  - migrate.go:  legacy key migration
*/
package payout

// =============================================================================
// ENUMS
// =============================================================================

// PaymentFrequency determines how billing periods are cut.
type PaymentFrequency string

const (
	FrequencyDaily    PaymentFrequency = "daily"
	FrequencyWeekly   PaymentFrequency = "weekly"
	FrequencyBiweekly PaymentFrequency = "biweekly"
	FrequencyMonthly  PaymentFrequency = "monthly"
)

// Valid reports whether the frequency is one of the supported values.
func (f PaymentFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// PaymentMethod is how the professional gets paid.
type PaymentMethod string

const (
	MethodTransfer PaymentMethod = "transfer"
	MethodPayPal   PaymentMethod = "paypal"
	MethodOther    PaymentMethod = "other"
)

// PayoutStatus is the state of a period's record.
type PayoutStatus string

const (
	StatusPending PayoutStatus = "pending"
	StatusPaid    PayoutStatus = "paid"
)

// =============================================================================
// PAYOUT DETAILS - Per-calendar payment configuration
// =============================================================================

// PayoutDetails is owned by the calendar and mutated only through explicit
// configuration updates or as a side-effect of MarkPaymentPaid overrides.
type PayoutDetails struct {
	PaymentType      PaymentFrequency `json:"paymentType" bson:"paymentType"`
	PaymentDay       *int             `json:"paymentDay,omitempty" bson:"paymentDay,omitempty"`
	PaymentMethod    PaymentMethod    `json:"paymentMethod" bson:"paymentMethod"`
	IBAN             string           `json:"iban,omitempty" bson:"iban,omitempty"`
	Bank             string           `json:"bank,omitempty" bson:"bank,omitempty"`
	PayPalEmail      string           `json:"paypalEmail,omitempty" bson:"paypalEmail,omitempty"`
	CustomHourlyRate *float64         `json:"customHourlyRate,omitempty" bson:"customHourlyRate,omitempty"`
}

// =============================================================================
// PAYOUT RECORD - Persisted state of one billing period
// =============================================================================

// PayoutRecord lives in the calendar's payoutRecords map, keyed by period key.
// Status, ScheduledPaymentDate, CycleStart and CycleEnd are the required core;
// the rest is optional metadata.
type PayoutRecord struct {
	Status               PayoutStatus  `json:"status" bson:"status"`
	ScheduledPaymentDate string        `json:"scheduledPaymentDate,omitempty" bson:"scheduledPaymentDate,omitempty"`
	ActualPaymentDate    string        `json:"actualPaymentDate,omitempty" bson:"actualPaymentDate,omitempty"`
	AmountPaid           *float64      `json:"amountPaid,omitempty" bson:"amountPaid,omitempty"`
	PaymentMethod        PaymentMethod `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	Note                 string        `json:"note,omitempty" bson:"note,omitempty"`
	CycleStart           string        `json:"cycleStart,omitempty" bson:"cycleStart,omitempty"`
	CycleEnd             string        `json:"cycleEnd,omitempty" bson:"cycleEnd,omitempty"`
	NextCycleStart       string        `json:"nextCycleStart,omitempty" bson:"nextCycleStart,omitempty"`
	NextCycleEnd         string        `json:"nextCycleEnd,omitempty" bson:"nextCycleEnd,omitempty"`
	LastPaymentDate      string        `json:"lastPaymentDate,omitempty" bson:"lastPaymentDate,omitempty"`
	LastPaymentBy        string        `json:"lastPaymentBy,omitempty" bson:"lastPaymentBy,omitempty"`
}

// RecordPatch is a shallow-merge patch: nil fields leave the existing value
// untouched, non-nil fields overwrite it.
type RecordPatch struct {
	Status               *PayoutStatus
	ScheduledPaymentDate *string
	ActualPaymentDate    *string
	AmountPaid           *float64
	PaymentMethod        *PaymentMethod
	Note                 *string
	CycleStart           *string
	CycleEnd             *string
	NextCycleStart       *string
	NextCycleEnd         *string
	LastPaymentDate      *string
	LastPaymentBy        *string
}

// Apply merges the patch into a record and returns the result.
func (p RecordPatch) Apply(rec PayoutRecord) PayoutRecord {
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.ScheduledPaymentDate != nil {
		rec.ScheduledPaymentDate = *p.ScheduledPaymentDate
	}
	if p.ActualPaymentDate != nil {
		rec.ActualPaymentDate = *p.ActualPaymentDate
	}
	if p.AmountPaid != nil {
		rec.AmountPaid = p.AmountPaid
	}
	if p.PaymentMethod != nil {
		rec.PaymentMethod = *p.PaymentMethod
	}
	if p.Note != nil {
		rec.Note = *p.Note
	}
	if p.CycleStart != nil {
		rec.CycleStart = *p.CycleStart
	}
	if p.CycleEnd != nil {
		rec.CycleEnd = *p.CycleEnd
	}
	if p.NextCycleStart != nil {
		rec.NextCycleStart = *p.NextCycleStart
	}
	if p.NextCycleEnd != nil {
		rec.NextCycleEnd = *p.NextCycleEnd
	}
	if p.LastPaymentDate != nil {
		rec.LastPaymentDate = *p.LastPaymentDate
	}
	if p.LastPaymentBy != nil {
		rec.LastPaymentBy = *p.LastPaymentBy
	}
	return rec
}

// =============================================================================
// CALENDAR - The owning document
// =============================================================================

// Calendar is the document this engine reads and writes. Only the payout
// slice of the document is modeled; everything else on the calendar belongs
// to other subsystems.
type Calendar struct {
	ID            string                  `json:"id" bson:"_id"`
	OwnerID       string                  `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Name          string                  `json:"name,omitempty" bson:"name,omitempty"`
	PayoutDetails *PayoutDetails          `json:"payoutDetails,omitempty" bson:"payoutDetails,omitempty"`
	PayoutRecords map[string]PayoutRecord `json:"payoutRecords,omitempty" bson:"payoutRecords,omitempty"`
}

// =============================================================================
// PERIOD - Ephemeral, computed
// =============================================================================

// Period is never persisted directly; it is reconstructed either live from
// the calculator or from a stored record's cycleStart/cycleEnd.
type Period struct {
	Key   string
	Label string
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the date falls within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns the inclusive day-span of the period.
func (p Period) Days() int {
	if p.Start.IsZero() || p.End.IsZero() {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return p.Key + " [" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// SCHEDULE SUMMARY - The read model
// =============================================================================

// PeriodStatus pairs a period with its persisted record, if any.
type PeriodStatus struct {
	Period
	Record    *PayoutRecord
	HasRecord bool
}

// ScheduleSummary is what callers render. Current/Next/Previous are nil when
// the calendar has no usable payout configuration; the configuration echoes
// (PaymentType, PaymentDay, PreferredMethod) are always populated.
type ScheduleSummary struct {
	Current  *PeriodStatus
	Next     *PeriodStatus
	Previous *PeriodStatus

	PaymentType     PaymentFrequency
	PaymentDay      *int
	PreferredMethod PaymentMethod
	IntervalDays    int
	NextCycleStart  TimePoint
	NextCycleEnd    TimePoint

	// Records is the raw record map, exposed for introspection.
	Records map[string]PayoutRecord
}
