/*
ledger.go - Reducers over the per-calendar payout record map

PURPOSE:
  Read/merge access to the periodKey -> PayoutRecord mapping held on a
  calendar document, plus the derived queries the schedule needs (latest
  paid record, latest record regardless of status).

  These are pure reducers over the in-memory map; persistence belongs to
  the CalendarStore (store.go). There is deliberately no delete: records
  are created lazily and only ever move pending -> paid.

SEE ALSO:
  - types.go:    PayoutRecord, RecordPatch
  - schedule.go: consumes the derived queries
*/
package payout

// Ledger wraps a calendar's record map. The zero-value-safe constructor
// accepts a nil map.
type Ledger struct {
	records map[string]PayoutRecord
}

func NewLedger(records map[string]PayoutRecord) *Ledger {
	if records == nil {
		records = make(map[string]PayoutRecord)
	}
	return &Ledger{records: records}
}

// Record returns the record stored at the period key.
func (l *Ledger) Record(periodKey string) (PayoutRecord, bool) {
	rec, ok := l.records[periodKey]
	return rec, ok
}

// Upsert shallow-merges the patch into the record at the key, creating the
// record if none exists, and returns the merged result.
func (l *Ledger) Upsert(periodKey string, patch RecordPatch) PayoutRecord {
	merged := patch.Apply(l.records[periodKey])
	l.records[periodKey] = merged
	return merged
}

// Records returns the underlying map. Callers treat it as read-only.
func (l *Ledger) Records() map[string]PayoutRecord {
	return l.records
}

// LatestPaid returns the paid record with the most recent payment date,
// preferring actualPaymentDate over scheduledPaymentDate.
func (l *Ledger) LatestPaid() (string, PayoutRecord, bool) {
	return l.latest(func(rec PayoutRecord) bool { return rec.Status == StatusPaid })
}

// Latest returns the most recent record by date regardless of status.
func (l *Ledger) Latest() (string, PayoutRecord, bool) {
	return l.latest(func(PayoutRecord) bool { return true })
}

func (l *Ledger) latest(keep func(PayoutRecord) bool) (string, PayoutRecord, bool) {
	var (
		bestKey  string
		bestRec  PayoutRecord
		bestDate TimePoint
		found    bool
	)
	for key, rec := range l.records {
		if !keep(rec) {
			continue
		}
		date, ok := recordDate(rec)
		if !ok {
			continue
		}
		if !found || date.After(bestDate) {
			bestKey, bestRec, bestDate, found = key, rec, date, true
		}
	}
	return bestKey, bestRec, found
}

// recordDate picks the date a record is ordered by.
func recordDate(rec PayoutRecord) (TimePoint, bool) {
	for _, s := range []string{rec.ActualPaymentDate, rec.ScheduledPaymentDate} {
		if s == "" {
			continue
		}
		if tp, err := ParseDate(s); err == nil {
			return tp, true
		}
	}
	return TimePoint{}, false
}
