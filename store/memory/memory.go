// Package memory provides an in-memory CalendarStore for tests and dev.
package memory

import (
	"context"
	"sync"

	"github.com/warp/payout-engine/payout"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu        sync.RWMutex
	calendars map[string]*payout.Calendar
}

func New() *Store {
	return &Store{calendars: make(map[string]*payout.Calendar)}
}

func (s *Store) GetCalendarByID(_ context.Context, id string) (*payout.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cal, ok := s.calendars[id]
	if !ok {
		return nil, nil
	}
	return copyCalendar(cal), nil
}

func (s *Store) ListCalendarsByOwner(_ context.Context, ownerID string) ([]*payout.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*payout.Calendar
	for _, cal := range s.calendars {
		if cal.OwnerID == ownerID {
			result = append(result, copyCalendar(cal))
		}
	}
	return result, nil
}

func (s *Store) CreateCalendar(_ context.Context, cal *payout.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calendars[cal.ID]; exists {
		return payout.ErrCalendarExists
	}
	s.calendars[cal.ID] = copyCalendar(cal)
	return nil
}

func (s *Store) UpdatePayoutDetails(_ context.Context, calendarID string, details payout.PayoutDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, ok := s.calendars[calendarID]
	if !ok {
		return payout.ErrNoSuchCalendar
	}
	d := details
	cal.PayoutDetails = &d
	return nil
}

func (s *Store) UpdatePayoutDetailsAndRecord(_ context.Context, calendarID, periodKey string, details *payout.PayoutDetails, patch payout.RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, ok := s.calendars[calendarID]
	if !ok {
		return payout.ErrNoSuchCalendar
	}
	if details != nil {
		d := *details
		cal.PayoutDetails = &d
	}
	s.mergeRecordLocked(cal, periodKey, patch)
	return nil
}

func (s *Store) UpdatePayoutRecord(_ context.Context, calendarID, periodKey string, patch payout.RecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, ok := s.calendars[calendarID]
	if !ok {
		return payout.ErrNoSuchCalendar
	}
	s.mergeRecordLocked(cal, periodKey, patch)
	return nil
}

func (s *Store) ReplacePayoutRecords(_ context.Context, calendarID string, records map[string]payout.PayoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, ok := s.calendars[calendarID]
	if !ok {
		return payout.ErrNoSuchCalendar
	}
	cal.PayoutRecords = copyRecords(records)
	return nil
}

func (s *Store) mergeRecordLocked(cal *payout.Calendar, periodKey string, patch payout.RecordPatch) {
	if cal.PayoutRecords == nil {
		cal.PayoutRecords = make(map[string]payout.PayoutRecord)
	}
	cal.PayoutRecords[periodKey] = patch.Apply(cal.PayoutRecords[periodKey])
}

// Reads hand out deep copies so callers can't mutate the store's state.
func copyCalendar(cal *payout.Calendar) *payout.Calendar {
	cp := *cal
	if cal.PayoutDetails != nil {
		d := *cal.PayoutDetails
		cp.PayoutDetails = &d
	}
	cp.PayoutRecords = copyRecords(cal.PayoutRecords)
	return &cp
}

func copyRecords(records map[string]payout.PayoutRecord) map[string]payout.PayoutRecord {
	if records == nil {
		return nil
	}
	cp := make(map[string]payout.PayoutRecord, len(records))
	for k, v := range records {
		cp[k] = v
	}
	return cp
}

// =============================================================================
// EVENT STORE STUB - Fixed hourly totals for tests/dev
// =============================================================================

// Events is an EventStore returning a fixed number of hours per day worked.
type Events struct {
	HoursPerDay float64
}

func (e *Events) CalculateWorkHours(_ context.Context, _ string, start, end payout.TimePoint, _ bool) (float64, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0, nil
	}
	days := payout.DaysBetween(start, end) + 1
	return float64(days) * e.HoursPerDay, nil
}
