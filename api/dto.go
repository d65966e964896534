/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import "github.com/warp/payout-engine/payout"

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CalendarDTO represents a calendar in API responses.
type CalendarDTO struct {
	ID            string                `json:"id"`
	OwnerID       string                `json:"ownerId,omitempty"`
	Name          string                `json:"name,omitempty"`
	PayoutDetails *payout.PayoutDetails `json:"payoutDetails,omitempty"`
}

// CreateCalendarRequest is the request to create a calendar.
type CreateCalendarRequest struct {
	OwnerID       string                `json:"ownerId"`
	Name          string                `json:"name"`
	PayoutDetails *payout.PayoutDetails `json:"payoutDetails,omitempty"`
}

// PeriodDTO is one billing period, merged with its record when one exists.
type PeriodDTO struct {
	Key    string               `json:"key"`
	Label  string               `json:"label,omitempty"`
	Start  string               `json:"start,omitempty"`
	End    string               `json:"end,omitempty"`
	Record *payout.PayoutRecord `json:"record,omitempty"`
}

// ScheduleDTO is the schedule summary returned to clients.
type ScheduleDTO struct {
	Current         *PeriodDTO                     `json:"current"`
	Next            *PeriodDTO                     `json:"next"`
	Previous        *PeriodDTO                     `json:"previous"`
	PaymentType     payout.PaymentFrequency        `json:"paymentType,omitempty"`
	PaymentDay      *int                           `json:"paymentDay,omitempty"`
	PreferredMethod payout.PaymentMethod           `json:"preferredMethod"`
	IntervalDays    int                            `json:"intervalDays"`
	NextCycleStart  string                         `json:"nextCycleStart,omitempty"`
	NextCycleEnd    string                         `json:"nextCycleEnd,omitempty"`
	Records         map[string]payout.PayoutRecord `json:"records"`
}

// MarkPaidRequest is the request to mark a period as paid.
type MarkPaidRequest struct {
	PeriodKey        string                `json:"periodKey"`
	Amount           *float64              `json:"amount,omitempty"`
	PaymentMethod    payout.PaymentMethod  `json:"paymentMethod,omitempty"`
	MaintainSchedule bool                  `json:"maintainSchedule,omitempty"`
	Note             string                `json:"note,omitempty"`
	PayoutDetails    *payout.PayoutDetails `json:"payoutDetails,omitempty"`
}

// HoursDTO is the aggregated hours for a date range.
type HoursDTO struct {
	CalendarID string  `json:"calendarId"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Hours      float64 `json:"hours"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPeriodDTO(ps *payout.PeriodStatus) *PeriodDTO {
	if ps == nil {
		return nil
	}
	return &PeriodDTO{
		Key:    ps.Key,
		Label:  ps.Label,
		Start:  ps.Start.ISO(),
		End:    ps.End.ISO(),
		Record: ps.Record,
	}
}

func toScheduleDTO(s *payout.ScheduleSummary) ScheduleDTO {
	return ScheduleDTO{
		Current:         toPeriodDTO(s.Current),
		Next:            toPeriodDTO(s.Next),
		Previous:        toPeriodDTO(s.Previous),
		PaymentType:     s.PaymentType,
		PaymentDay:      s.PaymentDay,
		PreferredMethod: s.PreferredMethod,
		IntervalDays:    s.IntervalDays,
		NextCycleStart:  s.NextCycleStart.ISO(),
		NextCycleEnd:    s.NextCycleEnd.ISO(),
		Records:         s.Records,
	}
}

func toCalendarDTO(cal *payout.Calendar) CalendarDTO {
	return CalendarDTO{
		ID:            cal.ID,
		OwnerID:       cal.OwnerID,
		Name:          cal.Name,
		PayoutDetails: cal.PayoutDetails,
	}
}
