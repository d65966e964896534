/*
handlers.go - HTTP API handlers for the payout engine

PURPOSE:
  Exposes the payout scheduling engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calendars:
    POST   /api/calendars                         Create calendar
    GET    /api/calendars/{id}                    Get calendar
    POST   /api/calendars/{id}/payout-details     Update payout configuration

  Schedule:
    GET    /api/calendars/{id}/schedule           Schedule summary
    POST   /api/calendars/{id}/payments           Mark a period as paid
    GET    /api/calendars/{id}/hours              Aggregate worked hours

  Migration:
    POST   /api/migrations/{ownerID}              Re-key legacy records

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Calendar not found
  - 409: Duplicate calendar on create
  - 500: Store errors

  A calendar with no payout configuration is NOT an error: the schedule
  endpoint returns a degenerate summary with null periods so clients can
  always render something.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/payout-engine/payout"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Calendars payout.CalendarStore
	Events    payout.EventStore
	Engine    *payout.ScheduleEngine
	Payments  *payout.PaymentProcessor
	Migrator  *payout.Migrator
}

// NewHandler wires the domain services around the given stores.
func NewHandler(calendars payout.CalendarStore, events payout.EventStore) *Handler {
	engine := payout.NewScheduleEngine(calendars)
	return &Handler{
		Calendars: calendars,
		Events:    events,
		Engine:    engine,
		Payments:  payout.NewPaymentProcessor(calendars, engine),
		Migrator:  payout.NewMigrator(calendars),
	}
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// CreateCalendar creates a new calendar document.
func (h *Handler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	var req CreateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.PayoutDetails != nil && req.PayoutDetails.PaymentType != "" && !req.PayoutDetails.PaymentType.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid payment frequency", payout.ErrInvalidFrequency)
		return
	}

	cal := &payout.Calendar{
		ID:            uuid.NewString(),
		OwnerID:       req.OwnerID,
		Name:          req.Name,
		PayoutDetails: req.PayoutDetails,
	}
	if err := h.Calendars.CreateCalendar(r.Context(), cal); err != nil {
		if errors.Is(err, payout.ErrCalendarExists) {
			writeError(w, http.StatusConflict, "Calendar already exists", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create calendar", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCalendarDTO(cal))
}

// GetCalendar returns a single calendar.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cal, err := h.Calendars.GetCalendarByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calendar", err)
		return
	}
	if cal == nil {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toCalendarDTO(cal))
}

// UpdatePayoutDetails replaces the calendar's payout configuration.
func (h *Handler) UpdatePayoutDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var details payout.PayoutDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !details.PaymentType.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid payment frequency (use daily, weekly, biweekly or monthly)", payout.ErrInvalidFrequency)
		return
	}

	if err := h.Calendars.UpdatePayoutDetails(r.Context(), id, details); err != nil {
		if payout.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Calendar not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update payout details", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetSchedule returns the schedule summary for a calendar.
// GET /api/calendars/{id}/schedule?date=YYYY-MM-DD&allowFutureStart=true
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var opts payout.ScheduleOptions
	if raw := r.URL.Query().Get("date"); raw != "" {
		tp, err := payout.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		opts.ReferenceDate = tp
	}
	opts.AllowFutureStart, _ = strconv.ParseBool(r.URL.Query().Get("allowFutureStart"))

	summary, err := h.Engine.GetSchedule(r.Context(), id, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute schedule", err)
		return
	}
	if summary == nil {
		writeError(w, http.StatusNotFound, "Calendar not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(summary))
}

// MarkPaymentPaid marks a billing period as paid and rolls the schedule over.
// POST /api/calendars/{id}/payments
func (h *Handler) MarkPaymentPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount != nil && *req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be >= 0", nil)
		return
	}

	summary, err := h.Payments.MarkPaymentPaid(r.Context(), payout.MarkPaidInput{
		CalendarID:       id,
		PeriodKey:        req.PeriodKey,
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		MaintainSchedule: req.MaintainSchedule,
		Note:             req.Note,
		PayoutDetails:    req.PayoutDetails,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark payment paid", err)
		return
	}
	if summary == nil {
		writeError(w, http.StatusNotFound, "Calendar not found or has no payout configuration", nil)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(summary))
}

// GetHours aggregates worked hours over a date range.
// GET /api/calendars/{id}/hours?from=YYYY-MM-DD&to=YYYY-MM-DD&onlyCompleted=true
func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	from, err := payout.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := payout.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	onlyCompleted, _ := strconv.ParseBool(r.URL.Query().Get("onlyCompleted"))

	hours, err := payout.AggregateHoursForPeriod(r.Context(), h.Events, id,
		payout.Period{Start: from, End: to}, onlyCompleted)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate hours", err)
		return
	}

	writeJSON(w, http.StatusOK, HoursDTO{
		CalendarID: id,
		From:       from.ISO(),
		To:         to.ISO(),
		Hours:      hours,
	})
}

// =============================================================================
// MIGRATION HANDLERS
// =============================================================================

// MigrateOwner re-keys legacy payout records for every calendar the user owns.
// POST /api/migrations/{ownerID}
func (h *Handler) MigrateOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")

	report, err := h.Migrator.MigrateAll(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to run migration", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
