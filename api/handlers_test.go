package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payout-engine/api"
	"github.com/warp/payout-engine/payout"
	"github.com/warp/payout-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	handler := api.NewHandler(store, &memory.Events{HoursPerDay: 2})
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func seedMonthly(t *testing.T, store *memory.Store, id string) {
	t.Helper()
	require.NoError(t, store.CreateCalendar(context.Background(), &payout.Calendar{
		ID:      id,
		OwnerID: "u-1",
		PayoutDetails: &payout.PayoutDetails{
			PaymentType:   payout.FrequencyMonthly,
			PaymentMethod: payout.MethodTransfer,
		},
	}))
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func TestCreateAndGetCalendar(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/calendars", api.CreateCalendarRequest{
		OwnerID: "u-1",
		Name:    "Piano lessons",
		PayoutDetails: &payout.PayoutDetails{
			PaymentType:   payout.FrequencyWeekly,
			PaymentMethod: payout.MethodPayPal,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.CalendarDTO](t, resp)
	assert.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/calendars/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode[api.CalendarDTO](t, resp)
	assert.Equal(t, "Piano lessons", fetched.Name)
	assert.Equal(t, payout.FrequencyWeekly, fetched.PayoutDetails.PaymentType)
}

func TestGetSchedule_HTTP(t *testing.T) {
	srv, store := newTestServer(t)
	seedMonthly(t, store, "cal-1")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendars/cal-1/schedule?date=2025-03-10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	schedule := decode[api.ScheduleDTO](t, resp)
	require.NotNil(t, schedule.Current)
	assert.Equal(t, "2025-03", schedule.Current.Key)
	assert.Equal(t, "2025-03-01", schedule.Current.Start)
	assert.Equal(t, "2025-03-31", schedule.Current.End)
	assert.Equal(t, 31, schedule.IntervalDays)
}

func TestGetSchedule_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendars/nope/schedule", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGetSchedule_BadDate(t *testing.T) {
	srv, store := newTestServer(t)
	seedMonthly(t, store, "cal-1")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendars/cal-1/schedule?date=10-03-2025", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMarkPaymentPaid_HTTP(t *testing.T) {
	srv, store := newTestServer(t)
	seedMonthly(t, store, "cal-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/calendars/cal-1/payments", api.MarkPaidRequest{
		Amount: floatPtr(250.005),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	schedule := decode[api.ScheduleDTO](t, resp)
	require.NotNil(t, schedule.Current)
	require.True(t, schedule.Current.Record != nil)
	assert.Equal(t, payout.StatusPaid, schedule.Current.Record.Status)
	require.NotNil(t, schedule.Current.Record.AmountPaid)
	assert.Equal(t, 250.01, *schedule.Current.Record.AmountPaid)
}

func TestMarkPaymentPaid_ValidatesAmount(t *testing.T) {
	srv, store := newTestServer(t)
	seedMonthly(t, store, "cal-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/calendars/cal-1/payments", api.MarkPaidRequest{
		PeriodKey: "2025-01",
		Amount:    floatPtr(-5),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdatePayoutDetails_RejectsUnknownFrequency(t *testing.T) {
	srv, store := newTestServer(t)
	seedMonthly(t, store, "cal-1")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/calendars/cal-1/payout-details", map[string]string{
		"paymentType": "fortnightly",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetHours_HTTP(t *testing.T) {
	srv, store := newTestServer(t)
	seedMonthly(t, store, "cal-1")

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/calendars/cal-1/hours?from=2025-03-01&to=2025-03-10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	hours := decode[api.HoursDTO](t, resp)
	assert.Equal(t, 20.0, hours.Hours, "10 days at 2 hours/day")
}

func TestMigrateOwner_HTTP(t *testing.T) {
	srv, store := newTestServer(t)
	require.NoError(t, store.CreateCalendar(context.Background(), &payout.Calendar{
		ID:            "cal-1",
		OwnerID:       "u-1",
		PayoutDetails: &payout.PayoutDetails{PaymentType: payout.FrequencyWeekly},
		PayoutRecords: map[string]payout.PayoutRecord{
			"2025-10": {Status: payout.StatusPaid, ScheduledPaymentDate: "2025-10-20"},
		},
	}))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/migrations/u-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[payout.MigrationReport](t, resp)
	assert.Equal(t, 1, report.Calendars)
	assert.Equal(t, 1, report.Migrated)
	assert.Equal(t, 0, report.Failed)

	cal, err := store.GetCalendarByID(context.Background(), "cal-1")
	require.NoError(t, err)
	assert.Contains(t, cal.PayoutRecords, "2025-W43")
}

func floatPtr(f float64) *float64 { return &f }
