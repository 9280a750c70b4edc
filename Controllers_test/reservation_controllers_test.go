package Controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/reservation-app/models"
)

func TestCreateReservation(t *testing.T) {
	r, _ := setupRouter(t)

	res := createReservation(t, r, 2, "18:00")
	assert.NotZero(t, res.ReservationID)
	assert.Equal(t, models.StatusBooked, res.ReservationStatus)
	assert.Equal(t, "2035-01-03", res.ReservationDate)
	assert.Equal(t, "18:00:00", res.ReservationTime)
}

func TestCreateReservationValidation(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name    string
		payload interface{}
		wantErr string
	}{
		{"no body", nil, "Reservation must include a first_name"},
		{"empty data", data(map[string]interface{}{}), "Reservation must include a first_name"},
		{"tuesday", reservationPayload(2, "2035-01-02", "18:00"), "The restaurant is closed on Tuesdays"},
		{"past", reservationPayload(2, "2034-12-31", "18:00"), "Reservation must be made for a future date and time"},
		{"too early", reservationPayload(2, "2035-01-03", "10:29"), "Reservations start at 10:30"},
		{"too late", reservationPayload(2, "2035-01-03", "21:31"), "The last reservation is at 21:30"},
		{"zero people", reservationPayload(0, "2035-01-03", "18:00"), "people must be a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doRequest(t, r, http.MethodPost, "/reservations", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, env.Error)
		})
	}

	for _, at := range []string{"10:30", "21:30"} {
		w, _ := doRequest(t, r, http.MethodPost, "/reservations", reservationPayload(2, "2035-01-03", at))
		assert.Equal(t, http.StatusCreated, w.Code, "boundary %s is inclusive", at)
	}
}

func TestCreateReservationMalformedJSON(t *testing.T) {
	r, _ := setupRouter(t)

	req, err := http.NewRequest(http.MethodPost, "/reservations", strings.NewReader(`{"data":`))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Request body must be valid JSON"}`, w.Body.String())
}

func TestListReservationsByDate(t *testing.T) {
	r, _ := setupRouter(t)
	late := createReservation(t, r, 2, "20:00")
	early := createReservation(t, r, 2, "11:00")
	cancelled := createReservation(t, r, 2, "12:00")

	w, _ := doRequest(t, r, http.MethodPut, fmt.Sprintf("/reservations/%d/status", cancelled.ReservationID), data(map[string]string{"status": "cancelled"}))
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doRequest(t, r, http.MethodGet, "/reservations?date=2035-01-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Reservation
	decode(t, env.Data, &list)
	require.Len(t, list, 2)
	assert.Equal(t, early.ReservationID, list[0].ReservationID)
	assert.Equal(t, late.ReservationID, list[1].ReservationID)

	w, env = doRequest(t, r, http.MethodGet, "/reservations?date=2035-02-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, env = doRequest(t, r, http.MethodGet, "/reservations?mobile_number=(555)%200101", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &list)
	assert.Len(t, list, 3)
}

func TestGetReservation(t *testing.T) {
	r, _ := setupRouter(t)
	res := createReservation(t, r, 2, "18:00")

	w, env := doRequest(t, r, http.MethodGet, fmt.Sprintf("/reservations/%d", res.ReservationID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Reservation
	decode(t, env.Data, &got)
	assert.Equal(t, res.ReservationID, got.ReservationID)

	w, env = doRequest(t, r, http.MethodGet, "/reservations/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cannot find reservation_id 999", env.Error)

	w, _ = doRequest(t, r, http.MethodGet, "/reservations/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReservation(t *testing.T) {
	r, _ := setupRouter(t)
	res := createReservation(t, r, 2, "18:00")

	w, env := doRequest(t, r, http.MethodPut, fmt.Sprintf("/reservations/%d", res.ReservationID), reservationPayload(4, "2035-01-04", "19:00"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got models.Reservation
	decode(t, env.Data, &got)
	assert.Equal(t, 4, got.People)
	assert.Equal(t, "2035-01-04", got.ReservationDate)

	w, _ = doRequest(t, r, http.MethodPut, "/reservations/999", reservationPayload(4, "2035-01-04", "19:00"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReservationStatus(t *testing.T) {
	r, _ := setupRouter(t)
	res := createReservation(t, r, 2, "18:00")
	url := fmt.Sprintf("/reservations/%d/status", res.ReservationID)

	w, env := doRequest(t, r, http.MethodPut, url, data(map[string]string{"status": "unknown"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status unknown is unknown", env.Error)

	w, env = doRequest(t, r, http.MethodPut, url, data(map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Request data must include a status", env.Error)

	w, env = doRequest(t, r, http.MethodPut, url, data(map[string]string{"status": "seated"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "reservation status seated is set by seating or finishing its table", env.Error)

	w, env = doRequest(t, r, http.MethodPut, url, data(map[string]string{"status": "cancelled"}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"cancelled"}`, string(env.Data))

	w, env = doRequest(t, r, http.MethodPut, url, data(map[string]string{"status": "booked"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "a cancelled reservation cannot be updated", env.Error)

	w, env = doRequest(t, r, http.MethodPut, "/reservations/999/status", data(map[string]string{"status": "cancelled"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Cannot find reservation_id 999", env.Error)
}

func TestUnknownPathAndMethod(t *testing.T) {
	r, _ := setupRouter(t)

	w, env := doRequest(t, r, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Path not found: /nope", env.Error)

	w, env = doRequest(t, r, http.MethodDelete, "/reservations", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "DELETE not allowed for /reservations", env.Error)

	w, _ = doRequest(t, r, http.MethodPost, "/tables/1/seat", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
