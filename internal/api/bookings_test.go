package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/api"
	"github.com/chrisdamba/flighttrouble/internal/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingRouter(svc *mocks.MockBookingService) http.Handler {
	r := chi.NewRouter()
	api.NewBookingHandler(svc).Register(r)
	return r
}

func validBookingRequest() *models.BookingRequest {
	return &models.BookingRequest{
		UserID:   uuid.New(),
		FlightID: uuid.New(),
		Passengers: []models.PassengerRequest{{
			FirstName:      "Hana",
			LastName:       "Sato",
			PassportNumber: "P1234567",
			SeatNumber:     "12A",
			Meal:           "standard",
			ExtraBaggage:   "0kg",
		}},
	}
}

func TestBookingHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         interface{}
		setupMock    func(*mocks.MockBookingService)
		expectedCode int
	}{
		{
			name: "created",
			body: validBookingRequest(),
			setupMock: func(m *mocks.MockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.AnythingOfType("*models.BookingRequest")).
					Return(&models.Booking{ID: uuid.New(), Status: models.BookingConfirmed}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "invalid seat number fails validation",
			body: func() *models.BookingRequest {
				req := validBookingRequest()
				req.Passengers[0].SeatNumber = "A12"
				return req
			}(),
			setupMock:    func(m *mocks.MockBookingService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "malformed json",
			body:         "{not json",
			setupMock:    func(m *mocks.MockBookingService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "seat taken maps to conflict",
			body: validBookingRequest(),
			setupMock: func(m *mocks.MockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.AnythingOfType("*models.BookingRequest")).
					Return(nil, &models.BookedSeatsError{Seats: []string{"12A"}})
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "unknown flight maps to not found",
			body: validBookingRequest(),
			setupMock: func(m *mocks.MockBookingService) {
				m.On("CreateBooking", mock.Anything, mock.AnythingOfType("*models.BookingRequest")).
					Return(nil, models.ErrFlightNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockBookingService)
			tt.setupMock(svc)

			var buf bytes.Buffer
			if s, ok := tt.body.(string); ok {
				buf.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&buf).Encode(tt.body))
			}

			req := httptest.NewRequest(http.MethodPost, "/bookings", &buf)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			newBookingRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			svc.AssertExpectations(t)
		})
	}
}

func TestBookingHandler_Cancel(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name         string
		target       string
		setupMock    func(*mocks.MockBookingService)
		expectedCode int
	}{
		{
			name:   "cancelled",
			target: fmt.Sprintf("/bookings/%s/cancel", bookingID),
			setupMock: func(m *mocks.MockBookingService) {
				m.On("CancelBooking", mock.Anything, bookingID).
					Return(&models.Booking{ID: bookingID, Status: models.BookingCancelled}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "double cancel is a conflict",
			target: fmt.Sprintf("/bookings/%s/cancel", bookingID),
			setupMock: func(m *mocks.MockBookingService) {
				m.On("CancelBooking", mock.Anything, bookingID).
					Return(nil, models.ErrBookingCancelled)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "invalid id",
			target:       "/bookings/not-a-uuid/cancel",
			setupMock:    func(m *mocks.MockBookingService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockBookingService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			rec := httptest.NewRecorder()

			newBookingRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestBookingHandler_Amend(t *testing.T) {
	bookingID := uuid.New()

	t.Run("amended", func(t *testing.T) {
		svc := new(mocks.MockBookingService)
		svc.On("AmendBooking", mock.Anything, bookingID, mock.AnythingOfType("[]models.Passenger")).
			Return(&models.Booking{ID: bookingID, TotalPrice: 150}, nil)

		body, err := json.Marshal(models.AmendBookingRequest{
			Passengers: validBookingRequest().Passengers,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/bookings/%s", bookingID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		newBookingRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 150.0, got.TotalPrice)
		svc.AssertExpectations(t)
	})

	t.Run("version conflict surfaces as 409", func(t *testing.T) {
		svc := new(mocks.MockBookingService)
		svc.On("AmendBooking", mock.Anything, bookingID, mock.AnythingOfType("[]models.Passenger")).
			Return(nil, models.ErrVersionConflict)

		body, err := json.Marshal(models.AmendBookingRequest{
			Passengers: validBookingRequest().Passengers,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/bookings/%s", bookingID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		newBookingRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestBookingHandler_ListByUser(t *testing.T) {
	userID := uuid.New()

	t.Run("lists for user", func(t *testing.T) {
		svc := new(mocks.MockBookingService)
		svc.On("BookingsByUser", mock.Anything, userID).
			Return([]models.Booking{{ID: uuid.New(), UserID: userID}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/bookings?user_id="+userID.String(), nil)
		rec := httptest.NewRecorder()

		newBookingRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string][]models.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got["bookings"], 1)
	})

	t.Run("missing user_id rejected", func(t *testing.T) {
		svc := new(mocks.MockBookingService)

		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		rec := httptest.NewRecorder()

		newBookingRouter(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "BookingsByUser", mock.Anything, mock.Anything)
	})
}
