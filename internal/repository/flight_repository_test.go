package repository_test

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/repository"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	flightID   = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	aircraftID = uuid.MustParse("00000000-0000-0000-0000-000000000010")
)

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	mockDb, err := pgxmock.NewPool()
	require.NoError(t, err)
	return mockDb
}

func formatQueryForRegex(query string) string {
	// remove extra whitespace and newlines
	query = strings.Join(strings.Fields(query), " ")
	return fmt.Sprintf("^%s$", regexp.QuoteMeta(query))
}

func mockFlight() *models.Flight {
	return &models.Flight{
		ID:           flightID,
		FlightNumber: "JL742",
		Airline:      "Japan Airlines",
		AircraftID:   aircraftID,
		Status:       models.FlightScheduled,
		Origin:       "NRT",
		Destination:  "SFO",
		Departure:    time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		Arrival:      time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC),
		Price:        100,
		Seats: []models.Seat{
			{SeatNumber: "1A"},
			{SeatNumber: "1B", IsBooked: true},
		},
		MealOptions:    []models.FareOption{{Name: "standard", Price: 0}},
		BaggageOptions: []models.FareOption{{Name: "0kg", Price: 0}},
		Version:        1,
	}
}

func flightRow(flight *models.Flight) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "flight_number", "airline", "aircraft_id", "status", "origin",
		"destination", "departure", "arrival", "price", "seats",
		"meal_options", "baggage_options", "version", "created_at", "updated_at",
	}).AddRow(
		flight.ID, flight.FlightNumber, flight.Airline, flight.AircraftID,
		flight.Status, flight.Origin, flight.Destination, flight.Departure,
		flight.Arrival, flight.Price,
		[]byte(`[{"seat_number":"1A","is_booked":false},{"seat_number":"1B","is_booked":true}]`),
		[]byte(`[{"name":"standard","price":0}]`),
		[]byte(`[{"name":"0kg","price":0}]`),
		flight.Version, time.Now().UTC(), time.Now().UTC(),
	)
}

func TestFlightRepositoryCreate(t *testing.T) {
	mockDb := setupMockDB(t)
	defer mockDb.Close()
	repo := repository.NewFlightRepository(mockDb)

	flight := mockFlight()
	flight.Version = 0

	query := formatQueryForRegex(`
        INSERT INTO flights (id, flight_number, airline, aircraft_id, status,
            origin, destination, departure, arrival, price, seats,
            meal_options, baggage_options, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `)
	mockDb.ExpectExec(query).
		WithArgs(flightID, flight.FlightNumber, flight.Airline, aircraftID,
			flight.Status, flight.Origin, flight.Destination, flight.Departure,
			flight.Arrival, flight.Price, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), int64(1), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.CreateFlight(context.Background(), flight)

	require.NoError(t, err)
	assert.Equal(t, int64(1), flight.Version)
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestFlightRepositoryGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockDb := setupMockDB(t)
		defer mockDb.Close()
		repo := repository.NewFlightRepository(mockDb)

		mockDb.ExpectQuery(`SELECT .* FROM flights WHERE id = \$1`).
			WithArgs(flightID).
			WillReturnRows(flightRow(mockFlight()))

		flight, err := repo.GetFlight(context.Background(), flightID)

		require.NoError(t, err)
		assert.Equal(t, "JL742", flight.FlightNumber)
		require.Len(t, flight.Seats, 2)
		assert.True(t, flight.Seats[1].IsBooked)
		assert.Equal(t, int64(1), flight.Version)
	})

	t.Run("not found", func(t *testing.T) {
		mockDb := setupMockDB(t)
		defer mockDb.Close()
		repo := repository.NewFlightRepository(mockDb)

		mockDb.ExpectQuery(`SELECT .* FROM flights WHERE id = \$1`).
			WithArgs(flightID).
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		_, err := repo.GetFlight(context.Background(), flightID)
		assert.ErrorIs(t, err, models.ErrFlightNotFound)
	})
}

func TestFlightRepositoryList(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		mockDb := setupMockDB(t)
		defer mockDb.Close()
		repo := repository.NewFlightRepository(mockDb)

		mockDb.ExpectQuery(`SELECT .* FROM flights WHERE status = \$1 ORDER BY departure`).
			WithArgs(models.FlightScheduled).
			WillReturnRows(flightRow(mockFlight()))

		flights, err := repo.ListFlights(context.Background(), models.FlightScheduled)

		require.NoError(t, err)
		require.Len(t, flights, 1)
		assert.Equal(t, flightID, flights[0].ID)
	})

	t.Run("no filter lists all", func(t *testing.T) {
		mockDb := setupMockDB(t)
		defer mockDb.Close()
		repo := repository.NewFlightRepository(mockDb)

		mockDb.ExpectQuery(`SELECT .* FROM flights ORDER BY departure`).
			WillReturnRows(flightRow(mockFlight()))

		flights, err := repo.ListFlights(context.Background(), "")

		require.NoError(t, err)
		assert.Len(t, flights, 1)
	})
}

func TestFlightRepositoryUpdate(t *testing.T) {
	updateQuery := formatQueryForRegex(`
        UPDATE flights
        SET flight_number = $1, airline = $2, aircraft_id = $3, status = $4,
            origin = $5, destination = $6, departure = $7, arrival = $8,
            price = $9, seats = $10, meal_options = $11, baggage_options = $12,
            version = version + 1, updated_at = $13
        WHERE id = $14 AND version = $15
    `)

	t.Run("bumps version on success", func(t *testing.T) {
		mockDb := setupMockDB(t)
		defer mockDb.Close()
		repo := repository.NewFlightRepository(mockDb)

		flight := mockFlight()
		mockDb.ExpectExec(updateQuery).
			WithArgs(flight.FlightNumber, flight.Airline, aircraftID, flight.Status,
				flight.Origin, flight.Destination, flight.Departure, flight.Arrival,
				flight.Price, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), flightID, int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateFlight(context.Background(), flight)

		require.NoError(t, err)
		assert.Equal(t, int64(2), flight.Version)
		assert.NoError(t, mockDb.ExpectationsWereMet())
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		mockDb := setupMockDB(t)
		defer mockDb.Close()
		repo := repository.NewFlightRepository(mockDb)

		flight := mockFlight()
		mockDb.ExpectExec(updateQuery).
			WithArgs(flight.FlightNumber, flight.Airline, aircraftID, flight.Status,
				flight.Origin, flight.Destination, flight.Departure, flight.Arrival,
				flight.Price, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), flightID, int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateFlight(context.Background(), flight)

		assert.ErrorIs(t, err, models.ErrVersionConflict)
		assert.Equal(t, int64(1), flight.Version)
	})
}
