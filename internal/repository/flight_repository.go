package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

type FlightRepository struct {
	db DBConn
}

func NewFlightRepository(db DBConn) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightColumns = `
        id, flight_number, airline, aircraft_id, status, origin, destination,
        departure, arrival, price, seats, meal_options, baggage_options,
        version, created_at, updated_at
`

func (r *FlightRepository) CreateFlight(ctx context.Context, flight *models.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	flight.Version = 1
	flight.CreatedAt = time.Now().UTC()
	flight.UpdatedAt = flight.CreatedAt

	seats, meals, baggage, err := marshalFlightDocs(flight)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO flights (id, flight_number, airline, aircraft_id, status,
            origin, destination, departure, arrival, price, seats,
            meal_options, baggage_options, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `
	_, err = r.db.Exec(ctx, query,
		flight.ID, flight.FlightNumber, flight.Airline, flight.AircraftID,
		flight.Status, flight.Origin, flight.Destination, flight.Departure,
		flight.Arrival, flight.Price, seats, meals, baggage, flight.Version,
		flight.CreatedAt, flight.UpdatedAt,
	)
	return err
}

func (r *FlightRepository) GetFlight(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	return scanFlight(r.db.QueryRow(ctx, query, id))
}

func (r *FlightRepository) ListFlights(ctx context.Context, status models.FlightStatus) ([]models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY departure`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *flight)
	}
	return flights, rows.Err()
}

// UpdateFlight writes the flight conditionally on the version it was read
// at. Zero rows affected means another writer got there first.
func (r *FlightRepository) UpdateFlight(ctx context.Context, flight *models.Flight) error {
	return updateFlight(ctx, r.db, flight)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

func updateFlight(ctx context.Context, db execer, flight *models.Flight) error {
	seats, meals, baggage, err := marshalFlightDocs(flight)
	if err != nil {
		return err
	}

	query := `
        UPDATE flights
        SET flight_number = $1, airline = $2, aircraft_id = $3, status = $4,
            origin = $5, destination = $6, departure = $7, arrival = $8,
            price = $9, seats = $10, meal_options = $11, baggage_options = $12,
            version = version + 1, updated_at = $13
        WHERE id = $14 AND version = $15
    `
	tag, err := db.Exec(ctx, query,
		flight.FlightNumber, flight.Airline, flight.AircraftID, flight.Status,
		flight.Origin, flight.Destination, flight.Departure, flight.Arrival,
		flight.Price, seats, meals, baggage, time.Now().UTC(),
		flight.ID, flight.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrVersionConflict
	}
	flight.Version++
	return nil
}

func marshalFlightDocs(flight *models.Flight) (seats, meals, baggage []byte, err error) {
	if seats, err = json.Marshal(flight.Seats); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal seats: %w", err)
	}
	if meals, err = json.Marshal(flight.MealOptions); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal meal options: %w", err)
	}
	if baggage, err = json.Marshal(flight.BaggageOptions); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal baggage options: %w", err)
	}
	return seats, meals, baggage, nil
}

func scanFlight(row pgx.Row) (*models.Flight, error) {
	var flight models.Flight
	var seats, meals, baggage []byte

	err := row.Scan(
		&flight.ID, &flight.FlightNumber, &flight.Airline, &flight.AircraftID,
		&flight.Status, &flight.Origin, &flight.Destination, &flight.Departure,
		&flight.Arrival, &flight.Price, &seats, &meals, &baggage,
		&flight.Version, &flight.CreatedAt, &flight.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrFlightNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(seats, &flight.Seats); err != nil {
		return nil, fmt.Errorf("unmarshal seats: %w", err)
	}
	if err := json.Unmarshal(meals, &flight.MealOptions); err != nil {
		return nil, fmt.Errorf("unmarshal meal options: %w", err)
	}
	if err := json.Unmarshal(baggage, &flight.BaggageOptions); err != nil {
		return nil, fmt.Errorf("unmarshal baggage options: %w", err)
	}
	return &flight, nil
}
