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
)

type BookingRepository struct {
	db DBConn
}

func NewBookingRepository(db DBConn) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
        id, user_id, flight_id, status, total_price, passengers,
        created_at, updated_at
`

// CreateBooking persists the flight's seat map and the new booking in one
// transaction. The flight write is conditional on its version, so a
// concurrent seat mutation rolls the whole operation back.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking, flight *models.Flight) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateFlight(ctx, tx, flight); err != nil {
		return err
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = time.Now().UTC()
	booking.UpdatedAt = booking.CreatedAt

	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return fmt.Errorf("marshal passengers: %w", err)
	}

	query := `
        INSERT INTO bookings (id, user_id, flight_id, status, total_price,
            passengers, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err = tx.Exec(ctx, query,
		booking.ID, booking.UserID, booking.FlightID, booking.Status,
		booking.TotalPrice, passengers, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateBooking writes the amended or cancelled booking together with the
// flight's seat map, conditional on the flight version.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking *models.Booking, flight *models.Flight) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateFlight(ctx, tx, flight); err != nil {
		return err
	}

	booking.UpdatedAt = time.Now().UTC()

	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return fmt.Errorf("marshal passengers: %w", err)
	}

	query := `
        UPDATE bookings
        SET status = $1, total_price = $2, passengers = $3, updated_at = $4
        WHERE id = $5
    `
	_, err = tx.Exec(ctx, query,
		booking.Status, booking.TotalPrice, passengers, booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *BookingRepository) UpdateBookingPrice(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now().UTC()
	query := `
        UPDATE bookings SET total_price = $1, updated_at = $2 WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, booking.TotalPrice, booking.UpdatedAt, booking.ID)
	return err
}

func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, query, id))
}

func (r *BookingRepository) GetBookingsByFlight(ctx context.Context, flightID uuid.UUID) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE flight_id = $1 ORDER BY created_at`
	return r.queryBookings(ctx, query, flightID)
}

func (r *BookingRepository) GetBookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at`
	return r.queryBookings(ctx, query, userID)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var booking models.Booking
	var passengers []byte

	err := row.Scan(
		&booking.ID, &booking.UserID, &booking.FlightID, &booking.Status,
		&booking.TotalPrice, &passengers, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(passengers, &booking.Passengers); err != nil {
		return nil, fmt.Errorf("unmarshal passengers: %w", err)
	}
	return &booking, nil
}
