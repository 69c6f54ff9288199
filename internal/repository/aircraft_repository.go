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

type AircraftRepository struct {
	db DBConn
}

func NewAircraftRepository(db DBConn) *AircraftRepository {
	return &AircraftRepository{db: db}
}

func (r *AircraftRepository) CreateAircraft(ctx context.Context, aircraft *models.Aircraft) error {
	if aircraft.ID == uuid.Nil {
		aircraft.ID = uuid.New()
	}
	aircraft.Capacity = len(aircraft.Seats)
	aircraft.CreatedAt = time.Now().UTC()

	seats, err := json.Marshal(aircraft.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}

	query := `
        INSERT INTO aircraft (id, model, capacity, seats, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = r.db.Exec(ctx, query, aircraft.ID, aircraft.Model, aircraft.Capacity, seats, aircraft.CreatedAt)
	return err
}

func (r *AircraftRepository) GetAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error) {
	query := `SELECT id, model, capacity, seats, created_at FROM aircraft WHERE id = $1`
	return scanAircraft(r.db.QueryRow(ctx, query, id))
}

func (r *AircraftRepository) ListAircraft(ctx context.Context) ([]models.Aircraft, error) {
	query := `SELECT id, model, capacity, seats, created_at FROM aircraft ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fleet []models.Aircraft
	for rows.Next() {
		aircraft, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, *aircraft)
	}
	return fleet, rows.Err()
}

func scanAircraft(row pgx.Row) (*models.Aircraft, error) {
	var aircraft models.Aircraft
	var seats []byte

	err := row.Scan(&aircraft.ID, &aircraft.Model, &aircraft.Capacity, &seats, &aircraft.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAircraftNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(seats, &aircraft.Seats); err != nil {
		return nil, fmt.Errorf("unmarshal seats: %w", err)
	}
	return &aircraft, nil
}
