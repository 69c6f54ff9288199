package repository

import (
	"context"
	"errors"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db DBConn
}

func NewUserRepository(db DBConn) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
        id, first_name, last_name, birthdate, gender, email, phone_number,
        password_hash, role, created_at
`

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO users (id, first_name, last_name, birthdate, gender, email,
            phone_number, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.db.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Birthdate, user.Gender,
		user.Email, user.PhoneNumber, user.PasswordHash, user.Role, user.CreatedAt,
	)
	return err
}

func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
        UPDATE users
        SET first_name = $1, last_name = $2, birthdate = $3, gender = $4,
            email = $5, phone_number = $6, role = $7
        WHERE id = $8
    `
	tag, err := r.db.Exec(ctx, query,
		user.FirstName, user.LastName, user.Birthdate, user.Gender,
		user.Email, user.PhoneNumber, user.Role, user.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Birthdate,
		&user.Gender, &user.Email, &user.PhoneNumber, &user.PasswordHash,
		&user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
