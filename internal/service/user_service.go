package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	users ports.UserRepository
}

func NewUserService(users ports.UserRepository) *userService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Birthdate:    req.Birthdate,
		Gender:       req.Gender,
		Email:        email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrBadCredentials
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req *models.UserUpdateRequest) (*models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
				return nil, models.ErrEmailTaken
			} else if !errors.Is(err, models.ErrUserNotFound) {
				return nil, fmt.Errorf("checking email: %w", err)
			}
			user.Email = email
		}
	}
	if req.Birthdate != nil {
		if req.Birthdate.After(time.Now()) {
			return nil, fmt.Errorf("birthdate must be in the past")
		}
		user.Birthdate = *req.Birthdate
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.DeleteUser(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}
