package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/familybridge/crm-backend/internal/database"
	"github.com/familybridge/crm-backend/internal/models"
	"github.com/familybridge/crm-backend/pkg/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles staff accounts and login
type UserService struct {
	DB *database.Queries // database access
}

// NewUserService creates service with db dependency
func NewUserService(db *database.Queries) *UserService {
	return &UserService{DB: db}
}

// CreateUser makes a staff account with a hashed password
func (s *UserService) CreateUser(ctx context.Context, name, email, role, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" {
		return models.User{}, errors.New("email cannot be empty")
	}
	if len(password) < 8 {
		return models.User{}, errors.New("password must be at least 8 characters")
	}
	if role == "" {
		role = "staff"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.DB.CreateUser(ctx, database.CreateUserParams{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return userFromDB(created), nil
}

// Login checks credentials and returns a signed session token
func (s *UserService) Login(ctx context.Context, input models.LoginInput) (string, models.User, error) {
	user, err := s.DB.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// same error either way so logins can't probe for accounts
			return "", models.User{}, errors.New("invalid email or password")
		}
		return "", models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", models.User{}, errors.New("invalid email or password")
	}

	token, err := session.Login(ctx, user.ID)
	if err != nil {
		return "", models.User{}, fmt.Errorf("failed to create session: %w", err)
	}

	return token, userFromDB(user), nil
}

// GetUser retrieves one staff account by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := s.DB.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user not found: %w", err)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return userFromDB(user), nil
}

// ListUsers returns all staff accounts
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]models.User, len(rows))
	for i, u := range rows {
		out[i] = userFromDB(u)
	}
	return out, nil
}

// convert db row to app model

func userFromDB(u database.User) models.User {
	return models.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
