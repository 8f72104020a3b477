package user

import (
	"context"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"github.com/go-playground/validator/v10"
)

type UserService interface {
	// Registration
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)

	// Authentication
	AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error)

	// User Management
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type RegisterRequest struct {
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=8"`
	FirstName    string      `json:"firstName" validate:"required"`
	LastName     string      `json:"lastName" validate:"required"`
	Role         models.Role `json:"role"`
	BusinessName string      `json:"businessName,omitempty"`
	Plan         models.Plan `json:"plan,omitempty"`
}

type AuthResponse struct {
	ID         string      `json:"id"`
	Token      string      `json:"token"`
	Role       models.Role `json:"role"`
	BusinessID string      `json:"businessId,omitempty"`
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Users      repository.Repository[models.User]
	Businesses repository.Repository[models.Business]
	Tokens     *utils.TokenIssuer
	Validate   *validator.Validate
	Now        func() time.Time
}

func NewUserService(store *repository.Store, tokens *utils.TokenIssuer) *DefaultUserService {
	return &DefaultUserService{
		Users:      store.Users,
		Businesses: store.Businesses,
		Tokens:     tokens,
		Validate:   validator.New(),
		Now:        time.Now,
	}
}
