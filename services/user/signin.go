package user

import (
	"context"
	"errors"
	"strings"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultUserService) AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, utils.Validation("email and password are required")
	}

	users, err := s.Users.Find(ctx, repository.Where("email", repository.Eq, email))
	if err != nil {
		utils.GetLogger().Error("AuthenticateUser: Failed to fetch user", zap.Error(err))
		return nil, utils.Internal("authentication failed, please try again", err)
	}
	if len(users) == 0 {
		return nil, utils.Unauthenticated("invalid email or password")
	}
	userRec := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, utils.Unauthenticated("invalid email or password")
	}

	token, err := s.Tokens.GenerateToken(userRec.ID, string(userRec.Role))
	if err != nil {
		return nil, utils.Internal("failed to issue token", err)
	}
	return &AuthResponse{ID: userRec.ID, Token: token, Role: userRec.Role, BusinessID: userRec.BusinessRef}, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("user not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	return user, nil
}
