package user

import (
	"context"
	"errors"
	"strings"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserIDForEmail derives the account id from the normalized email, so a
// second registration of the same address fails as a duplicate id on every
// backend, not only where a unique email index exists.
func UserIDForEmail(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

// Register creates an account. Partners also get their Business, on the
// basic plan unless another is requested.
func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	if err := s.Validate.Struct(req); err != nil {
		return nil, utils.Validation("email, password (min 8 characters), firstName and lastName are required")
	}
	if !req.Role.Valid() {
		return nil, utils.Validation("role must be user or partner")
	}
	if req.Role == models.RolePartner {
		if strings.TrimSpace(req.BusinessName) == "" {
			return nil, utils.Validation("businessName is required for partners")
		}
		if req.Plan == "" {
			req.Plan = models.PlanBasic
		}
		if !req.Plan.Valid() {
			return nil, utils.Validation("plan must be basic or premium")
		}
	}

	existing, err := s.Users.Find(ctx, repository.Where("email", repository.Eq, req.Email))
	if err != nil {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return nil, utils.Internal("registration failed, please try again", err)
	}
	if len(existing) > 0 {
		return nil, utils.Conflict("a user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Internal("failed to hash password", err)
	}

	now := s.Now().UTC()
	user := models.User{
		ID:           UserIDForEmail(req.Email),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		CreatedAt:    now,
	}
	var business *models.Business
	if req.Role == models.RolePartner {
		business = &models.Business{
			ID:        uuid.NewString(),
			OwnerID:   user.ID,
			Name:      strings.TrimSpace(req.BusinessName),
			Plan:      req.Plan,
			StudioIDs: []string{},
			CreatedAt: now,
		}
		user.BusinessRef = business.ID
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("a user with this email already exists")
		}
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, utils.Internal("registration failed, please try again", err)
	}
	if business != nil {
		if err := s.Businesses.Create(ctx, *business); err != nil {
			// Roll back so the email can be registered again.
			if delErr := s.Users.Delete(ctx, user.ID); delErr != nil {
				utils.GetLogger().Error("Register: failed to roll back user", zap.String("userId", user.ID), zap.Error(delErr))
			}
			utils.GetLogger().Error("Register: failed to create business", zap.Error(err))
			return nil, utils.Internal("registration failed, please try again", err)
		}
	}

	token, err := s.Tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, utils.Internal("failed to issue token", err)
	}

	utils.GetLogger().Info("User registered", zap.String("userId", user.ID), zap.String("role", string(user.Role)))
	return &AuthResponse{ID: user.ID, Token: token, Role: user.Role, BusinessID: user.BusinessRef}, nil
}
