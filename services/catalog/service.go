// Package catalog manages the studios and classes a business offers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/services/ownership"
	"pulsefit/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	CreateStudio(ctx context.Context, actingUserID string, in StudioInput) (*models.Studio, error)
	CreateClass(ctx context.Context, actingUserID, studioID string, in ClassInput) (*models.Class, error)
	GetClass(ctx context.Context, classID string) (*models.Class, error)
	ListStudioClasses(ctx context.Context, studioID string) ([]models.Class, error)
}

type StudioInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type ClassInput struct {
	Name         string  `json:"name"`
	Capacity     int     `json:"capacity"`
	Price        float64 `json:"price"`
	InstructorID string  `json:"instructorId"`
	Schedule     string  `json:"schedule"`
}

type DefaultCatalogService struct {
	Store  *repository.Store
	Owners *ownership.Resolver
	Now    func() time.Time
}

func NewCatalogService(store *repository.Store) *DefaultCatalogService {
	return &DefaultCatalogService{
		Store:  store,
		Owners: ownership.NewResolver(store.Users, store.Businesses),
		Now:    time.Now,
	}
}

// CreateStudio adds a studio to the caller's business within its plan limit.
func (s *DefaultCatalogService) CreateStudio(ctx context.Context, actingUserID string, in StudioInput) (*models.Studio, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, utils.Validation("name is required")
	}

	business, err := s.Owners.PartnerBusiness(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.Studios.Find(ctx, repository.Where("businessId", repository.Eq, business.ID))
	if err != nil {
		return nil, utils.Internal("failed to load studios", err)
	}
	if limit := business.Plan.Limits().MaxStudios; len(existing) >= limit {
		return nil, utils.Conflict(fmt.Sprintf("the %s plan allows at most %d studios", business.Plan, limit))
	}

	studio := models.Studio{
		ID:         uuid.NewString(),
		BusinessID: business.ID,
		Name:       in.Name,
		Address:    strings.TrimSpace(in.Address),
		CreatedAt:  s.Now().UTC(),
	}
	if err := s.Store.Studios.Create(ctx, studio); err != nil {
		return nil, utils.Internal("failed to create studio", err)
	}

	business.StudioIDs = append(business.StudioIDs, studio.ID)
	if err := s.Store.Businesses.Update(ctx, business.ID, *business); err != nil {
		// The studio is still reachable through its businessId.
		utils.GetLogger().Warn("Failed to record studio on business",
			zap.String("businessId", business.ID),
			zap.String("studioId", studio.ID),
			zap.Error(err))
	}
	return &studio, nil
}

// CreateClass adds a class to one of the caller's studios. The class takes
// its businessId from the studio.
func (s *DefaultCatalogService) CreateClass(ctx context.Context, actingUserID, studioID string, in ClassInput) (*models.Class, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return nil, utils.Validation("name is required")
	case in.Capacity <= 0:
		return nil, utils.Validation("capacity must be greater than 0")
	case in.Price < 0:
		return nil, utils.Validation("price must not be negative")
	}

	business, err := s.Owners.PartnerBusiness(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	studio, err := ownership.AssertOwns(ctx, business, s.Store.Studios, "studio", studioID)
	if err != nil {
		return nil, err
	}

	existing, err := s.Store.Classes.Find(ctx, repository.Where("businessId", repository.Eq, business.ID))
	if err != nil {
		return nil, utils.Internal("failed to load classes", err)
	}
	if limit := business.Plan.Limits().MaxClasses; len(existing) >= limit {
		return nil, utils.Conflict(fmt.Sprintf("the %s plan allows at most %d classes", business.Plan, limit))
	}

	class := models.Class{
		ID:           uuid.NewString(),
		StudioID:     studio.ID,
		BusinessID:   studio.BusinessID,
		Name:         in.Name,
		Capacity:     in.Capacity,
		Price:        in.Price,
		InstructorID: strings.TrimSpace(in.InstructorID),
		Schedule:     strings.TrimSpace(in.Schedule),
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.Store.Classes.Create(ctx, class); err != nil {
		return nil, utils.Internal("failed to create class", err)
	}
	return &class, nil
}

func (s *DefaultCatalogService) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.Store.Classes.Get(ctx, classID)
	if err != nil {
		return nil, notFoundOr(err, "class")
	}
	return class, nil
}

func (s *DefaultCatalogService) ListStudioClasses(ctx context.Context, studioID string) ([]models.Class, error) {
	if _, err := s.Store.Studios.Get(ctx, studioID); err != nil {
		return nil, notFoundOr(err, "studio")
	}
	classes, err := s.Store.Classes.Find(ctx, repository.Where("studioId", repository.Eq, studioID))
	if err != nil {
		return nil, utils.Internal("failed to load classes", err)
	}
	return classes, nil
}

func notFoundOr(err error, kind string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(kind + " not found")
	}
	return utils.Internal("failed to load "+kind, err)
}
