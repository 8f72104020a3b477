// Package ownership answers which business a partner manages and whether a
// studio, class or booking belongs to it.
package ownership

import (
	"context"
	"errors"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"
)

// Owned is any document carrying the id of the business that owns it.
type Owned interface {
	repository.Document
	OwnerBusinessID() string
}

type Resolver struct {
	Users      repository.Repository[models.User]
	Businesses repository.Repository[models.Business]
}

func NewResolver(users repository.Repository[models.User], businesses repository.Repository[models.Business]) *Resolver {
	return &Resolver{Users: users, Businesses: businesses}
}

// ResolveBusinessForUser returns the business owned by userID. It fails with
// NotFound when the user is not a partner or owns no business.
func (r *Resolver) ResolveBusinessForUser(ctx context.Context, userID string) (*models.Business, error) {
	user, err := r.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("user not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	return r.businessOf(ctx, user)
}

// PartnerBusiness is ResolveBusinessForUser for callers that must be partners:
// any other role is Forbidden rather than NotFound.
func (r *Resolver) PartnerBusiness(ctx context.Context, userID string) (*models.Business, error) {
	user, err := r.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Unauthenticated("user not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	if !user.IsPartner() {
		return nil, utils.Forbidden("partner access required")
	}
	return r.businessOf(ctx, user)
}

func (r *Resolver) businessOf(ctx context.Context, user *models.User) (*models.Business, error) {
	if !user.IsPartner() {
		return nil, utils.NotFound("business not found")
	}

	if user.BusinessRef != "" {
		business, err := r.Businesses.Get(ctx, user.BusinessRef)
		switch {
		case err == nil && business.OwnerID == user.ID:
			return business, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, utils.Internal("failed to load business", err)
		}
	}

	owned, err := r.Businesses.Find(ctx, repository.Where("ownerId", repository.Eq, user.ID))
	if err != nil {
		return nil, utils.Internal("failed to load business", err)
	}
	if len(owned) == 0 {
		return nil, utils.NotFound("business not found")
	}
	return &owned[0], nil
}

// AssertOwns loads id from repo and checks it belongs to business. kind names
// the entity in error messages ("studio", "class", "booking").
func AssertOwns[T Owned](ctx context.Context, business *models.Business, repo repository.Repository[T], kind, id string) (*T, error) {
	doc, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound(kind + " not found")
		}
		return nil, utils.Internal("failed to load "+kind, err)
	}
	if (*doc).OwnerBusinessID() != business.ID {
		return nil, utils.Forbidden("you do not have access to this " + kind)
	}
	return doc, nil
}
