// Package identity turns bearer tokens into user records.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// JWTResolver verifies tokens issued at login. The signature and expiry are
// checked on every call; Redis only caches the resolved user so a hit skips
// the store lookup. Entries slide by CacheTTL but never outlive the token.
// The cache is optional.
type JWTResolver struct {
	Tokens   *utils.TokenIssuer
	Users    repository.Repository[models.User]
	Cache    *redis.Client
	CacheTTL time.Duration
}

func NewJWTResolver(tokens *utils.TokenIssuer, users repository.Repository[models.User], cache *redis.Client) *JWTResolver {
	return &JWTResolver{Tokens: tokens, Users: users, Cache: cache, CacheTTL: utils.AuthCacheTTL}
}

func (r *JWTResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	sub, expiresAt, err := r.Tokens.VerifyToken(token)
	if err != nil {
		utils.GetLogger().Debug("Token rejected", zap.Error(err))
		return nil, utils.Unauthenticated("invalid or expired token")
	}

	if user, ok := r.cachedUser(ctx, token, sub, expiresAt); ok {
		return user, nil
	}

	user, err := loadUser(ctx, r.Users, sub)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, token, user, expiresAt)
	return user, nil
}

func cacheKey(token string) string {
	return utils.AuthCachePrefix + utils.HashToken(token)
}

// entryTTL is the sliding TTL capped at the token's remaining lifetime.
func (r *JWTResolver) entryTTL(expiresAt time.Time) time.Duration {
	ttl := r.CacheTTL
	if remaining := time.Until(expiresAt); remaining < ttl {
		ttl = remaining
	}
	return ttl
}

func (r *JWTResolver) cachedUser(ctx context.Context, token, sub string, expiresAt time.Time) (*models.User, bool) {
	if r.Cache == nil {
		return nil, false
	}
	key := cacheKey(token)
	raw, err := r.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("Auth cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID != sub {
		return nil, false
	}

	ttl := r.entryTTL(expiresAt)
	if ttl <= 0 {
		return nil, false
	}
	if err := r.Cache.Expire(ctx, key, ttl).Err(); err != nil {
		utils.GetLogger().Warn("Auth cache refresh failed", zap.Error(err))
	}
	return &user, true
}

func (r *JWTResolver) remember(ctx context.Context, token string, user *models.User, expiresAt time.Time) {
	if r.Cache == nil {
		return
	}
	ttl := r.entryTTL(expiresAt)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		utils.GetLogger().Warn("Auth cache encode failed", zap.Error(err))
		return
	}
	if err := r.Cache.Set(ctx, cacheKey(token), raw, ttl).Err(); err != nil {
		utils.GetLogger().Warn("Auth cache write failed", zap.Error(err))
	}
}

// Forget drops the cached user for token.
func (r *JWTResolver) Forget(ctx context.Context, token string) error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Del(ctx, cacheKey(token)).Err()
}

// FirebaseResolver accepts Firebase Auth ID tokens. The token UID is the user id.
type FirebaseResolver struct {
	Auth  *auth.Client
	Users repository.Repository[models.User]
}

func NewFirebaseResolver(client *auth.Client, users repository.Repository[models.User]) *FirebaseResolver {
	return &FirebaseResolver{Auth: client, Users: users}
}

func (r *FirebaseResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	verified, err := r.Auth.VerifyIDToken(ctx, token)
	if err != nil {
		utils.GetLogger().Debug("Firebase token rejected", zap.Error(err))
		return nil, utils.Unauthenticated("invalid or expired token")
	}
	return loadUser(ctx, r.Users, verified.UID)
}

func loadUser(ctx context.Context, users repository.Repository[models.User], id string) (*models.User, error) {
	user, err := users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Unauthenticated("user no longer exists")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	return user, nil
}
