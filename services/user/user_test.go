package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*DefaultUserService, *repository.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewUserService(store, utils.NewTokenIssuer("test-secret", time.Hour)), store
}

func TestRegister_Consumer(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Email: " Jane@Example.com ", Password: "password1", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
	assert.Empty(t, resp.BusinessID)
	assert.NotEmpty(t, resp.Token)

	stored, err := store.Users.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.NotEqual(t, "password1", stored.PasswordHash)

	sub, err := svc.Tokens.ExtractIDFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, sub)
}

func TestRegister_PartnerCreatesBusiness(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email: "owner@studio.com", Password: "password1", FirstName: "Sam", LastName: "Owner",
		Role: models.RolePartner, BusinessName: "Flow Studio",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.BusinessID)

	biz, err := store.Businesses.Get(ctx, resp.BusinessID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, biz.OwnerID)
	assert.Equal(t, models.PlanBasic, biz.Plan)
	assert.Equal(t, "Flow Studio", biz.Name)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "password1", FirstName: "A", LastName: "B"}},
		{"short password", RegisterRequest{Email: "a@b.co", Password: "short", FirstName: "A", LastName: "B"}},
		{"missing name", RegisterRequest{Email: "a@b.co", Password: "password1", LastName: "B"}},
		{"bad role", RegisterRequest{Email: "a@b.co", Password: "password1", FirstName: "A", LastName: "B", Role: "admin"}},
		{"partner without business", RegisterRequest{Email: "a@b.co", Password: "password1", FirstName: "A", LastName: "B", Role: models.RolePartner}},
		{"bad plan", RegisterRequest{Email: "a@b.co", Password: "password1", FirstName: "A", LastName: "B", Role: models.RolePartner, BusinessName: "X", Plan: "gold"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			_, err := svc.Register(context.Background(), tt.req)
			assert.Equal(t, utils.KindValidation, utils.KindOf(err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	req := RegisterRequest{Email: "a@b.co", Password: "password1", FirstName: "A", LastName: "B"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	req.Email = "A@B.CO"
	_, err = svc.Register(context.Background(), req)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestAuthenticateUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterRequest{Email: "a@b.co", Password: "password1", FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	resp, err := svc.AuthenticateUser(ctx, "A@b.co", "password1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, resp.ID)

	_, err = svc.AuthenticateUser(ctx, "a@b.co", "wrong-password")
	assert.Equal(t, utils.KindUnauthenticated, utils.KindOf(err))

	_, err = svc.AuthenticateUser(ctx, "nobody@b.co", "password1")
	assert.Equal(t, utils.KindUnauthenticated, utils.KindOf(err))

	_, err = svc.AuthenticateUser(ctx, "", "")
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, RegisterRequest{Email: "race@example.com", Password: "password1", FirstName: "A", LastName: "B"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case utils.KindOf(err) == utils.KindConflict:
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 9, conflicts)

	users, err := store.Users.Find(ctx, repository.Where("email", repository.Eq, "race@example.com"))
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserIDForEmail(t *testing.T) {
	assert.Equal(t, UserIDForEmail("a@b.co"), UserIDForEmail("a@b.co"))
	assert.NotEqual(t, UserIDForEmail("a@b.co"), UserIDForEmail("c@b.co"))
}
