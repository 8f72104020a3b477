package catalog

import (
	"context"
	"fmt"
	"testing"

	"pulsefit/database/repository"
	"pulsefit/models"
	"pulsefit/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, plan models.Plan) (*DefaultCatalogService, *repository.Store) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Users.Create(ctx, models.User{ID: "partner", Role: models.RolePartner, BusinessRef: "biz"}))
	require.NoError(t, store.Users.Create(ctx, models.User{ID: "rival", Role: models.RolePartner, BusinessRef: "rival-biz"}))
	require.NoError(t, store.Users.Create(ctx, models.User{ID: "consumer", Role: models.RoleUser}))
	require.NoError(t, store.Businesses.Create(ctx, models.Business{ID: "biz", OwnerID: "partner", Plan: plan, StudioIDs: []string{}}))
	require.NoError(t, store.Businesses.Create(ctx, models.Business{ID: "rival-biz", OwnerID: "rival", Plan: models.PlanPremium, StudioIDs: []string{}}))
	return NewCatalogService(store), store
}

func TestCreateStudio_RespectsPlanLimit(t *testing.T) {
	svc, store := newService(t, models.PlanBasic)
	ctx := context.Background()

	studio, err := svc.CreateStudio(ctx, "partner", StudioInput{Name: "Main", Address: "1 High St"})
	require.NoError(t, err)
	assert.Equal(t, "biz", studio.BusinessID)

	biz, err := store.Businesses.Get(ctx, "biz")
	require.NoError(t, err)
	assert.Equal(t, []string{studio.ID}, biz.StudioIDs)

	_, err = svc.CreateStudio(ctx, "partner", StudioInput{Name: "Second"})
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestCreateStudio_Errors(t *testing.T) {
	svc, _ := newService(t, models.PlanBasic)

	_, err := svc.CreateStudio(context.Background(), "partner", StudioInput{})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.CreateStudio(context.Background(), "consumer", StudioInput{Name: "X"})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
}

func TestCreateClass_InheritsBusinessFromStudio(t *testing.T) {
	svc, _ := newService(t, models.PlanPremium)
	ctx := context.Background()
	studio, err := svc.CreateStudio(ctx, "partner", StudioInput{Name: "Main"})
	require.NoError(t, err)

	class, err := svc.CreateClass(ctx, "partner", studio.ID, ClassInput{Name: "Yoga", Capacity: 12, Price: 15, Schedule: "Mon 18:00"})
	require.NoError(t, err)
	assert.Equal(t, studio.BusinessID, class.BusinessID)
	assert.Equal(t, studio.ID, class.StudioID)

	got, err := svc.GetClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Capacity)

	classes, err := svc.ListStudioClasses(ctx, studio.ID)
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestCreateClass_Errors(t *testing.T) {
	svc, _ := newService(t, models.PlanPremium)
	ctx := context.Background()
	studio, err := svc.CreateStudio(ctx, "partner", StudioInput{Name: "Main"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   string
		studioID string
		in       ClassInput
		kind     utils.ErrorKind
	}{
		{"zero capacity", "partner", studio.ID, ClassInput{Name: "A"}, utils.KindValidation},
		{"negative price", "partner", studio.ID, ClassInput{Name: "A", Capacity: 1, Price: -1}, utils.KindValidation},
		{"missing name", "partner", studio.ID, ClassInput{Capacity: 1}, utils.KindValidation},
		{"foreign studio", "rival", studio.ID, ClassInput{Name: "A", Capacity: 1}, utils.KindForbidden},
		{"unknown studio", "partner", "nope", ClassInput{Name: "A", Capacity: 1}, utils.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClass(ctx, tt.caller, tt.studioID, tt.in)
			assert.Equal(t, tt.kind, utils.KindOf(err))
		})
	}
}

func TestCreateClass_PlanLimit(t *testing.T) {
	svc, _ := newService(t, models.PlanBasic)
	ctx := context.Background()
	studio, err := svc.CreateStudio(ctx, "partner", StudioInput{Name: "Main"})
	require.NoError(t, err)

	limit := models.PlanBasic.Limits().MaxClasses
	for i := 0; i < limit; i++ {
		_, err := svc.CreateClass(ctx, "partner", studio.ID, ClassInput{Name: fmt.Sprintf("C%d", i), Capacity: 5})
		require.NoError(t, err)
	}
	_, err = svc.CreateClass(ctx, "partner", studio.ID, ClassInput{Name: "One too many", Capacity: 5})
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestPublicReads_NotFound(t *testing.T) {
	svc, _ := newService(t, models.PlanBasic)

	_, err := svc.GetClass(context.Background(), "nope")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
	_, err = svc.ListStudioClasses(context.Background(), "nope")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}
