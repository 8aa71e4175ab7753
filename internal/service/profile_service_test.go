package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/domain"
	"devconnector/internal/repository/memory"
)

func TestParseSkills(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"Trims", "js, node , sql", []string{"js", "node", "sql"}},
		{"Single", "go", []string{"go"}},
		{"Drops Empty", "a,, b ,", []string{"a", "b"}},
		{"Only Separators", " , ,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkills(tt.raw))
		})
	}
}

func newProfileFixture(t *testing.T) (ProfileService, *domain.User, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	user, err := NewUserService(store, bcrypt.MinCost).Register(context.Background(),
		RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	return NewProfileService(store), user, store
}

func TestProfileUpsert_InsertThenReplace(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newProfileFixture(t)

	first, err := svc.Upsert(ctx, user.ID, ProfileInput{
		Status:  "Developer",
		Skills:  "go, sql",
		Company: "Acme",
		Twitter: "https://twitter.com/a",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, first.Skills)
	require.NotNil(t, first.Social)
	assert.Equal(t, "https://twitter.com/a", first.Social.Twitter)
	require.NotNil(t, first.User)
	assert.Equal(t, "A", first.User.Name)

	second, err := svc.Upsert(ctx, user.ID, ProfileInput{Status: "Lead", Skills: "js, node , sql"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Lead", second.Status)
	assert.Equal(t, []string{"js", "node", "sql"}, second.Skills)
	assert.Empty(t, second.Company)
	assert.Nil(t, second.Social)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Lead", all[0].Status)
	require.NotNil(t, all[0].User)
	assert.Equal(t, user.Avatar, all[0].User.Avatar)
}

func TestProfileUpsert_Errors(t *testing.T) {
	ctx := context.Background()
	svc, user, _ := newProfileFixture(t)

	var verr *ValidationError
	_, err := svc.Upsert(ctx, user.ID, ProfileInput{Status: "  ", Skills: "go"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
	_, err = svc.Upsert(ctx, user.ID, ProfileInput{Status: "Dev", Skills: " , "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "skills", verr.Field)
	_, err = svc.Upsert(ctx, "6f1c1f5e-8a34-4b3f-9a4e-2f0d3f3a0b11", ProfileInput{Status: "Dev", Skills: "go"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileGetByUser(t *testing.T) {
	ctx := context.Background()
	svc, user, store := newProfileFixture(t)

	_, err := svc.GetByUser(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetByUser(ctx, "bad-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Upsert(ctx, user.ID, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	profile, err := svc.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.User)
	assert.Equal(t, user.ID, profile.User.ID)

	// owner gone, profile left behind
	require.NoError(t, store.Users().Delete(ctx, user.ID))
	profile, err = svc.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.User)
}
