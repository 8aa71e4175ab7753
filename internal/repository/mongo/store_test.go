package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

// These tests need a live server. DEVCONNECTOR_TEST_MONGO_URI points at it;
// DEVCONNECTOR_TEST_MONGO_TRANSACTIONS=true additionally runs the session
// path, which requires a replica set.
func newTestStore(t *testing.T, transactions bool) *Store {
	t.Helper()
	uri := os.Getenv("DEVCONNECTOR_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("DEVCONNECTOR_TEST_MONGO_URI not set; skipping mongo integration test")
	}
	if transactions && os.Getenv("DEVCONNECTOR_TEST_MONGO_TRANSACTIONS") != "true" {
		t.Skip("DEVCONNECTOR_TEST_MONGO_TRANSACTIONS not set; skipping transactional test")
	}

	ctx := context.Background()
	store, err := Connect(ctx, Options{
		URI:            uri,
		Database:       "devconnector_test_" + bson.NewObjectID().Hex(),
		Transactions:   transactions,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.db.Drop(context.Background())
		_ = store.Close(context.Background())
	})
	require.NoError(t, repository.Init(ctx, store))
	return store
}

func createUser(t *testing.T, store *Store, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "A", Email: email, PasswordHash: "hash", Avatar: "//avatar"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	user := createUser(t, store, "a@x.com")
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := store.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "//avatar", byID.Avatar)

	_, err = store.Users().GetByID(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Users().GetByID(ctx, "not-a-key")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := newTestStore(t, false)
	createUser(t, store, "a@x.com")

	err := store.Users().Create(context.Background(), &domain.User{Name: "B", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserRepository_ListByIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)
	a := createUser(t, store, "a@x.com")
	b := createUser(t, store, "b@x.com")

	users, err := store.Users().ListByIDs(ctx, []string{a.ID, "garbage", b.ID})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestProfileRepository_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)
	user := createUser(t, store, "a@x.com")

	first, err := store.Profiles().Upsert(ctx, &domain.Profile{
		UserID:  user.ID,
		Status:  "Developer",
		Skills:  []string{"go"},
		Company: "Acme",
		Bio:     "hi",
		Social:  &domain.Social{Twitter: "https://twitter.com/a"},
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, first.UserID)
	assert.Equal(t, "Acme", first.Company)
	require.NotNil(t, first.Social)
	assert.Equal(t, "https://twitter.com/a", first.Social.Twitter)

	second, err := store.Profiles().Upsert(ctx, &domain.Profile{
		UserID: user.ID,
		Status: "Senior Developer",
		Skills: []string{"js", "node", "sql"},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, "Senior Developer", second.Status)
	assert.Equal(t, []string{"js", "node", "sql"}, second.Skills)
	assert.Empty(t, second.Company)
	assert.Empty(t, second.Bio)
	assert.Nil(t, second.Social)

	stored, err := store.Profiles().GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, stored.ID)
	assert.Nil(t, stored.Social)

	all, err := store.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testWithinTxDeletesBoth(t *testing.T, store *Store) {
	ctx := context.Background()
	user := createUser(t, store, "a@x.com")
	_, err := store.Profiles().Upsert(ctx, &domain.Profile{UserID: user.ID, Status: "Dev", Skills: []string{"go"}})
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Profiles().DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, user.ID)
	})
	require.NoError(t, err)

	_, err = store.Users().GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Profiles().GetByUser(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WithinTxDeletesBoth(t *testing.T) {
	testWithinTxDeletesBoth(t, newTestStore(t, false))
}

func TestStore_WithinTxDeletesBothInSession(t *testing.T) {
	testWithinTxDeletesBoth(t, newTestStore(t, true))
}

func TestStore_WithinTxRollsBackInSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, true)
	user := createUser(t, store, "a@x.com")
	_, err := store.Profiles().Upsert(ctx, &domain.Profile{UserID: user.ID, Status: "Dev", Skills: []string{"go"}})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Profiles().DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	profile, err := store.Profiles().GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", profile.Status)
}
