package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"devconnector/internal/domain"
)

func TestParseID(t *testing.T) {
	oid := bson.NewObjectID()

	got, err := parseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	_, err = parseID("123")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestProfileDocument_ToDomain(t *testing.T) {
	now := time.Now().UTC()
	doc := profileDocument{
		ID:        bson.NewObjectID(),
		User:      bson.NewObjectID(),
		Status:    "Developer",
		Skills:    []string{"go", "sql"},
		Company:   "Acme",
		Social:    &socialDocument{Youtube: "yt"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	profile := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), profile.ID)
	assert.Equal(t, doc.User.Hex(), profile.UserID)
	assert.Equal(t, []string{"go", "sql"}, profile.Skills)
	require.NotNil(t, profile.Social)
	assert.Equal(t, "yt", profile.Social.Youtube)
	assert.Empty(t, profile.Social.Twitter)

	doc.Social = nil
	assert.Nil(t, doc.toDomain().Social)
}

func TestUserDocument_ToDomain(t *testing.T) {
	doc := userDocument{ID: bson.NewObjectID(), Name: "A", Email: "a@x.com", Password: "h", Avatar: "av"}
	user := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), user.ID)
	assert.Equal(t, "h", user.PasswordHash)
	assert.Equal(t, "av", user.Avatar)
}
