package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devconnector/internal/domain"
)

type socialDocument struct {
	Youtube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type profileDocument struct {
	ID             bson.ObjectID   `bson:"_id,omitempty"`
	User           bson.ObjectID   `bson:"user"`
	Status         string          `bson:"status"`
	Skills         []string        `bson:"skills"`
	Company        string          `bson:"company,omitempty"`
	Website        string          `bson:"website,omitempty"`
	Location       string          `bson:"location,omitempty"`
	Bio            string          `bson:"bio,omitempty"`
	GithubUsername string          `bson:"githubusername,omitempty"`
	Social         *socialDocument `bson:"social,omitempty"`
	CreatedAt      time.Time       `bson:"date"`
	UpdatedAt      time.Time       `bson:"updated"`
}

func (d profileDocument) toDomain() domain.Profile {
	profile := domain.Profile{
		ID:             d.ID.Hex(),
		UserID:         d.User.Hex(),
		Status:         d.Status,
		Skills:         d.Skills,
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		GithubUsername: d.GithubUsername,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Social != nil {
		s := domain.Social(*d.Social)
		profile.Social = &s
	}
	return profile
}

type ProfileRepository struct {
	coll *mongo.Collection
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create profiles user index: %w", err)
	}
	return nil
}

// Upsert replaces every mutable field; optional fields left empty are unset.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	owner, err := parseID(profile.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":  profile.Status,
		"skills":  nonNil(profile.Skills),
		"updated": now,
	}
	unset := bson.M{}
	optional := map[string]string{
		"company":        profile.Company,
		"website":        profile.Website,
		"location":       profile.Location,
		"bio":            profile.Bio,
		"githubusername": profile.GithubUsername,
	}
	for field, value := range optional {
		if value == "" {
			unset[field] = ""
		} else {
			set[field] = value
		}
	}
	if profile.Social.IsZero() {
		unset["social"] = ""
	} else {
		set["social"] = socialDocument(*profile.Social)
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": bson.NewObjectID(), "date": now},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var doc profileDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": owner},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	owner, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	var doc profileDocument
	if err := r.coll.FindOne(ctx, bson.M{"user": owner}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("profile: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	profile := doc.toDomain()
	return &profile, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]domain.Profile, len(docs))
	for i := range docs {
		profiles[i] = docs[i].toDomain()
	}
	return profiles, nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	owner, err := parseID(userID)
	if err != nil {
		return err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": owner}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
