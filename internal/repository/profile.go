package repository

import (
	"context"

	"devconnector/internal/domain"
)

// ProfileRepository manages developer profiles, at most one per user.
type ProfileRepository interface {
	Init(ctx context.Context) error
	// Upsert replaces the user's profile if present, otherwise inserts it.
	// ID and CreatedAt of an existing profile are preserved.
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	DeleteByUser(ctx context.Context, userID string) error
}
