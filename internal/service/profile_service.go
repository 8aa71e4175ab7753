package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

// ProfileInput is a validated profile submission. Skills is comma separated.
type ProfileInput struct {
	Status         string
	Skills         string
	Company        string
	Website        string
	Location       string
	Bio            string
	GithubUsername string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

// ProfileService manages developer profiles and joins in the owning user.
type ProfileService interface {
	Upsert(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error)
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
}

type profileService struct {
	store repository.Store
}

func NewProfileService(store repository.Store) ProfileService {
	return &profileService{store: store}
}

func (s *profileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error) {
	if strings.TrimSpace(in.Status) == "" {
		return nil, &ValidationError{Field: "status", Msg: "Status is required"}
	}
	skills := ParseSkills(in.Skills)
	if len(skills) == 0 {
		return nil, &ValidationError{Field: "skills", Msg: "Skills is required"}
	}

	owner, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.Profiles().Upsert(ctx, &domain.Profile{
		UserID:         owner.ID,
		Status:         in.Status,
		Skills:         skills,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Social: &domain.Social{
			Youtube:   in.Youtube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			Linkedin:  in.Linkedin,
			Instagram: in.Instagram,
		},
	})
	if err != nil {
		return nil, err
	}

	profile.User = owner.Summary()
	return profile, nil
}

func (s *profileService) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.Profiles().GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	owner, err := s.store.Users().GetByID(ctx, profile.UserID)
	switch {
	case err == nil:
		profile.User = owner.Summary()
	case errors.Is(err, domain.ErrNotFound):
		// orphaned profile, user stays nil
	default:
		return nil, fmt.Errorf("load profile owner: %w", err)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.store.Profiles().List(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	ids := make([]string, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].UserID
	}
	users, err := s.store.Users().ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profile owners: %w", err)
	}

	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range profiles {
		profiles[i].User = byID[profiles[i].UserID].Summary()
	}
	return profiles, nil
}

// ParseSkills splits comma separated input into trimmed, non-empty skills, keeping order.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
