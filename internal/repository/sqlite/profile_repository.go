package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"devconnector/internal/domain"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
	status TEXT NOT NULL,
	skills TEXT NOT NULL DEFAULT '[]',
	company TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	github_username TEXT NOT NULL DEFAULT '',
	social TEXT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const profileColumns = `id, user_id, status, skills, company, website, location, bio, github_username, social, created_at, updated_at`

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// socialColumn is the JSON shape of the social column.
type socialColumn struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type ProfileRepository struct {
	q querier
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	userID, err := parseID(profile.UserID)
	if err != nil {
		return nil, err
	}

	skills, err := json.Marshal(nonNil(profile.Skills))
	if err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	var social sql.NullString
	if !profile.Social.IsZero() {
		raw, err := json.Marshal(socialColumn(*profile.Social))
		if err != nil {
			return nil, fmt.Errorf("encode social: %w", err)
		}
		social = sql.NullString{String: string(raw), Valid: true}
	}

	now := time.Now().UTC()
	_, err = r.q.ExecContext(ctx, `
INSERT INTO profiles (`+profileColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	status = excluded.status,
	skills = excluded.skills,
	company = excluded.company,
	website = excluded.website,
	location = excluded.location,
	bio = excluded.bio,
	github_username = excluded.github_username,
	social = excluded.social,
	updated_at = excluded.updated_at`,
		uuid.NewString(),
		userID,
		profile.Status,
		string(skills),
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.GithubUsername,
		social,
		now,
		now,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "foreign key") {
			return nil, fmt.Errorf("upsert profile: owner %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return r.GetByUser(ctx, userID)
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	userID, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	row := r.q.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)
	return scanProfile(row)
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID string) error {
	userID, err := parseID(userID)
	if err != nil {
		return err
	}
	if _, err := r.q.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (*domain.Profile, error) {
	var (
		profile domain.Profile
		skills  string
		social  sql.NullString
	)
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Status,
		&skills,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Bio,
		&profile.GithubUsername,
		&social,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if err := json.Unmarshal([]byte(skills), &profile.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if social.Valid && social.String != "" {
		var col socialColumn
		if err := json.Unmarshal([]byte(social.String), &col); err != nil {
			return nil, fmt.Errorf("decode social: %w", err)
		}
		s := domain.Social(col)
		profile.Social = &s
	}
	return &profile, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
