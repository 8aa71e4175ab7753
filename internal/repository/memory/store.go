// Package memory is a process-local repository.Store for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

type state struct {
	users    map[string]domain.User
	profiles map[string]domain.Profile // keyed by user id
}

func (s state) clone() state {
	c := state{
		users:    make(map[string]domain.User, len(s.users)),
		profiles: make(map[string]domain.Profile, len(s.profiles)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = cloneProfile(v)
	}
	return c
}

// Store keeps users and profiles in maps guarded by a mutex.
// A Store handed to a WithinTx callback already holds the write lock.
type Store struct {
	mu   *sync.RWMutex
	st   *state
	inTx bool
}

func NewStore() *Store {
	return &Store{
		mu: &sync.RWMutex{},
		st: &state{
			users:    make(map[string]domain.User),
			profiles: make(map[string]domain.Profile),
		},
	}
}

func (s *Store) Users() repository.UserRepository       { return (*userRepo)(s) }
func (s *Store) Profiles() repository.ProfileRepository { return (*profileRepo)(s) }

// WithinTx holds the write lock while fn runs and restores the previous
// state when fn fails. Other callers wait until the unit of work ends.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	tx := &Store{mu: s.mu, st: s.st, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.ErrInvalidID
	}
	return parsed.String(), nil
}

type userRepo Store

func (r *userRepo) Init(context.Context) error { return nil }

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	defer (*Store)(r).lock()()

	for _, existing := range r.st.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.st.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	defer (*Store)(r).rlock()()

	for _, user := range r.st.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer (*Store)(r).rlock()()

	user, ok := r.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	defer (*Store)(r).rlock()()

	var users []domain.User
	for _, id := range ids {
		if user, ok := r.st.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	defer (*Store)(r).lock()()
	delete(r.st.users, id)
	return nil
}

type profileRepo Store

func (r *profileRepo) Init(context.Context) error { return nil }

func (r *profileRepo) Upsert(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	userID, err := parseID(profile.UserID)
	if err != nil {
		return nil, err
	}
	defer (*Store)(r).lock()()

	if _, ok := r.st.users[userID]; !ok {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	next := cloneProfile(*profile)
	next.UserID = userID
	next.User = nil
	if next.Social.IsZero() {
		next.Social = nil
	}
	if existing, ok := r.st.profiles[userID]; ok {
		next.ID = existing.ID
		next.CreatedAt = existing.CreatedAt
	} else {
		next.ID = uuid.NewString()
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	r.st.profiles[userID] = next

	out := cloneProfile(next)
	return &out, nil
}

func (r *profileRepo) GetByUser(_ context.Context, userID string) (*domain.Profile, error) {
	userID, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	defer (*Store)(r).rlock()()

	profile, ok := r.st.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneProfile(profile)
	return &out, nil
}

func (r *profileRepo) List(context.Context) ([]domain.Profile, error) {
	defer (*Store)(r).rlock()()

	profiles := make([]domain.Profile, 0, len(r.st.profiles))
	for _, profile := range r.st.profiles {
		profiles = append(profiles, cloneProfile(profile))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (r *profileRepo) DeleteByUser(_ context.Context, userID string) error {
	userID, err := parseID(userID)
	if err != nil {
		return err
	}
	defer (*Store)(r).lock()()
	delete(r.st.profiles, userID)
	return nil
}

func cloneProfile(p domain.Profile) domain.Profile {
	if p.Skills != nil {
		p.Skills = append([]string(nil), p.Skills...)
	}
	if p.Social != nil {
		s := *p.Social
		p.Social = &s
	}
	return p
}
