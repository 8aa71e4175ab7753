package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// bcrypt reads at most 72 bytes of a password.
const maxPasswordBytes = 72

// RegisterInput carries an already validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// DeleteAccount removes the user's profile and then the user.
	DeleteAccount(ctx context.Context, id string) error
}

type userService struct {
	store repository.Store
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(store repository.Store, bcryptCost int) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		store: store,
		cost:  bcryptCost,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" {
		return nil, &ValidationError{Field: "name", Msg: "Please enter your name"}
	}
	if email == "" {
		return nil, &ValidationError{Field: "email", Msg: "Please enter a valid email"}
	}
	if in.Password == "" {
		return nil, &ValidationError{Field: "password", Msg: "Please enter a valid password"}
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       GravatarURL(email),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// burn the same bcrypt time as a wrong password would
			_ = bcrypt.CompareHashAndPassword(s.dummy(), passwordBytes(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordBytes(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) DeleteAccount(ctx context.Context, id string) error {
	// TODO: remove the user's posts once posts are persisted.
	return s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Profiles().DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("remove profile: %w", err)
		}
		if err := tx.Users().Delete(ctx, id); err != nil {
			return fmt.Errorf("remove user: %w", err)
		}
		return nil
	})
}

func (s *userService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("devconnector-dummy-password"), s.cost)
	})
	return s.dummyHash
}

// passwordBytes truncates to the bcrypt input limit. 26 three-byte runes exceed it.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}
