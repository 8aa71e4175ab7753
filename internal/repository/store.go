package repository

import "context"

// Store groups the repositories of one backend behind a shared connection.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	// WithinTx runs fn with repositories bound to a single unit of work.
	// Backends without multi-document transactions run the steps in order.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Init creates tables, collections and indexes for every repository.
func Init(ctx context.Context, s Store) error {
	if err := s.Users().Init(ctx); err != nil {
		return err
	}
	return s.Profiles().Init(ctx)
}
