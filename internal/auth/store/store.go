package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/chatauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Sub-repositories hang off it so a transaction can hand out the same repos
// and nobody can accidentally nest transactions.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id (the provider subject id).
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. ErrAlreadyExists if the id or email is taken.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdateUser applies a partial update, bumps updated_at and returns the
	// stored row. ErrNotFound if no such user.
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error)

	// CountUsers returns the number of local users.
	CountUsers(ctx context.Context) (int, error)
}
