package store

import (
	"context"
	"database/sql"

	"github.com/triageops/er-intake-api/internal/domain"
)

// UserStore defines the interface for staff account persistence.
type UserStore interface {
	// Create saves a new active account to the store and returns it with
	// its assigned ID. The password must already be hashed by the caller.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByID retrieves an account by its unique ID.
	// Returns ErrUserNotFound if the account does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves an account by its unique username.
	// Returns ErrUserNotFound if the account does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List retrieves all accounts, active and deactivated alike.
	List(ctx context.Context) ([]*domain.User, error)

	// UsernameExists reports whether an account with the given username
	// already exists.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// Deactivate soft-disables an account by clearing its active flag.
	// The account is never physically deleted.
	// Returns ErrUserNotFound if the account does not exist.
	Deactivate(ctx context.Context, id int64) error

	// WithTx returns a new store instance bound to the given transaction.
	// The transaction is created and managed by the caller, typically via
	// RunInTransaction.
	WithTx(tx *sql.Tx) UserStore

	// DB returns the underlying database connection, or nil when the
	// store is already bound to a transaction.
	DB() *sql.DB
}
