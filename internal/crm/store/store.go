package store

import (
	"context"
	"errors"

	"github.com/unidesk/crmbot/internal/crm/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres if the deployment ever outgrows it) implement this. Sub-repos keep
// the surface tidy and let tests fake one concern at a time.
type Store interface {
	Users() Users
	Roles() Roles
	Statements() Statements
	Files() Files

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the store.
type Tx interface {
	Users() Users
	Roles() Roles
	Statements() Statements
	Files() Files
}

type Users interface {
	// GetUserByUsername is the login lookup. Roles come back in assignment
	// order.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user together with its role assignments.
	// Returns ErrAlreadyExists on a username collision.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, username string, newHash string) error

	// DeleteUserByUsername cascades to role assignments.
	DeleteUserByUsername(ctx context.Context, username string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	// GetRoleByName fetches one role; used when validating registration input.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListRoles returns all roles ordered by name.
	ListRoles(ctx context.Context) ([]domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error
}

type Statements interface {
	// GetStatementByID fetches one statement.
	GetStatementByID(ctx context.Context, id string) (domain.Statement, error)

	// CreateStatement inserts a new statement (status defaults to PENDING).
	CreateStatement(ctx context.Context, st domain.Statement) error

	// ListStatementsByStatus returns statements with the given status, oldest
	// first so operators work the backlog in order.
	ListStatementsByStatus(ctx context.Context, status domain.StatementStatus) ([]domain.Statement, error)

	// ListStatementsByStatusAndFaculty filters by both; empty faculty means
	// any faculty.
	ListStatementsByStatusAndFaculty(ctx context.Context, status domain.StatementStatus, faculty string) ([]domain.Statement, error)

	// UpdateStatementStatus moves a statement through its lifecycle.
	UpdateStatementStatus(ctx context.Context, id string, status domain.StatementStatus) error

	// DeleteStatementIfReady removes the statement only when its status is
	// READY; reports whether a row was deleted.
	DeleteStatementIfReady(ctx context.Context, id string) (bool, error)

	// SearchStatementsByName matches full_name substrings.
	SearchStatementsByName(ctx context.Context, name string) ([]domain.Statement, error)
}

type Files interface {
	// CreateFile stores the attachment metadata and blob in one row.
	CreateFile(ctx context.Context, info domain.FileInfo, data []byte) error

	// ListFilesByStatement returns attachment metadata for a statement.
	ListFilesByStatement(ctx context.Context, statementID string) ([]domain.FileInfo, error)

	// GetFileData returns the blob for a stored attachment.
	GetFileData(ctx context.Context, fileID string) (domain.FileInfo, []byte, error)
}
