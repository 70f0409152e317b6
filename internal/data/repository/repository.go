package repository

import (
	"errors"

	"dcms/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicate is returned when an insert or update violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned when a write targets a row that no longer exists.
var ErrNotFound = errors.New("record not found")

const pgUniqueViolation = "23505"

type Repository struct {
	User    UserRepository
	Article ArticleRepository
	Pending PendingStore
}

// NewRepository builds the database backed repositories. The pending store is
// chosen by the caller (memory or redis).
func NewRepository(db database.PgxIface, pending PendingStore, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Article: NewArticleRepository(db, log),
		Pending: pending,
	}
}

// mapPgErr translates driver errors into repository errors. nil stays nil.
func mapPgErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}
