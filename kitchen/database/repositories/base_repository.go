package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/kitchen-service/kitchen/kitchen/config"
)

// BaseRepository provides common repository functionality
type BaseRepository struct {
	db             *bun.DB
	defaultTimeout time.Duration
}

func NewBaseRepository(db *bun.DB) *BaseRepository {
	return &BaseRepository{
		db:             db,
		defaultTimeout: config.DefaultQueryTimeout,
	}
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity not found error
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ConflictError represents a unique constraint violation.
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %v already exists", ce.Entity, ce.Field, ce.Value)
}

// ReferenceError is a write pointing at a row that no longer exists.
// Constraint names the violated foreign key, e.g. dish_cooks_cook_id_fkey.
type ReferenceError struct {
	Entity     string
	Constraint string
}

func (re *ReferenceError) Error() string {
	return fmt.Sprintf("%s references a missing row (%s)", re.Entity, re.Constraint)
}

func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.defaultTimeout)
}

// HandleError standardizes error handling across repositories
func (br *BaseRepository) HandleError(operation, entity string, err error) error {
	return br.HandleErrorWithID(operation, entity, "unknown", err)
}

func (br *BaseRepository) HandleErrorWithID(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// HandleWriteError maps unique violations on field to a ConflictError and
// foreign key violations to a ReferenceError.
func (br *BaseRepository) HandleWriteError(operation, entity, field string, value interface{}, err error) error {
	switch code, constraint := pgErrorFields(err); code {
	case pgerrcode.UniqueViolation:
		return &ConflictError{Entity: entity, Field: field, Value: value}
	case pgerrcode.ForeignKeyViolation:
		return &ReferenceError{Entity: entity, Constraint: constraint}
	}
	return br.HandleError(operation, entity, err)
}

// Transaction executes a function within a database transaction
func (br *BaseRepository) Transaction(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	return br.db.RunInTx(timeoutCtx, nil, fn)
}

// Count returns the count of records matching the query
func (br *BaseRepository) Count(ctx context.Context, entity string, query *bun.SelectQuery) (int, error) {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	count, err := query.Count(timeoutCtx)
	return count, br.HandleError("count", entity, err)
}

// requireAffected turns a write that touched no rows into a NotFoundError.
func (br *BaseRepository) requireAffected(entity string, id int64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return br.HandleErrorWithID("rows_affected", entity, id, err)
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// pgErrorFields returns the SQLSTATE and constraint name of a server error.
func pgErrorFields(err error) (code, constraint string) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C'), pgErr.Field('n')
	}
	return "", ""
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsInvalidReference(err error) bool {
	var re *ReferenceError
	return errors.As(err, &re)
}

func IsRepositoryError(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re)
}
