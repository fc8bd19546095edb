package repositorycache

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-productivity/store"
)

// Text codes attached to the errors returned by repositories.
const (
	TextCodeNotFound     = "NOT_FOUND"
	TextCodeValidation   = "VALIDATION_FAILED"
	TextCodeConflict     = "CONFLICT"
	TextCodeStoreFailure = "STORE_FAILURE"
)

// NotFound reports that id does not resolve to a record visible to the caller.
func NotFound(entity, id string) *goerrors.Error {
	return goerrors.New(fmt.Sprintf("%s not found", entity), goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound).
		WithMetadata(map[string]any{"entity": entity, "id": id})
}

// ValidationFailed converts an ozzo-validation error into a validation error.
func ValidationFailed(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var e *goerrors.Error
	if errors.As(err, &e) && e.Category == goerrors.CategoryValidation {
		return e
	}
	return goerrors.FromOzzoValidation(err, "validation failed").WithTextCode(TextCodeValidation)
}

// Invalid builds a validation error for a single field.
func Invalid(field, message string) *goerrors.Error {
	return goerrors.NewValidation("validation failed", goerrors.FieldError{Field: field, Message: message}).
		WithTextCode(TextCodeValidation)
}

// Conflict reports an operation refused because of the state of related records.
func Conflict(message string, metadata map[string]any) *goerrors.Error {
	err := goerrors.New(message, goerrors.CategoryConflict).WithTextCode(TextCodeConflict)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

// IsConflict reports whether err carries the conflict category.
func IsConflict(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryConflict)
}

// failure translates a store error. Store sentinels keep their meaning, anything
// else is logged with context and replaced by a generic failure.
func (r *Repository[T, S]) failure(op, id, owner string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFound(r.cfg.Entity, id)
	case errors.Is(err, store.ErrConflict):
		return Conflict(fmt.Sprintf("%s %s conflicts with existing data", op, r.cfg.Entity), map[string]any{
			"op":     op,
			"entity": r.cfg.Entity,
		})
	}

	r.logger.Error().
		Err(err).
		Str("table", r.store.Table()).
		Str("op", op).
		Str("id", id).
		Str("owner", owner).
		Msg("store operation failed")

	return goerrors.New(fmt.Sprintf("%s %s failed", op, r.cfg.Entity), goerrors.CategoryExternal).
		WithTextCode(TextCodeStoreFailure).
		WithMetadata(map[string]any{"op": op, "entity": r.cfg.Entity})
}
