package services

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	Utils "github.com/i-amankitsingh/chai-backend/Utils"
)

// ClassifyError converts database errors into the application taxonomy so
// handlers never inspect driver errors themselves
func ClassifyError(err error, operation string) *Utils.AppError {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return Utils.WrapError(err, Utils.CodeNotFound, operation+": no matching record")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Utils.WrapError(err, Utils.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return Utils.WrapError(err, Utils.CodeConflict, operation+": record already exists")

	case "23503": // FOREIGN_KEY_VIOLATION
		// a weak reference pointed at a document that does not exist
		return Utils.WrapError(err, Utils.CodeNotFound, operation+": referenced resource does not exist")

	case "23502": // NOT_NULL_VIOLATION
		return Utils.WrapError(err, Utils.CodeValidation, operation+": required field is missing")

	case "23514": // CHECK_VIOLATION
		return Utils.WrapError(err, Utils.CodeValidation, operation+": data violates check constraint")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return Utils.WrapError(err, Utils.CodeInternal, operation+": database connection error")

	default:
		return Utils.WrapError(err, Utils.CodeInternal, operation+" (PostgreSQL code: "+pgErr.Code+")")
	}
}
