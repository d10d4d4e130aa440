package database

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"
	apperrors "github.com/zatekoja/mechanicfinder/pkg/errors"
)

// integrityViolationClass is the SQLSTATE class for check, unique, foreign
// key and not-null violations.
const integrityViolationClass = "23"

// classify converts a driver error into an AppError. Constraint violations
// become CONSTRAINT errors naming the violated constraint, context expiry
// becomes an internal timeout and anything else is internal.
func classify(ctx context.Context, message string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code.Class() == integrityViolationClass {
		msg := message
		if pqErr.Constraint != "" {
			msg = message + ": violates " + pqErr.Constraint
		}
		return apperrors.NewConstraintError(msg, err)
	}

	if ctxErr := apperrors.FromContext(ctx, message); ctxErr != nil {
		return ctxErr
	}

	return apperrors.NewInternalError(message, err)
}

// notFoundOr maps sql.ErrNoRows to a NotFound error and classifies the rest.
func notFoundOr(ctx context.Context, notFound, message string, err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(notFound)
	}
	return classify(ctx, message, err)
}

// requireAffected returns a NotFound error when an update touched no rows.
func requireAffected(ctx context.Context, res sql.Result, notFound, message string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(ctx, message, err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(notFound)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
