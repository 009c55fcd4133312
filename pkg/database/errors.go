package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/agroflow/agroflow-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "document_type_valid"):
		return errors.Validation(map[string]string{
			"document_type": "must be a known document type",
		})

	case strings.Contains(constraint, "decision_valid"):
		return errors.Validation(map[string]string{
			"decision": "must be one of: APPROVE, HOLD, REJECT",
		})

	case strings.Contains(constraint, "confidence_range"):
		return errors.Validation(map[string]string{
			"extraction_confidence": "must be between 0.0 and 1.0",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "document_id"):
		return "a field set for this document already exists"
	case strings.Contains(constraint, "reference_number"):
		return "a document with this reference number already exists"
	default:
		return "a record with these values already exists"
	}
}
