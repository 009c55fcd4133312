package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/pkg/database"
	"github.com/agroflow/agroflow-backend/pkg/errors"
)

// SummaryRepository persists validation summaries. Every run is a new
// row; the history is the audit trail.
type SummaryRepository struct {
	db *database.DB
}

// NewSummaryRepository creates a new summary repository.
func NewSummaryRepository(db *database.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Save inserts a validation summary with its full result set.
func (r *SummaryRepository) Save(ctx context.Context, summary *domain.ValidationSummary) error {
	resultsJSON, err := json.Marshal(summary.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	query := `
		INSERT INTO validation_summaries
			(id, shipment_id, decision, critical_errors, errors, warnings, passed, results, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		uuid.New().String(),
		summary.ShipmentID,
		string(summary.Decision),
		summary.CriticalErrors,
		summary.Errors,
		summary.Warnings,
		summary.Passed,
		resultsJSON,
		summary.EvaluatedAt,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("save validation summary: %w", err)
	}
	return nil
}

// Latest returns the most recent validation summary for a shipment.
func (r *SummaryRepository) Latest(ctx context.Context, shipmentID string) (*domain.ValidationSummary, error) {
	query := `
		SELECT shipment_id, decision, critical_errors, errors, warnings, passed, results, evaluated_at
		FROM validation_summaries
		WHERE shipment_id = $1
		ORDER BY evaluated_at DESC
		LIMIT 1
	`

	var (
		summary     domain.ValidationSummary
		decision    string
		resultsJSON []byte
	)
	err := r.db.QueryRowxContext(ctx, query, shipmentID).Scan(
		&summary.ShipmentID, &decision, &summary.CriticalErrors,
		&summary.Errors, &summary.Warnings, &summary.Passed,
		&resultsJSON, &summary.EvaluatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("validation summary")
	}
	if err != nil {
		return nil, fmt.Errorf("load validation summary: %w", err)
	}

	summary.Decision = domain.Decision(decision)
	if err := json.Unmarshal(resultsJSON, &summary.Results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	// Rebuild the blocking/non-blocking views from the stored results
	for _, res := range summary.Results {
		if res.Passed {
			continue
		}
		switch res.Severity {
		case domain.SeverityCritical, domain.SeverityError:
			summary.Blocking = append(summary.Blocking, res)
		default:
			summary.NonBlocking = append(summary.NonBlocking, res)
		}
	}

	return &summary, nil
}
