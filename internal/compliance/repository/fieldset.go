// Package repository persists extracted field sets and validation
// summaries for audit. The in-memory stores remain the engine's working
// set; rows written here are the durable record.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/pkg/database"
)

// FieldSetRepository handles field set persistence.
type FieldSetRepository struct {
	db *database.DB
}

// NewFieldSetRepository creates a new field set repository.
func NewFieldSetRepository(db *database.DB) *FieldSetRepository {
	return &FieldSetRepository{db: db}
}

// Save upserts a field set keyed by document ID. Re-extraction replaces
// the previous row.
func (r *FieldSetRepository) Save(ctx context.Context, fs *domain.ExtractedFieldSet) error {
	fieldsJSON, err := json.Marshal(fs.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}

	var issueDate *time.Time
	if fs.HasIssueDate() {
		issueDate = &fs.IssueDate
	}

	query := `
		INSERT INTO extracted_field_sets
			(id, document_id, shipment_id, document_type, reference_number,
			 issue_date, extraction_confidence, needs_review, raw_text, fields, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (document_id) DO UPDATE SET
			document_type = EXCLUDED.document_type,
			reference_number = EXCLUDED.reference_number,
			issue_date = EXCLUDED.issue_date,
			extraction_confidence = EXCLUDED.extraction_confidence,
			needs_review = EXCLUDED.needs_review,
			raw_text = EXCLUDED.raw_text,
			fields = EXCLUDED.fields,
			extracted_at = EXCLUDED.extracted_at
	`

	_, err = r.db.ExecContext(ctx, query,
		uuid.New().String(),
		fs.DocumentID,
		fs.ShipmentID,
		string(fs.DocumentType),
		fs.ReferenceNumber,
		issueDate,
		fs.ExtractionConfidence,
		fs.NeedsReview,
		fs.RawText,
		fieldsJSON,
		fs.ExtractedAt,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return fmt.Errorf("save field set: %w", err)
	}
	return nil
}

// ListByShipment returns the persisted field sets for a shipment, ordered
// by document ID.
func (r *FieldSetRepository) ListByShipment(ctx context.Context, shipmentID string) ([]*domain.ExtractedFieldSet, error) {
	query := `
		SELECT document_id, shipment_id, document_type, reference_number,
		       issue_date, extraction_confidence, needs_review, raw_text, fields, extracted_at
		FROM extracted_field_sets
		WHERE shipment_id = $1
		ORDER BY document_id
	`

	rows, err := r.db.QueryxContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list field sets: %w", err)
	}
	defer rows.Close()

	var out []*domain.ExtractedFieldSet
	for rows.Next() {
		var (
			fs         domain.ExtractedFieldSet
			docType    string
			issueDate  *time.Time
			fieldsJSON []byte
		)
		if err := rows.Scan(
			&fs.DocumentID, &fs.ShipmentID, &docType, &fs.ReferenceNumber,
			&issueDate, &fs.ExtractionConfidence, &fs.NeedsReview, &fs.RawText,
			&fieldsJSON, &fs.ExtractedAt,
		); err != nil {
			return nil, err
		}

		fs.DocumentType = domain.DocumentType(docType)
		if issueDate != nil {
			fs.IssueDate = *issueDate
		}
		fields, err := decodeFields(fs.DocumentType, fieldsJSON)
		if err != nil {
			return nil, fmt.Errorf("decode fields for %s: %w", fs.DocumentID, err)
		}
		fs.Fields = fields

		out = append(out, &fs)
	}
	return out, rows.Err()
}

// decodeFields unmarshals the JSON column into the typed variant for the
// document type.
func decodeFields(docType domain.DocumentType, data []byte) (domain.DocumentFields, error) {
	switch docType {
	case domain.DocumentTypeBillOfLading:
		return decodeAs[domain.BillOfLadingFields](data)
	case domain.DocumentTypeCommercialInvoice:
		return decodeAs[domain.CommercialInvoiceFields](data)
	case domain.DocumentTypePackingList:
		return decodeAs[domain.PackingListFields](data)
	case domain.DocumentTypeCertificateOfOrigin:
		return decodeAs[domain.CertificateOfOriginFields](data)
	case domain.DocumentTypeEUTraces:
		return decodeAs[domain.EUTracesFields](data)
	case domain.DocumentTypeVeterinaryHealth:
		return decodeAs[domain.VeterinaryHealthFields](data)
	case domain.DocumentTypePhytosanitary:
		return decodeAs[domain.PhytosanitaryFields](data)
	case domain.DocumentTypeFumigation:
		return decodeAs[domain.FumigationFields](data)
	case domain.DocumentTypeExportDeclaration:
		return decodeAs[domain.ExportDeclarationFields](data)
	case domain.DocumentTypeQuality:
		return decodeAs[domain.QualityFields](data)
	case domain.DocumentTypeEUDRDueDiligence:
		return decodeAs[domain.EUDRDueDiligenceFields](data)
	case domain.DocumentTypeGeolocationData:
		return decodeAs[domain.GeolocationDataFields](data)
	case domain.DocumentTypeDeforestationDeclaration:
		return decodeAs[domain.DeforestationDeclarationFields](data)
	default:
		return domain.OtherFields{}, nil
	}
}

func decodeAs[T domain.DocumentFields](data []byte) (domain.DocumentFields, error) {
	var f T
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}
