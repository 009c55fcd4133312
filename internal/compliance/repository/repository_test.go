package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/repository"
	"github.com/agroflow/agroflow-backend/pkg/testutil"
)

func TestFieldSetRepository_Save(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewFieldSetRepository(mockDB.DB)

	fs := &domain.ExtractedFieldSet{
		DocumentID:           "doc-1",
		ShipmentID:           "ship-1",
		DocumentType:         domain.DocumentTypeBillOfLading,
		ReferenceNumber:      "HLCUHAM250812345",
		IssueDate:            time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		ExtractionConfidence: 0.95,
		RawText:              "BILL OF LADING ...",
		Fields: domain.BillOfLadingFields{
			Shipper:   "Hanseatic Cocoa Trading GmbH",
			Consignee: "Amsterdam Cacao BV",
		},
		ExtractedAt: time.Now(),
	}

	mockDB.ExpectExec("INSERT INTO extracted_field_sets").
		WithArgs(
			testutil.AnyUUID{},
			fs.DocumentID,
			fs.ShipmentID,
			string(fs.DocumentType),
			fs.ReferenceNumber,
			testutil.AnyTime{},
			fs.ExtractionConfidence,
			fs.NeedsReview,
			fs.RawText,
			sqlmock.AnyArg(),
			testutil.AnyTime{},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), fs)
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestFieldSetRepository_ListByShipment(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewFieldSetRepository(mockDB.DB)

	fieldsJSON, _ := json.Marshal(domain.PackingListFields{
		ContainerNumbers: []domain.ContainerNumber{{Number: "MSKU1234565", Valid: true}},
		PackageCount:     400,
		GrossWeight:      24800,
	})

	issueDate := time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC)
	rows := testutil.MockRows(
		"document_id", "shipment_id", "document_type", "reference_number",
		"issue_date", "extraction_confidence", "needs_review", "raw_text", "fields", "extracted_at",
	).AddRow(
		"doc-2", "ship-1", "packing_list", "PL-2026-0815",
		issueDate, 0.85, false, "PACKING LIST ...", fieldsJSON, time.Now(),
	)

	mockDB.ExpectQuery("SELECT document_id, shipment_id, document_type").
		WithArgs("ship-1").
		WillReturnRows(rows)

	fieldSets, err := repo.ListByShipment(context.Background(), "ship-1")
	require.NoError(t, err)
	require.Len(t, fieldSets, 1)

	fs := fieldSets[0]
	assert.Equal(t, domain.DocumentTypePackingList, fs.DocumentType)
	assert.Equal(t, "PL-2026-0815", fs.ReferenceNumber)
	assert.True(t, fs.IssueDate.Equal(issueDate))

	pl, ok := fs.Fields.(domain.PackingListFields)
	require.True(t, ok, "fields must decode to the typed variant")
	assert.Equal(t, 400, pl.PackageCount)
	assert.Equal(t, 24800.0, pl.GrossWeight)
	require.Len(t, pl.ContainerNumbers, 1)
	assert.True(t, pl.ContainerNumbers[0].Valid)

	mockDB.ExpectationsWereMet(t)
}

func TestSummaryRepository_Save(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewSummaryRepository(mockDB.DB)

	summary := domain.Summarize("ship-1", []domain.RuleResult{
		{RuleID: "PRES_001", Passed: true, Severity: domain.SeverityInfo},
		{RuleID: "XDOC_002", Passed: false, Severity: domain.SeverityWarning, Message: "weight deviation"},
	}, time.Now())

	mockDB.ExpectExec("INSERT INTO validation_summaries").
		WithArgs(
			testutil.AnyUUID{},
			summary.ShipmentID,
			string(summary.Decision),
			summary.CriticalErrors,
			summary.Errors,
			summary.Warnings,
			summary.Passed,
			sqlmock.AnyArg(),
			testutil.AnyTime{},
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), summary)
	require.NoError(t, err)
	mockDB.ExpectationsWereMet(t)
}

func TestSummaryRepository_Latest(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewSummaryRepository(mockDB.DB)

	results := []domain.RuleResult{
		{RuleID: "CONT_001", Passed: false, Severity: domain.SeverityError, Message: "placeholder party name"},
		{RuleID: "PRES_001", Passed: true, Severity: domain.SeverityInfo},
	}
	resultsJSON, _ := json.Marshal(results)

	rows := testutil.MockRows(
		"shipment_id", "decision", "critical_errors", "errors", "warnings", "passed", "results", "evaluated_at",
	).AddRow("ship-1", "REJECT", 0, 1, 0, 1, resultsJSON, time.Now())

	mockDB.ExpectQuery("SELECT shipment_id, decision").
		WithArgs("ship-1").
		WillReturnRows(rows)

	summary, err := repo.Latest(context.Background(), "ship-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionReject, summary.Decision)
	require.Len(t, summary.Results, 2)
	require.Len(t, summary.Blocking, 1)
	assert.Equal(t, "CONT_001", summary.Blocking[0].RuleID)

	mockDB.ExpectationsWereMet(t)
}

func TestSummaryRepository_Latest_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	repo := repository.NewSummaryRepository(mockDB.DB)

	mockDB.ExpectQuery("SELECT shipment_id, decision").
		WithArgs("ship-404").
		WillReturnRows(testutil.MockRows(
			"shipment_id", "decision", "critical_errors", "errors", "warnings", "passed", "results", "evaluated_at",
		))

	_, err := repo.Latest(context.Background(), "ship-404")
	assert.Error(t, err)
}
