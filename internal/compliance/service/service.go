// Package service orchestrates the compliance pipeline: classify →
// extract → accumulate → validate. Extraction runs asynchronously behind
// polled jobs; validation is synchronous over the accumulated field sets.
package service

import (
	"context"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/classifier"
	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/eudr"
	"github.com/agroflow/agroflow-backend/internal/compliance/extract"
	"github.com/agroflow/agroflow-backend/internal/compliance/rules"
	"github.com/agroflow/agroflow-backend/internal/compliance/storage"
	"github.com/agroflow/agroflow-backend/pkg/config"
	"github.com/agroflow/agroflow-backend/pkg/errors"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

// DocumentInput is one document's OCR output submitted for extraction.
// DeclaredType is the uploader's claim; classification decides the actual
// type and a mismatch is logged, not trusted.
type DocumentInput struct {
	DocumentID   string
	DeclaredType domain.DocumentType
	RawText      string
}

// FieldSetWriter persists extracted field sets.
type FieldSetWriter interface {
	Save(ctx context.Context, fs *domain.ExtractedFieldSet) error
}

// SummaryStore persists validation summaries and serves the latest one.
type SummaryStore interface {
	Save(ctx context.Context, summary *domain.ValidationSummary) error
	Latest(ctx context.Context, shipmentID string) (*domain.ValidationSummary, error)
}

// EventPublisher publishes pipeline events. Implementations are
// best-effort and never return errors into the pipeline.
type EventPublisher interface {
	PublishDocumentExtracted(ctx context.Context, fs *domain.ExtractedFieldSet)
	PublishShipmentValidated(ctx context.Context, summary *domain.ValidationSummary)
	PublishDueDiligenceIssued(ctx context.Context, stmt *domain.DueDiligenceStatement)
}

// Service wires the classifier, extractor and rule engine over the
// in-memory stores, with persistence and events on the side.
type Service struct {
	classifier *classifier.Classifier
	extractor  *extract.Extractor
	engine     *rules.Engine
	jobs       *storage.JobStore
	fieldSets  *storage.FieldSetStore
	repo       FieldSetWriter
	summaries  SummaryStore
	publisher  EventPublisher
	cfg        *config.EngineConfig
	log        *logger.Logger
}

// NewService creates the compliance service.
func NewService(
	cls *classifier.Classifier,
	ext *extract.Extractor,
	engine *rules.Engine,
	jobs *storage.JobStore,
	fieldSets *storage.FieldSetStore,
	repo FieldSetWriter,
	summaries SummaryStore,
	publisher EventPublisher,
	cfg *config.EngineConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		classifier: cls,
		extractor:  ext,
		engine:     engine,
		jobs:       jobs,
		fieldSets:  fieldSets,
		repo:       repo,
		summaries:  summaries,
		publisher:  publisher,
		cfg:        cfg,
		log:        log,
	}
}

// StartExtraction creates an extraction job over the submitted documents
// and processes them asynchronously. Returns the job immediately so the
// caller can poll for results.
func (s *Service) StartExtraction(ctx context.Context, shipmentID string, docs []DocumentInput) (*domain.ExtractionJob, error) {
	if shipmentID == "" {
		return nil, errors.BadRequest("shipment_id is required")
	}
	if len(docs) == 0 {
		return nil, errors.BadRequest("at least one document is required")
	}

	jobID := storage.GenerateJobID()
	job := &domain.ExtractionJob{
		JobID:         jobID,
		ShipmentID:    shipmentID,
		Status:        domain.StatusProcessing,
		DocumentCount: len(docs),
		CreatedAt:     time.Now(),
	}
	s.jobs.Store(job)

	// Process asynchronously — return job ID immediately for polling
	go s.processAsync(jobID, shipmentID, docs)

	return s.jobs.Get(jobID), nil
}

// processAsync classifies and extracts each document in a background
// goroutine. A single document never fails the whole job: extraction
// degrades to a zero-confidence field set flagged for review.
func (s *Service) processAsync(jobID, shipmentID string, docs []DocumentInput) {
	// Detached context so the request cancellation doesn't kill processing
	ctx := context.Background()

	fieldSets := make([]*domain.ExtractedFieldSet, 0, len(docs))
	for _, doc := range docs {
		result := s.classifier.Classify(ctx, doc.RawText)

		if doc.DeclaredType != "" && doc.DeclaredType != result.Best {
			s.log.Warn().
				Str("document_id", doc.DocumentID).
				Str("declared_type", string(doc.DeclaredType)).
				Str("classified_type", string(result.Best)).
				Msg("declared document type disagrees with classification")
		}

		fs := s.extractor.Extract(doc.DocumentID, shipmentID, result.Best, result.NeedsReview, doc.RawText)
		s.fieldSets.Put(fs)
		fieldSets = append(fieldSets, fs)

		if err := s.repo.Save(ctx, fs); err != nil {
			s.log.Error().Err(err).
				Str("document_id", doc.DocumentID).
				Msg("failed to persist field set")
		}
		s.publisher.PublishDocumentExtracted(ctx, fs)

		s.log.Info().
			Str("job_id", jobID).
			Str("document_id", doc.DocumentID).
			Str("doc_type", string(fs.DocumentType)).
			Str("classification_source", result.Source).
			Float64("confidence", fs.ExtractionConfidence).
			Bool("needs_review", fs.NeedsReview).
			Msg("document extracted")
	}

	s.jobs.Update(jobID, func(j *domain.ExtractionJob) {
		j.Status = domain.StatusCompleted
		j.FieldSets = fieldSets
		j.CompletedAt = time.Now()
	})

	s.log.Info().
		Str("job_id", jobID).
		Str("shipment_id", shipmentID).
		Int("documents", len(fieldSets)).
		Msg("extraction job completed")
}

// GetJob retrieves an extraction job by ID, or nil if unknown or expired.
func (s *Service) GetJob(jobID string) *domain.ExtractionJob {
	return s.jobs.Get(jobID)
}

// Documents returns the accumulated field sets for a shipment, ordered by
// document ID.
func (s *Service) Documents(shipmentID string) []*domain.ExtractedFieldSet {
	return s.fieldSets.Snapshot(shipmentID)
}

// Validate runs the rule catalogue against the shipment's accumulated
// documents. For shipments in deforestation-regulation scope it also
// assembles the due-diligence statement. The summary is persisted and
// published; persistence failure is logged, never hides the decision.
func (s *Service) Validate(ctx context.Context, shipment *domain.Shipment) (*domain.ValidationSummary, *domain.DueDiligenceStatement, error) {
	if shipment.ID == "" {
		return nil, nil, errors.BadRequest("shipment id is required")
	}

	input := &rules.Context{
		Shipment:           shipment,
		Documents:          s.fieldSets.Snapshot(shipment.ID),
		WeightTolerancePct: s.cfg.WeightTolerancePct,
		VetCertWindowDays:  s.cfg.VetCertWindowDays,
		TracesOperatorID:   s.cfg.TracesOperatorID,
	}
	summary := s.engine.Validate(input)

	var stmt *domain.DueDiligenceStatement
	if eudr.IsApplicable(shipment.HSCode) {
		stmt = eudr.AssessOrigins(shipment.ID, shipment.Origins, summary.EvaluatedAt)
	}

	if err := s.summaries.Save(ctx, summary); err != nil {
		s.log.Error().Err(err).
			Str("shipment_id", shipment.ID).
			Msg("failed to persist validation summary")
	}

	s.publisher.PublishShipmentValidated(ctx, summary)
	if stmt != nil {
		s.publisher.PublishDueDiligenceIssued(ctx, stmt)
	}

	return summary, stmt, nil
}

// LatestSummary returns the most recent persisted validation summary for
// a shipment.
func (s *Service) LatestSummary(ctx context.Context, shipmentID string) (*domain.ValidationSummary, error) {
	return s.summaries.Latest(ctx, shipmentID)
}
