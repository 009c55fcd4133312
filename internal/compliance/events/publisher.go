// Package events publishes compliance pipeline events. Publishing is
// best-effort: a broker failure is logged, never propagated into the
// pipeline.
package events

import (
	"context"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/pkg/logger"
	"github.com/agroflow/agroflow-backend/pkg/messaging"
)

// CompliancePublisher publishes document and validation events.
type CompliancePublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewCompliancePublisher creates a publisher on the compliance exchange.
func NewCompliancePublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*CompliancePublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeComplianceEvents, "compliance-service", log)
	if err != nil {
		return nil, err
	}

	return &CompliancePublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishDocumentExtracted publishes a document extracted event.
func (p *CompliancePublisher) PublishDocumentExtracted(ctx context.Context, fs *domain.ExtractedFieldSet) {
	data := messaging.DocumentExtractedEvent{
		DocumentID:   fs.DocumentID,
		ShipmentID:   fs.ShipmentID,
		DocumentType: string(fs.DocumentType),
		Confidence:   fs.ExtractionConfidence,
		NeedsReview:  fs.NeedsReview,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDocumentExtracted, data); err != nil {
		p.logger.Error().Err(err).
			Str("document_id", fs.DocumentID).
			Msg("failed to publish document extracted event")
	}
}

// PublishShipmentValidated publishes a shipment validated event.
func (p *CompliancePublisher) PublishShipmentValidated(ctx context.Context, summary *domain.ValidationSummary) {
	data := messaging.ShipmentValidatedEvent{
		ShipmentID:     summary.ShipmentID,
		Decision:       string(summary.Decision),
		CriticalErrors: summary.CriticalErrors,
		Errors:         summary.Errors,
		Warnings:       summary.Warnings,
	}

	if err := p.publisher.Publish(ctx, messaging.EventShipmentValidated, data); err != nil {
		p.logger.Error().Err(err).
			Str("shipment_id", summary.ShipmentID).
			Msg("failed to publish shipment validated event")
	}
}

// PublishDueDiligenceIssued publishes an EUDR due-diligence issued event.
func (p *CompliancePublisher) PublishDueDiligenceIssued(ctx context.Context, stmt *domain.DueDiligenceStatement) {
	data := messaging.DueDiligenceIssuedEvent{
		ShipmentID:   stmt.ShipmentID,
		OverallRisk:  string(stmt.OverallRisk),
		TotalOrigins: stmt.TotalOrigins,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDueDiligenceIssued, data); err != nil {
		p.logger.Error().Err(err).
			Str("shipment_id", stmt.ShipmentID).
			Msg("failed to publish due diligence issued event")
	}
}
