// Package consumers wires broker events into the compliance pipeline.
package consumers

import (
	"context"
	"fmt"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/service"
	"github.com/agroflow/agroflow-backend/pkg/logger"
	"github.com/agroflow/agroflow-backend/pkg/messaging"
)

// OCRConsumer feeds OCR text-extraction events into the extraction
// pipeline, so documents arriving over the bus take the same path as
// documents submitted over HTTP.
type OCRConsumer struct {
	consumer *messaging.Consumer
	service  *service.Service
	logger   *logger.Logger
}

// NewOCRConsumer creates a consumer bound to the OCR events exchange.
func NewOCRConsumer(rmq *messaging.RabbitMQ, svc *service.Service, log *logger.Logger) (*OCRConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "compliance-service.ocr-events", log)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR consumer: %w", err)
	}

	if err := consumer.Subscribe(messaging.ExchangeOCREvents, "document.*"); err != nil {
		return nil, fmt.Errorf("failed to subscribe to OCR events: %w", err)
	}

	c := &OCRConsumer{
		consumer: consumer,
		service:  svc,
		logger:   log,
	}
	consumer.RegisterHandler(messaging.EventDocumentTextExtracted, c.handleTextExtracted)

	return c, nil
}

// Start begins consuming events. Non-blocking; the consumer stops when
// the context is cancelled.
func (c *OCRConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// handleTextExtracted starts an extraction job for the document carried by
// the event.
func (c *OCRConsumer) handleTextExtracted(ctx context.Context, event *messaging.Event) error {
	var data messaging.DocumentTextExtractedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("failed to unmarshal document text extracted event: %w", err)
	}

	job, err := c.service.StartExtraction(ctx, data.ShipmentID, []service.DocumentInput{{
		DocumentID:   data.DocumentID,
		DeclaredType: domain.DocumentType(data.DeclaredType),
		RawText:      data.RawText,
	}})
	if err != nil {
		return fmt.Errorf("failed to start extraction for document %s: %w", data.DocumentID, err)
	}

	c.logger.Info().
		Str("document_id", data.DocumentID).
		Str("shipment_id", data.ShipmentID).
		Str("job_id", job.JobID).
		Msg("extraction started from OCR event")

	return nil
}
