package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Document pipeline events
	EventDocumentTextExtracted = "document.text_extracted" // published by the OCR collaborator
	EventDocumentClassified    = "document.classified"
	EventDocumentExtracted     = "document.extracted"

	// Shipment validation events
	EventShipmentValidated = "shipment.validated"

	// EUDR events
	EventDueDiligenceIssued = "eudr.due_diligence.issued"
)

// Exchange names
const (
	ExchangeComplianceEvents = "compliance.events"
	ExchangeOCREvents        = "ocr.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// GenerateEventID creates a new unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// DocumentTextExtractedEvent is consumed from the OCR collaborator when raw
// text becomes available for an uploaded document.
type DocumentTextExtractedEvent struct {
	DocumentID   string `json:"document_id"`
	ShipmentID   string `json:"shipment_id"`
	DeclaredType string `json:"declared_type,omitempty"`
	RawText      string `json:"raw_text"`
}

// DocumentExtractedEvent is published when field extraction for a document
// completes.
type DocumentExtractedEvent struct {
	DocumentID   string  `json:"document_id"`
	ShipmentID   string  `json:"shipment_id"`
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	NeedsReview  bool    `json:"needs_review"`
}

// ShipmentValidatedEvent is published after a validation run for a shipment.
type ShipmentValidatedEvent struct {
	ShipmentID     string `json:"shipment_id"`
	Decision       string `json:"decision"`
	CriticalErrors int    `json:"critical_errors"`
	Errors         int    `json:"errors"`
	Warnings       int    `json:"warnings"`
}

// DueDiligenceIssuedEvent is published when an EUDR due-diligence statement
// is produced for a shipment.
type DueDiligenceIssuedEvent struct {
	ShipmentID   string `json:"shipment_id"`
	OverallRisk  string `json:"overall_risk"`
	TotalOrigins int    `json:"total_origins"`
}
