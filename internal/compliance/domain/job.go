package domain

import "time"

// JobStatus is the lifecycle state of an extraction job.
type JobStatus string

const (
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// ExtractionJob tracks one asynchronous extraction request covering one or
// more documents of a shipment. Callers poll it by ID.
type ExtractionJob struct {
	JobID      string    `json:"job_id"`
	ShipmentID string    `json:"shipment_id"`
	Status     JobStatus `json:"status"`
	Error      string    `json:"error,omitempty"`

	DocumentCount int                  `json:"document_count"`
	FieldSets     []*ExtractedFieldSet `json:"field_sets,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}
