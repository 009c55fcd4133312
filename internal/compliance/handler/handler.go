// Package handler exposes the compliance pipeline over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/service"
	"github.com/agroflow/agroflow-backend/pkg/errors"
	"github.com/agroflow/agroflow-backend/pkg/httputil"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

const maxBodySize = 10 << 20 // 10MB of OCR text per request

// Handler handles HTTP requests for document extraction and shipment
// validation.
type Handler struct {
	service *service.Service
	log     *logger.Logger
}

// NewHandler creates a new compliance handler.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		service: svc,
		log:     log,
	}
}

// Routes returns the router for the compliance API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/documents/extract", h.Extract)
	r.Get("/documents/extract/{jobId}", h.GetJob)
	r.Post("/shipments/{shipmentId}/validate", h.Validate)
	r.Get("/shipments/{shipmentId}/documents", h.ListDocuments)
	r.Get("/shipments/{shipmentId}/validation", h.LatestValidation)
	return r
}

type extractDocumentPayload struct {
	DocumentID   string `json:"document_id" validate:"required"`
	DeclaredType string `json:"declared_type"`
	RawText      string `json:"raw_text" validate:"required"`
}

type extractRequest struct {
	ShipmentID string                   `json:"shipment_id" validate:"required"`
	Documents  []extractDocumentPayload `json:"documents" validate:"required,min=1,dive"`
}

// Extract handles POST /documents/extract. Starts an asynchronous
// extraction job over the submitted OCR texts and returns it for polling.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req extractRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	docs := make([]service.DocumentInput, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = service.DocumentInput{
			DocumentID:   d.DocumentID,
			DeclaredType: domain.DocumentType(d.DeclaredType),
			RawText:      d.RawText,
		}
	}

	job, err := h.service.StartExtraction(r.Context(), req.ShipmentID, docs)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Accepted(w, job)
}

// GetJob handles GET /documents/extract/{jobId}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")

	job := h.service.GetJob(jobID)
	if job == nil {
		httputil.Error(w, errors.NotFound("extraction job"))
		return
	}

	httputil.JSON(w, http.StatusOK, job)
}

type validateRequest struct {
	HSCode      string          `json:"hs_code" validate:"required,min=4"`
	ProductName string          `json:"product_name"`
	BuyerName   string          `json:"buyer_name"`
	ETD         time.Time       `json:"etd"`
	ETA         time.Time       `json:"eta"`
	BuyerFlags  map[string]bool `json:"buyer_flags"`
	Origins     []domain.Origin `json:"origins"`
}

type validateResponse struct {
	Summary      *domain.ValidationSummary     `json:"summary"`
	DueDiligence *domain.DueDiligenceStatement `json:"due_diligence,omitempty"`
}

// Validate handles POST /shipments/{shipmentId}/validate. Runs the rule
// catalogue against the shipment's accumulated documents.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	shipmentID := chi.URLParam(r, "shipmentId")

	var req validateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	shipment := &domain.Shipment{
		ID:          shipmentID,
		HSCode:      req.HSCode,
		ProductName: req.ProductName,
		BuyerName:   req.BuyerName,
		ETD:         req.ETD,
		ETA:         req.ETA,
		BuyerFlags:  req.BuyerFlags,
		Origins:     req.Origins,
	}

	summary, stmt, err := h.service.Validate(r.Context(), shipment)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, validateResponse{
		Summary:      summary,
		DueDiligence: stmt,
	})
}

// ListDocuments handles GET /shipments/{shipmentId}/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	shipmentID := chi.URLParam(r, "shipmentId")

	docs := h.service.Documents(shipmentID)
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"shipment_id": shipmentID,
		"documents":   docs,
		"count":       len(docs),
	})
}

// LatestValidation handles GET /shipments/{shipmentId}/validation.
func (h *Handler) LatestValidation(w http.ResponseWriter, r *http.Request) {
	shipmentID := chi.URLParam(r, "shipmentId")

	summary, err := h.service.LatestSummary(r.Context(), shipmentID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}
