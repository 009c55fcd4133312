package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroflow/agroflow-backend/internal/compliance/classifier"
	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/extract"
	"github.com/agroflow/agroflow-backend/internal/compliance/rules"
	"github.com/agroflow/agroflow-backend/internal/compliance/service"
	"github.com/agroflow/agroflow-backend/internal/compliance/storage"
	"github.com/agroflow/agroflow-backend/pkg/config"
	"github.com/agroflow/agroflow-backend/pkg/errors"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

const bolText = `BILL OF LADING

B/L No: HLCUHAM250812345
Date of Issue: 2026-07-12

Shipper: Hanseatic Cocoa Trading GmbH
Consignee: Amsterdam Cacao BV

Vessel: MV NORDWIND
Port of Loading: Hamburg
Port of Discharge: Rotterdam

Container No: MSKU1234565
Container No: CSQU3054383

Gross Weight: 24,800 kg
Freight Prepaid
`

type stubRepo struct {
	mu    sync.Mutex
	saved []*domain.ExtractedFieldSet
}

func (r *stubRepo) Save(_ context.Context, fs *domain.ExtractedFieldSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, fs)
	return nil
}

func (r *stubRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type stubSummaries struct {
	mu    sync.Mutex
	saved []*domain.ValidationSummary
}

func (s *stubSummaries) Save(_ context.Context, summary *domain.ValidationSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, summary)
	return nil
}

func (s *stubSummaries) Latest(_ context.Context, shipmentID string) (*domain.ValidationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].ShipmentID == shipmentID {
			return s.saved[i], nil
		}
	}
	return nil, errors.NotFound("validation summary")
}

type stubPublisher struct {
	mu        sync.Mutex
	extracted int
	validated int
	issued    int
}

func (p *stubPublisher) PublishDocumentExtracted(context.Context, *domain.ExtractedFieldSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extracted++
}

func (p *stubPublisher) PublishShipmentValidated(context.Context, *domain.ValidationSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.validated++
}

func (p *stubPublisher) PublishDueDiligenceIssued(context.Context, *domain.DueDiligenceStatement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
}

type testEnv struct {
	svc       *service.Service
	fieldSets *storage.FieldSetStore
	repo      *stubRepo
	summaries *stubSummaries
	publisher *stubPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.New("test", "development")

	env := &testEnv{
		fieldSets: storage.NewFieldSetStore(),
		repo:      &stubRepo{},
		summaries: &stubSummaries{},
		publisher: &stubPublisher{},
	}
	cfg := &config.EngineConfig{
		WeightTolerancePct: 5.0,
		VetCertWindowDays:  10,
		TracesOperatorID:   "DE-HH-OP-2094471",
	}

	env.svc = service.NewService(
		classifier.New(0.3, 0.1, nil, nil, log),
		extract.New(log),
		rules.NewEngine(log),
		storage.NewJobStore(time.Minute),
		env.fieldSets,
		env.repo,
		env.summaries,
		env.publisher,
		cfg,
		log,
	)
	return env
}

func waitCompleted(t *testing.T, svc *service.Service, jobID string) *domain.ExtractionJob {
	t.Helper()
	require.Eventually(t, func() bool {
		job := svc.GetJob(jobID)
		return job != nil && job.Status == domain.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond, "extraction job did not complete")
	return svc.GetJob(jobID)
}

func TestService_StartExtraction(t *testing.T) {
	env := newTestEnv(t)

	job, err := env.svc.StartExtraction(context.Background(), "ship-1", []service.DocumentInput{
		{DocumentID: "doc-1", RawText: bolText},
	})
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Len(t, job.JobID, 32)
	assert.Equal(t, 1, job.DocumentCount)

	done := waitCompleted(t, env.svc, job.JobID)
	require.Len(t, done.FieldSets, 1)

	fs := done.FieldSets[0]
	assert.Equal(t, "doc-1", fs.DocumentID)
	assert.Equal(t, domain.DocumentTypeBillOfLading, fs.DocumentType)
	assert.Equal(t, "HLCUHAM250812345", fs.ReferenceNumber)
	assert.False(t, fs.NeedsReview)

	// The field set must land in the working set, the audit store, and on
	// the event bus
	assert.Equal(t, 1, env.fieldSets.Count("ship-1"))
	assert.Equal(t, 1, env.repo.count())
	assert.Equal(t, 1, env.publisher.extracted)
}

func TestService_StartExtraction_RequiresDocuments(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.StartExtraction(context.Background(), "ship-1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	_, err = env.svc.StartExtraction(context.Background(), "", []service.DocumentInput{
		{DocumentID: "doc-1", RawText: bolText},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestService_StartExtraction_UnclassifiableDocumentStillCompletes(t *testing.T) {
	env := newTestEnv(t)

	job, err := env.svc.StartExtraction(context.Background(), "ship-1", []service.DocumentInput{
		{DocumentID: "doc-1", RawText: "lorem ipsum dolor sit amet"},
	})
	require.NoError(t, err)

	done := waitCompleted(t, env.svc, job.JobID)
	require.Len(t, done.FieldSets, 1)
	assert.Equal(t, domain.DocumentTypeOther, done.FieldSets[0].DocumentType)
	assert.True(t, done.FieldSets[0].NeedsReview)
	assert.Equal(t, 0.0, done.FieldSets[0].ExtractionConfidence)
}

func TestService_GetJob_Unknown(t *testing.T) {
	env := newTestEnv(t)
	assert.Nil(t, env.svc.GetJob("no-such-job"))
}

func TestService_Validate_MissingDocumentsRejects(t *testing.T) {
	env := newTestEnv(t)

	shipment := &domain.Shipment{
		ID:     "ship-1",
		HSCode: "18010000",
		ETD:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	summary, stmt, err := env.svc.Validate(context.Background(), shipment)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionReject, summary.Decision)
	assert.NotNil(t, stmt, "cocoa shipments are in deforestation-regulation scope")

	assert.Equal(t, 1, len(env.summaries.saved))
	assert.Equal(t, 1, env.publisher.validated)
	assert.Equal(t, 1, env.publisher.issued)
}

func TestService_Validate_NonEUDRShipmentHasNoStatement(t *testing.T) {
	env := newTestEnv(t)

	shipment := &domain.Shipment{
		ID:     "ship-2",
		HSCode: "05061000",
		ETD:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}

	_, stmt, err := env.svc.Validate(context.Background(), shipment)
	require.NoError(t, err)
	assert.Nil(t, stmt)
	assert.Equal(t, 0, env.publisher.issued)
}

func TestService_Validate_UsesAccumulatedDocuments(t *testing.T) {
	env := newTestEnv(t)

	job, err := env.svc.StartExtraction(context.Background(), "ship-3", []service.DocumentInput{
		{DocumentID: "doc-1", RawText: bolText},
	})
	require.NoError(t, err)
	waitCompleted(t, env.svc, job.JobID)

	shipment := &domain.Shipment{
		ID:     "ship-3",
		HSCode: "18010000",
		ETD:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	summary, _, err := env.svc.Validate(context.Background(), shipment)
	require.NoError(t, err)

	// Presence still fails (invoice, packing list etc. missing) but the
	// bill of lading must no longer be among the missing types
	var presence *domain.RuleResult
	for i := range summary.Results {
		if summary.Results[i].RuleID == "PRES_001" {
			presence = &summary.Results[i]
		}
	}
	require.NotNil(t, presence)
	assert.False(t, presence.Passed)
	assert.NotContains(t, presence.Details["missing"], "bill_of_lading")
}

func TestService_LatestSummary(t *testing.T) {
	env := newTestEnv(t)

	shipment := &domain.Shipment{ID: "ship-4", HSCode: "09011100"}
	_, _, err := env.svc.Validate(context.Background(), shipment)
	require.NoError(t, err)

	latest, err := env.svc.LatestSummary(context.Background(), "ship-4")
	require.NoError(t, err)
	assert.Equal(t, "ship-4", latest.ShipmentID)

	_, err = env.svc.LatestSummary(context.Background(), "ship-unknown")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
