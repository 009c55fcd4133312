package storage_test

import (
	"testing"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/storage"
)

func TestJobStore_Lifecycle(t *testing.T) {
	store := storage.NewJobStore(time.Minute)

	job := &domain.ExtractionJob{
		JobID:      storage.GenerateJobID(),
		ShipmentID: "ship-1",
		Status:     domain.StatusProcessing,
		CreatedAt:  time.Now(),
	}
	store.Store(job)

	got := store.Get(job.JobID)
	if got == nil || got.Status != domain.StatusProcessing {
		t.Fatalf("Get = %+v, want processing job", got)
	}

	store.Update(job.JobID, func(j *domain.ExtractionJob) {
		j.Status = domain.StatusCompleted
	})
	if got := store.Get(job.JobID); got.Status != domain.StatusCompleted {
		t.Errorf("Status = %s, want completed", got.Status)
	}

	store.Delete(job.JobID)
	if store.Get(job.JobID) != nil {
		t.Error("job should be gone after Delete")
	}
}

func TestJobStore_GetReturnsCopy(t *testing.T) {
	store := storage.NewJobStore(time.Minute)

	job := &domain.ExtractionJob{
		JobID:     storage.GenerateJobID(),
		Status:    domain.StatusProcessing,
		CreatedAt: time.Now(),
	}
	store.Store(job)

	before := store.Get(job.JobID)
	store.Update(job.JobID, func(j *domain.ExtractionJob) {
		j.Status = domain.StatusCompleted
		j.FieldSets = []*domain.ExtractedFieldSet{{DocumentID: "doc-1"}}
		j.CompletedAt = time.Now()
	})

	if before.Status != domain.StatusProcessing {
		t.Errorf("earlier Get result changed to %s; Get must hand out a copy", before.Status)
	}
	if len(before.FieldSets) != 0 {
		t.Error("earlier Get result picked up field sets written later")
	}
	if after := store.Get(job.JobID); after.Status != domain.StatusCompleted {
		t.Errorf("fresh Get = %s, want completed", after.Status)
	}
}

func TestJobStore_ConcurrentReadsDuringUpdates(t *testing.T) {
	store := storage.NewJobStore(time.Minute)
	jobID := storage.GenerateJobID()
	store.Store(&domain.ExtractionJob{
		JobID:     jobID,
		Status:    domain.StatusProcessing,
		CreatedAt: time.Now(),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			store.Update(jobID, func(j *domain.ExtractionJob) {
				j.Status = domain.StatusCompleted
				j.CompletedAt = time.Now()
			})
		}
	}()

	for i := 0; i < 1000; i++ {
		if job := store.Get(jobID); job != nil {
			_ = job.Status
			_ = job.CompletedAt
		}
	}
	<-done
}

func TestGenerateJobID_Unique(t *testing.T) {
	a, b := storage.GenerateJobID(), storage.GenerateJobID()
	if a == b {
		t.Error("job IDs must be unique")
	}
	if len(a) != 32 {
		t.Errorf("job ID length = %d, want 32", len(a))
	}
}

func TestFieldSetStore_ReplacesOnReextraction(t *testing.T) {
	store := storage.NewFieldSetStore()

	store.Put(&domain.ExtractedFieldSet{
		DocumentID: "doc-1", ShipmentID: "ship-1",
		DocumentType: domain.DocumentTypeBillOfLading, ExtractionConfidence: 0.4,
	})
	store.Put(&domain.ExtractedFieldSet{
		DocumentID: "doc-1", ShipmentID: "ship-1",
		DocumentType: domain.DocumentTypeBillOfLading, ExtractionConfidence: 0.9,
	})

	if store.Count("ship-1") != 1 {
		t.Fatalf("Count = %d, want 1 (re-extraction replaces)", store.Count("ship-1"))
	}
	snapshot := store.Snapshot("ship-1")
	if snapshot[0].ExtractionConfidence != 0.9 {
		t.Errorf("snapshot holds confidence %f, want the newer 0.9", snapshot[0].ExtractionConfidence)
	}
}

func TestFieldSetStore_SnapshotIsolated(t *testing.T) {
	store := storage.NewFieldSetStore()
	store.Put(&domain.ExtractedFieldSet{DocumentID: "doc-1", ShipmentID: "ship-1"})

	snapshot := store.Snapshot("ship-1")
	store.Put(&domain.ExtractedFieldSet{DocumentID: "doc-2", ShipmentID: "ship-1"})

	if len(snapshot) != 1 {
		t.Errorf("snapshot grew after Put: %d entries, want 1", len(snapshot))
	}
}

func TestFieldSetStore_SnapshotOrdered(t *testing.T) {
	store := storage.NewFieldSetStore()
	for _, id := range []string{"doc-c", "doc-a", "doc-b"} {
		store.Put(&domain.ExtractedFieldSet{DocumentID: id, ShipmentID: "ship-1"})
	}

	snapshot := store.Snapshot("ship-1")
	want := []string{"doc-a", "doc-b", "doc-c"}
	for i, fs := range snapshot {
		if fs.DocumentID != want[i] {
			t.Errorf("snapshot[%d] = %s, want %s", i, fs.DocumentID, want[i])
		}
	}
}

func TestFieldSetStore_Remove(t *testing.T) {
	store := storage.NewFieldSetStore()
	store.Put(&domain.ExtractedFieldSet{DocumentID: "doc-1", ShipmentID: "ship-1"})

	store.Remove("ship-1", "doc-1")
	if store.Count("ship-1") != 0 {
		t.Errorf("Count = %d, want 0", store.Count("ship-1"))
	}
	if len(store.Snapshot("ship-1")) != 0 {
		t.Error("snapshot of emptied shipment should be empty")
	}
}
