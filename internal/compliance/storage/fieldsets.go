package storage

import (
	"sort"
	"sync"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// FieldSetStore accumulates extracted field sets per shipment. Validation
// reads a copy-on-read snapshot, so a run is never affected by documents
// arriving mid-evaluation. Re-extracting a document replaces its previous
// field set.
type FieldSetStore struct {
	mu        sync.RWMutex
	shipments map[string]map[string]*domain.ExtractedFieldSet // shipment ID -> document ID
}

// NewFieldSetStore creates an empty field set store.
func NewFieldSetStore() *FieldSetStore {
	return &FieldSetStore{
		shipments: make(map[string]map[string]*domain.ExtractedFieldSet),
	}
}

// Put stores a field set, replacing any previous extraction of the same
// document.
func (s *FieldSetStore) Put(fs *domain.ExtractedFieldSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.shipments[fs.ShipmentID]
	if !ok {
		docs = make(map[string]*domain.ExtractedFieldSet)
		s.shipments[fs.ShipmentID] = docs
	}
	docs[fs.DocumentID] = fs
}

// Snapshot returns the shipment's field sets as a new slice, ordered by
// document ID. Field sets themselves are immutable once produced, so
// sharing the pointers is safe.
func (s *FieldSetStore) Snapshot(shipmentID string) []*domain.ExtractedFieldSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.shipments[shipmentID]
	out := make([]*domain.ExtractedFieldSet, 0, len(docs))
	for _, fs := range docs {
		out = append(out, fs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out
}

// Remove drops one document's field set.
func (s *FieldSetStore) Remove(shipmentID, documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if docs, ok := s.shipments[shipmentID]; ok {
		delete(docs, documentID)
		if len(docs) == 0 {
			delete(s.shipments, shipmentID)
		}
	}
}

// Count returns the number of field sets held for a shipment.
func (s *FieldSetStore) Count(shipmentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shipments[shipmentID])
}
