package patterns_test

import (
	"math"
	"testing"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/patterns"
)

func TestSchemaFor_AllTypesCovered(t *testing.T) {
	for _, docType := range domain.AllDocumentTypes {
		if _, ok := patterns.SchemaFor(docType); !ok {
			t.Errorf("no extraction schema registered for %s", docType)
		}
	}
}

func TestSchemaWeightsSumToOne(t *testing.T) {
	for _, docType := range domain.AllDocumentTypes {
		schema, ok := patterns.SchemaFor(docType)
		if !ok {
			continue
		}
		sum := 0.0
		for _, w := range schema.Weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("%s: confidence weights sum to %f, want 1.0", docType, sum)
		}
	}
}

func TestSchemaCommonFields(t *testing.T) {
	// Every schema must declare reference_number and issue_date
	for _, docType := range domain.AllDocumentTypes {
		schema, _ := patterns.SchemaFor(docType)
		fields := make(map[string]bool)
		for _, f := range schema.Fields {
			fields[f.Name] = true
		}
		if !fields[patterns.FieldReferenceNumber] {
			t.Errorf("%s: schema missing %s", docType, patterns.FieldReferenceNumber)
		}
		if !fields[patterns.FieldIssueDate] {
			t.Errorf("%s: schema missing %s", docType, patterns.FieldIssueDate)
		}
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"Unknown Shipper", true},
		{"N/A", true},
		{"Hanseatic Cocoa Trading GmbH", false},
	}

	for _, tt := range tests {
		if got := patterns.IsPlaceholder(tt.value); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestKeywordProfiles_RegistrationOrderMatchesEnum(t *testing.T) {
	// Profiles must follow enum registration order so classifier ties are
	// broken deterministically.
	pos := make(map[domain.DocumentType]int)
	for i, docType := range domain.AllDocumentTypes {
		pos[docType] = i
	}

	last := -1
	for _, profile := range patterns.KeywordProfiles {
		idx, ok := pos[profile.Type]
		if !ok {
			t.Fatalf("profile for unknown type %s", profile.Type)
		}
		if idx <= last {
			t.Errorf("profile %s out of registration order", profile.Type)
		}
		last = idx
	}
}
