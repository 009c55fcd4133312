package extract_test

import (
	"testing"

	"github.com/agroflow/agroflow-backend/internal/compliance/extract"
)

func TestValidateContainer(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"valid reference number", "CSQU3054383", "CSQU3054383", true},
		{"valid maersk number", "MSKU1234565", "MSKU1234565", true},
		{"wrong check digit", "MSKU1234567", "MSKU1234567", false},
		{"space separated", "MSKU 1234565", "MSKU1234565", true},
		{"hyphen separated", "MSKU-1234565", "MSKU1234565", true},
		{"lowercase input", "msku1234565", "MSKU1234565", true},
		{"too short", "MSKU123456", "MSKU123456", false},
		{"too long", "MSKU12345678", "MSKU12345678", false},
		{"digits in owner code", "MS1U1234565", "MS1U1234565", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extract.ValidateContainer(tt.raw)
			if got.Number != tt.want {
				t.Errorf("Number = %q, want %q", got.Number, tt.want)
			}
			if got.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.valid)
			}
		})
	}
}

func TestValidateContainer_MalformedRetained(t *testing.T) {
	// Malformed numbers must be kept and flagged, never dropped
	got := extract.ValidateContainer("XXXX0000000")
	if got.Number == "" {
		t.Fatal("malformed container number was dropped")
	}
}
