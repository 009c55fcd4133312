package eudr_test

import (
	"testing"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/eudr"
)

func TestIsApplicable(t *testing.T) {
	tests := []struct {
		hsCode string
		want   bool
	}{
		{"18010000", true},  // cocoa
		{"09011100", true},  // coffee
		{"15110000", true},  // palm oil
		{"40011000", true},  // rubber
		{"12010000", true},  // soya
		{"05061000", false}, // horn and hoof, permanently excluded
		{"05079000", false},
		{"10059000", false}, // maize, out of scope
		{"1801", true},
		{"180", false}, // too short to carry a prefix
		{"", false},
	}

	for _, tt := range tests {
		if got := eudr.IsApplicable(tt.hsCode); got != tt.want {
			t.Errorf("IsApplicable(%q) = %v, want %v", tt.hsCode, got, tt.want)
		}
	}
}

func TestProductionDateValid(t *testing.T) {
	tests := []struct {
		date time.Time
		want bool
	}{
		{time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), false}, // cutoff itself invalid
		{time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Time{}, false},
	}

	for _, tt := range tests {
		if got := eudr.ProductionDateValid(tt.date); got != tt.want {
			t.Errorf("ProductionDateValid(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestCountryRisk_DefaultsToStandard(t *testing.T) {
	if got := eudr.CountryRisk("ZZ"); got != domain.RiskStandard {
		t.Errorf("CountryRisk(ZZ) = %s, want STANDARD", got)
	}
	if got := eudr.CountryRisk("BY"); got != domain.RiskHigh {
		t.Errorf("CountryRisk(BY) = %s, want HIGH", got)
	}
}

func TestAssessOrigins(t *testing.T) {
	geo := &domain.Geolocation{Type: domain.GeometryPoint, Coordinates: [][2]float64{{5.36, -4.01}}}
	origins := []domain.Origin{
		{
			ID:                "org-1",
			CountryCode:       "CI",
			Geolocation:       geo,
			ProductionDate:    time.Date(2023, 4, 12, 0, 0, 0, 0, time.UTC),
			DeforestationFree: true,
		},
		{
			ID:                "org-2",
			CountryCode:       "BY",
			Geolocation:       nil,
			ProductionDate:    time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
			DeforestationFree: false,
		},
	}

	issuedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	stmt := eudr.AssessOrigins("ship-1", origins, issuedAt)

	if stmt.TotalOrigins != 2 {
		t.Errorf("TotalOrigins = %d, want 2", stmt.TotalOrigins)
	}
	if stmt.HighRiskOrigins != 1 || stmt.StandardRiskOrigins != 1 || stmt.LowRiskOrigins != 0 {
		t.Errorf("risk counts = %d/%d/%d, want 1/1/0",
			stmt.HighRiskOrigins, stmt.StandardRiskOrigins, stmt.LowRiskOrigins)
	}
	if stmt.OverallRisk != domain.RiskHigh {
		t.Errorf("OverallRisk = %s, want HIGH (highest tier present)", stmt.OverallRisk)
	}
	if stmt.AllDatesValid {
		t.Error("AllDatesValid should be false: org-2 predates the cutoff")
	}
	if stmt.AllGeolocated {
		t.Error("AllGeolocated should be false: org-2 has no geolocation")
	}
	if stmt.AllDeforestationFree {
		t.Error("AllDeforestationFree should be false")
	}
	if stmt.Declaration == "" {
		t.Error("Declaration must be rendered")
	}
}

func TestAssessOrigins_AllCompliant(t *testing.T) {
	geo := &domain.Geolocation{Type: domain.GeometryPolygon, Coordinates: [][2]float64{{5, -4}, {5.1, -4}, {5.1, -4.1}}}
	origins := []domain.Origin{
		{ID: "org-1", CountryCode: "DE", Geolocation: geo,
			ProductionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DeforestationFree: true},
	}

	stmt := eudr.AssessOrigins("ship-2", origins, time.Now())
	if stmt.OverallRisk != domain.RiskLow {
		t.Errorf("OverallRisk = %s, want LOW", stmt.OverallRisk)
	}
	if !stmt.AllDatesValid || !stmt.AllGeolocated || !stmt.AllDeforestationFree {
		t.Error("fully compliant origin set should set every flag true")
	}
}

func TestAssessOrigins_Empty(t *testing.T) {
	stmt := eudr.AssessOrigins("ship-3", nil, time.Now())
	if stmt.TotalOrigins != 0 {
		t.Errorf("TotalOrigins = %d, want 0", stmt.TotalOrigins)
	}
	if stmt.OverallRisk != domain.RiskLow {
		t.Errorf("OverallRisk = %s, want LOW for empty origin set", stmt.OverallRisk)
	}
}
