package domain

import "time"

// RiskLevel classifies an origin country under the EUDR benchmarking system.
type RiskLevel string

const (
	RiskHigh     RiskLevel = "HIGH"
	RiskStandard RiskLevel = "STANDARD"
	RiskLow      RiskLevel = "LOW"
)

// GeometryType distinguishes point and polygon geolocations.
type GeometryType string

const (
	GeometryPoint   GeometryType = "point"
	GeometryPolygon GeometryType = "polygon"
)

// Geolocation is a production-plot location: a single coordinate for plots
// under 4 hectares, a polygon otherwise.
type Geolocation struct {
	Type GeometryType `json:"type"`
	// Coordinates holds [longitude, latitude] pairs; a point has exactly one
	Coordinates [][2]float64 `json:"coordinates"`
}

// Origin is one product-origin record for a shipment.
type Origin struct {
	ID                string       `json:"id"`
	CountryCode       string       `json:"country_code"` // ISO 3166-1 alpha-2
	Geolocation       *Geolocation `json:"geolocation,omitempty"`
	ProductionDate    time.Time    `json:"production_date"`
	DeforestationFree bool         `json:"deforestation_free"`
}

// HasEUDRFields reports whether the record carries EUDR-specific evidence.
// Populated EUDR fields on a non-EUDR shipment are a validation failure,
// not a cosmetic inconsistency.
func (o *Origin) HasEUDRFields() bool {
	return o.Geolocation != nil || o.DeforestationFree
}

// DueDiligenceStatement is the aggregate EUDR assessment for a shipment.
type DueDiligenceStatement struct {
	ShipmentID          string    `json:"shipment_id"`
	TotalOrigins        int       `json:"total_origins"`
	HighRiskOrigins     int       `json:"high_risk_origins"`
	StandardRiskOrigins int       `json:"standard_risk_origins"`
	LowRiskOrigins      int       `json:"low_risk_origins"`
	OverallRisk         RiskLevel `json:"overall_risk"`

	AllDatesValid        bool `json:"all_production_dates_valid"`
	AllGeolocated        bool `json:"all_geolocations_present"`
	AllDeforestationFree bool `json:"all_deforestation_free"`

	// Declaration is the templated summary text included in compliance reports
	Declaration string    `json:"declaration"`
	IssuedAt    time.Time `json:"issued_at"`
}
