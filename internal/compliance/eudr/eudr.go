// Package eudr implements the EU deforestation-regulation specialization:
// HS-code applicability, origin risk classification, and due-diligence
// statement assembly. Everything here is pure computation over shipment
// origin records.
package eudr

import (
	"fmt"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// applicablePrefixes are the commodity HS-code prefixes in regulation
// scope: cocoa, coffee, palm oil, rubber, soya.
var applicablePrefixes = map[string]bool{
	"1801": true,
	"0901": true,
	"1511": true,
	"4001": true,
	"1201": true,
}

// excludedPrefixes are permanently out of scope regardless of any other
// signal (horn and hoof products).
var excludedPrefixes = map[string]bool{
	"0506": true,
	"0507": true,
}

// ProductionCutoff is the regulation's fixed cutoff date. Production on
// or before this date is invalid.
var ProductionCutoff = time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)

// countryRisk is the fixed risk benchmark by ISO 3166-1 alpha-2 code.
// Countries absent from the table default to STANDARD.
var countryRisk = map[string]domain.RiskLevel{
	"BY": domain.RiskHigh,
	"KP": domain.RiskHigh,
	"MM": domain.RiskHigh,
	"RU": domain.RiskHigh,
	"CI": domain.RiskStandard,
	"GH": domain.RiskStandard,
	"NG": domain.RiskStandard,
	"CM": domain.RiskStandard,
	"ID": domain.RiskStandard,
	"MY": domain.RiskStandard,
	"BR": domain.RiskStandard,
	"DE": domain.RiskLow,
	"FR": domain.RiskLow,
	"NL": domain.RiskLow,
	"BE": domain.RiskLow,
	"AT": domain.RiskLow,
}

// IsApplicable reports whether the regulation applies to a product by its
// HS code. Only the first four characters are considered.
func IsApplicable(hsCode string) bool {
	if len(hsCode) < 4 {
		return false
	}
	prefix := hsCode[:4]
	if excludedPrefixes[prefix] {
		return false
	}
	return applicablePrefixes[prefix]
}

// ProductionDateValid reports whether a production date is after the
// regulation cutoff. A zero date is invalid.
func ProductionDateValid(date time.Time) bool {
	return date.After(ProductionCutoff)
}

// CountryRisk returns the benchmark risk level for a country code.
func CountryRisk(countryCode string) domain.RiskLevel {
	if risk, ok := countryRisk[countryCode]; ok {
		return risk
	}
	return domain.RiskStandard
}

// AssessOrigins classifies every origin and assembles the due-diligence
// statement. Overall risk is the highest tier present among origins.
func AssessOrigins(shipmentID string, origins []domain.Origin, issuedAt time.Time) *domain.DueDiligenceStatement {
	stmt := &domain.DueDiligenceStatement{
		ShipmentID:           shipmentID,
		TotalOrigins:         len(origins),
		AllDatesValid:        true,
		AllGeolocated:        true,
		AllDeforestationFree: true,
		OverallRisk:          domain.RiskLow,
		IssuedAt:             issuedAt,
	}

	for _, origin := range origins {
		switch CountryRisk(origin.CountryCode) {
		case domain.RiskHigh:
			stmt.HighRiskOrigins++
		case domain.RiskStandard:
			stmt.StandardRiskOrigins++
		case domain.RiskLow:
			stmt.LowRiskOrigins++
		}
		if !ProductionDateValid(origin.ProductionDate) {
			stmt.AllDatesValid = false
		}
		if origin.Geolocation == nil {
			stmt.AllGeolocated = false
		}
		if !origin.DeforestationFree {
			stmt.AllDeforestationFree = false
		}
	}

	switch {
	case stmt.HighRiskOrigins > 0:
		stmt.OverallRisk = domain.RiskHigh
	case stmt.StandardRiskOrigins > 0:
		stmt.OverallRisk = domain.RiskStandard
	}

	stmt.Declaration = declaration(stmt)
	return stmt
}

// declaration renders the templated statement text.
func declaration(stmt *domain.DueDiligenceStatement) string {
	compliance := "all origins carry valid production dates, geolocation data, and deforestation-free attestations"
	if !stmt.AllDatesValid || !stmt.AllGeolocated || !stmt.AllDeforestationFree {
		compliance = "one or more origins are missing valid production dates, geolocation data, or deforestation-free attestations"
	}
	return fmt.Sprintf(
		"Due diligence for shipment %s: %d origin(s) assessed (%d high risk, %d standard risk, %d low risk); overall risk %s; %s.",
		stmt.ShipmentID,
		stmt.TotalOrigins,
		stmt.HighRiskOrigins,
		stmt.StandardRiskOrigins,
		stmt.LowRiskOrigins,
		stmt.OverallRisk,
		compliance,
	)
}
