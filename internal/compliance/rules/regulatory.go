package rules

import (
	"fmt"
	"strings"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/eudr"
)

// hornHoofPrefixes are the animal-product HS prefixes the TRACES rules
// apply to.
var hornHoofPrefixes = map[string]bool{
	"0506": true,
	"0507": true,
}

// tracesPresenceRule (HORN_001) requires an EU TRACES document for
// animal-product shipments.
func tracesPresenceRule() Rule {
	return Rule{
		ID:          "HORN_001",
		Description: "animal-product shipments carry an EU TRACES document",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			if !hornHoofPrefixes[ctx.Shipment.HSPrefix()] {
				return []domain.RuleResult{pass("HORN_001", "not an animal-product shipment")}
			}
			if !ctx.HasType(domain.DocumentTypeEUTraces) {
				return []domain.RuleResult{
					fail("HORN_001", domain.SeverityCritical,
						"EU TRACES document absent for animal-product shipment", "", nil),
				}
			}
			return []domain.RuleResult{pass("HORN_001", "EU TRACES document present")}
		},
	}
}

// tracesOperatorRule (HORN_002) requires the TRACES document to reference
// the registered operator.
func tracesOperatorRule() Rule {
	return Rule{
		ID:          "HORN_002",
		Description: "EU TRACES document references the registered operator",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			if !hornHoofPrefixes[ctx.Shipment.HSPrefix()] {
				return []domain.RuleResult{pass("HORN_002", "not an animal-product shipment")}
			}
			doc, ok := ctx.FirstOfType(domain.DocumentTypeEUTraces)
			if !ok {
				// absence is HORN_001's finding
				return []domain.RuleResult{pass("HORN_002", "no EU TRACES document to check")}
			}
			traces, ok := doc.Fields.(domain.EUTracesFields)
			if !ok || traces.OperatorID != ctx.TracesOperatorID {
				got := ""
				if ok {
					got = traces.OperatorID
				}
				return []domain.RuleResult{
					fail("HORN_002", domain.SeverityCritical,
						fmt.Sprintf("EU TRACES document does not reference operator %s", ctx.TracesOperatorID),
						"operator_id", map[string]string{"expected": ctx.TracesOperatorID, "found": got}),
				}
			}
			return []domain.RuleResult{pass("HORN_002", "EU TRACES operator registration matches")}
		},
	}
}

// eudrFieldsOnExcludedProductRule (HORN_003) fails when origin records
// carry EUDR evidence although the product's HS code is not in regulation
// scope. Wrong regulatory framing blocks as hard as a missing document.
func eudrFieldsOnExcludedProductRule() Rule {
	return Rule{
		ID:          "HORN_003",
		Description: "non-EUDR shipments carry no EUDR origin evidence",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			if eudr.IsApplicable(ctx.Shipment.HSCode) {
				return []domain.RuleResult{pass("HORN_003", "shipment is EUDR-applicable")}
			}

			var offenders []string
			for i := range ctx.Shipment.Origins {
				if ctx.Shipment.Origins[i].HasEUDRFields() {
					offenders = append(offenders, ctx.Shipment.Origins[i].ID)
				}
			}

			if len(offenders) == 0 {
				return []domain.RuleResult{pass("HORN_003", "no EUDR fields on origin records")}
			}
			return []domain.RuleResult{
				fail("HORN_003", domain.SeverityError,
					fmt.Sprintf("origins carry EUDR fields but HS code %s is not EUDR-applicable: %s",
						ctx.Shipment.HSCode, strings.Join(offenders, ", ")),
					"origins", map[string]string{"origins": strings.Join(offenders, ",")}),
			}
		},
	}
}

// eudrProductionDatesRule (EUDR_001) requires every origin of an
// EUDR-applicable shipment to have a production date after the regulation
// cutoff. An applicable shipment with no origin records fails: there is no
// evidence to assess.
func eudrProductionDatesRule() Rule {
	return Rule{
		ID:          "EUDR_001",
		Description: "origin production dates are after the regulation cutoff",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			if !eudr.IsApplicable(ctx.Shipment.HSCode) {
				return []domain.RuleResult{pass("EUDR_001", "shipment is not EUDR-applicable")}
			}
			if len(ctx.Shipment.Origins) == 0 {
				return []domain.RuleResult{
					fail("EUDR_001", domain.SeverityError,
						"EUDR-applicable shipment has no origin records", "origins", nil),
				}
			}

			var invalid []string
			for i := range ctx.Shipment.Origins {
				if !eudr.ProductionDateValid(ctx.Shipment.Origins[i].ProductionDate) {
					invalid = append(invalid, ctx.Shipment.Origins[i].ID)
				}
			}

			if len(invalid) == 0 {
				return []domain.RuleResult{pass("EUDR_001", "all origin production dates after cutoff")}
			}
			return []domain.RuleResult{
				fail("EUDR_001", domain.SeverityError,
					fmt.Sprintf("origins with production dates on or before %s: %s",
						eudr.ProductionCutoff.Format("2006-01-02"), strings.Join(invalid, ", ")),
					"production_date", map[string]string{"origins": strings.Join(invalid, ",")}),
			}
		},
	}
}

// eudrGeolocationRule (EUDR_002) requires geolocation evidence on every
// origin of an EUDR-applicable shipment.
func eudrGeolocationRule() Rule {
	return Rule{
		ID:          "EUDR_002",
		Description: "every origin carries geolocation evidence",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			if !eudr.IsApplicable(ctx.Shipment.HSCode) {
				return []domain.RuleResult{pass("EUDR_002", "shipment is not EUDR-applicable")}
			}

			var missing []string
			for i := range ctx.Shipment.Origins {
				if ctx.Shipment.Origins[i].Geolocation == nil {
					missing = append(missing, ctx.Shipment.Origins[i].ID)
				}
			}

			if len(missing) == 0 {
				return []domain.RuleResult{pass("EUDR_002", "all origins geolocated")}
			}
			return []domain.RuleResult{
				fail("EUDR_002", domain.SeverityError,
					fmt.Sprintf("origins without geolocation: %s", strings.Join(missing, ", ")),
					"geolocation", map[string]string{"origins": strings.Join(missing, ",")}),
			}
		},
	}
}

// eudrDeforestationRule (EUDR_003) checks the deforestation-free
// attestation on every origin. Missing attestations hold the shipment for
// review rather than rejecting it outright.
func eudrDeforestationRule() Rule {
	return Rule{
		ID:          "EUDR_003",
		Description: "every origin attests deforestation-free production",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			if !eudr.IsApplicable(ctx.Shipment.HSCode) {
				return []domain.RuleResult{pass("EUDR_003", "shipment is not EUDR-applicable")}
			}

			var missing []string
			for i := range ctx.Shipment.Origins {
				if !ctx.Shipment.Origins[i].DeforestationFree {
					missing = append(missing, ctx.Shipment.Origins[i].ID)
				}
			}

			if len(missing) == 0 {
				return []domain.RuleResult{pass("EUDR_003", "all origins attested deforestation-free")}
			}
			return []domain.RuleResult{
				fail("EUDR_003", domain.SeverityWarning,
					fmt.Sprintf("origins without deforestation-free attestation: %s", strings.Join(missing, ", ")),
					"deforestation_free", map[string]string{"origins": strings.Join(missing, ",")}),
			}
		},
	}
}
