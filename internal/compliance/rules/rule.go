// Package rules holds the validation rule catalogue and the engine that
// evaluates it. Rules are stateless and side-effect-free: each one is a
// pure function from the evaluation context to one or more results, and
// the catalogue is a static list.
package rules

import (
	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// Context is the full input to one validation run: the shipment metadata
// and the accumulated field sets for its documents, plus the tunable
// thresholds. The engine never mutates it.
type Context struct {
	Shipment  *domain.Shipment
	Documents []*domain.ExtractedFieldSet

	// WeightTolerancePct is the allowed gross-weight deviation from the
	// baseline, in percent
	WeightTolerancePct float64

	// VetCertWindowDays bounds how long before departure a veterinary
	// certificate may be issued
	VetCertWindowDays int

	// TracesOperatorID is the registration string an EU TRACES document
	// must reference for animal-product shipments
	TracesOperatorID string
}

// OfType returns every field set of the given document type, in
// collection order.
func (c *Context) OfType(t domain.DocumentType) []*domain.ExtractedFieldSet {
	var out []*domain.ExtractedFieldSet
	for _, doc := range c.Documents {
		if doc.DocumentType == t {
			out = append(out, doc)
		}
	}
	return out
}

// FirstOfType returns the first field set of the given type, if any.
func (c *Context) FirstOfType(t domain.DocumentType) (*domain.ExtractedFieldSet, bool) {
	for _, doc := range c.Documents {
		if doc.DocumentType == t {
			return doc, true
		}
	}
	return nil, false
}

// HasType reports whether at least one document of the type is present.
func (c *Context) HasType(t domain.DocumentType) bool {
	_, ok := c.FirstOfType(t)
	return ok
}

// Rule is one catalogue entry. Evaluate returns at least one result;
// most rules return exactly one.
type Rule struct {
	ID          string
	Description string
	Evaluate    func(*Context) []domain.RuleResult
}

// Catalogue returns the static rule list. The returned slice is freshly
// allocated; callers may not rely on identity.
func Catalogue() []Rule {
	return []Rule{
		presenceRule(),
		contentPartyNamesRule(),
		contentReferenceNumbersRule(),
		containerConsistencyRule(),
		weightConsistencyRule(),
		vetCertIssueDateRule(),
		tracesPresenceRule(),
		tracesOperatorRule(),
		eudrFieldsOnExcludedProductRule(),
		eudrProductionDatesRule(),
		eudrGeolocationRule(),
		eudrDeforestationRule(),
	}
}

// pass builds a passing result. Passed results always carry INFO severity
// regardless of the rule's failure severity.
func pass(ruleID, message string) domain.RuleResult {
	return domain.RuleResult{
		RuleID:   ruleID,
		Passed:   true,
		Severity: domain.SeverityInfo,
		Message:  message,
	}
}

func fail(ruleID string, severity domain.Severity, message, field string, details map[string]string) domain.RuleResult {
	return domain.RuleResult{
		RuleID:   ruleID,
		Passed:   false,
		Severity: severity,
		Message:  message,
		Field:    field,
		Details:  details,
	}
}
