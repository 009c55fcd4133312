package domain

import (
	"sort"
	"time"
)

// Severity grades a validation finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityError    Severity = "ERROR"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// Decision is the aggregate outcome of a validation run.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionHold    Decision = "HOLD"
	DecisionReject  Decision = "REJECT"
)

// RuleResult is the outcome of a single rule evaluation. It is never
// mutated after creation. Severity echoes the rule's severity only when the
// rule failed; passed results carry SeverityInfo.
type RuleResult struct {
	RuleID   string            `json:"rule_id"`
	Passed   bool              `json:"passed"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	Field    string            `json:"field,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// ValidationSummary aggregates all rule results for one shipment at one
// point in time. Decision is a pure function of the result set: re-running
// evaluation on unchanged inputs yields an identical summary apart from
// EvaluatedAt.
type ValidationSummary struct {
	ShipmentID     string       `json:"shipment_id"`
	Decision       Decision     `json:"decision"`
	CriticalErrors int          `json:"critical_errors"`
	Errors         int          `json:"errors"`
	Warnings       int          `json:"warnings"`
	Passed         int          `json:"passed"`
	Blocking       []RuleResult `json:"blocking"`
	NonBlocking    []RuleResult `json:"non_blocking"`
	Results        []RuleResult `json:"results"`
	EvaluatedAt    time.Time    `json:"evaluated_at"`
}

// Summarize builds a ValidationSummary from a set of rule results.
// Results are sorted by rule ID so that identical inputs produce
// byte-identical output regardless of evaluation order.
func Summarize(shipmentID string, results []RuleResult, evaluatedAt time.Time) *ValidationSummary {
	sorted := make([]RuleResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RuleID < sorted[j].RuleID })

	summary := &ValidationSummary{
		ShipmentID:  shipmentID,
		Results:     sorted,
		EvaluatedAt: evaluatedAt,
	}

	for _, r := range sorted {
		if r.Passed {
			summary.Passed++
			continue
		}
		switch r.Severity {
		case SeverityCritical:
			summary.CriticalErrors++
			summary.Blocking = append(summary.Blocking, r)
		case SeverityError:
			summary.Errors++
			summary.Blocking = append(summary.Blocking, r)
		case SeverityWarning:
			summary.Warnings++
			summary.NonBlocking = append(summary.NonBlocking, r)
		default:
			// a failed INFO result is informational noise, not a finding
			summary.NonBlocking = append(summary.NonBlocking, r)
		}
	}

	switch {
	case summary.CriticalErrors > 0 || summary.Errors > 0:
		summary.Decision = DecisionReject
	case summary.Warnings > 0:
		summary.Decision = DecisionHold
	default:
		summary.Decision = DecisionApprove
	}

	return summary
}
