package domain_test

import (
	"testing"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

func result(id string, passed bool, severity domain.Severity) domain.RuleResult {
	return domain.RuleResult{RuleID: id, Passed: passed, Severity: severity}
}

func TestSummarize_DecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.RuleResult
		want    domain.Decision
	}{
		{
			"all passed",
			[]domain.RuleResult{
				result("A_001", true, domain.SeverityInfo),
				result("B_001", true, domain.SeverityInfo),
			},
			domain.DecisionApprove,
		},
		{
			"no results",
			nil,
			domain.DecisionApprove,
		},
		{
			"failed critical rejects",
			[]domain.RuleResult{
				result("A_001", false, domain.SeverityCritical),
			},
			domain.DecisionReject,
		},
		{
			"failed error rejects",
			[]domain.RuleResult{
				result("A_001", true, domain.SeverityInfo),
				result("B_001", false, domain.SeverityError),
			},
			domain.DecisionReject,
		},
		{
			"exactly one warning holds",
			[]domain.RuleResult{
				result("A_001", true, domain.SeverityInfo),
				result("B_001", false, domain.SeverityWarning),
			},
			domain.DecisionHold,
		},
		{
			"error outranks warning",
			[]domain.RuleResult{
				result("A_001", false, domain.SeverityWarning),
				result("B_001", false, domain.SeverityError),
			},
			domain.DecisionReject,
		},
		{
			"failed info never blocks",
			[]domain.RuleResult{
				result("A_001", false, domain.SeverityInfo),
			},
			domain.DecisionApprove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := domain.Summarize("ship-1", tt.results, time.Now())
			if summary.Decision != tt.want {
				t.Errorf("Decision = %s, want %s", summary.Decision, tt.want)
			}
		})
	}
}

func TestSummarize_SortsByRuleID(t *testing.T) {
	results := []domain.RuleResult{
		result("XDOC_002", true, domain.SeverityInfo),
		result("CONT_001", false, domain.SeverityError),
		result("PRES_001", true, domain.SeverityInfo),
	}

	summary := domain.Summarize("ship-1", results, time.Now())
	want := []string{"CONT_001", "PRES_001", "XDOC_002"}
	for i, r := range summary.Results {
		if r.RuleID != want[i] {
			t.Errorf("Results[%d] = %s, want %s", i, r.RuleID, want[i])
		}
	}
}

func TestSummarize_Counts(t *testing.T) {
	results := []domain.RuleResult{
		result("A_001", false, domain.SeverityCritical),
		result("B_001", false, domain.SeverityError),
		result("C_001", false, domain.SeverityWarning),
		result("D_001", true, domain.SeverityInfo),
		result("E_001", true, domain.SeverityInfo),
	}

	summary := domain.Summarize("ship-1", results, time.Now())
	if summary.CriticalErrors != 1 || summary.Errors != 1 || summary.Warnings != 1 || summary.Passed != 2 {
		t.Errorf("counts = %d/%d/%d/%d, want 1/1/1/2",
			summary.CriticalErrors, summary.Errors, summary.Warnings, summary.Passed)
	}
	if len(summary.Blocking) != 2 {
		t.Errorf("Blocking = %d results, want 2", len(summary.Blocking))
	}
	if len(summary.NonBlocking) != 1 {
		t.Errorf("NonBlocking = %d results, want 1", len(summary.NonBlocking))
	}
}
