package rules

import (
	"fmt"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// vetCertIssueDateRule (DATE_001) places a veterinary certificate's issue
// date relative to the estimated departure: issuance after departure is an
// error, issuance too far before it is a warning. A missing departure date
// short-circuits to pass.
func vetCertIssueDateRule() Rule {
	return Rule{
		ID:          "DATE_001",
		Description: "veterinary certificate issued within the pre-departure window",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			vet, ok := ctx.FirstOfType(domain.DocumentTypeVeterinaryHealth)
			if !ok {
				return []domain.RuleResult{pass("DATE_001", "no veterinary certificate present")}
			}
			if ctx.Shipment.ETD.IsZero() {
				return []domain.RuleResult{pass("DATE_001", "no estimated departure date on shipment")}
			}
			if !vet.HasIssueDate() {
				return []domain.RuleResult{pass("DATE_001", "veterinary certificate carries no issue date")}
			}

			issued := vet.IssueDate
			etd := ctx.Shipment.ETD

			if issued.After(etd) {
				return []domain.RuleResult{
					fail("DATE_001", domain.SeverityError,
						fmt.Sprintf("veterinary certificate issued %s, after estimated departure %s",
							issued.Format("2006-01-02"), etd.Format("2006-01-02")),
						"issue_date", nil),
				}
			}

			window := time.Duration(ctx.VetCertWindowDays) * 24 * time.Hour
			if etd.Sub(issued) > window {
				return []domain.RuleResult{
					fail("DATE_001", domain.SeverityWarning,
						fmt.Sprintf("veterinary certificate issued %s, more than %d days before estimated departure %s",
							issued.Format("2006-01-02"), ctx.VetCertWindowDays, etd.Format("2006-01-02")),
						"issue_date", nil),
				}
			}

			return []domain.RuleResult{
				pass("DATE_001", "veterinary certificate issued within the departure window"),
			}
		},
	}
}
