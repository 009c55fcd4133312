package rules

import (
	"fmt"
	"strings"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// presenceRule (PRES_001) checks every required document against the
// compliance matrix and fails listing all missing types at once.
func presenceRule() Rule {
	return Rule{
		ID:          "PRES_001",
		Description: "all documents required by the compliance matrix are present",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			required := RequiredDocuments(ctx.Shipment)

			var missing []string
			for _, docType := range required {
				if !ctx.HasType(docType) {
					missing = append(missing, string(docType))
				}
			}

			if len(missing) == 0 {
				return []domain.RuleResult{
					pass("PRES_001", fmt.Sprintf("all %d required documents present", len(required))),
				}
			}
			return []domain.RuleResult{
				fail("PRES_001", domain.SeverityCritical,
					fmt.Sprintf("missing required documents: %s", strings.Join(missing, ", ")),
					"", map[string]string{"missing": strings.Join(missing, ",")}),
			}
		},
	}
}
