package rules

import (
	"fmt"
	"strings"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/patterns"
)

// contentPartyNamesRule (CONT_001) rejects party names that are empty or
// equal to a placeholder sentinel leaked through extraction.
func contentPartyNamesRule() Rule {
	return Rule{
		ID:          "CONT_001",
		Description: "party names are real values, not placeholder sentinels",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			var offenders []string
			for _, doc := range ctx.Documents {
				for _, party := range partyFields(doc.Fields) {
					if patterns.IsPlaceholder(party.value) {
						offenders = append(offenders, fmt.Sprintf("%s.%s", doc.DocumentType, party.name))
					}
				}
			}

			if len(offenders) == 0 {
				return []domain.RuleResult{pass("CONT_001", "all party names populated")}
			}
			return []domain.RuleResult{
				fail("CONT_001", domain.SeverityError,
					fmt.Sprintf("placeholder or empty party names: %s", strings.Join(offenders, ", ")),
					"", map[string]string{"fields": strings.Join(offenders, ",")}),
			}
		},
	}
}

// contentReferenceNumbersRule (CONT_002) requires a non-empty reference
// number on every document.
func contentReferenceNumbersRule() Rule {
	return Rule{
		ID:          "CONT_002",
		Description: "every document carries a reference number",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			var offenders []string
			for _, doc := range ctx.Documents {
				if patterns.IsPlaceholder(doc.ReferenceNumber) {
					offenders = append(offenders, fmt.Sprintf("%s (%s)", doc.DocumentType, doc.DocumentID))
				}
			}

			if len(offenders) == 0 {
				return []domain.RuleResult{pass("CONT_002", "all documents carry reference numbers")}
			}
			return []domain.RuleResult{
				fail("CONT_002", domain.SeverityError,
					fmt.Sprintf("documents without reference numbers: %s", strings.Join(offenders, ", ")),
					"reference_number", nil),
			}
		},
	}
}

type partyField struct {
	name  string
	value string
}

// partyFields lists the party-name fields a variant carries, in a fixed
// order so findings are reproducible.
func partyFields(fields domain.DocumentFields) []partyField {
	switch f := fields.(type) {
	case domain.BillOfLadingFields:
		return []partyField{{"shipper", f.Shipper}, {"consignee", f.Consignee}}
	case domain.CommercialInvoiceFields:
		return []partyField{{"seller", f.Seller}, {"buyer", f.Buyer}}
	case domain.CertificateOfOriginFields:
		return []partyField{{"exporter", f.Exporter}, {"consignee", f.Consignee}}
	default:
		return nil
	}
}
