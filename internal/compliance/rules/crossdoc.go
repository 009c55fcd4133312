package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// containerConsistencyRule (XDOC_001) checks that the same container set
// appears in every document that lists containers: bill of lading,
// packing list, and fumigation certificate when present. Document absence
// is out of scope here; PRES_001 owns that failure category.
func containerConsistencyRule() Rule {
	return Rule{
		ID:          "XDOC_001",
		Description: "container numbers are consistent across documents",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			sources := containerSources(ctx)
			if len(sources) < 2 {
				return []domain.RuleResult{
					pass("XDOC_001", "fewer than two container-bearing documents present"),
				}
			}

			union := make(map[string]bool)
			for _, src := range sources {
				for number := range src.set {
					union[number] = true
				}
			}
			numbers := make([]string, 0, len(union))
			for number := range union {
				numbers = append(numbers, number)
			}
			sort.Strings(numbers)

			var mismatches []string
			for _, number := range numbers {
				for _, src := range sources {
					if !src.set[number] {
						mismatches = append(mismatches,
							fmt.Sprintf("%s missing from %s", number, src.docType))
					}
				}
			}

			if len(mismatches) == 0 {
				return []domain.RuleResult{
					pass("XDOC_001", fmt.Sprintf("%d container(s) consistent across %d documents", len(numbers), len(sources))),
				}
			}
			return []domain.RuleResult{
				fail("XDOC_001", domain.SeverityError,
					fmt.Sprintf("container mismatches: %s", strings.Join(mismatches, "; ")),
					"container_numbers", map[string]string{"mismatches": strings.Join(mismatches, ";")}),
			}
		},
	}
}

type containerSource struct {
	docType domain.DocumentType
	set     map[string]bool
}

// containerSources gathers the container sets of the present
// container-bearing documents, in a fixed document-type order.
func containerSources(ctx *Context) []containerSource {
	var sources []containerSource
	for _, docType := range []domain.DocumentType{
		domain.DocumentTypeBillOfLading,
		domain.DocumentTypePackingList,
		domain.DocumentTypeFumigation,
	} {
		doc, ok := ctx.FirstOfType(docType)
		if !ok {
			continue
		}
		carrier, ok := doc.Fields.(domain.ContainerCarrier)
		if !ok {
			continue
		}
		set := make(map[string]bool)
		for _, c := range carrier.Containers() {
			set[c.Number] = true
		}
		sources = append(sources, containerSource{docType: docType, set: set})
	}
	return sources
}

// weightConsistencyRule (XDOC_002) compares gross weights across
// documents. The first available value is the baseline; deviations beyond
// the tolerance are warnings naming both sources and the delta.
func weightConsistencyRule() Rule {
	return Rule{
		ID:          "XDOC_002",
		Description: "gross weights agree across documents within tolerance",
		Evaluate: func(ctx *Context) []domain.RuleResult {
			type weightValue struct {
				docType domain.DocumentType
				kg      float64
			}

			var values []weightValue
			for _, docType := range []domain.DocumentType{
				domain.DocumentTypeBillOfLading,
				domain.DocumentTypePackingList,
				domain.DocumentTypeCommercialInvoice,
			} {
				doc, ok := ctx.FirstOfType(docType)
				if !ok {
					continue
				}
				carrier, ok := doc.Fields.(domain.WeightCarrier)
				if !ok {
					continue
				}
				if kg, present := carrier.GrossWeightKg(); present {
					values = append(values, weightValue{docType: docType, kg: kg})
				}
			}

			if len(values) < 2 {
				return []domain.RuleResult{
					pass("XDOC_002", "fewer than two gross-weight values available"),
				}
			}

			baseline := values[0]
			var deviations []string
			for _, v := range values[1:] {
				deltaPct := math.Abs(v.kg-baseline.kg) / baseline.kg * 100
				if deltaPct > ctx.WeightTolerancePct {
					deviations = append(deviations, fmt.Sprintf(
						"%s (%.0f kg) deviates %.2f%% from %s (%.0f kg)",
						v.docType, v.kg, deltaPct, baseline.docType, baseline.kg))
				}
			}

			if len(deviations) == 0 {
				return []domain.RuleResult{
					pass("XDOC_002", fmt.Sprintf("%d gross-weight values within %.1f%% tolerance", len(values), ctx.WeightTolerancePct)),
				}
			}
			return []domain.RuleResult{
				fail("XDOC_002", domain.SeverityWarning,
					fmt.Sprintf("gross-weight deviations: %s", strings.Join(deviations, "; ")),
					"gross_weight_kg", map[string]string{"deviations": strings.Join(deviations, ";")}),
			}
		},
	}
}
