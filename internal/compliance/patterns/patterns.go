// Package patterns is the field pattern library: per-document-type ordered
// extraction patterns, confidence weight tables, and classifier keyword
// profiles. Pure data; behavior lives in the classifier and extract packages.
package patterns

import (
	"regexp"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// Field names shared across schemas.
const (
	FieldReferenceNumber  = "reference_number"
	FieldIssueDate        = "issue_date"
	FieldContainerNumbers = "container_numbers"
	FieldGrossWeightKg    = "gross_weight_kg"
)

// Placeholder sentinels: extracted values equal to one of these count as
// absent for confidence scoring and content rules.
var PlaceholderSentinels = []string{
	"Unknown",
	"Unknown Shipper",
	"Unknown Consignee",
	"N/A",
	"TBD",
}

// IsPlaceholder reports whether a value is empty or a known placeholder.
func IsPlaceholder(value string) bool {
	if value == "" {
		return true
	}
	for _, s := range PlaceholderSentinels {
		if value == s {
			return true
		}
	}
	return false
}

// FieldPattern is one field's ordered extraction patterns. Patterns are
// tried in declaration order; the first match wins. Multi fields collect
// every match of every pattern instead.
type FieldPattern struct {
	Name     string
	Multi    bool
	Patterns []*regexp.Regexp
}

// Schema is the extraction schema for one document type: the ordered field
// patterns plus the confidence weight table over its most diagnostic
// fields. Weights sum to 1.0.
type Schema struct {
	Type    domain.DocumentType
	Fields  []FieldPattern
	Weights map[string]float64
}

// containerPattern matches ISO 6346 style container numbers: four letters
// (owner code + category) followed by seven digits.
var containerPattern = regexp.MustCompile(`\b([A-Z]{4})\s?(\d{7})\b`)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:date of issue|issue date|issued on|date)[:\s]+(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)(?:date of issue|issue date|issued on|date)[:\s]+(\d{1,2}[./]\d{1,2}[./]\d{4})`),
	regexp.MustCompile(`(?i)(?:date of issue|issue date|issued on|date)[:\s]+(\d{1,2} [A-Za-z]+ \d{4})`),
}

var weightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)gross weight[:\s]+([\d.,]+)\s*kg`),
	regexp.MustCompile(`(?i)total gross[:\s]+([\d.,]+)\s*kg`),
	regexp.MustCompile(`(?i)([\d.,]+)\s*kgs?\s+gross`),
}

var schemas = map[domain.DocumentType]Schema{
	domain.DocumentTypeBillOfLading: {
		Type: domain.DocumentTypeBillOfLading,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)b/?l\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
				regexp.MustCompile(`(?i)bill of lading\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "shipper", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)shipper[:\s]+([^\n]+)`),
			}},
			{Name: "consignee", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consignee[:\s]+([^\n]+)`),
			}},
			{Name: "vessel_name", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:ocean vessel|vessel)[:\s]+([^\n/]+)`),
			}},
			{Name: "voyage_number", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)voyage\s*(?:no\.?)?[:\s]+([A-Z0-9]+)`),
			}},
			{Name: "port_of_loading", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)port of loading[:\s]+([^\n]+)`),
			}},
			{Name: "port_of_discharge", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)port of discharge[:\s]+([^\n]+)`),
			}},
			{Name: FieldContainerNumbers, Multi: true, Patterns: []*regexp.Regexp{containerPattern}},
			{Name: FieldGrossWeightKg, Patterns: weightPatterns},
			{Name: "shipped_on_board", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)shipped on board[:\s]+(\d{4}-\d{2}-\d{2})`),
				regexp.MustCompile(`(?i)shipped on board[:\s]+(\d{1,2}[./]\d{1,2}[./]\d{4})`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber:  0.20,
			"shipper":             0.15,
			"consignee":           0.15,
			"vessel_name":         0.10,
			"port_of_loading":     0.10,
			"port_of_discharge":   0.10,
			FieldContainerNumbers: 0.10,
			FieldGrossWeightKg:    0.05,
			FieldIssueDate:        0.05,
		},
	},
	domain.DocumentTypeCommercialInvoice: {
		Type: domain.DocumentTypeCommercialInvoice,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)invoice\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "seller", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:seller|exporter)[:\s]+([^\n]+)`),
			}},
			{Name: "buyer", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:buyer|importer|sold to)[:\s]+([^\n]+)`),
			}},
			{Name: "incoterm", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(EXW|FCA|FAS|FOB|CFR|CIF|CPT|CIP|DAP|DPU|DDP)\b`),
			}},
			{Name: "total_amount", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)total(?:\s+amount)?[:\s]+(?:[A-Z]{3}\s*)?([\d.,]+)`),
			}},
			{Name: "currency", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)total(?:\s+amount)?[:\s]+([A-Z]{3})\s*[\d.,]+`),
				regexp.MustCompile(`\b(EUR|USD|GBP|CHF)\b`),
			}},
			{Name: FieldGrossWeightKg, Patterns: weightPatterns},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.25,
			"seller":             0.20,
			"buyer":              0.20,
			"total_amount":       0.15,
			"incoterm":           0.10,
			FieldIssueDate:       0.10,
		},
	},
	domain.DocumentTypePackingList: {
		Type: domain.DocumentTypePackingList,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)packing list\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
				regexp.MustCompile(`(?i)(?:ref|reference)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: FieldContainerNumbers, Multi: true, Patterns: []*regexp.Regexp{containerPattern}},
			{Name: "package_count", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:number of packages|total packages)[:\s]+(\d+)`),
				regexp.MustCompile(`(?i)(\d+)\s+(?:cartons|bags|packages)`),
			}},
			{Name: FieldGrossWeightKg, Patterns: weightPatterns},
			{Name: "net_weight_kg", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)net weight[:\s]+([\d.,]+)\s*kg`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber:  0.25,
			FieldContainerNumbers: 0.25,
			"package_count":       0.20,
			FieldGrossWeightKg:    0.15,
			"net_weight_kg":       0.10,
			FieldIssueDate:        0.05,
		},
	},
	domain.DocumentTypeCertificateOfOrigin: {
		Type: domain.DocumentTypeCertificateOfOrigin,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)certificate\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "exporter", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)exporter[:\s]+([^\n]+)`),
			}},
			{Name: "consignee", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)consignee[:\s]+([^\n]+)`),
			}},
			{Name: "country_of_origin", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)country of origin[:\s]+([^\n]+)`),
			}},
			{Name: "hs_code", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:hs|tariff)\s*(?:code|heading)[:\s.]+(\d{4,10})`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.25,
			"exporter":           0.20,
			"country_of_origin":  0.25,
			"hs_code":            0.15,
			FieldIssueDate:       0.15,
		},
	},
	domain.DocumentTypeEUTraces: {
		Type: domain.DocumentTypeEUTraces,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:ched|certificate)\s*(?:ref\.?|no\.?|number)[:\s]+([A-Z0-9][A-Z0-9.\-/]+)`),
				regexp.MustCompile(`\b(CHEDP?\.[A-Z]{2}\.\d{4}\.\d{7})\b`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "operator_id", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)operator\s*(?:id|registration)[:\s]+([A-Z0-9][A-Z0-9\-]+)`),
				regexp.MustCompile(`\b([A-Z]{2}-[A-Z]{2}-OP-\d{7})\b`),
			}},
			{Name: "border_control_post", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)border control post[:\s]+([^\n]+)`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber:  0.40,
			"operator_id":         0.30,
			"border_control_post": 0.15,
			FieldIssueDate:        0.15,
		},
	},
	domain.DocumentTypeVeterinaryHealth: {
		Type: domain.DocumentTypeVeterinaryHealth,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)certificate\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "country_of_origin", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)country of origin[:\s]+([^\n]+)`),
			}},
			{Name: "issuing_authority", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:issuing authority|competent authority)[:\s]+([^\n]+)`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.35,
			"country_of_origin":  0.20,
			"issuing_authority":  0.20,
			FieldIssueDate:       0.25,
		},
	},
	domain.DocumentTypePhytosanitary: {
		Type: domain.DocumentTypePhytosanitary,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)certificate\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "place_of_issue", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)place of issue[:\s]+([^\n]+)`),
			}},
			{Name: "botanical_name", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)botanical name[:\s]+([^\n]+)`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.40,
			"place_of_issue":     0.20,
			"botanical_name":     0.20,
			FieldIssueDate:       0.20,
		},
	},
	domain.DocumentTypeFumigation: {
		Type: domain.DocumentTypeFumigation,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)certificate\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: FieldContainerNumbers, Multi: true, Patterns: []*regexp.Regexp{containerPattern}},
			{Name: "fumigant", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)fumigant[:\s]+([^\n]+)`),
				regexp.MustCompile(`(?i)\b(methyl bromide|phosphine|sulfuryl fluoride)\b`),
			}},
			{Name: "treatment_date", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:treatment date|date of treatment)[:\s]+(\d{4}-\d{2}-\d{2})`),
				regexp.MustCompile(`(?i)(?:treatment date|date of treatment)[:\s]+(\d{1,2}[./]\d{1,2}[./]\d{4})`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber:  0.30,
			FieldContainerNumbers: 0.25,
			"fumigant":            0.20,
			"treatment_date":      0.15,
			FieldIssueDate:        0.10,
		},
	},
	domain.DocumentTypeExportDeclaration: {
		Type: domain.DocumentTypeExportDeclaration,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)mrn[:\s]+([A-Z0-9]{18})`),
				regexp.MustCompile(`(?i)movement reference number[:\s]+([A-Z0-9]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "exporter_eori", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)eori[:\s]+([A-Z]{2}[A-Z0-9]{1,15})`),
			}},
			{Name: "hs_code", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:commodity|hs)\s*code[:\s.]+(\d{4,10})`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.40,
			"exporter_eori":      0.25,
			"hs_code":            0.20,
			FieldIssueDate:       0.15,
		},
	},
	domain.DocumentTypeQuality: {
		Type: domain.DocumentTypeQuality,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)certificate\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "grade", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)grade[:\s]+([^\n]+)`),
			}},
			{Name: "moisture_pct", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)moisture(?:\s+content)?[:\s]+([\d.]+)\s*%`),
			}},
			{Name: "inspector", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:inspector|surveyor)[:\s]+([^\n]+)`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.35,
			"grade":              0.25,
			"moisture_pct":       0.20,
			FieldIssueDate:       0.20,
		},
	},
	domain.DocumentTypeEUDRDueDiligence: {
		Type: domain.DocumentTypeEUDRDueDiligence,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)dds\s*(?:ref\.?|reference)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
				regexp.MustCompile(`(?i)reference\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "operator_name", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)operator[:\s]+([^\n]+)`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.45,
			"operator_name":      0.30,
			FieldIssueDate:       0.25,
		},
	},
	domain.DocumentTypeGeolocationData: {
		Type: domain.DocumentTypeGeolocationData,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:ref|reference)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "plot_count", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:number of plots|plots)[:\s]+(\d+)`),
			}},
			{Name: "country_code", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)country(?:\s+code)?[:\s]+([A-Z]{2})\b`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.30,
			"plot_count":         0.30,
			"country_code":       0.25,
			FieldIssueDate:       0.15,
		},
	},
	domain.DocumentTypeDeforestationDeclaration: {
		Type: domain.DocumentTypeDeforestationDeclaration,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)declaration\s*(?:no\.?|number)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
				regexp.MustCompile(`(?i)(?:ref|reference)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
			{Name: "statement", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)((?:we|the undersigned)[^\n]*deforestation[^\n]*)`),
			}},
			{Name: "signed_by", Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)signed(?:\s+by)?[:\s]+([^\n]+)`),
			}},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.30,
			"statement":          0.30,
			"signed_by":          0.20,
			FieldIssueDate:       0.20,
		},
	},
	domain.DocumentTypeOther: {
		Type: domain.DocumentTypeOther,
		Fields: []FieldPattern{
			{Name: FieldReferenceNumber, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:ref|reference|no\.?)[:\s]+([A-Z0-9][A-Z0-9\-/]+)`),
			}},
			{Name: FieldIssueDate, Patterns: datePatterns},
		},
		Weights: map[string]float64{
			FieldReferenceNumber: 0.60,
			FieldIssueDate:       0.40,
		},
	},
}

// SchemaFor returns the extraction schema for a document type.
func SchemaFor(t domain.DocumentType) (Schema, bool) {
	s, ok := schemas[t]
	return s, ok
}
