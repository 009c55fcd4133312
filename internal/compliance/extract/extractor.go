// Package extract turns classified raw document text into typed field
// sets. Extraction is pattern-driven: each document type has an ordered
// schema in the patterns package, and the extractor applies it, validates
// container numbers, parses dates and weights, and scores completeness.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/patterns"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

// dateLayouts are tried in order when parsing extracted date strings.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Extractor applies per-type schemas to raw text. Extraction never fails:
// text that matches nothing still yields a valid field set with
// confidence 0.0.
type Extractor struct {
	log *logger.Logger
	now func() time.Time
}

// New creates an extractor.
func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log, now: time.Now}
}

// Extract runs the schema for docType against rawText and returns the
// typed field set. Extraction is idempotent: the same text and type
// always produce the same fields and confidence.
func (e *Extractor) Extract(documentID, shipmentID string, docType domain.DocumentType, needsReview bool, rawText string) *domain.ExtractedFieldSet {
	fieldSet := &domain.ExtractedFieldSet{
		DocumentID:   documentID,
		ShipmentID:   shipmentID,
		DocumentType: docType,
		RawText:      rawText,
		NeedsReview:  needsReview,
		Fields:       domain.OtherFields{},
		ExtractedAt:  e.now(),
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error().
				Str("document_id", documentID).
				Str("document_type", string(docType)).
				Interface("panic", r).
				Msg("extraction failed, returning empty field set")
			fieldSet.ExtractionConfidence = 0
			fieldSet.NeedsReview = true
		}
	}()

	schema, ok := patterns.SchemaFor(docType)
	if !ok {
		fieldSet.NeedsReview = true
		return fieldSet
	}

	single := make(map[string]string)
	multi := make(map[string][]string)
	for _, field := range schema.Fields {
		if field.Multi {
			multi[field.Name] = collectAll(field.Patterns, rawText)
			continue
		}
		if value, ok := firstMatch(field.Patterns, rawText); ok {
			single[field.Name] = value
		}
	}

	fieldSet.ReferenceNumber = single[patterns.FieldReferenceNumber]
	fieldSet.IssueDate = parseDate(single[patterns.FieldIssueDate])

	containers := validateContainers(multi[patterns.FieldContainerNumbers])
	fieldSet.Fields = buildFields(docType, single, containers)
	fieldSet.ExtractionConfidence = completeness(schema, single, containers)

	return fieldSet
}

// firstMatch tries each pattern in order and returns the first capture.
func firstMatch(pats []*regexp.Regexp, text string) (string, bool) {
	for _, p := range pats {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// collectAll gathers every capture of every pattern, deduplicated in
// first-seen order.
func collectAll(pats []*regexp.Regexp, text string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, p := range pats {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			value := strings.Join(m[1:], "")
			if !seen[value] {
				seen[value] = true
				values = append(values, value)
			}
		}
	}
	return values
}

func validateContainers(raw []string) []domain.ContainerNumber {
	containers := make([]domain.ContainerNumber, 0, len(raw))
	for _, r := range raw {
		containers = append(containers, ValidateContainer(r))
	}
	return containers
}

// completeness scores how many of the schema's weighted fields were
// extracted with a usable value. Placeholder sentinels count as absent.
func completeness(schema patterns.Schema, single map[string]string, containers []domain.ContainerNumber) float64 {
	score := 0.0
	for name, weight := range schema.Weights {
		if name == patterns.FieldContainerNumbers {
			if len(containers) > 0 {
				score += weight
			}
			continue
		}
		if !patterns.IsPlaceholder(single[name]) {
			score += weight
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseWeight parses a weight like "24,800.50" or "24800" into kilograms.
func parseWeight(value string) float64 {
	if value == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(value, ",", "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	w, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || w < 0 {
		return 0
	}
	return w
}

func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// buildFields maps the raw match table onto the typed variant for the
// document type.
func buildFields(docType domain.DocumentType, single map[string]string, containers []domain.ContainerNumber) domain.DocumentFields {
	switch docType {
	case domain.DocumentTypeBillOfLading:
		return domain.BillOfLadingFields{
			Shipper:          single["shipper"],
			Consignee:        single["consignee"],
			VesselName:       single["vessel_name"],
			VoyageNumber:     single["voyage_number"],
			PortOfLoading:    single["port_of_loading"],
			PortOfDischarge:  single["port_of_discharge"],
			ContainerNumbers: containers,
			GrossWeight:      parseWeight(single[patterns.FieldGrossWeightKg]),
			ShippedOnBoard:   parseDate(single["shipped_on_board"]),
		}
	case domain.DocumentTypeCommercialInvoice:
		return domain.CommercialInvoiceFields{
			Seller:   single["seller"],
			Buyer:    single["buyer"],
			Incoterm: single["incoterm"],
			Total: domain.Money{
				Amount:   parseWeight(single["total_amount"]),
				Currency: single["currency"],
			},
			GrossWeight: parseWeight(single[patterns.FieldGrossWeightKg]),
		}
	case domain.DocumentTypePackingList:
		return domain.PackingListFields{
			ContainerNumbers: containers,
			PackageCount:     parseInt(single["package_count"]),
			GrossWeight:      parseWeight(single[patterns.FieldGrossWeightKg]),
			NetWeight:        parseWeight(single["net_weight_kg"]),
		}
	case domain.DocumentTypeCertificateOfOrigin:
		return domain.CertificateOfOriginFields{
			Exporter:        single["exporter"],
			Consignee:       single["consignee"],
			CountryOfOrigin: single["country_of_origin"],
			HSCode:          single["hs_code"],
		}
	case domain.DocumentTypeEUTraces:
		return domain.EUTracesFields{
			CertificateNumber: single[patterns.FieldReferenceNumber],
			OperatorID:        single["operator_id"],
			BorderControlPost: single["border_control_post"],
		}
	case domain.DocumentTypeVeterinaryHealth:
		return domain.VeterinaryHealthFields{
			CertificateNumber: single[patterns.FieldReferenceNumber],
			CountryOfOrigin:   single["country_of_origin"],
			IssuingAuthority:  single["issuing_authority"],
		}
	case domain.DocumentTypePhytosanitary:
		return domain.PhytosanitaryFields{
			CertificateNumber: single[patterns.FieldReferenceNumber],
			PlaceOfIssue:      single["place_of_issue"],
			BotanicalName:     single["botanical_name"],
		}
	case domain.DocumentTypeFumigation:
		return domain.FumigationFields{
			ContainerNumbers: containers,
			Fumigant:         single["fumigant"],
			TreatmentDate:    parseDate(single["treatment_date"]),
		}
	case domain.DocumentTypeExportDeclaration:
		return domain.ExportDeclarationFields{
			MRN:          single[patterns.FieldReferenceNumber],
			ExporterEORI: single["exporter_eori"],
			HSCode:       single["hs_code"],
		}
	case domain.DocumentTypeQuality:
		return domain.QualityFields{
			Grade:       single["grade"],
			MoisturePct: parseFloat(single["moisture_pct"]),
			Inspector:   single["inspector"],
		}
	case domain.DocumentTypeEUDRDueDiligence:
		return domain.EUDRDueDiligenceFields{
			DDSReference: single[patterns.FieldReferenceNumber],
			OperatorName: single["operator_name"],
		}
	case domain.DocumentTypeGeolocationData:
		return domain.GeolocationDataFields{
			PlotCount:   parseInt(single["plot_count"]),
			CountryCode: single["country_code"],
		}
	case domain.DocumentTypeDeforestationDeclaration:
		return domain.DeforestationDeclarationFields{
			Statement: single["statement"],
			SignedBy:  single["signed_by"],
		}
	default:
		return domain.OtherFields{}
	}
}
