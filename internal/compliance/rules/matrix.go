package rules

import (
	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/eudr"
)

// matrixEntry lists the documents a product category requires.
// Conditional entries apply only when the shipment carries the named
// buyer flag.
type matrixEntry struct {
	Required    []domain.DocumentType
	Conditional []conditionalRequirement
}

type conditionalRequirement struct {
	Type      domain.DocumentType
	BuyerFlag string
}

// Buyer requirement flags referenced by the matrix.
const (
	FlagRequiresQualityCertificate = "requires_quality_certificate"
	FlagRequiresFumigation         = "requires_fumigation"
)

// baseRequired applies to every export shipment regardless of product.
var baseRequired = []domain.DocumentType{
	domain.DocumentTypeBillOfLading,
	domain.DocumentTypeCommercialInvoice,
	domain.DocumentTypePackingList,
	domain.DocumentTypeExportDeclaration,
}

// eudrEvidence is the document trio EUDR-applicable commodities require.
var eudrEvidence = []domain.DocumentType{
	domain.DocumentTypeEUDRDueDiligence,
	domain.DocumentTypeGeolocationData,
	domain.DocumentTypeDeforestationDeclaration,
}

// complianceMatrix keys required-document lists by HS-code prefix.
// Prefixes absent from the table fall back to baseRequired.
var complianceMatrix = map[string]matrixEntry{
	// cocoa
	"1801": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
			domain.DocumentTypePhytosanitary,
		),
		Conditional: []conditionalRequirement{
			{domain.DocumentTypeQuality, FlagRequiresQualityCertificate},
			{domain.DocumentTypeFumigation, FlagRequiresFumigation},
		},
	},
	// coffee
	"0901": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
			domain.DocumentTypePhytosanitary,
		),
		Conditional: []conditionalRequirement{
			{domain.DocumentTypeQuality, FlagRequiresQualityCertificate},
			{domain.DocumentTypeFumigation, FlagRequiresFumigation},
		},
	},
	// palm oil
	"1511": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
		),
		Conditional: []conditionalRequirement{
			{domain.DocumentTypeQuality, FlagRequiresQualityCertificate},
		},
	},
	// natural rubber
	"4001": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
		),
		Conditional: []conditionalRequirement{
			{domain.DocumentTypeFumigation, FlagRequiresFumigation},
		},
	},
	// soya
	"1201": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
			domain.DocumentTypePhytosanitary,
		),
	},
	// horn and hoof: animal products need veterinary and TRACES paperwork
	"0506": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
			domain.DocumentTypeVeterinaryHealth,
			domain.DocumentTypeEUTraces,
		),
	},
	"0507": {
		Required: join(baseRequired,
			domain.DocumentTypeCertificateOfOrigin,
			domain.DocumentTypeVeterinaryHealth,
			domain.DocumentTypeEUTraces,
		),
	},
}

// RequiredDocuments computes the required document list for a shipment
// from the compliance matrix, the EUDR evidence trio, and the shipment's
// buyer flags. Order is deterministic: matrix order, then EUDR evidence,
// then conditional requirements.
func RequiredDocuments(s *domain.Shipment) []domain.DocumentType {
	prefix := s.HSPrefix()
	entry, ok := complianceMatrix[prefix]
	if !ok {
		entry = matrixEntry{Required: baseRequired}
	}

	required := make([]domain.DocumentType, len(entry.Required))
	copy(required, entry.Required)

	if eudr.IsApplicable(prefix) {
		required = append(required, eudrEvidence...)
	}
	for _, cond := range entry.Conditional {
		if s.HasBuyerFlag(cond.BuyerFlag) {
			required = append(required, cond.Type)
		}
	}
	return required
}

func join(base []domain.DocumentType, extra ...domain.DocumentType) []domain.DocumentType {
	out := make([]domain.DocumentType, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}
