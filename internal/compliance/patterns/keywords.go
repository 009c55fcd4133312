package patterns

import "github.com/agroflow/agroflow-backend/internal/compliance/domain"

// WeightedKeyword is one positive classification signal.
type WeightedKeyword struct {
	Keyword string
	Weight  float64
}

// KeywordProfile holds the classification signals for one document type.
// Positive keywords add their weight when found (case-insensitive substring
// match); each negative keyword found halves the accumulated score.
type KeywordProfile struct {
	Type     domain.DocumentType
	Positive []WeightedKeyword
	Negative []string
}

// KeywordProfiles lists the classifier signals in registration order.
// DocumentTypeOther has no profile: it is the fallback, never a candidate.
var KeywordProfiles = []KeywordProfile{
	{
		Type: domain.DocumentTypeBillOfLading,
		Positive: []WeightedKeyword{
			{"bill of lading", 2.0},
			{"shipped on board", 1.5},
			{"port of loading", 1.0},
			{"port of discharge", 1.0},
			{"ocean vessel", 1.0},
			{"consignee", 0.5},
		},
		Negative: []string{"packing list", "commercial invoice"},
	},
	{
		Type: domain.DocumentTypeCommercialInvoice,
		Positive: []WeightedKeyword{
			{"commercial invoice", 2.0},
			{"invoice no", 1.5},
			{"total amount", 1.0},
			{"incoterm", 1.0},
			{"payment terms", 1.0},
			{"unit price", 0.5},
		},
		Negative: []string{"packing list", "bill of lading", "proforma"},
	},
	{
		Type: domain.DocumentTypePackingList,
		Positive: []WeightedKeyword{
			{"packing list", 2.0},
			{"number of packages", 1.5},
			{"net weight", 1.0},
			{"gross weight", 1.0},
			{"carton", 0.5},
		},
		Negative: []string{"commercial invoice", "bill of lading"},
	},
	{
		Type: domain.DocumentTypeCertificateOfOrigin,
		Positive: []WeightedKeyword{
			{"certificate of origin", 2.5},
			{"country of origin", 1.5},
			{"chamber of commerce", 1.0},
			{"exporter", 0.5},
		},
		Negative: []string{"phytosanitary", "veterinary"},
	},
	{
		Type: domain.DocumentTypeEUTraces,
		Positive: []WeightedKeyword{
			{"traces", 2.0},
			{"common health entry document", 2.0},
			{"ched", 1.5},
			{"border control post", 1.0},
			{"intra.traces", 1.0},
		},
		Negative: nil,
	},
	{
		Type: domain.DocumentTypeVeterinaryHealth,
		Positive: []WeightedKeyword{
			{"veterinary health certificate", 2.5},
			{"veterinary certificate", 2.0},
			{"official veterinarian", 1.5},
			{"animal health", 1.0},
			{"fit for human consumption", 0.5},
		},
		Negative: []string{"phytosanitary"},
	},
	{
		Type: domain.DocumentTypePhytosanitary,
		Positive: []WeightedKeyword{
			{"phytosanitary certificate", 2.5},
			{"plant protection", 1.5},
			{"ippc", 1.0},
			{"botanical name", 1.0},
			{"free from quarantine pests", 1.0},
		},
		Negative: []string{"veterinary"},
	},
	{
		Type: domain.DocumentTypeFumigation,
		Positive: []WeightedKeyword{
			{"fumigation certificate", 2.5},
			{"fumigant", 1.5},
			{"methyl bromide", 1.0},
			{"phosphine", 1.0},
			{"treatment date", 0.5},
		},
		Negative: nil,
	},
	{
		Type: domain.DocumentTypeExportDeclaration,
		Positive: []WeightedKeyword{
			{"export declaration", 2.0},
			{"movement reference number", 1.5},
			{"mrn", 1.0},
			{"customs office of export", 1.0},
			{"eori", 1.0},
		},
		Negative: nil,
	},
	{
		Type: domain.DocumentTypeQuality,
		Positive: []WeightedKeyword{
			{"certificate of quality", 2.0},
			{"quality certificate", 2.0},
			{"moisture content", 1.0},
			{"grade", 0.5},
			{"inspection", 0.5},
		},
		Negative: []string{"phytosanitary", "veterinary"},
	},
	{
		Type: domain.DocumentTypeEUDRDueDiligence,
		Positive: []WeightedKeyword{
			{"due diligence statement", 2.5},
			{"regulation (eu) 2023/1115", 2.0},
			{"deforestation regulation", 1.5},
			{"dds reference", 1.0},
		},
		Negative: nil,
	},
	{
		Type: domain.DocumentTypeGeolocationData,
		Positive: []WeightedKeyword{
			{"geolocation", 2.0},
			{"polygon", 1.0},
			{"latitude", 1.0},
			{"longitude", 1.0},
			{"plot", 0.5},
		},
		Negative: nil,
	},
	{
		Type: domain.DocumentTypeDeforestationDeclaration,
		Positive: []WeightedKeyword{
			{"deforestation-free", 2.5},
			{"deforestation free", 2.5},
			{"no deforestation", 1.5},
			{"cut-off date", 1.0},
		},
		Negative: []string{"due diligence statement"},
	},
}
