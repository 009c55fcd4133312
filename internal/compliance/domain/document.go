package domain

import "time"

// DocumentType represents the type of a trade compliance document.
// The enumeration is closed: classification may fall back to
// DocumentTypeOther, but never invents new types.
type DocumentType string

const (
	DocumentTypeBillOfLading             DocumentType = "bill_of_lading"
	DocumentTypeCommercialInvoice        DocumentType = "commercial_invoice"
	DocumentTypePackingList              DocumentType = "packing_list"
	DocumentTypeCertificateOfOrigin      DocumentType = "certificate_of_origin"
	DocumentTypeEUTraces                 DocumentType = "eu_traces"
	DocumentTypeVeterinaryHealth         DocumentType = "veterinary_health_certificate"
	DocumentTypePhytosanitary            DocumentType = "phytosanitary_certificate"
	DocumentTypeFumigation               DocumentType = "fumigation_certificate"
	DocumentTypeExportDeclaration        DocumentType = "export_declaration"
	DocumentTypeQuality                  DocumentType = "quality_certificate"
	DocumentTypeEUDRDueDiligence         DocumentType = "eudr_due_diligence"
	DocumentTypeGeolocationData          DocumentType = "geolocation_data"
	DocumentTypeDeforestationDeclaration DocumentType = "deforestation_declaration"
	DocumentTypeOther                    DocumentType = "other"
)

// AllDocumentTypes lists every known type in registration order. The order
// is load-bearing: classifier ties are broken by the earlier entry.
var AllDocumentTypes = []DocumentType{
	DocumentTypeBillOfLading,
	DocumentTypeCommercialInvoice,
	DocumentTypePackingList,
	DocumentTypeCertificateOfOrigin,
	DocumentTypeEUTraces,
	DocumentTypeVeterinaryHealth,
	DocumentTypePhytosanitary,
	DocumentTypeFumigation,
	DocumentTypeExportDeclaration,
	DocumentTypeQuality,
	DocumentTypeEUDRDueDiligence,
	DocumentTypeGeolocationData,
	DocumentTypeDeforestationDeclaration,
	DocumentTypeOther,
}

// ValidDocumentType reports whether t is a member of the closed enumeration.
func ValidDocumentType(t DocumentType) bool {
	for _, known := range AllDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ContainerNumber is an ISO 6346 container identifier as found in a
// document. Malformed numbers are retained with Valid=false so that
// downstream rules can report them instead of silently dropping them.
type ContainerNumber struct {
	Number string `json:"number"`
	Valid  bool   `json:"valid"`
}

// Money is a monetary amount with its ISO 4217 currency code.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DocumentFields is the tagged union of per-type field records. Each
// document type carries a statically-typed variant; cross-document rules
// reach shared facts through the carrier interfaces below.
type DocumentFields interface {
	FieldsType() DocumentType
}

// ContainerCarrier is implemented by field variants that list container
// numbers (bill of lading, packing list, fumigation certificate).
type ContainerCarrier interface {
	Containers() []ContainerNumber
}

// WeightCarrier is implemented by field variants that state a gross weight.
type WeightCarrier interface {
	GrossWeightKg() (float64, bool)
}

// BillOfLadingFields holds the fields extracted from a bill of lading.
type BillOfLadingFields struct {
	Shipper          string            `json:"shipper"`
	Consignee        string            `json:"consignee"`
	VesselName       string            `json:"vessel_name"`
	VoyageNumber     string            `json:"voyage_number"`
	PortOfLoading    string            `json:"port_of_loading"`
	PortOfDischarge  string            `json:"port_of_discharge"`
	ContainerNumbers []ContainerNumber `json:"container_numbers"`
	GrossWeight      float64           `json:"gross_weight_kg"`
	ShippedOnBoard   time.Time         `json:"shipped_on_board"`
}

func (BillOfLadingFields) FieldsType() DocumentType { return DocumentTypeBillOfLading }

func (f BillOfLadingFields) Containers() []ContainerNumber { return f.ContainerNumbers }

func (f BillOfLadingFields) GrossWeightKg() (float64, bool) {
	return f.GrossWeight, f.GrossWeight > 0
}

// CommercialInvoiceFields holds the fields extracted from a commercial invoice.
type CommercialInvoiceFields struct {
	Seller      string  `json:"seller"`
	Buyer       string  `json:"buyer"`
	Incoterm    string  `json:"incoterm"`
	Total       Money   `json:"total"`
	GrossWeight float64 `json:"gross_weight_kg"`
}

func (CommercialInvoiceFields) FieldsType() DocumentType { return DocumentTypeCommercialInvoice }

func (f CommercialInvoiceFields) GrossWeightKg() (float64, bool) {
	return f.GrossWeight, f.GrossWeight > 0
}

// PackingListFields holds the fields extracted from a packing list.
type PackingListFields struct {
	ContainerNumbers []ContainerNumber `json:"container_numbers"`
	PackageCount     int               `json:"package_count"`
	GrossWeight      float64           `json:"gross_weight_kg"`
	NetWeight        float64           `json:"net_weight_kg"`
}

func (PackingListFields) FieldsType() DocumentType { return DocumentTypePackingList }

func (f PackingListFields) Containers() []ContainerNumber { return f.ContainerNumbers }

func (f PackingListFields) GrossWeightKg() (float64, bool) {
	return f.GrossWeight, f.GrossWeight > 0
}

// CertificateOfOriginFields holds the fields extracted from a certificate of origin.
type CertificateOfOriginFields struct {
	Exporter        string `json:"exporter"`
	Consignee       string `json:"consignee"`
	CountryOfOrigin string `json:"country_of_origin"`
	HSCode          string `json:"hs_code"`
}

func (CertificateOfOriginFields) FieldsType() DocumentType { return DocumentTypeCertificateOfOrigin }

// EUTracesFields holds the fields extracted from an EU TRACES certificate.
type EUTracesFields struct {
	CertificateNumber string `json:"certificate_number"`
	OperatorID        string `json:"operator_id"`
	BorderControlPost string `json:"border_control_post"`
}

func (EUTracesFields) FieldsType() DocumentType { return DocumentTypeEUTraces }

// VeterinaryHealthFields holds the fields extracted from a veterinary health certificate.
type VeterinaryHealthFields struct {
	CertificateNumber string `json:"certificate_number"`
	CountryOfOrigin   string `json:"country_of_origin"`
	IssuingAuthority  string `json:"issuing_authority"`
}

func (VeterinaryHealthFields) FieldsType() DocumentType { return DocumentTypeVeterinaryHealth }

// PhytosanitaryFields holds the fields extracted from a phytosanitary certificate.
type PhytosanitaryFields struct {
	CertificateNumber string `json:"certificate_number"`
	PlaceOfIssue      string `json:"place_of_issue"`
	BotanicalName     string `json:"botanical_name"`
}

func (PhytosanitaryFields) FieldsType() DocumentType { return DocumentTypePhytosanitary }

// FumigationFields holds the fields extracted from a fumigation certificate.
type FumigationFields struct {
	ContainerNumbers []ContainerNumber `json:"container_numbers"`
	Fumigant         string            `json:"fumigant"`
	TreatmentDate    time.Time         `json:"treatment_date"`
}

func (FumigationFields) FieldsType() DocumentType { return DocumentTypeFumigation }

func (f FumigationFields) Containers() []ContainerNumber { return f.ContainerNumbers }

// ExportDeclarationFields holds the fields extracted from a customs export declaration.
type ExportDeclarationFields struct {
	MRN          string `json:"mrn"`
	ExporterEORI string `json:"exporter_eori"`
	HSCode       string `json:"hs_code"`
}

func (ExportDeclarationFields) FieldsType() DocumentType { return DocumentTypeExportDeclaration }

// QualityFields holds the fields extracted from a quality certificate.
type QualityFields struct {
	Grade       string  `json:"grade"`
	MoisturePct float64 `json:"moisture_pct"`
	Inspector   string  `json:"inspector"`
}

func (QualityFields) FieldsType() DocumentType { return DocumentTypeQuality }

// EUDRDueDiligenceFields holds the fields extracted from an EUDR due-diligence statement.
type EUDRDueDiligenceFields struct {
	DDSReference string `json:"dds_reference"`
	OperatorName string `json:"operator_name"`
}

func (EUDRDueDiligenceFields) FieldsType() DocumentType { return DocumentTypeEUDRDueDiligence }

// GeolocationDataFields holds the fields extracted from a geolocation data sheet.
type GeolocationDataFields struct {
	PlotCount   int    `json:"plot_count"`
	CountryCode string `json:"country_code"`
}

func (GeolocationDataFields) FieldsType() DocumentType { return DocumentTypeGeolocationData }

// DeforestationDeclarationFields holds the fields extracted from a
// deforestation-free declaration.
type DeforestationDeclarationFields struct {
	Statement string `json:"statement"`
	SignedBy  string `json:"signed_by"`
}

func (DeforestationDeclarationFields) FieldsType() DocumentType {
	return DocumentTypeDeforestationDeclaration
}

// OtherFields is the variant for documents that could not be classified.
type OtherFields struct{}

func (OtherFields) FieldsType() DocumentType { return DocumentTypeOther }

// ExtractedFieldSet is the typed output of extraction for one document.
// It is immutable once produced: re-extraction creates a new field set.
type ExtractedFieldSet struct {
	DocumentID   string       `json:"document_id"`
	ShipmentID   string       `json:"shipment_id"`
	DocumentType DocumentType `json:"document_type"`

	// Common fields present for every document type
	ReferenceNumber      string    `json:"reference_number"`
	IssueDate            time.Time `json:"issue_date"`
	ExtractionConfidence float64   `json:"extraction_confidence"`
	RawText              string    `json:"raw_text"`

	// NeedsReview is set when classification was ambiguous and the AI
	// fallback could not resolve it
	NeedsReview bool `json:"needs_review"`

	Fields      DocumentFields `json:"fields"`
	ExtractedAt time.Time      `json:"extracted_at"`
}

// HasIssueDate reports whether an issue date was extracted.
func (f *ExtractedFieldSet) HasIssueDate() bool {
	return !f.IssueDate.IsZero()
}
