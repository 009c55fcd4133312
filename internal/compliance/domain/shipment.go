package domain

import "time"

// Shipment carries the shipment and product metadata the engine consumes
// from the shipment collaborator. The engine never mutates it.
type Shipment struct {
	ID          string    `json:"id"`
	HSCode      string    `json:"hs_code"`
	ProductName string    `json:"product_name"`
	BuyerName   string    `json:"buyer_name"`
	ETD         time.Time `json:"etd"` // estimated departure
	ETA         time.Time `json:"eta"` // estimated arrival

	// BuyerFlags are buyer-specific requirement switches referenced by
	// conditional entries in the compliance matrix
	BuyerFlags map[string]bool `json:"buyer_flags,omitempty"`

	// Origins are the product origin records supplied by the origin-data
	// collaborator, used for EUDR assessment
	Origins []Origin `json:"origins,omitempty"`
}

// HasBuyerFlag reports whether the named buyer requirement flag is set.
func (s *Shipment) HasBuyerFlag(name string) bool {
	return s.BuyerFlags[name]
}

// HSPrefix returns the first 4 characters of the HS code, the granularity
// at which both the compliance matrix and EUDR applicability operate.
func (s *Shipment) HSPrefix() string {
	if len(s.HSCode) < 4 {
		return s.HSCode
	}
	return s.HSCode[:4]
}
