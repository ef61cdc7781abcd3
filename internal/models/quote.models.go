package models

// ChargeBreakdown itemizes every component that went into a quote total.
// All amounts are in whole-ish currency units (rounding happens only on
// the totals and the invoice addon).
type ChargeBreakdown struct {
	BaseFreight  float64 `json:"baseFreight"`
	Docket       float64 `json:"docket"`
	Fuel         float64 `json:"fuel"`
	ROV          float64 `json:"rov"`
	Insurance    float64 `json:"insurance"`
	ODA          float64 `json:"oda"`
	Handling     float64 `json:"handling"`
	FM           float64 `json:"fm"`
	Appointment  float64 `json:"appointment"`
	MinCharges   float64 `json:"minCharges"`
	GreenTax     float64 `json:"greenTax"`
	DACC         float64 `json:"dacc"`
	Misc         float64 `json:"misc"`
	InvoiceAddon float64 `json:"invoiceAddon"`
}

// Quote is one vendor's computed price for a shipment. Transient: built
// per computeQuotes call and returned to the client, never stored.
type Quote struct {
	VendorID   string `json:"vendorId"`
	VendorName string `json:"vendorName"`
	Provenance string `json:"provenance"`

	OriginZone ZoneResult `json:"originZone"`
	DestZone   ZoneResult `json:"destZone"`

	DistanceKm float64 `json:"distanceKm"`
	EtaDays    float64 `json:"etaDays"`

	ActualWeight     float64 `json:"actualWeight"`
	VolumetricWeight float64 `json:"volumetricWeight"`
	ChargeableWeight float64 `json:"chargeableWeight"`
	UnitPrice        float64 `json:"unitPrice"`

	// Breakdown is omitted on hidden public quotes: the client only gets
	// the total until the customer is entitled to the full view.
	Breakdown *ChargeBreakdown `json:"breakdown,omitempty"`

	Total             float64 `json:"total"`
	TotalWithoutAddon float64 `json:"totalWithoutAddon"`
	IsHidden          bool    `json:"isHidden"`
}
