package models

import "github.com/testforus12-cyber/backend-2-sub000/internal/addon"

// Vendor provenance values. They travel on every quote so the client can
// tell a negotiated price from a public marketplace price.
const (
	ProvenanceTiedUp    = "tied_up"
	ProvenanceTemporary = "temporary"
	ProvenancePublic    = "public"
)

// ChargeRule is one configurable charge on a rate card. How Fixed and
// Variable combine depends on the component (see the tariff calculator):
// rov/insurance/fm/appointment take max(variable% of base freight, fixed),
// handling/oda take fixed + chargeableWeight*variable. Do not unify them,
// totals would change.
type ChargeRule struct {
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
}

// RateCard is one vendor's pricing agreement. Prices is the canonical
// zone->zone->price-per-kg table; the store boundary normalizes whatever
// shape the document was saved in before it gets here.
type RateCard struct {
	VendorID   string `json:"vendorId"`
	VendorName string `json:"vendorName"`
	CustomerID string `json:"customerId"`
	Provenance string `json:"provenance"`
	Mode       string `json:"mode"`

	Prices map[string]map[string]float64 `json:"prices"`

	// KFactor is the volumetric divisor (cm^3 per kg). MinWeight is the
	// vendor's minimum billable weight in kg.
	KFactor   float64 `json:"kFactor"`
	MinWeight float64 `json:"minWeight"`

	// Fixed charges, added as configured.
	Docket     float64 `json:"docket"`
	MinCharges float64 `json:"minCharges"`
	GreenTax   float64 `json:"greenTax"`
	DACC       float64 `json:"dacc"`
	Misc       float64 `json:"misc"`

	// FuelPct is a percentage of base freight.
	FuelPct float64 `json:"fuelPct"`

	ROV         ChargeRule `json:"rov"`
	Insurance   ChargeRule `json:"insurance"`
	FM          ChargeRule `json:"fm"`
	Appointment ChargeRule `json:"appointment"`
	Handling    ChargeRule `json:"handling"`
	ODA         ChargeRule `json:"oda"`

	// ZoneMap is the vendor's own zone->pincodes map. A vendor that owns
	// at least one entry here is in strict mode: both shipment endpoints
	// must resolve through this map or the vendor is excluded.
	ZoneMap map[string][]string `json:"zoneMap,omitempty"`

	// AllowedZones optionally restricts which resolved zones this vendor
	// serves at all. Empty means no restriction.
	AllowedZones []string `json:"allowedZones,omitempty"`

	InvoiceAddon InvoiceAddonConfig `json:"invoiceAddon"`
}

// InvoiceAddonConfig configures the extra charge computed from the
// shipment invoice value. The simple three-field form is the common case;
// Rule is the general rule tree and takes precedence when present. The two
// must agree where they overlap (a simple config behaves exactly like a
// percentage rule with a minimum).
type InvoiceAddonConfig struct {
	Enabled       bool        `json:"enabled"`
	Percentage    float64     `json:"percentage"`
	MinimumAmount float64     `json:"minimumAmount"`
	Rule          *addon.Rule `json:"rule,omitempty"`
}

// PublicVendor is a marketplace vendor: a shared rate card plus the
// published list of pincodes it serves. Public vendors are matched by
// service-area membership, not by zone maps.
type PublicVendor struct {
	RateCard            RateCard `json:"rateCard"`
	ServiceAreaPincodes []string `json:"serviceAreaPincodes"`
}

// ZoneInfo is a zone assignment for a pincode without provenance,
// the shape stored in the global table and the per-vendor mapping store.
type ZoneInfo struct {
	Zone  string `json:"zone"`
	IsODA bool   `json:"isOda"`
}

// Zone resolution provenance values.
const (
	ZoneSourceVendor           = "vendor"
	ZoneSourceVendorCollection = "vendor_collection"
	ZoneSourceGlobal           = "global"
	ZoneSourceInvalid          = "invalid"
	ZoneSourceNotFound         = "not_found"
)

// ZoneResult is the output of zone resolution: the zone, the ODA flag and
// which tier produced the answer. Zone is empty when Source is "invalid"
// or "not_found".
type ZoneResult struct {
	Zone   string `json:"zone"`
	IsODA  bool   `json:"isOda"`
	Source string `json:"source"`
}
