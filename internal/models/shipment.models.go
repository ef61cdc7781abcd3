package models

// Package is one line item of a shipment: a box size repeated Count times.
// Dimensions are in centimeters, weight in kilograms.
type Package struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// ShipmentRequest is the transient input of one quote computation. It is
// built from the client payload, never persisted, and discarded per call.
//
// Two package shapes are accepted:
//   - Packages: the modern multi-box list
//   - the legacy single-box form (NoOfBoxes + one set of dimensions), kept
//     because older mobile clients still send it
type ShipmentRequest struct {
	CustomerID    string    `json:"customerId"`
	OriginPincode string    `json:"originPincode"`
	DestPincode   string    `json:"destPincode"`
	Mode          string    `json:"mode"` // e.g. "surface", "air"
	Packages      []Package `json:"packages,omitempty"`

	// Legacy single-box form, used only when Packages is empty.
	NoOfBoxes int     `json:"noOfBoxes,omitempty"`
	Length    float64 `json:"length,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	BoxWeight float64 `json:"boxWeight,omitempty"`

	InvoiceValue float64 `json:"invoiceValue"`
}
