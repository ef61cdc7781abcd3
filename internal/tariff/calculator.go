// Package tariff turns one vendor's rate card plus a resolved zone pair
// into an itemized charge breakdown and total for a shipment.
package tariff

import (
	"fmt"
	"math"
	"strings"

	"github.com/testforus12-cyber/backend-2-sub000/internal/addon"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
)

// Weights is the billing weight basis of a shipment against one vendor.
// Chargeable = max(actual, volumetric, vendor minimum).
type Weights struct {
	Actual     float64
	Volumetric float64
	Chargeable float64
}

// ComputeWeights derives the weight basis. Volumetric weight is computed
// per package line as ceil(l*w*h*count / kFactor) then summed, which is
// how vendors round on their own invoices. The legacy single-box form is
// used when the package list is empty.
func ComputeWeights(s models.ShipmentRequest, kFactor, minWeight float64) (Weights, error) {
	if kFactor <= 0 {
		return Weights{}, fmt.Errorf("%w: non-positive volumetric divisor %v", ErrVendorExcluded, kFactor)
	}

	var actual, volumetric float64
	if len(s.Packages) > 0 {
		for _, p := range s.Packages {
			count := float64(p.Count)
			actual += p.Weight * count
			volumetric += math.Ceil(p.Length * p.Width * p.Height * count / kFactor)
		}
	} else {
		count := float64(s.NoOfBoxes)
		actual = s.BoxWeight * count
		volumetric = math.Ceil(s.Length * s.Width * s.Height * count / kFactor)
	}

	chargeable := math.Max(math.Max(actual, volumetric), minWeight)
	if !isFinite(chargeable) || chargeable <= 0 {
		return Weights{}, fmt.Errorf("%w: chargeable weight %v is not a positive finite number", ErrVendorExcluded, chargeable)
	}
	return Weights{Actual: actual, Volumetric: volumetric, Chargeable: chargeable}, nil
}

// UnitPrice looks up the per-kg price for a zone pair. Zone keys are
// compared case-insensitively and the reverse direction is tolerated,
// because price documents are entered by hand and both conventions exist
// in the wild.
func UnitPrice(prices map[string]map[string]float64, originZone, destZone string) (float64, error) {
	if p, ok := lookup(prices, originZone, destZone); ok {
		return validatePrice(p, originZone, destZone)
	}
	if p, ok := lookup(prices, destZone, originZone); ok {
		return validatePrice(p, originZone, destZone)
	}
	return 0, fmt.Errorf("%w: no price for zone pair %s/%s", ErrVendorExcluded, originZone, destZone)
}

func lookup(prices map[string]map[string]float64, from, to string) (float64, bool) {
	for k1, row := range prices {
		if !strings.EqualFold(k1, from) {
			continue
		}
		for k2, p := range row {
			if strings.EqualFold(k2, to) {
				return p, true
			}
		}
	}
	return 0, false
}

func validatePrice(p float64, originZone, destZone string) (float64, error) {
	if !isFinite(p) || p <= 0 {
		return 0, fmt.Errorf("%w: invalid price %v for zone pair %s/%s", ErrVendorExcluded, p, originZone, destZone)
	}
	return p, nil
}

// Calculate prices a shipment against one rate card. Returns
// ErrVendorExcluded (wrapped with the reason) when any required input is
// invalid; the caller drops the vendor silently.
func Calculate(card models.RateCard, origin, dest models.ZoneResult, s models.ShipmentRequest) (models.Quote, error) {
	if origin.Zone == "" || dest.Zone == "" {
		return models.Quote{}, fmt.Errorf("%w: unresolved zone (origin=%q dest=%q)", ErrVendorExcluded, origin.Source, dest.Source)
	}
	if len(card.AllowedZones) > 0 {
		if !zoneAllowed(card.AllowedZones, origin.Zone) || !zoneAllowed(card.AllowedZones, dest.Zone) {
			return models.Quote{}, fmt.Errorf("%w: zone pair %s/%s outside vendor's allowed zones", ErrVendorExcluded, origin.Zone, dest.Zone)
		}
	}

	w, err := ComputeWeights(s, card.KFactor, card.MinWeight)
	if err != nil {
		return models.Quote{}, err
	}

	unitPrice, err := UnitPrice(card.Prices, origin.Zone, dest.Zone)
	if err != nil {
		return models.Quote{}, err
	}

	baseFreight := unitPrice * w.Chargeable
	isOda := origin.IsODA || dest.IsODA

	b := models.ChargeBreakdown{
		BaseFreight: baseFreight,
		Docket:      card.Docket,
		MinCharges:  card.MinCharges,
		GreenTax:    card.GreenTax,
		DACC:        card.DACC,
		Misc:        card.Misc,
		Fuel:        card.FuelPct / 100 * baseFreight,
		// These four take the larger of a percentage of base freight and
		// a fixed floor.
		ROV:         maxOf(card.ROV.Variable/100*baseFreight, card.ROV.Fixed),
		Insurance:   maxOf(card.Insurance.Variable/100*baseFreight, card.Insurance.Fixed),
		FM:          maxOf(card.FM.Variable/100*baseFreight, card.FM.Fixed),
		Appointment: maxOf(card.Appointment.Variable/100*baseFreight, card.Appointment.Fixed),
		// Handling (and ODA when flagged) are a fixed fee plus a per-kg
		// rate on the chargeable weight.
		Handling: card.Handling.Fixed + w.Chargeable*card.Handling.Variable,
	}
	if isOda {
		b.ODA = card.ODA.Fixed + w.Chargeable*card.ODA.Variable
	}

	b.InvoiceAddon = math.Round(invoiceAddon(card.InvoiceAddon, s))

	subtotal := b.BaseFreight + b.Docket + b.MinCharges + b.GreenTax + b.DACC + b.Misc +
		b.Fuel + b.ROV + b.Insurance + b.FM + b.Appointment + b.Handling + b.ODA

	if !isFinite(subtotal) {
		return models.Quote{}, fmt.Errorf("%w: computed total is not finite", ErrVendorExcluded)
	}

	return models.Quote{
		VendorID:          card.VendorID,
		VendorName:        card.VendorName,
		Provenance:        card.Provenance,
		OriginZone:        origin,
		DestZone:          dest,
		ActualWeight:      w.Actual,
		VolumetricWeight:  w.Volumetric,
		ChargeableWeight:  w.Chargeable,
		UnitPrice:         unitPrice,
		Breakdown:         &b,
		Total:             math.Round(subtotal + b.InvoiceAddon),
		TotalWithoutAddon: math.Round(subtotal),
	}, nil
}

func invoiceAddon(cfg models.InvoiceAddonConfig, s models.ShipmentRequest) float64 {
	if cfg.Rule != nil {
		return addon.Evaluate(cfg.Rule, s.InvoiceValue, map[string]string{"mode": s.Mode})
	}
	return addon.SimpleCharge(cfg.Enabled, cfg.Percentage, cfg.MinimumAmount, s.InvoiceValue)
}

func zoneAllowed(allowed []string, zone string) bool {
	for _, z := range allowed {
		if strings.EqualFold(z, zone) {
			return true
		}
	}
	return false
}

func maxOf(a, b float64) float64 { return math.Max(a, b) }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
