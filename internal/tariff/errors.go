package tariff

import "errors"

// ErrVendorExcluded marks a vendor that cannot produce a quote for this
// shipment (unresolved zone, missing price, non-finite weight, ...).
// It is an outcome, not a failure: the aggregator drops the vendor and
// keeps going. Wrap it with the concrete reason for the internal log.
var ErrVendorExcluded = errors.New("vendor excluded from quote")
