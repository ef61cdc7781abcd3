// Package zone resolves a pincode to a tariff zone for one vendor,
// falling through three tiers: the vendor's own static map, the
// bulk-ingested per-vendor mapping store, then the global table.
package zone

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
	"github.com/testforus12-cyber/backend-2-sub000/store"
)

// pincodePattern: six digits, no leading zero.
var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// ValidPincode reports whether p looks like a real Indian pincode.
func ValidPincode(p string) bool {
	return pincodePattern.MatchString(p)
}

// Resolver performs the 3-tier zone lookup. The global table is loaded
// once at startup and never mutated, so the resolver is safe for
// concurrent use.
type Resolver struct {
	mappings store.ZoneMappingStore
	global   map[string]models.ZoneInfo
}

func NewResolver(mappings store.ZoneMappingStore, global map[string]models.ZoneInfo) *Resolver {
	return &Resolver{mappings: mappings, global: global}
}

// Resolve finds the zone for (vendorID, pincode). vendorZoneMap is the
// vendor's own zone->pincodes map from its rate card; pass nil for
// vendors without one. The cache, when non-nil, memoizes results for the
// duration of one aggregation call.
//
// Inside a vendor map, a pincode listed under a zone named "oda" (any
// case) is flagged ODA; its billing zone comes from the regular zone
// entries.
func (r *Resolver) Resolve(ctx context.Context, vendorID, pincode string, vendorZoneMap map[string][]string, cache *Cache) models.ZoneResult {
	if !ValidPincode(pincode) {
		return models.ZoneResult{Source: models.ZoneSourceInvalid}
	}

	if cache != nil {
		if res, ok := cache.get(vendorID, pincode); ok {
			return res
		}
	}

	res := r.resolve(ctx, vendorID, pincode, vendorZoneMap)

	if cache != nil {
		cache.put(vendorID, pincode, res)
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, vendorID, pincode string, vendorZoneMap map[string][]string) models.ZoneResult {
	// Tier (a): the vendor's own static map.
	if len(vendorZoneMap) > 0 {
		if res, ok := lookupVendorMap(vendorZoneMap, pincode); ok {
			return res
		}
	}

	// Tier (b): the bulk zone-mapping store keyed by (vendorId, pincode).
	if r.mappings != nil {
		info, found, err := r.mappings.GetZone(ctx, vendorID, pincode)
		if err != nil {
			// A store hiccup must not abort the aggregation; fall through
			// to the global table like a miss.
			log.Printf("zone: mapping lookup failed for vendor=%s pincode=%s: %v", vendorID, pincode, err)
		} else if found {
			return models.ZoneResult{Zone: info.Zone, IsODA: info.IsODA, Source: models.ZoneSourceVendorCollection}
		}
	}

	// Tier (c): the global pincode->zone table.
	if info, ok := r.global[pincode]; ok {
		return models.ZoneResult{Zone: info.Zone, IsODA: info.IsODA, Source: models.ZoneSourceGlobal}
	}

	return models.ZoneResult{Source: models.ZoneSourceNotFound}
}

func lookupVendorMap(zoneMap map[string][]string, pincode string) (models.ZoneResult, bool) {
	// Sort zone names so overlapping entries resolve the same way on
	// every call.
	zones := make([]string, 0, len(zoneMap))
	for z := range zoneMap {
		zones = append(zones, z)
	}
	sort.Strings(zones)

	isOda := false
	matched := ""
	for _, z := range zones {
		if !contains(zoneMap[z], pincode) {
			continue
		}
		if strings.EqualFold(z, "oda") {
			isOda = true
			continue
		}
		if matched == "" {
			matched = z
		}
	}
	if matched == "" {
		return models.ZoneResult{}, false
	}
	return models.ZoneResult{Zone: matched, IsODA: isOda, Source: models.ZoneSourceVendor}, true
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
