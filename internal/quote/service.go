// Package quote aggregates tariff quotes across every vendor pool a
// customer can buy from: tied-up vendors, temporary vendors and the
// public marketplace.
package quote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	domainErr "github.com/testforus12-cyber/backend-2-sub000/internal/domain/errors"
	"github.com/testforus12-cyber/backend-2-sub000/internal/distance"
	"github.com/testforus12-cyber/backend-2-sub000/internal/kafka"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
	"github.com/testforus12-cyber/backend-2-sub000/internal/tariff"
	"github.com/testforus12-cyber/backend-2-sub000/internal/zone"
	"github.com/testforus12-cyber/backend-2-sub000/store"
)

// Result is the aggregated output of one computeQuotes call.
// TiedUpQuotes carries both tied-up and temporary quotes (told apart by
// their provenance); PublicQuotes only carries marketplace quotes that
// beat the committed pool's best price.
type Result struct {
	TiedUpQuotes []models.Quote `json:"tiedUpQuotes"`
	PublicQuotes []models.Quote `json:"publicQuotes"`
	LowestQuote  *models.Quote  `json:"lowestQuote"`
	DistanceKm   float64        `json:"distanceKm"`
	EtaDays      float64        `json:"etaDays"`
}

// Service drives the per-vendor tariff computation. Stateless between
// calls: the only mutable state is the zone cache allocated per call.
type Service struct {
	rateCards    store.RateCardStore
	public       store.PublicVendorStore
	entitlements store.EntitlementStore
	zones        *zone.Resolver
	distance     *distance.Resolver
	producer     kafka.Publisher // nil disables event publishing
}

func NewService(
	rateCards store.RateCardStore,
	public store.PublicVendorStore,
	entitlements store.EntitlementStore,
	zones *zone.Resolver,
	dist *distance.Resolver,
	producer kafka.Publisher,
) *Service {
	return &Service{
		rateCards:    rateCards,
		public:       public,
		entitlements: entitlements,
		zones:        zones,
		distance:     dist,
		producer:     producer,
	}
}

// ComputeQuotes prices the shipment against every eligible vendor and
// ranks the results. One vendor failing never aborts the aggregation;
// zero surviving vendors is the typed ErrNoQuotesFound outcome.
func (s *Service) ComputeQuotes(ctx context.Context, req models.ShipmentRequest) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}

	// One distance resolution per request; it never fails (worst case a
	// safe default), so every vendor shares the same distance/eta.
	dist := s.distance.Resolve(ctx, req.OriginPincode, req.DestPincode)

	// Request-scoped zone memo. Allocated here, passed into every vendor
	// computation, garbage once we return.
	cache := zone.NewCache()

	committed, err := s.committedRateCards(ctx, req.CustomerID)
	if err != nil {
		return Result{}, err
	}

	tiedUpQuotes := s.priceCommitted(ctx, committed, req, dist, cache)

	// L1: the committed pool's best total, baseline for public
	// visibility. +Inf when the pool is empty so public vendors can
	// still surface.
	l1 := math.Inf(1)
	var lowest *models.Quote
	for i := range tiedUpQuotes {
		if tiedUpQuotes[i].Total < l1 {
			l1 = tiedUpQuotes[i].Total
			lowest = &tiedUpQuotes[i]
		}
	}

	publicQuotes := s.pricePublic(ctx, req, dist, cache, l1)

	if len(tiedUpQuotes) == 0 && len(publicQuotes) == 0 {
		return Result{}, domainErr.ErrNoQuotesFound
	}

	res := Result{
		TiedUpQuotes: tiedUpQuotes,
		PublicQuotes: publicQuotes,
		LowestQuote:  lowest,
		DistanceKm:   dist.DistanceKm,
		EtaDays:      dist.EtaDays,
	}

	if s.producer != nil {
		event := map[string]interface{}{
			"event": "quote.computed",
			"payload": map[string]interface{}{
				"customerId":  req.CustomerID,
				"origin":      req.OriginPincode,
				"destination": req.DestPincode,
				"vendorCount": len(tiedUpQuotes) + len(publicQuotes),
				"lowestTotal": lowestTotal(lowest),
			},
		}
		// Fire-and-forget: a broker outage must not slow down quoting.
		go s.producer.Publish(context.Background(), req.CustomerID, event)
	}

	return res, nil
}

func (s *Service) committedRateCards(ctx context.Context, customerID string) ([]models.RateCard, error) {
	tied, err := s.rateCards.GetTiedUpRateCards(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load tied-up rate cards: %w", err)
	}
	temp, err := s.rateCards.GetTemporaryRateCards(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load temporary rate cards: %w", err)
	}

	cards := make([]models.RateCard, 0, len(tied)+len(temp))
	for _, c := range tied {
		if c.Provenance == "" {
			c.Provenance = models.ProvenanceTiedUp
		}
		cards = append(cards, c)
	}
	for _, c := range temp {
		c.Provenance = models.ProvenanceTemporary
		cards = append(cards, c)
	}
	return cards, nil
}

// priceCommitted fans out one goroutine per vendor. Each writes only its
// own slot, so the reduce below is deterministic in enumeration order no
// matter which vendor finishes first.
func (s *Service) priceCommitted(ctx context.Context, cards []models.RateCard, req models.ShipmentRequest, dist distance.Result, cache *zone.Cache) []models.Quote {
	slots := make([]*models.Quote, len(cards))

	var wg sync.WaitGroup
	for i, card := range cards {
		wg.Add(1)
		go func(i int, card models.RateCard) {
			defer wg.Done()
			// A panicking vendor computation removes that vendor only.
			defer func() {
				if r := recover(); r != nil {
					log.Printf("quote: vendor %s computation panicked: %v", card.VendorID, r)
				}
			}()
			q, err := s.priceVendor(ctx, card, req, dist, cache)
			if err != nil {
				logExclusion(card.VendorID, err)
				return
			}
			slots[i] = &q
		}(i, card)
	}
	wg.Wait()

	quotes := make([]models.Quote, 0, len(cards))
	for _, q := range slots {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// priceVendor resolves both endpoints and runs the tariff calculator for
// one committed vendor. A vendor that owns custom zone entries is in
// strict mode: both endpoints must resolve through its own map.
func (s *Service) priceVendor(ctx context.Context, card models.RateCard, req models.ShipmentRequest, dist distance.Result, cache *zone.Cache) (models.Quote, error) {
	origin := s.zones.Resolve(ctx, card.VendorID, req.OriginPincode, card.ZoneMap, cache)
	dest := s.zones.Resolve(ctx, card.VendorID, req.DestPincode, card.ZoneMap, cache)

	if len(card.ZoneMap) > 0 {
		if origin.Source != models.ZoneSourceVendor || dest.Source != models.ZoneSourceVendor {
			return models.Quote{}, fmt.Errorf("%w: strict zone mode, endpoint resolved outside vendor map (origin=%s dest=%s)",
				tariff.ErrVendorExcluded, origin.Source, dest.Source)
		}
	}

	q, err := tariff.Calculate(card, origin, dest, req)
	if err != nil {
		return models.Quote{}, err
	}
	q.DistanceKm = dist.DistanceKm
	q.EtaDays = dist.EtaDays
	return q, nil
}

// pricePublic prices the marketplace pool. A public vendor must serve
// both pincodes, and its quote surfaces only as a "cheaper external
// option": totalWithoutAddon strictly below the committed pool's L1.
// Breakdown stays masked unless the customer is subscribed.
func (s *Service) pricePublic(ctx context.Context, req models.ShipmentRequest, dist distance.Result, cache *zone.Cache, l1 float64) []models.Quote {
	vendors, err := s.public.GetPublicVendors(ctx)
	if err != nil {
		// The committed pool still answers; just skip the marketplace.
		log.Printf("quote: public vendor load failed, skipping pool: %v", err)
		return nil
	}
	if len(vendors) == 0 {
		return nil
	}

	entitled := false
	if s.entitlements != nil {
		entitled, err = s.entitlements.IsSubscribed(ctx, req.CustomerID)
		if err != nil {
			log.Printf("quote: entitlement lookup failed for %s, masking breakdowns: %v", req.CustomerID, err)
			entitled = false
		}
	}

	slots := make([]*models.Quote, len(vendors))
	var wg sync.WaitGroup
	for i, v := range vendors {
		wg.Add(1)
		go func(i int, v models.PublicVendor) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("quote: public vendor %s computation panicked: %v", v.RateCard.VendorID, r)
				}
			}()
			if !servesPincode(v.ServiceAreaPincodes, req.OriginPincode) || !servesPincode(v.ServiceAreaPincodes, req.DestPincode) {
				return
			}
			card := v.RateCard
			card.Provenance = models.ProvenancePublic
			q, err := s.priceVendor(ctx, card, req, dist, cache)
			if err != nil {
				logExclusion(card.VendorID, err)
				return
			}
			slots[i] = &q
		}(i, v)
	}
	wg.Wait()

	quotes := make([]models.Quote, 0, len(vendors))
	for _, q := range slots {
		if q == nil {
			continue
		}
		if q.TotalWithoutAddon >= l1 {
			continue
		}
		if !entitled {
			q.IsHidden = true
			q.Breakdown = nil
		}
		quotes = append(quotes, *q)
	}
	return quotes
}

func validateRequest(req models.ShipmentRequest) error {
	if req.CustomerID == "" {
		return fmt.Errorf("%w: missing customer id", domainErr.ErrInvalidInput)
	}
	if !zone.ValidPincode(req.OriginPincode) || !zone.ValidPincode(req.DestPincode) {
		return fmt.Errorf("%w: origin=%q dest=%q", domainErr.ErrInvalidPincode, req.OriginPincode, req.DestPincode)
	}
	if len(req.Packages) == 0 && req.NoOfBoxes <= 0 {
		return fmt.Errorf("%w: shipment has no packages", domainErr.ErrInvalidInput)
	}
	if req.InvoiceValue < 0 || math.IsNaN(req.InvoiceValue) || math.IsInf(req.InvoiceValue, 0) {
		return fmt.Errorf("%w: invalid invoice value", domainErr.ErrInvalidInput)
	}
	return nil
}

// logExclusion keeps vendor drops internal. Exclusions are expected
// outcomes, anything else deserves a louder line.
func logExclusion(vendorID string, err error) {
	if errors.Is(err, tariff.ErrVendorExcluded) {
		log.Printf("quote: vendor %s excluded: %v", vendorID, err)
		return
	}
	log.Printf("quote: vendor %s failed: %v", vendorID, err)
}

func servesPincode(area []string, pincode string) bool {
	for _, p := range area {
		if p == pincode {
			return true
		}
	}
	return false
}

func lowestTotal(q *models.Quote) float64 {
	if q == nil {
		return 0
	}
	return q.Total
}
