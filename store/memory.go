package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/testforus12-cyber/backend-2-sub000/internal/geo"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
)

// MemoryStore implements every store interface in memory. Tests and
// local runs use it instead of postgres.
type MemoryStore struct {
	mu sync.RWMutex

	tiedUpCards    map[string][]models.RateCard
	temporaryCards map[string][]models.RateCard
	publicVendors  []models.PublicVendor
	zoneMappings   map[string]models.ZoneInfo
	centroids      geo.CentroidTable
	globalZones    map[string]models.ZoneInfo
	subscribed     map[string]bool
	vendorNames    map[string]string
	vendorRatings  map[string]float64
	relations      map[string][]string
	auctions       map[string]models.Auction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tiedUpCards:    make(map[string][]models.RateCard),
		temporaryCards: make(map[string][]models.RateCard),
		zoneMappings:   make(map[string]models.ZoneInfo),
		centroids:      make(geo.CentroidTable),
		globalZones:    make(map[string]models.ZoneInfo),
		subscribed:     make(map[string]bool),
		vendorNames:    make(map[string]string),
		vendorRatings:  make(map[string]float64),
		relations:      make(map[string][]string),
		auctions:       make(map[string]models.Auction),
	}
}

// --- seeding helpers (tests / local bootstrap) ---

func (s *MemoryStore) SeedTiedUpCard(customerID string, card models.RateCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiedUpCards[customerID] = append(s.tiedUpCards[customerID], card)
}

func (s *MemoryStore) SeedTemporaryCard(customerID string, card models.RateCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temporaryCards[customerID] = append(s.temporaryCards[customerID], card)
}

func (s *MemoryStore) SeedPublicVendor(v models.PublicVendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicVendors = append(s.publicVendors, v)
}

func (s *MemoryStore) SeedZoneMapping(vendorID, pincode string, info models.ZoneInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoneMappings[vendorID+"|"+pincode] = info
}

func (s *MemoryStore) SeedCentroid(pincode string, c geo.Centroid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.centroids[pincode] = c
}

func (s *MemoryStore) SeedGlobalZone(pincode string, info models.ZoneInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalZones[pincode] = info
}

func (s *MemoryStore) SetSubscribed(customerID string, subscribed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribed[customerID] = subscribed
}

func (s *MemoryStore) SeedVendor(vendorID, name string, rating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vendorNames[vendorID] = name
	s.vendorRatings[vendorID] = rating
}

func (s *MemoryStore) SeedRelation(customerID, vendorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations[customerID] = append(s.relations[customerID], vendorID)
}

// --- RateCardStore ---

func (s *MemoryStore) GetTiedUpRateCards(ctx context.Context, customerID string) ([]models.RateCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RateCard(nil), s.tiedUpCards[customerID]...), nil
}

func (s *MemoryStore) GetTemporaryRateCards(ctx context.Context, customerID string) ([]models.RateCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RateCard(nil), s.temporaryCards[customerID]...), nil
}

// --- PublicVendorStore ---

func (s *MemoryStore) GetPublicVendors(ctx context.Context) ([]models.PublicVendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PublicVendor(nil), s.publicVendors...), nil
}

// --- ZoneMappingStore ---

func (s *MemoryStore) GetZone(ctx context.Context, vendorID, pincode string) (models.ZoneInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.zoneMappings[vendorID+"|"+pincode]
	return info, ok, nil
}

// --- ReferenceStore ---

func (s *MemoryStore) LoadCentroids(ctx context.Context) (geo.CentroidTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(geo.CentroidTable, len(s.centroids))
	for k, v := range s.centroids {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) LoadGlobalZones(ctx context.Context) (map[string]models.ZoneInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.ZoneInfo, len(s.globalZones))
	for k, v := range s.globalZones {
		out[k] = v
	}
	return out, nil
}

// --- EntitlementStore ---

func (s *MemoryStore) IsSubscribed(ctx context.Context, customerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscribed[customerID], nil
}

// --- VendorDirectory ---

func (s *MemoryStore) GetVendorNames(ctx context.Context, vendorIDs []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(vendorIDs))
	for _, id := range vendorIDs {
		if name, ok := s.vendorNames[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (s *MemoryStore) GetRelatedVendorIDs(ctx context.Context, customerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.relations[customerID]...), nil
}

func (s *MemoryStore) GetVendorIDsByMinRating(ctx context.Context, minRating float64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for id, rating := range s.vendorRatings {
		if rating >= minRating {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

// --- AuctionStore ---

func (s *MemoryStore) CreateAuction(ctx context.Context, auction models.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.auctions[auction.ID]; exists {
		return fmt.Errorf("auction %s already exists", auction.ID)
	}
	s.auctions[auction.ID] = auction.Clone()
	return nil
}

func (s *MemoryStore) GetAuction(ctx context.Context, id string) (models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.auctions[id]
	if !ok {
		return models.Auction{}, fmt.Errorf("auction %s not found", id)
	}
	return a.Clone(), nil
}

func (s *MemoryStore) UpdateAuction(ctx context.Context, auction models.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auctions[auction.ID]; !ok {
		return fmt.Errorf("auction %s not found", auction.ID)
	}
	s.auctions[auction.ID] = auction.Clone()
	return nil
}

func (s *MemoryStore) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		out = append(out, a.Clone())
	}
	// Stable order for callers regardless of map iteration.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
