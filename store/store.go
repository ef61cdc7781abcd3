package store

import (
	"context"

	"github.com/testforus12-cyber/backend-2-sub000/internal/geo"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
)

// This file defines the storage contracts the pricing core reads through.
// The core never touches persistence directly: every collaborator is an
// interface so tests can swap in the memory store.

// RateCardStore serves customer-private rate cards. Tied-up cards are the
// negotiated agreements; temporary cards are short-lived trial agreements
// tagged with their own provenance.
type RateCardStore interface {
	GetTiedUpRateCards(ctx context.Context, customerID string) ([]models.RateCard, error)
	GetTemporaryRateCards(ctx context.Context, customerID string) ([]models.RateCard, error)
}

// PublicVendorStore serves the marketplace vendors and their published
// service-area pincode lists.
type PublicVendorStore interface {
	GetPublicVendors(ctx context.Context) ([]models.PublicVendor, error)
}

// ZoneMappingStore is the bulk-ingested per-vendor zone reference data:
// point lookup (vendorId, pincode) -> zone assignment. The second return
// reports whether a mapping exists.
type ZoneMappingStore interface {
	GetZone(ctx context.Context, vendorID, pincode string) (models.ZoneInfo, bool, error)
}

// ReferenceStore loads the static reference tables. Both are read once at
// process start and injected as immutable structures; nothing re-reads
// them per request.
type ReferenceStore interface {
	LoadCentroids(ctx context.Context) (geo.CentroidTable, error)
	LoadGlobalZones(ctx context.Context) (map[string]models.ZoneInfo, error)
}

// EntitlementStore answers whether a customer is subscribed, which only
// affects whether public quote breakdowns are unmasked.
type EntitlementStore interface {
	IsSubscribed(ctx context.Context, customerID string) (bool, error)
}

// VendorDirectory resolves vendor identity and relationships. Used by the
// auction engine to derive eligible-bidder sets server-side and to attach
// display names to bid histories.
type VendorDirectory interface {
	GetVendorNames(ctx context.Context, vendorIDs []string) (map[string]string, error)
	GetRelatedVendorIDs(ctx context.Context, customerID string) ([]string, error)
	GetVendorIDsByMinRating(ctx context.Context, minRating float64) ([]string, error)
}

// AuctionStore persists auctions. The auction service serializes mutation
// per auction, so implementations only need plain read/write semantics.
type AuctionStore interface {
	CreateAuction(ctx context.Context, auction models.Auction) error
	GetAuction(ctx context.Context, id string) (models.Auction, error)
	UpdateAuction(ctx context.Context, auction models.Auction) error
	ListAuctions(ctx context.Context) ([]models.Auction, error)
}
