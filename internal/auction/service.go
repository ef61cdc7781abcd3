// Package auction runs reverse auctions for shipments: the price starts
// at the best aggregated quote and eligible vendors bid it down.
package auction

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErr "github.com/testforus12-cyber/backend-2-sub000/internal/domain/errors"
	"github.com/testforus12-cyber/backend-2-sub000/internal/kafka"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
	"github.com/testforus12-cyber/backend-2-sub000/internal/quote"
	"github.com/testforus12-cyber/backend-2-sub000/store"
)

// minLeadTime is how far in the future an auction must end at creation.
const minLeadTime = 48 * time.Hour

// Notifier pushes bid notifications to the communications queue. Nil-able.
type Notifier interface {
	NotifyBidPlaced(ctx context.Context, auction models.Auction, bid models.Bid) error
}

// CreateParams is the input of Create. For restricted auctions the
// eligible set is derived server-side from the customer's vendor
// relationships; BidderIDs/MinRating only apply to rated_restricted.
type CreateParams struct {
	CustomerID string                 `json:"customerId"`
	Shipment   models.ShipmentRequest `json:"shipment"`
	Type       models.AuctionType     `json:"type"`
	EndTime    time.Time              `json:"endTime"`
	BidderIDs  []string               `json:"bidderIds,omitempty"`
	MinRating  float64                `json:"minRating,omitempty"`
}

// Service owns all auction state transitions. Bid acceptance is the one
// true critical section: everything between reading the auction and
// writing it back runs under a per-auction lock.
type Service struct {
	store    store.AuctionStore
	vendors  store.VendorDirectory
	quotes   *quote.Service
	producer kafka.Publisher // nil disables event publishing
	notifier Notifier        // nil disables bid notifications

	// clock allows tests to pin "now" when exercising close semantics.
	clock func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(auctions store.AuctionStore, vendors store.VendorDirectory, quotes *quote.Service, producer kafka.Publisher, notifier Notifier) *Service {
	return &Service{
		store:    auctions,
		vendors:  vendors,
		quotes:   quotes,
		producer: producer,
		notifier: notifier,
		clock:    time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Create seeds a new auction from the quote aggregator's best price.
// Fails with ErrEndTimeTooSoon when the end time is under 2 days out and
// propagates ErrNoQuotesFound when no vendor could seed the price.
func (s *Service) Create(ctx context.Context, params CreateParams) (models.Auction, error) {
	now := s.clock()

	switch params.Type {
	case models.AuctionOpen, models.AuctionRestricted, models.AuctionRatedRestricted:
	default:
		return models.Auction{}, fmt.Errorf("%w: unknown auction type %q", domainErr.ErrInvalidInput, params.Type)
	}
	if params.EndTime.Before(now.Add(minLeadTime)) {
		return models.Auction{}, domainErr.ErrEndTimeTooSoon
	}

	// Seed the starting price from the aggregated committed pool.
	qr, err := s.quotes.ComputeQuotes(ctx, params.Shipment)
	if err != nil {
		return models.Auction{}, err
	}
	if qr.LowestQuote == nil {
		return models.Auction{}, domainErr.ErrNoQuotesFound
	}

	eligible, err := s.eligibleBidders(ctx, params)
	if err != nil {
		return models.Auction{}, err
	}

	auction := models.Auction{
		ID:              uuid.New().String(),
		CustomerID:      params.CustomerID,
		Shipment:        params.Shipment,
		Type:            params.Type,
		EligibleBidders: eligible,
		MinRating:       params.MinRating,
		EndTime:         params.EndTime,
		CurrentLowest:   qr.LowestQuote.Total,
		BidCounts:       make(map[string]int),
		CreatedAt:       now,
	}

	if err := s.store.CreateAuction(ctx, auction); err != nil {
		return models.Auction{}, fmt.Errorf("persist auction: %w", err)
	}

	s.publish(auction.ID, "auction.created", map[string]interface{}{
		"auctionId":     auction.ID,
		"customerId":    auction.CustomerID,
		"type":          auction.Type,
		"seedPrice":     auction.CurrentLowest,
		"endTime":       auction.EndTime,
		"eligibleCount": len(eligible),
	})

	return auction, nil
}

// eligibleBidders derives who may bid. Client-supplied lists are ignored
// for plain restricted auctions: the relationship graph is the truth.
func (s *Service) eligibleBidders(ctx context.Context, params CreateParams) ([]string, error) {
	switch params.Type {
	case models.AuctionOpen:
		return nil, nil

	case models.AuctionRestricted:
		related, err := s.vendors.GetRelatedVendorIDs(ctx, params.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("derive related vendors: %w", err)
		}
		if len(related) == 0 {
			return nil, fmt.Errorf("%w: customer has no related vendors for a restricted auction", domainErr.ErrInvalidInput)
		}
		return dedupeSorted(related), nil

	default: // rated_restricted
		if len(params.BidderIDs) == 0 && params.MinRating <= 0 {
			return nil, fmt.Errorf("%w: rated_restricted requires bidder ids or a minimum rating", domainErr.ErrInvalidInput)
		}
		ids := append([]string(nil), params.BidderIDs...)
		if params.MinRating > 0 {
			rated, err := s.vendors.GetVendorIDsByMinRating(ctx, params.MinRating)
			if err != nil {
				return nil, fmt.Errorf("derive rated vendors: %w", err)
			}
			ids = append(ids, rated...)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: no vendor meets the rating criterion", domainErr.ErrInvalidInput)
		}
		return dedupeSorted(ids), nil
	}
}

// PlaceBid accepts a bid when the auction is open, the bidder is
// eligible and under the bid cap, and the amount strictly improves the
// current lowest. The whole check-and-append runs under the per-auction
// lock so two concurrent bids can never both win the same price level.
func (s *Service) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (models.Auction, error) {
	if auctionID == "" || bidderID == "" {
		return models.Auction{}, fmt.Errorf("%w: missing auction or bidder id", domainErr.ErrInvalidInput)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.Auction{}, fmt.Errorf("%w: invalid bid amount", domainErr.ErrInvalidInput)
	}

	lock := s.lockFor(auctionID)
	lock.Lock()
	defer lock.Unlock()

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, domainErr.ErrAuctionNotFound
	}

	if !auction.IsEligible(bidderID) {
		return models.Auction{}, domainErr.ErrNotEligible
	}
	// CLOSED is lazy: no timer flips a flag, the wall clock decides.
	if s.clock().After(auction.EndTime) {
		return models.Auction{}, domainErr.ErrAuctionClosed
	}
	if auction.BidCounts[bidderID] >= models.MaxBidsPerBidder {
		return models.Auction{}, domainErr.ErrBidLimitReached
	}
	if amount >= auction.CurrentLowest {
		return models.Auction{}, domainErr.ErrBidNotLower
	}

	bid := models.Bid{
		ID:       uuid.New().String(),
		BidderID: bidderID,
		Amount:   amount,
		PlacedAt: s.clock(),
	}
	auction.Bids = append(auction.Bids, bid)
	if auction.BidCounts == nil {
		auction.BidCounts = make(map[string]int)
	}
	auction.BidCounts[bidderID]++
	if !containsString(auction.Participants, bidderID) {
		auction.Participants = append(auction.Participants, bidderID)
	}
	auction.CurrentLowest = amount

	if err := s.store.UpdateAuction(ctx, auction); err != nil {
		return models.Auction{}, fmt.Errorf("persist bid: %w", err)
	}

	s.publish(auction.ID, "auction.bid_placed", map[string]interface{}{
		"auctionId":     auction.ID,
		"bidderId":      bidderID,
		"amount":        amount,
		"currentLowest": auction.CurrentLowest,
	})
	if s.notifier != nil {
		go func(a models.Auction, b models.Bid) {
			if err := s.notifier.NotifyBidPlaced(context.Background(), a, b); err != nil {
				log.Printf("auction: bid notification failed for %s: %v", a.ID, err)
			}
		}(auction.Clone(), bid)
	}

	return auction.Clone(), nil
}

// VisibleAuctions groups what one bidder may see.
type VisibleAuctions struct {
	Open            []models.Auction `json:"open"`
	Restricted      []models.Auction `json:"restricted"`
	RatedRestricted []models.Auction `json:"ratedRestricted"`
}

// ListVisible returns open auctions to everyone and restricted variants
// only to their eligible bidders.
func (s *Service) ListVisible(ctx context.Context, bidderID string) (VisibleAuctions, error) {
	auctions, err := s.store.ListAuctions(ctx)
	if err != nil {
		return VisibleAuctions{}, fmt.Errorf("list auctions: %w", err)
	}

	var out VisibleAuctions
	for _, a := range auctions {
		switch a.Type {
		case models.AuctionOpen:
			out.Open = append(out.Open, a)
		case models.AuctionRestricted:
			if a.IsEligible(bidderID) {
				out.Restricted = append(out.Restricted, a)
			}
		case models.AuctionRatedRestricted:
			if a.IsEligible(bidderID) {
				out.RatedRestricted = append(out.RatedRestricted, a)
			}
		}
	}
	return out, nil
}

// BidView is one history entry of the details projection. Identities are
// name-level only.
type BidView struct {
	BidderName string    `json:"bidderName"`
	Amount     float64   `json:"amount"`
	PlacedAt   time.Time `json:"placedAt"`
}

// Details is the read-only projection served by getDetails.
type Details struct {
	ID            string                 `json:"id"`
	Status        string                 `json:"status"`
	Type          models.AuctionType     `json:"type"`
	Shipment      models.ShipmentRequest `json:"shipment"`
	EndTime       time.Time              `json:"endTime"`
	CurrentLowest float64                `json:"currentLowest"`
	Bids          []BidView              `json:"bids"`
	Participants  []string               `json:"participants"`
}

// GetDetails projects one auction for display: shipment info, bid
// history and participant names.
func (s *Service) GetDetails(ctx context.Context, auctionID string) (Details, error) {
	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return Details{}, domainErr.ErrAuctionNotFound
	}

	names, err := s.vendors.GetVendorNames(ctx, auction.Participants)
	if err != nil {
		log.Printf("auction: name lookup failed for %s: %v", auctionID, err)
		names = map[string]string{}
	}

	bids := make([]BidView, 0, len(auction.Bids))
	for _, b := range auction.Bids {
		bids = append(bids, BidView{
			BidderName: displayName(names, b.BidderID),
			Amount:     b.Amount,
			PlacedAt:   b.PlacedAt,
		})
	}
	participants := make([]string, 0, len(auction.Participants))
	for _, id := range auction.Participants {
		participants = append(participants, displayName(names, id))
	}

	return Details{
		ID:            auction.ID,
		Status:        auction.Status(s.clock()),
		Type:          auction.Type,
		Shipment:      auction.Shipment,
		EndTime:       auction.EndTime,
		CurrentLowest: auction.CurrentLowest,
		Bids:          bids,
		Participants:  participants,
	}, nil
}

func (s *Service) lockFor(auctionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[auctionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[auctionID] = l
	}
	return l
}

func (s *Service) publish(key, event string, payload interface{}) {
	if s.producer == nil {
		return
	}
	go s.producer.Publish(context.Background(), key, map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
}

func displayName(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func containsString(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
