package models

import "time"

// AuctionType controls who may see and bid on an auction.
type AuctionType string

const (
	// AuctionOpen is visible and biddable by every vendor.
	AuctionOpen AuctionType = "open"
	// AuctionRestricted limits bidding to vendors already in a
	// relationship with the requesting customer. The eligible set is
	// derived server-side; client-supplied lists are ignored.
	AuctionRestricted AuctionType = "restricted"
	// AuctionRatedRestricted limits bidding to an explicit bidder list
	// and/or vendors at or above a minimum rating.
	AuctionRatedRestricted AuctionType = "rated_restricted"
)

// Auction lifecycle states. There is no stored state machine: CLOSED is
// evaluated lazily by comparing wall-clock time against EndTime.
const (
	AuctionStatusOpen   = "OPEN"
	AuctionStatusClosed = "CLOSED"
)

// MaxBidsPerBidder caps how many accepted bids one vendor may place on a
// single auction.
const MaxBidsPerBidder = 3

// Bid is one accepted bid. Rejected attempts are never recorded.
type Bid struct {
	ID       string    `json:"id"`
	BidderID string    `json:"bidderId"`
	Amount   float64   `json:"amount"`
	PlacedAt time.Time `json:"placedAt"`
}

// Auction is a reverse auction for one shipment. CurrentLowest starts at
// the best aggregated quote and only ever moves down as bids are accepted.
type Auction struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Shipment   ShipmentRequest `json:"shipment"`
	Type       AuctionType     `json:"type"`

	// EligibleBidders is empty for open auctions.
	EligibleBidders []string `json:"eligibleBidders,omitempty"`
	MinRating       float64  `json:"minRating,omitempty"`

	EndTime       time.Time `json:"endTime"`
	CurrentLowest float64   `json:"currentLowest"`

	Bids         []Bid          `json:"bids"`
	BidCounts    map[string]int `json:"bidCounts"`
	Participants []string       `json:"participants"`

	CreatedAt time.Time `json:"createdAt"`
}

// Status reports OPEN or CLOSED relative to now.
func (a *Auction) Status(now time.Time) string {
	if now.After(a.EndTime) {
		return AuctionStatusClosed
	}
	return AuctionStatusOpen
}

// IsEligible reports whether a bidder may participate. Open auctions
// accept everyone; the restricted variants check the eligible set.
func (a *Auction) IsEligible(bidderID string) bool {
	if a.Type == AuctionOpen {
		return true
	}
	for _, id := range a.EligibleBidders {
		if id == bidderID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand to callers while the original
// keeps being mutated under the auction lock.
func (a *Auction) Clone() Auction {
	out := *a
	out.EligibleBidders = append([]string(nil), a.EligibleBidders...)
	out.Bids = append([]Bid(nil), a.Bids...)
	out.Participants = append([]string(nil), a.Participants...)
	out.BidCounts = make(map[string]int, len(a.BidCounts))
	for k, v := range a.BidCounts {
		out.BidCounts[k] = v
	}
	return out
}
