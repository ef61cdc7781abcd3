package auction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainErr "github.com/testforus12-cyber/backend-2-sub000/internal/domain/errors"
	"github.com/testforus12-cyber/backend-2-sub000/internal/distance"
	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
	"github.com/testforus12-cyber/backend-2-sub000/internal/quote"
	"github.com/testforus12-cyber/backend-2-sub000/internal/zone"
	"github.com/testforus12-cyber/backend-2-sub000/store"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestService wires the auction service against the in-memory store
// with a pinned clock. The seeded rate card prices the test shipment at
// exactly 1000 (20/kg * 50kg).
func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	mem.SeedTiedUpCard("c1", models.RateCard{
		VendorID: "seed-vendor",
		Prices:   map[string]map[string]float64{"N1": {"S1": 20}},
		KFactor:  5000,
	})

	zones := zone.NewResolver(mem, map[string]models.ZoneInfo{
		"110001": {Zone: "N1"},
		"560001": {Zone: "S1"},
	})
	dist := distance.NewResolver("", "", nil)
	quotes := quote.NewService(mem, mem, mem, zones, dist, nil)

	svc := NewService(mem, mem, quotes, nil, nil)
	svc.clock = func() time.Time { return testNow }
	return svc, mem
}

func testShipment() models.ShipmentRequest {
	return models.ShipmentRequest{
		CustomerID:    "c1",
		OriginPincode: "110001",
		DestPincode:   "560001",
		Packages: []models.Package{
			{Length: 1, Width: 1, Height: 1, Weight: 50, Count: 1},
		},
	}
}

func openParams() CreateParams {
	return CreateParams{
		CustomerID: "c1",
		Shipment:   testShipment(),
		Type:       models.AuctionOpen,
		EndTime:    testNow.Add(72 * time.Hour),
	}
}

func TestCreateSeedsFromLowestQuote(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Error("expected a generated auction id")
	}
	if a.CurrentLowest != 1000 {
		t.Errorf("expected seed price 1000 from the aggregated quote, got %v", a.CurrentLowest)
	}
	if a.Status(testNow) != models.AuctionStatusOpen {
		t.Errorf("expected OPEN, got %s", a.Status(testNow))
	}
	if len(a.EligibleBidders) != 0 {
		t.Errorf("open auction must not carry an eligible set, got %v", a.EligibleBidders)
	}
}

func TestCreateEndTimeTooSoon(t *testing.T) {
	svc, _ := newTestService(t)
	params := openParams()
	params.EndTime = testNow.Add(24 * time.Hour)

	if _, err := svc.Create(context.Background(), params); !errors.Is(err, domainErr.ErrEndTimeTooSoon) {
		t.Errorf("expected ErrEndTimeTooSoon, got %v", err)
	}
}

func TestCreateUnknownType(t *testing.T) {
	svc, _ := newTestService(t)
	params := openParams()
	params.Type = "dutch"

	if _, err := svc.Create(context.Background(), params); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateNoQuotesToSeed(t *testing.T) {
	svc, _ := newTestService(t)
	params := openParams()
	params.CustomerID = "nobody"
	params.Shipment.CustomerID = "nobody"

	if _, err := svc.Create(context.Background(), params); !errors.Is(err, domainErr.ErrNoQuotesFound) {
		t.Errorf("expected ErrNoQuotesFound, got %v", err)
	}
}

func TestCreateRestrictedDerivesEligibleSet(t *testing.T) {
	svc, mem := newTestService(t)
	mem.SeedRelation("c1", "vY")
	mem.SeedRelation("c1", "vX")
	mem.SeedRelation("c1", "vX") // duplicate must collapse

	params := openParams()
	params.Type = models.AuctionRestricted
	// Client-supplied lists are ignored for plain restricted auctions.
	params.BidderIDs = []string{"attacker"}

	a, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.EligibleBidders) != 2 || a.EligibleBidders[0] != "vX" || a.EligibleBidders[1] != "vY" {
		t.Errorf("expected deduped sorted [vX vY], got %v", a.EligibleBidders)
	}
	if a.IsEligible("attacker") {
		t.Error("client-supplied bidder must not be eligible")
	}
}

func TestCreateRestrictedWithoutRelations(t *testing.T) {
	svc, _ := newTestService(t)
	params := openParams()
	params.Type = models.AuctionRestricted

	if _, err := svc.Create(context.Background(), params); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for a customer with no relations, got %v", err)
	}
}

func TestCreateRatedRestricted(t *testing.T) {
	svc, mem := newTestService(t)
	mem.SeedVendor("vHigh", "High Logistics", 4.5)
	mem.SeedVendor("vLow", "Low Logistics", 2.0)

	params := openParams()
	params.Type = models.AuctionRatedRestricted
	params.BidderIDs = []string{"vManual"}
	params.MinRating = 4.0

	a, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Union of the explicit list and the rating filter, sorted.
	if len(a.EligibleBidders) != 2 || a.EligibleBidders[0] != "vHigh" || a.EligibleBidders[1] != "vManual" {
		t.Errorf("expected [vHigh vManual], got %v", a.EligibleBidders)
	}
}

func TestCreateRatedRestrictedNeedsCriteria(t *testing.T) {
	svc, _ := newTestService(t)
	params := openParams()
	params.Type = models.AuctionRatedRestricted

	if _, err := svc.Create(context.Background(), params); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput without bidder ids or rating, got %v", err)
	}
}

func TestPlaceBidSequence(t *testing.T) {
	// 1. SETUP: open auction seeded at 1000.
	svc, _ := newTestService(t)
	a, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ctx := context.Background()

	// 2. EXECUTE / 3. ASSERT, step by step.
	after, err := svc.PlaceBid(ctx, a.ID, "vX", 900)
	if err != nil {
		t.Fatalf("first bid should be accepted: %v", err)
	}
	if after.CurrentLowest != 900 {
		t.Errorf("expected lowest 900, got %v", after.CurrentLowest)
	}

	// Not strictly lower than the current lowest: rejected, not recorded.
	if _, err := svc.PlaceBid(ctx, a.ID, "vX", 950); !errors.Is(err, domainErr.ErrBidNotLower) {
		t.Fatalf("expected ErrBidNotLower, got %v", err)
	}
	if _, err := svc.PlaceBid(ctx, a.ID, "vX", 900); !errors.Is(err, domainErr.ErrBidNotLower) {
		t.Fatalf("equal amount must be rejected too, got %v", err)
	}

	after, err = svc.PlaceBid(ctx, a.ID, "vY", 850)
	if err != nil {
		t.Fatalf("lower bid from another vendor should be accepted: %v", err)
	}
	if after.CurrentLowest != 850 {
		t.Errorf("expected lowest 850, got %v", after.CurrentLowest)
	}
	if len(after.Bids) != 2 {
		t.Errorf("rejected attempts must not be recorded, got %d bids", len(after.Bids))
	}
	if len(after.Participants) != 2 {
		t.Errorf("expected 2 participants, got %v", after.Participants)
	}
}

func TestPlaceBidLimit(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ctx := context.Background()

	for _, amount := range []float64{900, 800, 700} {
		if _, err := svc.PlaceBid(ctx, a.ID, "vX", amount); err != nil {
			t.Fatalf("bid %v should be accepted: %v", amount, err)
		}
	}

	if _, err := svc.PlaceBid(ctx, a.ID, "vX", 600); !errors.Is(err, domainErr.ErrBidLimitReached) {
		t.Errorf("expected ErrBidLimitReached on the 4th bid, got %v", err)
	}

	// Another bidder is unaffected by vX's cap.
	if _, err := svc.PlaceBid(ctx, a.ID, "vY", 600); err != nil {
		t.Errorf("other bidders keep bidding: %v", err)
	}
}

func TestPlaceBidAfterEndTime(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Move the wall clock past the end time: CLOSED is lazy, no stored
	// state flips.
	svc.clock = func() time.Time { return a.EndTime.Add(time.Minute) }

	if _, err := svc.PlaceBid(context.Background(), a.ID, "vX", 900); !errors.Is(err, domainErr.ErrAuctionClosed) {
		t.Errorf("expected ErrAuctionClosed, got %v", err)
	}

	d, err := svc.GetDetails(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if d.Status != models.AuctionStatusClosed {
		t.Errorf("expected CLOSED status, got %s", d.Status)
	}
}

func TestPlaceBidEligibility(t *testing.T) {
	svc, mem := newTestService(t)
	mem.SeedRelation("c1", "vX")

	params := openParams()
	params.Type = models.AuctionRestricted
	a, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.PlaceBid(context.Background(), a.ID, "outsider", 900); !errors.Is(err, domainErr.ErrNotEligible) {
		t.Errorf("expected ErrNotEligible, got %v", err)
	}
	if _, err := svc.PlaceBid(context.Background(), a.ID, "vX", 900); err != nil {
		t.Errorf("related vendor must be able to bid: %v", err)
	}
}

func TestPlaceBidUnknownAuction(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.PlaceBid(context.Background(), "missing", "vX", 900); !errors.Is(err, domainErr.ErrAuctionNotFound) {
		t.Errorf("expected ErrAuctionNotFound, got %v", err)
	}
}

func TestPlaceBidValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.PlaceBid(ctx, "", "vX", 900); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty auction id, got %v", err)
	}
	if _, err := svc.PlaceBid(ctx, "a1", "", 900); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty bidder id, got %v", err)
	}
	if _, err := svc.PlaceBid(ctx, "a1", "vX", 0); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero amount, got %v", err)
	}
	if _, err := svc.PlaceBid(ctx, "a1", "vX", -5); !errors.Is(err, domainErr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative amount, got %v", err)
	}
}

func TestConcurrentBidsStayMonotonic(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 20 vendors race with distinct amounts. However the race resolves,
	// accepted bids must form a strictly decreasing sequence.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bidder := string(rune('a'+i%26)) + "-vendor"
			svc.PlaceBid(context.Background(), a.ID, bidder, 990-float64(i*10))
		}(i)
	}
	wg.Wait()

	final, err := svc.GetDetails(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(final.Bids) == 0 {
		t.Fatal("at least the lowest racing bid must have been accepted")
	}
	prev := 1000.0
	for _, b := range final.Bids {
		if b.Amount >= prev {
			t.Fatalf("accepted bids must strictly decrease: %v then %v", prev, b.Amount)
		}
		prev = b.Amount
	}
	if final.CurrentLowest != final.Bids[len(final.Bids)-1].Amount {
		t.Errorf("current lowest %v must equal the last accepted bid %v", final.CurrentLowest, final.Bids[len(final.Bids)-1].Amount)
	}
	// 800 is the minimum raced amount, so it must have been accepted.
	if final.CurrentLowest != 800 {
		t.Errorf("expected final lowest 800, got %v", final.CurrentLowest)
	}
}

func TestListVisible(t *testing.T) {
	svc, mem := newTestService(t)
	mem.SeedRelation("c1", "vX")

	open, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("create open: %v", err)
	}

	params := openParams()
	params.Type = models.AuctionRestricted
	restricted, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("create restricted: %v", err)
	}

	// The related vendor sees both.
	vis, err := svc.ListVisible(context.Background(), "vX")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vis.Open) != 1 || vis.Open[0].ID != open.ID {
		t.Errorf("expected the open auction, got %+v", vis.Open)
	}
	if len(vis.Restricted) != 1 || vis.Restricted[0].ID != restricted.ID {
		t.Errorf("expected the restricted auction, got %+v", vis.Restricted)
	}

	// An outsider sees only the open one.
	vis, err = svc.ListVisible(context.Background(), "outsider")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(vis.Open) != 1 || len(vis.Restricted) != 0 {
		t.Errorf("outsider must see only open auctions, got %+v", vis)
	}
}

func TestGetDetailsProjectsNames(t *testing.T) {
	svc, mem := newTestService(t)
	mem.SeedVendor("vX", "Acme Freight", 4.0)

	a, err := svc.Create(context.Background(), openParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.PlaceBid(context.Background(), a.ID, "vX", 900); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if _, err := svc.PlaceBid(context.Background(), a.ID, "vUnknown", 850); err != nil {
		t.Fatalf("bid: %v", err)
	}

	d, err := svc.GetDetails(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(d.Bids) != 2 {
		t.Fatalf("expected 2 bids, got %d", len(d.Bids))
	}
	if d.Bids[0].BidderName != "Acme Freight" {
		t.Errorf("expected the directory name, got %q", d.Bids[0].BidderName)
	}
	// Unknown vendors fall back to their id rather than disappearing.
	if d.Bids[1].BidderName != "vUnknown" {
		t.Errorf("expected id fallback, got %q", d.Bids[1].BidderName)
	}
	if d.CurrentLowest != 850 {
		t.Errorf("expected lowest 850, got %v", d.CurrentLowest)
	}
}

func TestGetDetailsUnknownAuction(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GetDetails(context.Background(), "missing"); !errors.Is(err, domainErr.ErrAuctionNotFound) {
		t.Errorf("expected ErrAuctionNotFound, got %v", err)
	}
}
