package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/testforus12-cyber/backend-2-sub000/internal/models"
)

// BidNotifier publishes bid notifications onto the communications queue,
// where the notification worker turns them into emails/SMS.
type BidNotifier struct {
	client *Client
	queue  string
}

func NewBidNotifier(client *Client, queue string) (*BidNotifier, error) {
	if err := client.CreateQueue(queue); err != nil {
		return nil, err
	}
	return &BidNotifier{client: client, queue: queue}, nil
}

// NotifyBidPlaced tells the customer a new lowest bid landed on their
// auction.
func (n *BidNotifier) NotifyBidPlaced(ctx context.Context, auction models.Auction, bid models.Bid) error {
	body, err := json.Marshal(map[string]interface{}{
		"type":          "auction.bid_placed",
		"auctionId":     auction.ID,
		"customerId":    auction.CustomerID,
		"amount":        bid.Amount,
		"currentLowest": auction.CurrentLowest,
		"endTime":       auction.EndTime,
	})
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.queue, body)
}
