package service

import (
	"context"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/lib/responses"
)

// HandleReq opens (or replaces) a subscription, replays matching stored
// events and terminates the replay with EOSE. The subscription is
// registered before the store query runs, so events admitted while the
// replay is in flight are not lost; the client may see one of them twice,
// which the protocol tolerates (deliveries are keyed by event id).
func (svc *RelayService) HandleReq(ctx context.Context, client *Client, subscriptionID string, filters nostr.Filters) {
	svc.Registry.Add(client, subscriptionID, filters)

	stored, err := svc.Store.FindMatching(ctx, filters)
	if err != nil {
		svc.Logger.Errorf("Failed to query stored events for subscription %s: %v", subscriptionID, err)
		client.Enqueue(responses.NoticeMessage("error: could not query stored events"))
		client.Enqueue(responses.EoseMessage(subscriptionID))
		return
	}

	for i := range stored {
		client.Enqueue(responses.EventMessage(subscriptionID, &stored[i]))
	}
	client.Enqueue(responses.EoseMessage(subscriptionID))
}

// HandleCloseSubscription removes one subscription on the client's request.
func (svc *RelayService) HandleCloseSubscription(client *Client, subscriptionID string) {
	svc.Registry.Remove(client, subscriptionID)
}

// HandleDisconnect sweeps away everything the connection owned.
func (svc *RelayService) HandleDisconnect(client *Client) {
	removed := svc.Registry.RemoveClient(client)
	client.Close()
	if removed > 0 {
		svc.Logger.Debugf("Removed %d subscriptions for client %s", removed, client.ID)
	}
}
