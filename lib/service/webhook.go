package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/common"
)

// StartWebhookSubscription forwards every admitted event to the configured
// webhook url until the context is cancelled. Mirror consumers like this
// ride the internal firehose, not the client subscription registry.
func (svc *RelayService) StartWebhookSubscription(ctx context.Context, url string) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	acceptedEvents := make(chan nostr.Event)
	deletedEvents := make(chan nostr.Event)
	svc.EventPubSub.Subscribe(common.TopicEventAccepted, acceptedEvents)
	svc.EventPubSub.Subscribe(common.TopicEventDeleted, deletedEvents)
	for {
		select {
		case <-ctx.Done():
			return
		case accepted := <-acceptedEvents:
			svc.postToWebhook(accepted, url)
		case deleted := <-deletedEvents:
			svc.postToWebhook(deleted, url)
		}
	}
}

func (svc *RelayService) postToWebhook(event nostr.Event, url string) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := http.Post(url, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
