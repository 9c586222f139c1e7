package service

import (
	"context"
	"encoding/json"
	"io"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/common"
)

// SubscribeAcceptedAndDeletedEvents taps the internal firehose for the
// rabbitmq publisher.
func (svc *RelayService) SubscribeAcceptedAndDeletedEvents() (accepted chan nostr.Event, deleted chan nostr.Event, unsubscribe func()) {
	accepted = make(chan nostr.Event)
	deleted = make(chan nostr.Event)
	acceptedId := svc.EventPubSub.Subscribe(common.TopicEventAccepted, accepted)
	deletedId := svc.EventPubSub.Subscribe(common.TopicEventDeleted, deleted)
	unsubscribe = func() {
		svc.EventPubSub.Unsubscribe(acceptedId, common.TopicEventAccepted)
		svc.EventPubSub.Unsubscribe(deletedId, common.TopicEventDeleted)
	}
	return accepted, deleted, unsubscribe
}

// EncodeEvent writes the event the way it appears on the wire.
func (svc *RelayService) EncodeEvent(ctx context.Context, w io.Writer, event nostr.Event) error {
	return json.NewEncoder(w).Encode(event)
}
