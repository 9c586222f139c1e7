package service

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/common"
	"github.com/relayhub/relayhub.go/lib/validation"
)

// HandleEventMessage is the admission pipeline for one inbound event.
// It never returns an error to the transport: every failure, expected or
// not, degrades to an OK false with a message, so a broken event can never
// take down the connection handler.
func (svc *RelayService) HandleEventMessage(ctx context.Context, ev *nostr.Event) (accepted bool, message string) {
	if !svc.Validator.ValidateEvent(ev) {
		return false, common.MessageInvalidEvent
	}
	if svc.Config.RequireSigVerification {
		if ok, err := ev.CheckSignature(); err != nil || !ok {
			svc.Logger.Infof("Rejected event %s: signature verification failed: %v", ev.ID, err)
			return false, common.MessageInvalidSig
		}
	}

	if ev.Kind == common.KindDeletion {
		return svc.handleDeletion(ctx, ev)
	}

	if err := svc.Store.Save(ctx, ev); err != nil {
		svc.Logger.Errorf("Failed to save event %s: %v", ev.ID, err)
		return false, common.MessageProcessingError
	}

	svc.BroadcastEvent(ev)
	svc.EventPubSub.Publish(common.TopicEventAccepted, *ev)

	return true, common.MessageEventSaved
}

// handleDeletion tombstones every event the deletion request references,
// then stores the deletion event itself. Individual misses (unknown ids,
// events owned by someone else) are skipped, not errors.
func (svc *RelayService) handleDeletion(ctx context.Context, ev *nostr.Event) (accepted bool, message string) {
	targets := validation.DeletionTargets(ev)
	if len(targets) == 0 {
		return false, common.MessageInvalidDeletion
	}
	if !svc.Validator.ValidateDeletion(ev, targets) {
		return false, common.MessageInvalidDeletion
	}

	deleted := 0
	for _, id := range targets {
		changed, err := svc.Store.MarkDeleted(ctx, id, ev.PubKey)
		if err != nil {
			svc.Logger.Errorf("Failed to mark event %s deleted: %v", id, err)
			continue
		}
		if changed {
			deleted++
		}
	}

	if err := svc.Store.Save(ctx, ev); err != nil {
		svc.Logger.Errorf("Failed to save deletion event %s: %v", ev.ID, err)
		return false, common.MessageProcessingError
	}

	svc.EventPubSub.Publish(common.TopicEventDeleted, *ev)

	return true, fmt.Sprintf("Deleted %d events", deleted)
}
