package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/common"
)

// EventValidator performs the structural checks an event must pass before
// it is admitted. It deliberately does not verify the signature
// cryptographically; that is the admission pipeline's job.
type EventValidator struct {
	validate *validator.Validate
}

func NewEventValidator() *EventValidator {
	return &EventValidator{validate: validator.New()}
}

// ValidateEvent reports whether the event is structurally sound:
// 64-character id and pubkey, 128-character signature, and tags where
// every entry names at least the tag itself.
func (v *EventValidator) ValidateEvent(ev *nostr.Event) bool {
	if ev == nil {
		return false
	}
	if err := v.validate.Var(ev.ID, "required,len=64"); err != nil {
		return false
	}
	if err := v.validate.Var(ev.PubKey, "required,len=64"); err != nil {
		return false
	}
	for _, tag := range ev.Tags {
		if len(tag) == 0 {
			return false
		}
	}
	if err := v.validate.Var(ev.Sig, "required,len=128"); err != nil {
		return false
	}
	return true
}

// ValidateDeletion reports whether a deletion event (kind 5) may be used to
// delete the given event ids. Every id must be referenced by an "e" tag on
// the event itself; a deletion can never reach events it does not name.
func (v *EventValidator) ValidateDeletion(ev *nostr.Event, eventIds []string) bool {
	if ev == nil || ev.Kind != common.KindDeletion {
		return false
	}
	referenced := make(map[string]bool)
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == common.TagEvent {
			referenced[tag[1]] = true
		}
	}
	if len(referenced) == 0 {
		return false
	}
	for _, id := range eventIds {
		if !referenced[id] {
			return false
		}
	}
	return true
}

// DeletionTargets extracts the event ids a deletion event references via
// its "e" tags, preserving tag order.
func DeletionTargets(ev *nostr.Event) []string {
	ids := []string{}
	for _, tag := range ev.Tags {
		if len(tag) >= 2 && tag[0] == common.TagEvent && tag[1] != "" {
			ids = append(ids, tag[1])
		}
	}
	return ids
}
