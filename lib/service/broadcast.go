package service

import (
	"github.com/nbd-wtf/go-nostr"
	"github.com/relayhub/relayhub.go/lib/filter"
	"github.com/relayhub/relayhub.go/lib/responses"
)

// BroadcastEvent pushes a newly admitted event to every live subscription
// whose filters match it. Delivery is per-subscriber best effort: a closed
// client or a full queue is logged and skipped, so one stuck connection
// cannot stall the fan-out or fail the admission that triggered it.
func (svc *RelayService) BroadcastEvent(ev *nostr.Event) {
	for _, sub := range svc.Registry.Snapshot() {
		if sub.Client.IsClosed() {
			continue
		}
		if !filter.MatchesAny(ev, sub.Filters) {
			continue
		}
		if !sub.Client.Enqueue(responses.EventMessage(sub.ID, ev)) {
			svc.Logger.Errorf("Dropped event %s for subscription %s: client %s gone or queue full",
				ev.ID, sub.ID, sub.Client.ID)
		}
	}
}
