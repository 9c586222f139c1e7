// Package filter implements the predicate that decides whether an event
// satisfies a subscription filter. All fields present on a filter must
// match (AND); a request's filters combine with OR via MatchesAny.
package filter

import (
	"github.com/nbd-wtf/go-nostr"
)

// Matches reports whether the event satisfies every constraint the filter
// carries. A filter with no constraints matches every event. Limit is a
// query concern, not a matching concern, and is ignored here.
func Matches(ev *nostr.Event, f nostr.Filter) bool {
	if ev == nil {
		return false
	}
	if len(f.IDs) > 0 && !containsString(f.IDs, ev.ID) {
		return false
	}
	if len(f.Authors) > 0 && !containsString(f.Authors, ev.PubKey) {
		return false
	}
	if len(f.Kinds) > 0 && !containsInt(f.Kinds, ev.Kind) {
		return false
	}
	if f.Since != nil && ev.CreatedAt < *f.Since {
		return false
	}
	if f.Until != nil && ev.CreatedAt > *f.Until {
		return false
	}
	for name, values := range f.Tags {
		if !matchesTag(ev.Tags, name, values) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether the event satisfies at least one filter.
// An empty filter list matches nothing: a subscription without filters is
// a no-op query, not a wildcard.
func MatchesAny(ev *nostr.Event, filters nostr.Filters) bool {
	for _, f := range filters {
		if Matches(ev, f) {
			return true
		}
	}
	return false
}

// matchesTag reports whether at least one of the event's tags named `name`
// carries a value from the allowed set.
func matchesTag(tags nostr.Tags, name string, values []string) bool {
	if len(values) == 0 {
		return true
	}
	for _, tag := range tags {
		if len(tag) < 2 || tag[0] != name {
			continue
		}
		if containsString(values, tag[1]) {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}
