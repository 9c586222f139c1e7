package filter

import (
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
)

func sampleEvent() *nostr.Event {
	return &nostr.Event{
		ID:        strings.Repeat("a", 64),
		PubKey:    strings.Repeat("b", 64),
		CreatedAt: nostr.Timestamp(1000),
		Kind:      1,
		Tags: nostr.Tags{
			{"e", strings.Repeat("c", 64)},
			{"p", strings.Repeat("d", 64)},
		},
		Content: "hello",
		Sig:     strings.Repeat("e", 128),
	}
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	assert.True(t, Matches(sampleEvent(), nostr.Filter{}))
}

func TestNilEventNeverMatches(t *testing.T) {
	assert.False(t, Matches(nil, nostr.Filter{}))
}

func TestIDsAuthorsKinds(t *testing.T) {
	ev := sampleEvent()

	assert.True(t, Matches(ev, nostr.Filter{IDs: []string{ev.ID}}))
	assert.False(t, Matches(ev, nostr.Filter{IDs: []string{strings.Repeat("f", 64)}}))

	assert.True(t, Matches(ev, nostr.Filter{Authors: []string{ev.PubKey}}))
	assert.False(t, Matches(ev, nostr.Filter{Authors: []string{strings.Repeat("f", 64)}}))

	assert.True(t, Matches(ev, nostr.Filter{Kinds: []int{0, 1}}))
	assert.False(t, Matches(ev, nostr.Filter{Kinds: []int{0, 2}}))
}

func TestTimeWindowsAreInclusive(t *testing.T) {
	ev := sampleEvent()
	at := ev.CreatedAt
	before := at - 1
	after := at + 1

	assert.True(t, Matches(ev, nostr.Filter{Since: &at}))
	assert.True(t, Matches(ev, nostr.Filter{Until: &at}))
	assert.True(t, Matches(ev, nostr.Filter{Since: &before, Until: &after}))
	assert.False(t, Matches(ev, nostr.Filter{Since: &after}))
	assert.False(t, Matches(ev, nostr.Filter{Until: &before}))
}

func TestTagFilters(t *testing.T) {
	ev := sampleEvent()
	referenced := ev.Tags[0][1]

	assert.True(t, Matches(ev, nostr.Filter{Tags: nostr.TagMap{"e": {referenced}}}))
	assert.False(t, Matches(ev, nostr.Filter{Tags: nostr.TagMap{"e": {strings.Repeat("f", 64)}}}))
	assert.False(t, Matches(ev, nostr.Filter{Tags: nostr.TagMap{"t": {"nostr"}}}))

	// an empty value set places no constraint on the event
	assert.True(t, Matches(ev, nostr.Filter{Tags: nostr.TagMap{"e": {}}}))
}

func TestAllFilterFieldsMustMatch(t *testing.T) {
	ev := sampleEvent()

	assert.True(t, Matches(ev, nostr.Filter{
		Authors: []string{ev.PubKey},
		Kinds:   []int{ev.Kind},
	}))
	assert.False(t, Matches(ev, nostr.Filter{
		Authors: []string{ev.PubKey},
		Kinds:   []int{ev.Kind + 1},
	}))
}

func TestMatchesAny(t *testing.T) {
	ev := sampleEvent()
	miss := nostr.Filter{Kinds: []int{42}}
	hit := nostr.Filter{Kinds: []int{ev.Kind}}

	assert.False(t, MatchesAny(ev, nostr.Filters{}))
	assert.False(t, MatchesAny(ev, nil))
	assert.False(t, MatchesAny(ev, nostr.Filters{miss}))
	assert.True(t, MatchesAny(ev, nostr.Filters{miss, hit}))
	assert.True(t, MatchesAny(ev, nostr.Filters{hit, miss}))
}
