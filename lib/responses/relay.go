package responses

import (
	"github.com/nbd-wtf/go-nostr"
)

// Outbound relay messages are JSON arrays whose first element is the
// message type tag (NIP-01). They are built as []interface{} so a single
// WriteJSON call produces the exact wire shape.

func OkMessage(eventID string, accepted bool, message string) []interface{} {
	return []interface{}{"OK", eventID, accepted, message}
}

func EventMessage(subscriptionID string, ev *nostr.Event) []interface{} {
	return []interface{}{"EVENT", subscriptionID, ev}
}

func EoseMessage(subscriptionID string) []interface{} {
	return []interface{}{"EOSE", subscriptionID}
}

func NoticeMessage(message string) []interface{} {
	return []interface{}{"NOTICE", message}
}

// RelayInformationDocument is the NIP-11 metadata document served to
// clients that ask for application/nostr+json.
type RelayInformationDocument struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Pubkey        string `json:"pubkey,omitempty"`
	Contact       string `json:"contact,omitempty"`
	SupportedNIPs []int  `json:"supported_nips"`
	Software      string `json:"software"`
	Version       string `json:"version"`
}
