package common

const (
	// KindDeletion is the event kind that requests tombstoning of
	// previously published events (NIP-09).
	KindDeletion = 5

	TagEvent  = "e"
	TagPubkey = "p"

	TopicEventAccepted = "event.accepted"
	TopicEventDeleted  = "event.deleted"

	MessageEventSaved      = "Event saved"
	MessageInvalidEvent    = "invalid: event failed structural validation"
	MessageInvalidSig      = "invalid: signature verification failed"
	MessageInvalidDeletion = "invalid: deletion event must reference event ids"
	MessageProcessingError = "error: could not process event"
)
