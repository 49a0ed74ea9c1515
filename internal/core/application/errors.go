package application

import "fmt"

// RejectCode tags every non-accepted submission outcome so callers can react
// programmatically instead of parsing logs.
type RejectCode string

const (
	RejectAlreadyQueued             RejectCode = "already_queued"
	RejectNotRegistered             RejectCode = "not_registered"
	RejectRecipientNotReady         RejectCode = "recipient_not_ready"
	RejectNotOwner                  RejectCode = "not_owner"
	RejectPaymentAddressUnusable    RejectCode = "payment_address_unusable"
	RejectPaymentAddressUnderfunded RejectCode = "payment_address_underfunded"
	RejectPaymentKeyUnavailable     RejectCode = "payment_key_unavailable"
	RejectRemoteBuildFailed         RejectCode = "remote_build_failed"
	RejectBroadcastFailed           RejectCode = "broadcast_failed"
	RejectRemoteTimeout             RejectCode = "remote_timeout"
	RejectInvalidRequest            RejectCode = "invalid_request"
	RejectQueueUnavailable          RejectCode = "queue_unavailable"
)

type errInvalidQueue struct {
	queue string
}

func (e errInvalidQueue) Error() string {
	return fmt.Sprintf("unknown queue %s", e.queue)
}
