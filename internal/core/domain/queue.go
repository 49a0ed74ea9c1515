package domain

import (
	"encoding/json"
	"time"
)

// Queue identifies one of the durable stores of accepted-but-unconfirmed
// name operations, partitioned by operation kind.
type Queue string

const (
	PreorderQueue Queue = "preorder"
	RegisterQueue Queue = "register"
	UpdateQueue   Queue = "update"
	TransferQueue Queue = "transfer"
)

func (q Queue) IsValid() bool {
	switch q {
	case PreorderQueue, RegisterQueue, UpdateQueue, TransferQueue:
		return true
	}
	return false
}

// QueueRecord is the durable outcome of a broadcast name operation. A record
// is written only after the chain client accepted the broadcast and is never
// mutated afterwards; the confirmation monitor removes it once the tx is
// buried deep enough.
type QueueRecord struct {
	Name         string
	TxHash       string
	OwnerAddress string

	// update only
	Profile     json.RawMessage
	ProfileHash string

	// transfer only
	TransferAddress string

	QueuedAt time.Time
}
