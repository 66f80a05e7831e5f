package amqp

import (
	"encoding/json"
	"time"
)

// PayoutMessage signals that an expenditure was approved and its outbound
// transfer must be disclosed. It carries only the id; the worker fetches
// the full record from the ledger store.
type PayoutMessage struct {
	ExpenditureID int64     `json:"expenditure_id"`
	AmountMicros  int64     `json:"amount_micros"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewPayoutMessage creates a payout message for an approved expenditure
func NewPayoutMessage(id, amountMicros int64) *PayoutMessage {
	return &PayoutMessage{
		ExpenditureID: id,
		AmountMicros:  amountMicros,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PayoutMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PayoutMessageFromJSON creates a message from JSON bytes
func PayoutMessageFromJSON(data []byte) (*PayoutMessage, error) {
	var msg PayoutMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
