package amqp

import "testing"

func TestPayoutMessageRoundTrip(t *testing.T) {
	msg := NewPayoutMessage(7, 1_500_000)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	got, err := PayoutMessageFromJSON(data)
	if err != nil {
		t.Fatalf("PayoutMessageFromJSON failed: %v", err)
	}
	if got.ExpenditureID != 7 {
		t.Errorf("expenditure id = %d, want 7", got.ExpenditureID)
	}
	if got.AmountMicros != 1_500_000 {
		t.Errorf("amount = %d, want 1500000", got.AmountMicros)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp should survive the round trip")
	}
}

func TestPayoutMessageFromJSONInvalid(t *testing.T) {
	if _, err := PayoutMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
