package mq

import (
	"encoding/json"
	"testing"

	"github.com/shaiso/Trax/internal/domain"
)

func TestNewMessage_WalletProcessed(t *testing.T) {
	report := domain.NewWalletReport("0xabc", "1.2.3.4:8080")
	report.Claim = domain.ClaimOutcome{Status: domain.ClaimStatusSucceeded}

	msg, err := NewMessage(MessageTypeWalletProcessed, report)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.ID == "" {
		t.Error("message ID is empty")
	}
	if msg.Type != MessageTypeWalletProcessed {
		t.Errorf("Type = %q, want %q", msg.Type, MessageTypeWalletProcessed)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}

	// Конверт переживает сериализацию на проводе.
	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire Message
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err := ParsePayload[domain.WalletReport](&wire)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got.Address != "0xabc" {
		t.Errorf("Address = %q, want 0xabc", got.Address)
	}
	if got.Claim.Status != domain.ClaimStatusSucceeded {
		t.Errorf("Claim.Status = %q, want SUCCEEDED", got.Claim.Status)
	}
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	a, _ := NewMessage(MessageTypeSweepCompleted, domain.SweepSummary{Number: 1})
	b, _ := NewMessage(MessageTypeSweepCompleted, domain.SweepSummary{Number: 1})
	if a.ID == b.ID {
		t.Errorf("IDs must differ, both %q", a.ID)
	}
}

func TestNewMessage_UnsupportedPayload(t *testing.T) {
	if _, err := NewMessage(MessageTypeSweepCompleted, make(chan int)); err == nil {
		t.Error("expected marshal error")
	}
}

func TestParsePayload_Mismatch(t *testing.T) {
	msg := &Message{Type: MessageTypeSweepCompleted, Payload: json.RawMessage(`"not an object"`)}
	if _, err := ParsePayload[domain.SweepSummary](msg); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestSweepSummaryRoundTrip(t *testing.T) {
	msg, err := NewMessage(MessageTypeSweepCompleted, domain.SweepSummary{Number: 3, Wallets: 5, Failed: 1, BonusRound: true})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	got, err := ParsePayload[domain.SweepSummary](msg)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got.Number != 3 || got.Wallets != 5 || got.Failed != 1 || !got.BonusRound {
		t.Errorf("summary = %+v", got)
	}
}
