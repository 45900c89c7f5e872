package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeAcknowledger struct {
	acks, nacks, rejects int
}

func (f *fakeAcknowledger) Ack(uint64, bool) error {
	f.acks++
	return nil
}

func (f *fakeAcknowledger) Nack(uint64, bool, bool) error {
	f.nacks++
	return nil
}

func (f *fakeAcknowledger) Reject(uint64, bool) error {
	f.rejects++
	return nil
}

func newTestConsumer(handler Handler) *Consumer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConsumer(nil, logger, ConsumerConfig{Handler: handler})
}

func delivery(t *testing.T, ack amqp.Acknowledger) amqp.Delivery {
	t.Helper()
	msg, err := NewMessage(MessageTypeSweepCompleted, map[string]int{"number": 1})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	body, _ := json.Marshal(msg)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestNewConsumer_DefaultBindings(t *testing.T) {
	c := newTestConsumer(nil)
	if len(c.cfg.Bindings) != 1 || c.cfg.Bindings[0] != RoutingKeyAll {
		t.Errorf("Bindings = %v, want [#]", c.cfg.Bindings)
	}
}

func TestHandle_AcksOnSuccess(t *testing.T) {
	var got *Message
	c := newTestConsumer(func(_ context.Context, msg *Message) error {
		got = msg
		return nil
	})
	ack := &fakeAcknowledger{}

	if err := c.handle(context.Background(), delivery(t, ack), false); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got == nil || got.Type != MessageTypeSweepCompleted {
		t.Errorf("handler got %+v", got)
	}
	if ack.acks != 1 || ack.nacks != 0 {
		t.Errorf("acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}

func TestHandle_NacksOnHandlerError(t *testing.T) {
	c := newTestConsumer(func(context.Context, *Message) error {
		return errors.New("boom")
	})
	ack := &fakeAcknowledger{}

	if err := c.handle(context.Background(), delivery(t, ack), false); err == nil {
		t.Fatal("expected handler error")
	}
	if ack.acks != 0 || ack.nacks != 1 {
		t.Errorf("acks=%d nacks=%d", ack.acks, ack.nacks)
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	called := false
	c := newTestConsumer(func(context.Context, *Message) error {
		called = true
		return nil
	})
	ack := &fakeAcknowledger{}

	err := c.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")}, false)
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
	if called {
		t.Error("handler must not run for malformed body")
	}
	if ack.nacks != 1 {
		t.Errorf("nacks = %d, want 1", ack.nacks)
	}
}

func TestHandle_AutoAckSkipsAcknowledger(t *testing.T) {
	c := newTestConsumer(func(context.Context, *Message) error { return nil })
	ack := &fakeAcknowledger{}

	if err := c.handle(context.Background(), delivery(t, ack), true); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if ack.acks+ack.nacks+ack.rejects != 0 {
		t.Errorf("acknowledger called in auto-ack mode: %+v", ack)
	}
}
