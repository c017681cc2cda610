package app

import (
	"context"
	"errors"
	"testing"

	"github.com/corepay/transfer-service/internal/domain"
)

type processorStub struct {
	processed bool
	err       error

	calls   int
	lastReq domain.TransferRequest
}

func (p *processorStub) ProcessTransfer(ctx context.Context, req domain.TransferRequest) (bool, error) {
	p.calls++
	p.lastReq = req
	return p.processed, p.err
}

func TestHandleMessage_AcksProcessedTransfer(t *testing.T) {
	processor := &processorStub{processed: true}
	consumer := NewTransferEventConsumer(processor)

	body := []byte(`{"senderId": 1, "recipientId": 2, "amount": 30}`)
	if !consumer.HandleMessage(body) {
		t.Fatal("expected processed transfer to be acknowledged")
	}
	if processor.calls != 1 {
		t.Fatalf("expected one processor call, got %d", processor.calls)
	}
	want := domain.TransferRequest{SenderID: 1, RecipientID: 2, Amount: 30}
	if processor.lastReq != want {
		t.Fatalf("expected decoded request %+v, got %+v", want, processor.lastReq)
	}
}

func TestHandleMessage_AcksRejectedTransfer(t *testing.T) {
	processor := &processorStub{processed: false}
	consumer := NewTransferEventConsumer(processor)

	body := []byte(`{"senderId": 1, "recipientId": 2, "amount": 30}`)
	if !consumer.HandleMessage(body) {
		t.Fatal("expected rejected transfer to be acknowledged; a rejection is final")
	}
}

func TestHandleMessage_RequeuesOnProcessingFault(t *testing.T) {
	processor := &processorStub{err: errors.New("database unavailable")}
	consumer := NewTransferEventConsumer(processor)

	body := []byte(`{"senderId": 1, "recipientId": 2, "amount": 30}`)
	if consumer.HandleMessage(body) {
		t.Fatal("expected infrastructure fault to requeue the message")
	}
}

func TestHandleMessage_DropsMalformedPayload(t *testing.T) {
	processor := &processorStub{}
	consumer := NewTransferEventConsumer(processor)

	if !consumer.HandleMessage([]byte(`{"senderId": `)) {
		t.Fatal("expected malformed payload to be acknowledged and dropped")
	}
	if processor.calls != 0 {
		t.Fatal("did not expect the processor to run for a malformed payload")
	}
}
