package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/corepay/transfer-service/internal/domain"
)

const transferHandlingTimeout = 30 * time.Second

// transferProcessor is the slice of Service the consumer needs; it keeps the
// consumer testable without a live repository.
type transferProcessor interface {
	ProcessTransfer(ctx context.Context, req domain.TransferRequest) (bool, error)
}

// TransferEventConsumer decodes inbound transfer events and routes them to
// the processor. Its HandleMessage return value drives queue acknowledgement:
// true removes the message (processed or cleanly rejected), false requeues it
// (infrastructure fault, worth retrying).
type TransferEventConsumer struct {
	processor transferProcessor
}

func NewTransferEventConsumer(processor transferProcessor) *TransferEventConsumer {
	return &TransferEventConsumer{processor: processor}
}

func (c *TransferEventConsumer) HandleMessage(body []byte) bool {
	var req domain.TransferRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// A malformed payload cannot succeed on redelivery; drop it.
		log.Printf("level=warn component=transfer_consumer msg=\"failed to unmarshal payload; dropping\" err=%v", err)
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), transferHandlingTimeout)
	defer cancel()

	processed, err := c.processor.ProcessTransfer(ctx, req)
	if err != nil {
		log.Printf("level=error component=transfer_consumer msg=\"processing failed; re-queuing\" sender_id=%d recipient_id=%d amount=%d err=%v",
			req.SenderID, req.RecipientID, req.Amount, err)
		return false
	}

	if processed {
		log.Printf("level=info component=transfer_consumer outcome=processed sender_id=%d recipient_id=%d amount=%d",
			req.SenderID, req.RecipientID, req.Amount)
	} else {
		log.Printf("level=info component=transfer_consumer outcome=rejected sender_id=%d recipient_id=%d amount=%d",
			req.SenderID, req.RecipientID, req.Amount)
	}
	return true
}
