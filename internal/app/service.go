/**
 * @description
 * This file contains the core business logic for the transfer-service. The
 * `Service` struct orchestrates transfer processing: it validates the
 * participants and funds, obtains a reward quote from the incentive service,
 * commits the balance mutation together with the ledger append as one
 * database transaction, and publishes an outcome event for downstream
 * consumers.
 *
 * Key behavior:
 * - Rejections (unknown participant, insufficient funds, non-positive amount)
 *   return (false, nil) with no state change anywhere.
 * - Infrastructure faults return a non-nil error so the event intake retries
 *   instead of treating the transfer as declined.
 * - The incentive call happens before the database transaction opens; a slow
 *   or failed reward lookup never holds row locks and never fails a transfer.
 *
 * @dependencies
 * - context, errors, fmt, log: Standard Go libraries.
 * - github.com/google/uuid: For outcome event identifiers.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For publishing outcome events.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/corepay/transfer-service/internal/domain"
	"github.com/corepay/transfer-service/internal/store"
	"github.com/corepay/transfer-service/pkg/rabbitmq"
)

// RewardQuoter obtains the reward amount for a transfer. Implementations must
// absorb every failure of the underlying service and return zero instead.
type RewardQuoter interface {
	Quote(ctx context.Context, senderID, recipientID, amount int64) int64
}

// Service provides the core business logic for processing transfers.
type Service struct {
	repo            store.Repository
	rewards         RewardQuoter
	eventProducer   rabbitmq.Publisher
	eventExchange   string
	eventRoutingKey string
}

// NewService creates a new transfer service instance. The producer may be nil
// when no broker is configured; outcome events are then skipped.
func NewService(repo store.Repository, rewards RewardQuoter, producer rabbitmq.Publisher, eventExchange, eventRoutingKey string) *Service {
	return &Service{
		repo:            repo,
		rewards:         rewards,
		eventProducer:   producer,
		eventExchange:   eventExchange,
		eventRoutingKey: eventRoutingKey,
	}
}

// ProcessTransfer handles one transfer request end to end.
//
// The returned bool reports acceptance: true means both balances moved and a
// ledger record exists; false with a nil error means the transfer was
// rejected and no state changed. A non-nil error means the atomic commit
// could not complete — the database is untouched, and the caller must retry
// the event rather than acknowledge it.
func (s *Service) ProcessTransfer(ctx context.Context, req domain.TransferRequest) (bool, error) {
	if req.Amount <= 0 {
		log.Printf("level=warn component=service outcome=reject reason=non_positive_amount sender_id=%d recipient_id=%d amount=%d",
			req.SenderID, req.RecipientID, req.Amount)
		return false, nil
	}

	sender, err := s.repo.FindAccountByID(ctx, req.SenderID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Printf("level=info component=service outcome=reject reason=sender_not_found sender_id=%d", req.SenderID)
			return false, nil
		}
		return false, fmt.Errorf("failed to load sender: %w", err)
	}

	if _, err := s.repo.FindAccountByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Printf("level=info component=service outcome=reject reason=recipient_not_found recipient_id=%d", req.RecipientID)
			return false, nil
		}
		return false, fmt.Errorf("failed to load recipient: %w", err)
	}

	// Early sufficiency check so a doomed transfer never hits the incentive
	// service. The commit below re-checks under row locks.
	if sender.Balance < req.Amount {
		log.Printf("level=info component=service outcome=reject reason=insufficient_funds sender_id=%d balance=%d amount=%d",
			sender.ID, sender.Balance, req.Amount)
		return false, nil
	}

	reward := s.rewards.Quote(ctx, req.SenderID, req.RecipientID, req.Amount)

	record, err := s.repo.CommitTransfer(ctx, req.SenderID, req.RecipientID, req.Amount, reward)
	if err != nil {
		// A concurrent transfer may have drained the sender or removed an
		// account between the checks above and the locked re-check.
		if errors.Is(err, store.ErrInsufficientFunds) || errors.Is(err, store.ErrAccountNotFound) {
			log.Printf("level=info component=service outcome=reject reason=commit_recheck sender_id=%d recipient_id=%d amount=%d err=%v",
				req.SenderID, req.RecipientID, req.Amount, err)
			return false, nil
		}
		return false, fmt.Errorf("failed to commit transfer: %w", err)
	}

	log.Printf("level=info component=service outcome=accept record_id=%d sender_id=%d recipient_id=%d amount=%d reward=%d",
		record.ID, record.SenderID, record.RecipientID, record.Amount, reward)

	s.publishProcessedEvent(ctx, record, reward)
	return true, nil
}

// GetBalance returns the current balance for an account. Unknown accounts
// report a zero balance rather than an error; downstream callers depend on
// this default.
func (s *Service) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	return account.Balance, nil
}

// publishProcessedEvent emits a best-effort outcome event. The transfer is
// already committed; a publish failure is logged and otherwise ignored.
func (s *Service) publishProcessedEvent(ctx context.Context, record *domain.TransferRecord, reward int64) {
	if s.eventProducer == nil {
		return
	}

	event := domain.TransferProcessedEvent{
		EventID:     uuid.New(),
		RecordID:    record.ID,
		SenderID:    record.SenderID,
		RecipientID: record.RecipientID,
		Amount:      record.Amount,
		Reward:      reward,
		Timestamp:   record.Timestamp,
	}

	if err := s.eventProducer.Publish(ctx, s.eventExchange, s.eventRoutingKey, event); err != nil {
		log.Printf("level=warn component=service msg=\"outcome event publish failed\" record_id=%d err=%v", record.ID, err)
	}
}
