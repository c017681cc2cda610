/**
 * @description
 * This file defines the core domain models for the transfer-service.
 * These structs represent the entities and data transfer objects used by the
 * event consumer, the business logic, the database layer, and the API layer.
 *
 * @notes
 * - Amounts are stored as `int64` to represent the value in the smallest
 *   currency unit, which avoids floating-point inaccuracies with money.
 * - The JSON field names of TransferRequest (`senderId`, `recipientId`,
 *   `amount`) are a stable wire contract shared with the queue publisher and
 *   the incentive service; do not rename them.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a participant's balance-holding account.
// This struct maps directly to the `accounts` table in the database.
type Account struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"` // in minor units
}

// TransferRequest is the decoded payload of an inbound transfer event.
// It is ephemeral: constructed from the message body and never persisted as-is.
type TransferRequest struct {
	SenderID    int64 `json:"senderId"`
	RecipientID int64 `json:"recipientId"`
	Amount      int64 `json:"amount"` // in minor units
}

// RewardQuote is the reward amount granted for a transfer by the incentive
// service. A zero amount is a valid quote, used both for "no reward" and for
// any failed lookup.
type RewardQuote struct {
	Amount int64 `json:"amount"` // in minor units
}

// TransferRecord is the immutable ledger entry written for every committed
// transfer. ID and Timestamp are assigned by the database on append.
type TransferRecord struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Amount      int64     `json:"amount"`
	Reward      *int64    `json:"reward,omitempty"` // nil when no reward was recorded
	Timestamp   time.Time `json:"timestamp"`
}

// TransferProcessedEvent is the message payload published after a transfer
// has been committed, for downstream audit and notification consumers.
type TransferProcessedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	RecordID    int64     `json:"record_id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Amount      int64     `json:"amount"`
	Reward      int64     `json:"reward"`
	Timestamp   time.Time `json:"timestamp"`
}
