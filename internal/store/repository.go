/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract
 * for all data access operations required by the transfer-service. By defining
 * an interface, we decouple the business logic from the specific database
 * implementation (PostgreSQL), making the code more modular and easier to test.
 *
 * @dependencies
 * - context: Standard Go library.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"

	"github.com/corepay/transfer-service/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Account methods
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	// Secondary convenience lookup; backed by an index on lower(name).
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// CommitTransfer applies a validated transfer as a single database
	// transaction: it re-checks sender funds under row locks, debits the
	// sender by amount, credits the recipient by amount+reward, and appends
	// the ledger record. Either every write commits or none does.
	//
	// Returns ErrAccountNotFound or ErrInsufficientFunds when the transfer
	// must be rejected; any other error is an infrastructure fault and the
	// database is left unchanged.
	CommitTransfer(ctx context.Context, senderID, recipientID, amount, reward int64) (*domain.TransferRecord, error)
}
