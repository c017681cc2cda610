/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains the SQL for account lookups and for the atomic
 * transfer commit that moves money between two accounts and appends the
 * ledger record in one database transaction.
 *
 * @dependencies
 * - context, errors, fmt: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corepay/transfer-service/internal/domain"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindAccountByID retrieves an account by its primary key.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, name, balance FROM accounts WHERE id = $1`
	err := r.db.QueryRow(ctx, query, accountID).Scan(&account.ID, &account.Name, &account.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAccountByName retrieves an account by display name. The lookup relies on
// an index over lower(btrim(name)); names are treated as case-insensitive.
func (r *PostgresRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, name, balance FROM accounts WHERE lower(btrim(name)) = lower(btrim($1))`
	err := r.db.QueryRow(ctx, query, name).Scan(&account.ID, &account.Name, &account.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount inserts a new account row and returns it with the assigned id.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `INSERT INTO accounts (name, balance) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRow(ctx, query, account.Name, account.Balance).Scan(&account.ID); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// CommitTransfer moves amount from sender to recipient (plus reward) and
// appends the transfer record, all inside one database transaction.
//
// Both account rows are locked FOR UPDATE in ascending id order so that two
// transfers touching the same accounts cannot deadlock, and the funds check
// always runs against the balance visible at mutation time.
func (r *PostgresRepository) CommitTransfer(ctx context.Context, senderID, recipientID, amount, reward int64) (*domain.TransferRecord, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockOrder := []int64{senderID, recipientID}
	if recipientID < senderID {
		lockOrder[0], lockOrder[1] = recipientID, senderID
	}
	if senderID == recipientID {
		lockOrder = lockOrder[:1]
	}

	balances := make(map[int64]int64, 2)
	for _, id := range lockOrder {
		var balance int64
		err = tx.QueryRow(ctx, "SELECT balance FROM accounts WHERE id = $1 FOR UPDATE", id).Scan(&balance)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrAccountNotFound
			}
			return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
		}
		balances[id] = balance
	}

	if balances[senderID] < amount {
		return nil, ErrInsufficientFunds
	}

	if _, err = tx.Exec(ctx, "UPDATE accounts SET balance = balance - $1 WHERE id = $2", amount, senderID); err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	if _, err = tx.Exec(ctx, "UPDATE accounts SET balance = balance + $1 WHERE id = $2", amount+reward, recipientID); err != nil {
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	record := &domain.TransferRecord{
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      amount,
		Reward:      &reward,
	}
	insertQuery := `
		INSERT INTO transfer_records (sender_id, recipient_id, amount, reward, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, insertQuery, senderID, recipientID, amount, reward).Scan(&record.ID, &record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to append transfer record: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return record, nil
}
