package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corepay/transfer-service/internal/app"
	"github.com/corepay/transfer-service/internal/domain"
	"github.com/corepay/transfer-service/internal/store"
)

type balanceRepoStub struct {
	accounts map[int64]*domain.Account
	findErr  error
}

func (s *balanceRepoStub) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return account, nil
}

func (s *balanceRepoStub) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	return nil, store.ErrAccountNotFound
}

func (s *balanceRepoStub) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return account, nil
}

func (s *balanceRepoStub) CommitTransfer(ctx context.Context, senderID, recipientID, amount, reward int64) (*domain.TransferRecord, error) {
	return nil, errors.New("not implemented")
}

type rateLimiterStub struct {
	count      int
	retryAfter int
	err        error
}

func (s *rateLimiterStub) ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	return s.count, s.retryAfter, s.err
}

func newBalanceHandlers(repo store.Repository) *BalanceHandlers {
	return NewBalanceHandlers(app.NewService(repo, nil, nil, "transfers", "transfer.processed"))
}

func decodeBalance(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	var body balanceResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body.Balance
}

func TestGetBalanceHandler_ReturnsBalance(t *testing.T) {
	repo := &balanceRepoStub{accounts: map[int64]*domain.Account{
		7: {ID: 7, Name: "holder", Balance: 250},
	}}
	h := newBalanceHandlers(repo)

	req := httptest.NewRequest("GET", "/balance?accountId=7", nil)
	rec := httptest.NewRecorder()
	h.GetBalanceHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decodeBalance(t, rec); got != 250 {
		t.Fatalf("expected balance 250, got %d", got)
	}
}

func TestGetBalanceHandler_UnknownAccountReportsZero(t *testing.T) {
	h := newBalanceHandlers(&balanceRepoStub{accounts: map[int64]*domain.Account{}})

	req := httptest.NewRequest("GET", "/balance?accountId=404", nil)
	rec := httptest.NewRecorder()
	h.GetBalanceHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for unknown account, got %d", rec.Code)
	}
	if got := decodeBalance(t, rec); got != 0 {
		t.Fatalf("expected zero balance for unknown account, got %d", got)
	}
}

func TestGetBalanceHandler_RejectsMissingOrInvalidID(t *testing.T) {
	h := newBalanceHandlers(&balanceRepoStub{accounts: map[int64]*domain.Account{}})

	for _, target := range []string{"/balance", "/balance?accountId=abc"} {
		req := httptest.NewRequest("GET", target, nil)
		rec := httptest.NewRecorder()
		h.GetBalanceHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestGetBalanceHandler_StoreFaultIsServerError(t *testing.T) {
	h := newBalanceHandlers(&balanceRepoStub{findErr: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/balance?accountId=7", nil)
	rec := httptest.NewRecorder()
	h.GetBalanceHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestGetBalanceHandler_RateLimited(t *testing.T) {
	h := newBalanceHandlers(&balanceRepoStub{accounts: map[int64]*domain.Account{}})
	h.SetRateLimiter(&rateLimiterStub{count: 121, retryAfter: 30}, 120)

	req := httptest.NewRequest("GET", "/balance?accountId=7", nil)
	rec := httptest.NewRecorder()
	h.GetBalanceHandler(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("expected Retry-After 30, got %q", got)
	}
}

func TestGetBalanceHandler_LimiterFailureFailsOpen(t *testing.T) {
	repo := &balanceRepoStub{accounts: map[int64]*domain.Account{
		7: {ID: 7, Name: "holder", Balance: 250},
	}}
	h := newBalanceHandlers(repo)
	h.SetRateLimiter(&rateLimiterStub{err: errors.New("redis down")}, 120)

	req := httptest.NewRequest("GET", "/balance?accountId=7", nil)
	rec := httptest.NewRecorder()
	h.GetBalanceHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected limiter failure to fail open with 200, got %d", rec.Code)
	}
}
