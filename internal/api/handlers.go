/**
 * @description
 * This file contains the HTTP handlers for the transfer-service's API
 * endpoints. Handlers parse incoming requests, call the application service,
 * and write the HTTP response. The only business endpoint is the balance
 * read; a missing account deliberately reports a zero balance instead of an
 * error, which existing callers depend on.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app: For service logic.
 */

package api

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/corepay/transfer-service/internal/app"
)

// RateLimiter counts request hits per subject within a window. A nil limiter
// disables limiting.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// BalanceHandlers holds the application service that handlers will use.
type BalanceHandlers struct {
	service            *app.Service
	limiter            RateLimiter
	readLimitPerMinute int
}

// NewBalanceHandlers creates a new instance of BalanceHandlers.
func NewBalanceHandlers(service *app.Service) *BalanceHandlers {
	return &BalanceHandlers{service: service}
}

// SetRateLimiter enables per-client rate limiting on the balance endpoint.
func (h *BalanceHandlers) SetRateLimiter(limiter RateLimiter, limitPerMinute int) {
	h.limiter = limiter
	h.readLimitPerMinute = limitPerMinute
}

// balanceResponse is the stable response shape of the balance endpoint.
type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// GetBalanceHandler handles GET /balance?accountId=<id>.
func (h *BalanceHandlers) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	if !h.allowRequest(w, r, "balance_read") {
		return
	}

	rawID := strings.TrimSpace(r.URL.Query().Get("accountId"))
	if rawID == "" {
		h.writeError(w, http.StatusBadRequest, "accountId query parameter is required")
		return
	}

	accountID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "accountId must be an integer")
		return
	}

	balance, err := h.service.GetBalance(r.Context(), accountID)
	if err != nil {
		log.Printf("level=error component=api endpoint=balance msg=\"balance lookup failed\" account_id=%d err=%v", accountID, err)
		h.writeError(w, http.StatusInternalServerError, "Unable to read balance")
		return
	}

	h.writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

// allowRequest applies the optional per-client rate limit. Limiter failures
// fail open: a broken Redis must not take the read path down.
func (h *BalanceHandlers) allowRequest(w http.ResponseWriter, r *http.Request, scope string) bool {
	if h.limiter == nil || h.readLimitPerMinute <= 0 {
		return true
	}

	count, retryAfter, err := h.limiter.ConsumeRateLimit(r.Context(), scope, clientIP(r), h.readLimitPerMinute, time.Minute)
	if err != nil {
		log.Printf("level=warn component=api msg=\"rate limiter unavailable; allowing request\" scope=%s err=%v", scope, err)
		return true
	}
	if count > h.readLimitPerMinute {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.writeError(w, http.StatusTooManyRequests, "Too many requests")
		return false
	}
	return true
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeJSON is a helper for writing JSON responses.
func (h *BalanceHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *BalanceHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
