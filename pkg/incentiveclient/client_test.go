package incentiveclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestQuote_ReturnsRewardAmount(t *testing.T) {
	var gotBody quoteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/incentive" {
			t.Errorf("expected path /incentive, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]int64{"amount": 5})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	reward := client.Quote(context.Background(), 1, 2, 30)
	if reward != 5 {
		t.Fatalf("expected reward 5, got %d", reward)
	}

	want := quoteRequest{SenderID: 1, RecipientID: 2, Amount: 30}
	if gotBody != want {
		t.Fatalf("expected request body %+v, got %+v", want, gotBody)
	}
}

func TestQuote_DegradesToZero(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"amount": `))
			},
		},
		{
			name: "negative reward",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]int64{"amount": -10})
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			if reward := client.Quote(context.Background(), 1, 2, 30); reward != 0 {
				t.Fatalf("expected zero reward, got %d", reward)
			}
		})
	}
}

func TestQuote_TimeoutDegradesToZero(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond)

	start := time.Now()
	reward := client.Quote(context.Background(), 1, 2, 30)
	elapsed := time.Since(start)

	if reward != 0 {
		t.Fatalf("expected zero reward on timeout, got %d", reward)
	}
	if elapsed > time.Second {
		t.Fatalf("expected call to be bounded by the timeout, took %s", elapsed)
	}
}

func TestQuote_EmptyBaseURLDegradesToZero(t *testing.T) {
	client := NewClient("", time.Second)
	if reward := client.Quote(context.Background(), 1, 2, 30); reward != 0 {
		t.Fatalf("expected zero reward without a configured url, got %d", reward)
	}
}
