package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/set-night/influnest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyAddress = "0x2222222222222222222222222222222222222222"

func TestHistoryFromEndpoint(t *testing.T) {
	var gotPath, gotAddress string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAddress = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions":[{"id":"t1","hash":"0xfeed","from":"0x1","to":"0x2","value":"0.3","timestamp":1700000000000,"type":"outgoing","amount":"-0.3","date":"2023-11-14","icon":"arrow-right"}]}`))
	}))
	defer server.Close()

	svc := NewTransactionHistoryService(server.URL, time.Second)
	h := svc.History(context.Background(), historyAddress)

	assert.Equal(t, "/api/transactions", gotPath)
	assert.Equal(t, historyAddress, gotAddress)
	assert.False(t, h.Fallback)
	assert.Empty(t, h.Error)
	require.Len(t, h.Transactions, 1)
	assert.Equal(t, domain.HistoryTransaction{
		ID:        "t1",
		Hash:      "0xfeed",
		From:      "0x1",
		To:        "0x2",
		Value:     "0.3",
		Timestamp: 1_700_000_000_000,
		Type:      domain.TxOutgoing,
		Amount:    "-0.3",
		Date:      "2023-11-14",
		Icon:      "arrow-right",
	}, h.Transactions[0])
}

func TestHistoryEmptyIsNotFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transactions":[]}`))
	}))
	defer server.Close()

	h := NewTransactionHistoryService(server.URL, time.Second).History(context.Background(), historyAddress)

	assert.False(t, h.Fallback)
	assert.NotNil(t, h.Transactions)
	assert.Empty(t, h.Transactions)
}

func TestHistoryFallsBackToSampleData(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"transactions":`))
		}},
	}

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewTransactionHistoryService(server.URL, time.Second)
			svc.now = func() time.Time { return now }

			h := svc.History(context.Background(), historyAddress)

			assert.True(t, h.Fallback)
			assert.Equal(t, "Failed to load transactions", h.Error)
			require.Len(t, h.Transactions, 2)

			in, out := h.Transactions[0], h.Transactions[1]
			assert.Equal(t, "0x123...abc", in.Hash)
			assert.Equal(t, domain.TxIncoming, in.Type)
			assert.Equal(t, "+0.1", in.Amount)
			assert.Equal(t, historyAddress, in.To)
			assert.Equal(t, "2024-03-09", in.Date)
			assert.Equal(t, now.Add(-24*time.Hour).UnixMilli(), in.Timestamp)

			assert.Equal(t, "0x456...def", out.Hash)
			assert.Equal(t, domain.TxOutgoing, out.Type)
			assert.Equal(t, "-0.05", out.Amount)
			assert.Equal(t, historyAddress, out.From)
			assert.Equal(t, "2024-03-08", out.Date)

			assert.NotEqual(t, in.ID, out.ID)
		})
	}
}

func TestHistoryUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	h := NewTransactionHistoryService(url, time.Second).History(context.Background(), historyAddress)

	assert.True(t, h.Fallback)
	assert.Len(t, h.Transactions, 2)
}
