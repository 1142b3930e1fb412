package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/influnest/internal/domain"
)

const historyErrorMessage = "Failed to load transactions"

// TransactionHistoryService reads wallet transaction history from the
// history API.
type TransactionHistoryService struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewTransactionHistoryService(baseURL string, timeout time.Duration) *TransactionHistoryService {
	return &TransactionHistoryService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// History returns the transactions of address. When the endpoint fails the
// result is the illustrative sample set with Fallback set; callers must label
// it as sample data.
func (s *TransactionHistoryService) History(ctx context.Context, address string) domain.History {
	txs, err := s.fetch(ctx, address)
	if err != nil {
		slog.Warn("fetch transactions, serving sample data", "address", address, "error", err)
		return domain.History{
			Transactions: s.sampleTransactions(address),
			Fallback:     true,
			Error:        historyErrorMessage,
		}
	}
	return domain.History{Transactions: txs}
}

func (s *TransactionHistoryService) fetch(ctx context.Context, address string) ([]domain.HistoryTransaction, error) {
	params := url.Values{}
	params.Set("address", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/transactions?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var result struct {
		Transactions []domain.HistoryTransaction `json:"transactions"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if result.Transactions == nil {
		result.Transactions = []domain.HistoryTransaction{}
	}
	return result.Transactions, nil
}

// sampleTransactions is the fixed fallback dataset: one incoming and one
// outgoing transfer, one and two days old.
func (s *TransactionHistoryService) sampleTransactions(address string) []domain.HistoryTransaction {
	now := s.now()
	dayAgo := now.Add(-24 * time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)

	return []domain.HistoryTransaction{
		{
			ID:        uuid.NewString(),
			Hash:      "0x123...abc",
			From:      "0x1234...5678",
			To:        address,
			Value:     "0.1",
			Timestamp: dayAgo.UnixMilli(),
			Type:      domain.TxIncoming,
			Amount:    "+0.1",
			Date:      dayAgo.UTC().Format(time.DateOnly),
			Icon:      "star",
		},
		{
			ID:        uuid.NewString(),
			Hash:      "0x456...def",
			From:      address,
			To:        "0x8765...4321",
			Value:     "0.05",
			Timestamp: twoDaysAgo.UnixMilli(),
			Type:      domain.TxOutgoing,
			Amount:    "-0.05",
			Date:      twoDaysAgo.UTC().Format(time.DateOnly),
			Icon:      "plus",
		},
	}
}
