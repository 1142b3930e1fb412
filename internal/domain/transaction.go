package domain

type TxDirection string

const (
	TxIncoming TxDirection = "incoming"
	TxOutgoing TxDirection = "outgoing"
)

// HistoryTransaction is one row returned by the transaction history endpoint.
type HistoryTransaction struct {
	ID        string      `json:"id"`
	Hash      string      `json:"hash"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Value     string      `json:"value"`
	Timestamp int64       `json:"timestamp"` // milliseconds
	Type      TxDirection `json:"type"`
	Amount    string      `json:"amount"`
	Date      string      `json:"date"`
	Icon      string      `json:"icon"` // star, plus, arrow-right
}

// History is the result of a history lookup. Fallback marks the illustrative
// dataset served when the endpoint could not be reached; it is not real data.
type History struct {
	Transactions []HistoryTransaction
	Fallback     bool
	Error        string
}
