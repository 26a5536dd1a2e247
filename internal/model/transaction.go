package model

// Transaction is the /send-tx envelope. Field order matches the node's
// expectations; the signed subset is everything up to and including Timestamp.
type Transaction struct {
	From      string  `json:"from"`
	To        string  `json:"to_"`
	Amount    string  `json:"amount"` // micro units
	Nonce     uint64  `json:"nonce"`
	OU        string  `json:"ou"`
	Timestamp float64 `json:"timestamp"`
	Message   string  `json:"message,omitempty"`
	Signature string  `json:"signature"`
	PublicKey string  `json:"public_key"`
}

// StagedTransaction is a /staging entry. Only the fields used for nonce
// reconciliation are decoded.
type StagedTransaction struct {
	From  string `json:"from"`
	Nonce uint64 `json:"nonce"`
}

// PendingTransfer is an inbound private transfer awaiting claim.
type PendingTransfer struct {
	ID     string `json:"id"`
	Sender string `json:"sender,omitempty"`
	Epoch  uint64 `json:"epoch_id,omitempty"`
}
