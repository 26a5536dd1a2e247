package model

// PayRequest represents request for POST /wallet/send
type PayRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Message   string `json:"message,omitempty"`
}

// PayResponse represents response for POST /wallet/send
type PayResponse struct {
	TxHash      string  `json:"txHash"`
	ContentHash string  `json:"contentHash"`
	Nonce       uint64  `json:"nonce"`
	Fee         string  `json:"fee"`
	ElapsedSec  float64 `json:"elapsedSec"`
	PoolSize    *int    `json:"poolSize,omitempty"`
}
