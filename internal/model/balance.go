package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address        string `json:"address"`
	Balance        string `json:"balance"`
	Nonce          uint64 `json:"nonce"`
	EffectiveNonce uint64 `json:"effective_nonce"`
}
