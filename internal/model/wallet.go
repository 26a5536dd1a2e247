package model

// WalletFile is the plain wallet credential file ({"priv", "addr", "rpc"}).
type WalletFile struct {
	Priv string `json:"priv"` // base64 ed25519 seed
	Addr string `json:"addr"`
	RPC  string `json:"rpc,omitempty"`
}

// EncryptedWalletFile represents the .owt file structure
type EncryptedWalletFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	RPC        string `json:"rpc,omitempty"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted wallet data
type WalletData struct {
	PrivateKey []byte `json:"privateKey"` // 32 bytes ed25519 seed (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}
