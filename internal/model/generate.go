package model

// GenerateResponse represents the result of wallet generation
type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
	QRPath  string `json:"qrPath,omitempty"`
}
