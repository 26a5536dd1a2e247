package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/model"
	"github.com/hiepntnaa/octra-pre-client/octra"

	"github.com/sirupsen/logrus"
)

// Sender is the send use case behind POST /wallet/send.
type Sender interface {
	Send(ctx context.Context, toAddress, amount, message string) (*model.PayResponse, error)
}

// BalanceFunc resolves the wallet balance behind GET /wallet/balance.
type BalanceFunc func(ctx context.Context) (*model.BalanceResponse, error)

// WalletHandler serves the local wallet API for one loaded account
type WalletHandler struct {
	sender  Sender
	balance BalanceFunc
	logger  logrus.FieldLogger
}

func NewWalletHandler(sender Sender, balance BalanceFunc, logger logrus.FieldLogger) *WalletHandler {
	return &WalletHandler{sender: sender, balance: balance, logger: logger}
}

// NewSessionHandler wires the handler to a session, with cooldown between sends.
func NewSessionHandler(session *octra.Session, payer *octra.Payer) *WalletHandler {
	balance := func(ctx context.Context) (*model.BalanceResponse, error) {
		return octra.GetBalance(ctx, session)
	}
	return NewWalletHandler(payer, balance, session.Logger.WithField("component", "api"))
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets the confirmed balance, confirmed nonce and effective nonce (including staged transactions)
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := h.balance(r.Context())
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// Send handles POST /wallet/send
// @Summary      Send OCT
// @Description  Signs and submits a transfer to the specified address
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	payResp, err := h.sender.Send(r.Context(), req.ToAddress, req.Amount, req.Message)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, payResp)
}

// Validate handles GET /wallet/validate?address=
// @Summary      Validate address
// @Tags         wallet
// @Produce      json
// @Param        address  query     string  true  "Address to check"
// @Success      200      {object}  map[string]bool
// @Router       /wallet/validate [get]
func (h *WalletHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": crypto.IsValidAddress(r.URL.Query().Get("address"))})
}

// statusFor maps use-case errors onto HTTP statuses.
func statusFor(err error) int {
	var (
		transportErr *octra.TransportError
		protocolErr  *octra.ProtocolError
		rejectionErr *octra.RejectionError
	)
	switch {
	case errors.Is(err, crypto.ErrInvalidAddress),
		errors.Is(err, octra.ErrInvalidAmount),
		errors.Is(err, octra.ErrNonPositiveAmount),
		errors.Is(err, octra.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, octra.ErrCooldown):
		return http.StatusTooManyRequests
	case errors.As(err, &rejectionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transportErr), errors.As(err, &protocolErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *WalletHandler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed")
	} else {
		h.logger.WithError(err).Debug("request rejected")
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
