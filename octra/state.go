package octra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hiepntnaa/octra-pre-client/internal/client"
	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/sirupsen/logrus"
)

// AccountState is the account's view for one resolve call. It is never cached.
type AccountState struct {
	ConfirmedNonce   uint64
	ConfirmedBalance uint64 // micro
	EffectiveNonce   uint64 // max(confirmed, highest staged nonce from this account)
}

// NextNonce is the nonce the next transaction must carry.
func (s AccountState) NextNonce() uint64 {
	return s.EffectiveNonce + 1
}

// BalanceOCT renders the confirmed balance as a decimal string.
func (s AccountState) BalanceOCT() string {
	return common.MicroToOCT(s.ConfirmedBalance)
}

// StateResolver combines the confirmed balance/nonce with the staging pool.
type StateResolver struct {
	node   *client.NodeClient
	logger logrus.FieldLogger
}

func NewStateResolver(node *client.NodeClient, logger logrus.FieldLogger) *StateResolver {
	return &StateResolver{node: node, logger: logger}
}

// Resolve fetches the account state of address. An unknown account (404) is a
// fresh zero state, not an error.
func (r *StateResolver) Resolve(ctx context.Context, address string) (*AccountState, error) {
	state, err := r.confirmed(ctx, address)
	if err != nil {
		return nil, err
	}

	staged, err := r.highestStagedNonce(ctx, address)
	if err != nil {
		r.logger.WithError(err).Warn("staging lookup failed, using confirmed nonce")
	} else if staged > state.EffectiveNonce {
		state.EffectiveNonce = staged
	}

	r.logger.WithFields(logrus.Fields{
		"balance":         state.BalanceOCT(),
		"nonce":           state.ConfirmedNonce,
		"effective_nonce": state.EffectiveNonce,
	}).Debug("account state resolved")

	return state, nil
}

func (r *StateResolver) confirmed(ctx context.Context, address string) (*AccountState, error) {
	resp := r.node.Balance(ctx, address)

	switch {
	case resp.IsTransportFailure():
		return nil, &TransportError{Op: "balance", Message: resp.Raw}
	case resp.Status == http.StatusNotFound:
		return &AccountState{}, nil
	case !resp.OK():
		return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw}
	case resp.Kind == client.KindStructured:
		return parseStructuredBalance(resp)
	default:
		return parsePlainBalance(resp)
	}
}

func parseStructuredBalance(resp *client.Response) (*AccountState, error) {
	_, hasNonce := resp.JSON["nonce"]
	_, hasBalance := resp.JSON["balance"]
	if !hasNonce && !hasBalance {
		return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw, Err: ErrIndeterminateState}
	}

	var state AccountState

	if v, ok := resp.JSON["nonce"]; ok {
		nonce, err := common.JSONUint(v)
		if err != nil {
			return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw, Err: fmt.Errorf("nonce: %w", err)}
		}
		state.ConfirmedNonce = nonce
	}
	if v, ok := resp.JSON["balance"]; ok {
		balance, err := common.JSONAmountToMicro(v)
		if err != nil {
			return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw, Err: fmt.Errorf("balance: %w", err)}
		}
		state.ConfirmedBalance = balance
	}

	state.EffectiveNonce = state.ConfirmedNonce
	return &state, nil
}

// parsePlainBalance reads the legacy "<balance> <nonce>" text body.
// The token order is kept from older nodes and has not been verified against
// the current protocol.
func parsePlainBalance(resp *client.Response) (*AccountState, error) {
	fields := strings.Fields(resp.Raw)
	if len(fields) < 2 {
		return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw, Err: ErrIndeterminateState}
	}

	balance, err := common.OCTToMicro(fields[0])
	if err != nil {
		return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw, Err: ErrIndeterminateState}
	}
	nonce, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, &ProtocolError{Op: "balance", Status: resp.Status, Body: resp.Raw, Err: ErrIndeterminateState}
	}

	return &AccountState{ConfirmedNonce: nonce, ConfirmedBalance: balance, EffectiveNonce: nonce}, nil
}

// highestStagedNonce returns the largest nonce among staged transactions sent
// by address, or 0 when there are none.
func (r *StateResolver) highestStagedNonce(ctx context.Context, address string) (uint64, error) {
	resp := r.node.Staging(ctx)
	if resp.IsTransportFailure() {
		return 0, &TransportError{Op: "staging", Message: resp.Raw}
	}
	if !resp.OK() || resp.Kind != client.KindStructured {
		return 0, &ProtocolError{Op: "staging", Status: resp.Status, Body: resp.Raw}
	}

	entries, ok := resp.JSON["staged_transactions"].([]any)
	if !ok {
		if _, present := resp.JSON["staged_transactions"]; present {
			return 0, &ProtocolError{Op: "staging", Status: resp.Status, Err: errors.New("staged_transactions is not a list")}
		}
		return 0, nil
	}

	var highest uint64
	for _, entry := range entries {
		staged, ok := toStaged(entry)
		if !ok || staged.From != address {
			continue
		}
		highest = max(highest, staged.Nonce)
	}
	return highest, nil
}

// toStaged reads the fields of a staging entry needed for nonce reconciliation.
// Entries without a readable nonce are ignored.
func toStaged(entry any) (model.StagedTransaction, bool) {
	tx, ok := entry.(map[string]any)
	if !ok {
		return model.StagedTransaction{}, false
	}
	from, _ := tx["from"].(string)
	nonce, err := common.JSONUint(tx["nonce"])
	if err != nil {
		return model.StagedTransaction{}, false
	}
	return model.StagedTransaction{From: from, Nonce: nonce}, true
}
