package octra

import (
	"context"

	"github.com/hiepntnaa/octra-pre-client/internal/model"
)

// GetBalance gets the session account's balance and nonces
func GetBalance(ctx context.Context, session *Session) (*model.BalanceResponse, error) {
	state, err := session.Resolver().Resolve(ctx, session.Address())
	if err != nil {
		return nil, err
	}

	return &model.BalanceResponse{
		Address:        session.Address(),
		Balance:        state.BalanceOCT(),
		Nonce:          state.ConfirmedNonce,
		EffectiveNonce: state.EffectiveNonce,
	}, nil
}
