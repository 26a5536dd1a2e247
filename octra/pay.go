package octra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/sirupsen/logrus"
)

// Payer sends plain transfers from the session account, enforcing an optional
// cooldown between successful sends.
type Payer struct {
	session  *Session
	cooldown time.Duration

	mu          sync.Mutex
	lastPayTime time.Time
}

func NewPayer(session *Session, cooldown time.Duration) *Payer {
	return &Payer{session: session, cooldown: cooldown}
}

// Send validates the request, resolves the next nonce, signs and submits.
// amount is a decimal OCT string. Validation happens before any network I/O.
func (p *Payer) Send(ctx context.Context, toAddress, amount, message string) (*model.PayResponse, error) {
	if err := crypto.ValidateAddress(toAddress); err != nil {
		return nil, err
	}

	micro, err := common.OCTToMicro(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if micro == 0 {
		return nil, ErrNonPositiveAmount
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cooldown > 0 && !p.lastPayTime.IsZero() {
		since := p.session.Clock.Now().Sub(p.lastPayTime)
		if since < p.cooldown {
			remaining := p.cooldown - since
			return nil, fmt.Errorf("%w, please wait %v", ErrCooldown, remaining.Round(time.Second))
		}
	}

	state, err := p.session.Resolver().Resolve(ctx, p.session.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to get balance and nonce: %w", err)
	}

	if state.ConfirmedBalance < micro {
		return nil, fmt.Errorf("%w (%s < %s)", ErrInsufficientBalance, state.BalanceOCT(), common.MicroToOCT(micro))
	}

	built, err := p.session.Builder().Build(toAddress, micro, state.NextNonce(), message)
	if err != nil {
		return nil, err
	}

	p.session.Logger.WithFields(logrus.Fields{
		"to":     toAddress,
		"amount": common.MicroToOCT(micro),
		"fee":    common.MicroToOCT(built.FeeTier.Fee()),
		"nonce":  built.Tx.Nonce,
	}).Info("sending transaction")

	result := p.session.Submitter().Submit(ctx, built.Tx)
	if !result.Accepted {
		if result.Status == 0 {
			return nil, &TransportError{Op: "send-tx", Message: result.Hash}
		}
		return nil, &RejectionError{Status: result.Status, Payload: result.Hash}
	}

	p.lastPayTime = p.session.Clock.Now()

	return &model.PayResponse{
		TxHash:      result.Hash,
		ContentHash: built.ContentHash,
		Nonce:       built.Tx.Nonce,
		Fee:         common.MicroToOCT(built.FeeTier.Fee()),
		ElapsedSec:  result.Elapsed.Seconds(),
		PoolSize:    result.PoolSize,
	}, nil
}
