package cycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/octra"
)

func (c *Cycle) send(ctx context.Context, p *pass) (StepResult, error) {
	result := StepResult{Step: StepSend}

	state, err := c.session.Resolver().Resolve(ctx, c.session.Address())
	if err != nil {
		var transportErr *octra.TransportError
		if errors.As(err, &transportErr) {
			result.Outcome = OutcomeSkipped
			result.Detail = err.Error()
			return result, nil
		}
		result.Outcome = OutcomeFailed
		result.Detail = err.Error()
		return result, fmt.Errorf("send: %w", err)
	}

	if state.ConfirmedBalance < c.cfg.SendFloor {
		result.Outcome = OutcomeSkipped
		result.Detail = "balance below floor: " + state.BalanceOCT()
		return result, nil
	}

	amount := common.UniformMicro(c.session.Rand, c.cfg.SendMin, c.cfg.SendMax)
	result.Amount = amount
	if amount > state.ConfirmedBalance {
		result.Outcome = OutcomeSkipped
		result.Detail = fmt.Sprintf("amount %s exceeds balance %s", common.MicroToOCT(amount), state.BalanceOCT())
		return result, nil
	}

	built, err := c.session.Builder().Build(p.recipient, amount, state.NextNonce(), "")
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Detail = err.Error()
		return result, nil
	}

	submitted := c.session.Submitter().Submit(ctx, built.Tx)
	if !submitted.Accepted {
		result.Outcome = OutcomeFailed
		result.Detail = submitted.Hash
		return result, nil
	}

	result.Outcome = OutcomeDone
	result.Detail = submitted.Hash
	return result, nil
}

func (c *Cycle) shield(ctx context.Context, p *pass) (StepResult, error) {
	amount := common.UniformMicro(c.session.Rand, c.cfg.ShieldMin, c.cfg.ShieldMax)
	result := StepResult{Step: StepShield, Amount: amount}

	res := c.session.Shielder().EncryptBalance(ctx, amount)
	if !res.OK {
		result.Outcome = OutcomeFailed
		result.Detail = res.Error
		return result, fmt.Errorf("%w: %s", ErrShieldFailed, res.Error)
	}

	p.shielded = amount
	result.Outcome = OutcomeDone
	return result, nil
}

// privateTransfer never fails the pass; the chosen amount is reported even
// when the transfer is skipped.
func (c *Cycle) privateTransfer(ctx context.Context, p *pass) (StepResult, error) {
	amount := common.UniformMicro(c.session.Rand, minPrivateAmount, max(minPrivateAmount, p.shielded))
	result := StepResult{Step: StepPrivateTransfer, Amount: amount}
	shielder := c.session.Shielder()

	ready, err := shielder.RecipientReady(ctx, p.recipient)
	if err != nil {
		result.Outcome = OutcomeSkipped
		result.Detail = err.Error()
		return result, nil
	}
	if !ready {
		result.Outcome = OutcomeSkipped
		result.Detail = "recipient has no public key"
		return result, nil
	}

	res := shielder.PrivateTransfer(ctx, p.recipient, amount)
	if !res.OK {
		c.logger.WithField("error", res.Error).Warn("private transfer failed")
		result.Outcome = OutcomeFailed
		result.Detail = res.Error
		return result, nil
	}

	result.Outcome = OutcomeDone
	return result, nil
}

func (c *Cycle) unshield(ctx context.Context, p *pass) (StepResult, error) {
	amount := common.UniformMicro(c.session.Rand, minPrivateAmount, max(minPrivateAmount, p.shielded/2))
	result := StepResult{Step: StepUnshield, Amount: amount}
	shielder := c.session.Shielder()

	var balance *octra.EncryptedBalance
	err := Retry(ctx, c.session.Clock, c.cfg.UnshieldRetry, func(ctx context.Context) error {
		b, err := shielder.EncryptedBalance(ctx)
		if err != nil {
			c.logger.WithError(err).Warn("encrypted balance unavailable")
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Detail = err.Error()
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, nil
	}

	if balance.Encrypted < amount {
		result.Outcome = OutcomeSkipped
		result.Detail = "shielded balance too low: " + common.MicroToOCT(balance.Encrypted)
		return result, nil
	}

	res := shielder.DecryptBalance(ctx, amount)
	if !res.OK {
		result.Outcome = OutcomeFailed
		result.Detail = res.Error
		return result, nil
	}

	result.Outcome = OutcomeDone
	return result, nil
}

// claim only runs when at least two transfers are pending. Each claim is
// independent; Amount is the number that succeeded.
func (c *Cycle) claim(ctx context.Context, _ *pass) (StepResult, error) {
	result := StepResult{Step: StepClaim}
	shielder := c.session.Shielder()

	pending, err := shielder.PendingTransfers(ctx)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Detail = err.Error()
		return result, nil
	}
	if len(pending) < 2 {
		result.Outcome = OutcomeSkipped
		result.Detail = fmt.Sprintf("%d pending transfers", len(pending))
		return result, nil
	}

	var claimed uint64
	for _, transfer := range pending {
		res := shielder.ClaimTransfer(ctx, transfer.ID)
		if !res.OK {
			c.logger.WithField("transfer_id", transfer.ID).WithField("error", res.Error).Warn("claim failed")
			continue
		}
		claimed++
	}

	result.Amount = claimed
	result.Detail = fmt.Sprintf("claimed %d of %d", claimed, len(pending))
	if claimed == 0 {
		result.Outcome = OutcomeFailed
	} else {
		result.Outcome = OutcomeDone
	}
	return result, nil
}
