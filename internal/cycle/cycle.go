// Package cycle drives one automation pass for a single account:
// send, shield, private transfer, unshield and claim, with a randomized pause
// between steps.
package cycle

import (
	"context"
	"errors"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/metrics"
	"github.com/hiepntnaa/octra-pre-client/octra"

	"github.com/sirupsen/logrus"
)

// ErrShieldFailed ends the pass: the later steps all depend on a shielded balance.
var ErrShieldFailed = errors.New("shield step failed")

// minPrivateAmount is the smallest private transfer or unshield, in micro units.
const minPrivateAmount uint64 = 500

type Step string

const (
	StepSend            Step = "send"
	StepShield          Step = "shield"
	StepPrivateTransfer Step = "private_transfer"
	StepUnshield        Step = "unshield"
	StepClaim           Step = "claim"
)

type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// StepResult is what one step did. Amount is in micro units; for the claim
// step it is the number of transfers claimed.
type StepResult struct {
	Step    Step
	Outcome Outcome
	Amount  uint64
	Detail  string
}

// Report collects the step results of one pass in execution order.
type Report struct {
	Recipient string
	Steps     []StepResult
	Elapsed   time.Duration
}

// Result returns the result of step, if it ran.
func (r *Report) Result(step Step) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == step {
			return s, true
		}
	}
	return StepResult{}, false
}

// Config holds the pacing and amount ranges. Amounts are micro units.
type Config struct {
	DelayMin time.Duration
	DelayMax time.Duration

	SendMin   uint64
	SendMax   uint64
	SendFloor uint64

	ShieldMin uint64
	ShieldMax uint64

	UnshieldRetry RetryConfig
}

func DefaultConfig() Config {
	return Config{
		DelayMin:      180 * time.Second,
		DelayMax:      240 * time.Second,
		SendMin:       1_000,
		SendMax:       20_000,
		SendFloor:     1_000,
		ShieldMin:     1_000,
		ShieldMax:     20_000,
		UnshieldRetry: DefaultRetryConfig(),
	}
}

// Cycle runs passes against the session's node. It does not close the session.
type Cycle struct {
	session *octra.Session
	cfg     Config
	logger  logrus.FieldLogger
}

func New(session *octra.Session, cfg Config) *Cycle {
	return &Cycle{
		session: session,
		cfg:     cfg,
		logger:  session.Logger.WithField("component", "cycle"),
	}
}

// pass carries values from one step to the next.
type pass struct {
	recipient string
	shielded  uint64
}

type stepFunc func(ctx context.Context, p *pass) (StepResult, error)

// Run executes one pass toward recipient. The report is returned even when
// err is non-nil and holds every step that ran.
func (c *Cycle) Run(ctx context.Context, recipient string) (*Report, error) {
	clock := c.session.Clock
	start := clock.Now()
	report := &Report{Recipient: recipient}
	p := &pass{recipient: recipient}

	defer func() {
		report.Elapsed = clock.Now().Sub(start)
		metrics.RecordCycle(report.Elapsed)
	}()

	steps := []stepFunc{c.send, c.shield, c.privateTransfer, c.unshield, c.claim}

	c.logger.WithField("recipient", recipient).Info("cycle started")

	for i, step := range steps {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				return report, err
			}
		}

		result, err := step(ctx, p)
		report.Steps = append(report.Steps, result)
		metrics.RecordStep(string(result.Step), string(result.Outcome))

		c.logger.WithFields(logrus.Fields{
			"step":    result.Step,
			"outcome": result.Outcome,
			"amount":  result.Amount,
			"detail":  result.Detail,
		}).Info("step finished")

		if err != nil {
			c.logger.WithError(err).WithField("step", result.Step).Error("cycle aborted")
			return report, err
		}
	}

	c.logger.Info("cycle finished")
	return report, nil
}

func (c *Cycle) pause(ctx context.Context) error {
	d := common.UniformDuration(c.session.Rand, c.cfg.DelayMin, c.cfg.DelayMax)
	c.logger.WithField("delay", d).Debug("waiting before next step")
	return c.session.Clock.Sleep(ctx, d)
}
