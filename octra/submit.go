package octra

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/client"
	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/metrics"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/sirupsen/logrus"
)

// Submission outcomes used for logging and metrics.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport"
)

// SubmissionResult is the classified answer of POST /send-tx.
type SubmissionResult struct {
	Accepted bool
	// Hash is the node's transaction hash when accepted, otherwise the
	// serialized error body or raw text.
	Hash     string
	Status   int
	Elapsed  time.Duration
	Raw      map[string]any
	PoolSize *int
}

// Outcome names the classification.
func (r *SubmissionResult) Outcome() string {
	switch {
	case r.Accepted:
		return OutcomeAccepted
	case r.Status == 0:
		return OutcomeTransport
	default:
		return OutcomeRejected
	}
}

// Submitter posts signed envelopes and classifies the node's answer.
type Submitter struct {
	node   *client.NodeClient
	clock  common.Clock
	logger logrus.FieldLogger
}

func NewSubmitter(node *client.NodeClient, clock common.Clock, logger logrus.FieldLogger) *Submitter {
	return &Submitter{node: node, clock: clock, logger: logger}
}

// Submit sends tx. A rejected transaction is a normal result, not an error.
func (s *Submitter) Submit(ctx context.Context, tx *model.Transaction) *SubmissionResult {
	start := s.clock.Now()
	resp := s.node.SendTx(ctx, tx)
	elapsed := s.clock.Now().Sub(start)

	result := Classify(resp)
	result.Elapsed = elapsed

	metrics.RecordSubmission(result.Outcome())
	if result.PoolSize != nil {
		metrics.RecordPoolSize(*result.PoolSize)
	}

	entry := s.logger.WithFields(logrus.Fields{
		"nonce":   tx.Nonce,
		"to":      tx.To,
		"status":  result.Status,
		"outcome": result.Outcome(),
		"elapsed": elapsed.Round(time.Millisecond),
	})
	if result.Accepted {
		entry.WithField("hash", result.Hash).Info("transaction accepted")
	} else {
		entry.WithField("error", result.Hash).Warn("transaction not accepted")
	}

	return result
}

// Classify applies the submission rules in order:
// non-200 is rejected; a JSON {"status":"accepted"} is accepted with tx_hash;
// a text body starting with "ok" (any case) is accepted with its last token as
// hash; anything else is rejected.
func Classify(resp *client.Response) *SubmissionResult {
	result := &SubmissionResult{Status: resp.Status, Raw: resp.JSON}

	if !resp.OK() {
		result.Hash = errorPayload(resp)
		return result
	}

	switch resp.Kind {
	case client.KindStructured:
		if status, _ := resp.JSON["status"].(string); status == "accepted" {
			result.Accepted = true
			result.Hash, _ = resp.JSON["tx_hash"].(string)
			result.PoolSize = poolSize(resp.JSON)
			return result
		}
	case client.KindPlainText:
		text := strings.TrimSpace(resp.Raw)
		if strings.HasPrefix(strings.ToLower(text), "ok") {
			fields := strings.Fields(text)
			result.Accepted = true
			result.Hash = fields[len(fields)-1]
			return result
		}
	}

	result.Hash = resp.Raw
	return result
}

func errorPayload(resp *client.Response) string {
	if resp.Kind == client.KindStructured {
		if data, err := json.Marshal(resp.JSON); err == nil {
			return string(data)
		}
	}
	return resp.Raw
}

func poolSize(body map[string]any) *int {
	info, ok := body["pool_info"].(map[string]any)
	if !ok {
		return nil
	}
	size, err := common.JSONUint(info["total_pool_size"])
	if err != nil {
		return nil
	}
	n := int(size)
	return &n
}
