package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hiepntnaa/octra-pre-client/internal/model"
)

const (
	StagingTimeout = 5 * time.Second

	privateKeyHeader = "X-Private-Key"
)

// OpResult is the (ok, resultOrError) contract of the shielding endpoints.
// Their payload schema is owned by the node and passed through untouched.
type OpResult struct {
	OK     bool
	Result map[string]any
	Error  string
}

// NodeClient maps node endpoints onto RPCClient requests.
type NodeClient struct {
	rpc *RPCClient
}

// NewNodeClient wraps rpc.
func NewNodeClient(rpc *RPCClient) *NodeClient {
	return &NodeClient{rpc: rpc}
}

// Balance issues GET /balance/{address}.
func (n *NodeClient) Balance(ctx context.Context, address string) *Response {
	return n.rpc.Request(ctx, http.MethodGet, "/balance/"+url.PathEscape(address), nil, DefaultTimeout)
}

// Staging issues GET /staging.
func (n *NodeClient) Staging(ctx context.Context) *Response {
	return n.rpc.Request(ctx, http.MethodGet, "/staging", nil, StagingTimeout)
}

// SendTx issues POST /send-tx with the full envelope.
func (n *NodeClient) SendTx(ctx context.Context, tx *model.Transaction) *Response {
	return n.rpc.Request(ctx, http.MethodPost, "/send-tx", tx, DefaultTimeout)
}

// AddressInfo issues GET /address/{address}. The result carries has_public_key.
func (n *NodeClient) AddressInfo(ctx context.Context, address string) OpResult {
	return toOpResult(n.rpc.Request(ctx, http.MethodGet, "/address/"+url.PathEscape(address)+"?limit=1", nil, DefaultTimeout))
}

// PublicKey issues GET /public_key/{address}.
func (n *NodeClient) PublicKey(ctx context.Context, address string) OpResult {
	return toOpResult(n.rpc.Request(ctx, http.MethodGet, "/public_key/"+url.PathEscape(address), nil, DefaultTimeout))
}

// EncryptedBalance issues GET /view_encrypted_balance/{address}.
func (n *NodeClient) EncryptedBalance(ctx context.Context, address, privateKey string) OpResult {
	headers := map[string]string{privateKeyHeader: privateKey}
	return toOpResult(n.rpc.RequestWithHeaders(ctx, http.MethodGet, "/view_encrypted_balance/"+url.PathEscape(address), headers, nil, DefaultTimeout))
}

type balanceOpRequest struct {
	Address    string `json:"address"`
	Amount     string `json:"amount"`
	PrivateKey string `json:"private_key"`
}

// EncryptBalance issues POST /encrypt_balance for micro units.
func (n *NodeClient) EncryptBalance(ctx context.Context, address string, micro uint64, privateKey string) OpResult {
	return toOpResult(n.rpc.Request(ctx, http.MethodPost, "/encrypt_balance", balanceOpRequest{
		Address:    address,
		Amount:     strconv.FormatUint(micro, 10),
		PrivateKey: privateKey,
	}, DefaultTimeout))
}

// DecryptBalance issues POST /decrypt_balance for micro units.
func (n *NodeClient) DecryptBalance(ctx context.Context, address string, micro uint64, privateKey string) OpResult {
	return toOpResult(n.rpc.Request(ctx, http.MethodPost, "/decrypt_balance", balanceOpRequest{
		Address:    address,
		Amount:     strconv.FormatUint(micro, 10),
		PrivateKey: privateKey,
	}, DefaultTimeout))
}

type privateTransferRequest struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Amount         string `json:"amount"`
	FromPrivateKey string `json:"from_private_key"`
	ToPublicKey    string `json:"to_public_key"`
}

// PrivateTransfer issues POST /private_transfer.
func (n *NodeClient) PrivateTransfer(ctx context.Context, from, to string, micro uint64, privateKey, toPublicKey string) OpResult {
	return toOpResult(n.rpc.Request(ctx, http.MethodPost, "/private_transfer", privateTransferRequest{
		From:           from,
		To:             to,
		Amount:         strconv.FormatUint(micro, 10),
		FromPrivateKey: privateKey,
		ToPublicKey:    toPublicKey,
	}, DefaultTimeout))
}

// PendingTransfers issues GET /pending_private_transfers?address=...
func (n *NodeClient) PendingTransfers(ctx context.Context, address, privateKey string) OpResult {
	headers := map[string]string{privateKeyHeader: privateKey}
	path := "/pending_private_transfers?address=" + url.QueryEscape(address)
	return toOpResult(n.rpc.RequestWithHeaders(ctx, http.MethodGet, path, headers, nil, DefaultTimeout))
}

type claimRequest struct {
	RecipientAddress string `json:"recipient_address"`
	PrivateKey       string `json:"private_key"`
	TransferID       string `json:"transfer_id"`
}

// ClaimTransfer issues POST /claim_private_transfer.
func (n *NodeClient) ClaimTransfer(ctx context.Context, address, privateKey, transferID string) OpResult {
	return toOpResult(n.rpc.Request(ctx, http.MethodPost, "/claim_private_transfer", claimRequest{
		RecipientAddress: address,
		PrivateKey:       privateKey,
		TransferID:       transferID,
	}, DefaultTimeout))
}

// toOpResult folds a response into the opaque (ok, result) contract: only a
// 200 with a JSON object and no "error" field counts as success.
func toOpResult(resp *Response) OpResult {
	if resp.IsTransportFailure() {
		return OpResult{Error: resp.Raw}
	}

	if resp.Kind == KindStructured {
		if msg, ok := resp.JSON["error"]; ok && msg != nil {
			return OpResult{Result: resp.JSON, Error: fmt.Sprint(msg)}
		}
		if resp.OK() {
			return OpResult{OK: true, Result: resp.JSON}
		}
		return OpResult{Result: resp.JSON, Error: fmt.Sprintf("status %d", resp.Status)}
	}

	if resp.Raw == "" {
		return OpResult{Error: fmt.Sprintf("status %d", resp.Status)}
	}
	return OpResult{Error: resp.Raw}
}
