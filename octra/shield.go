package octra

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiepntnaa/octra-pre-client/internal/client"
	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"
	"github.com/hiepntnaa/octra-pre-client/internal/model"

	"github.com/sirupsen/logrus"
)

// EncryptedBalance is the public and shielded balance of the account.
type EncryptedBalance struct {
	Public    uint64 // micro
	Encrypted uint64 // micro
}

// Shielder calls the opaque shielding endpoints on behalf of one account.
// The shielding cryptography itself happens on the node.
type Shielder struct {
	node   *client.NodeClient
	keys   *crypto.KeyMaterial
	logger logrus.FieldLogger
}

func NewShielder(node *client.NodeClient, keys *crypto.KeyMaterial, logger logrus.FieldLogger) *Shielder {
	return &Shielder{node: node, keys: keys, logger: logger}
}

// EncryptBalance moves micro units from the public to the shielded balance.
func (s *Shielder) EncryptBalance(ctx context.Context, micro uint64) client.OpResult {
	return s.node.EncryptBalance(ctx, s.keys.Address(), micro, s.keys.SeedBase64())
}

// DecryptBalance moves micro units from the shielded to the public balance.
func (s *Shielder) DecryptBalance(ctx context.Context, micro uint64) client.OpResult {
	return s.node.DecryptBalance(ctx, s.keys.Address(), micro, s.keys.SeedBase64())
}

// EncryptedBalance fetches the current shielded balance.
func (s *Shielder) EncryptedBalance(ctx context.Context) (*EncryptedBalance, error) {
	res := s.node.EncryptedBalance(ctx, s.keys.Address(), s.keys.SeedBase64())
	if !res.OK {
		return nil, fmt.Errorf("view encrypted balance: %s", res.Error)
	}

	encrypted, err := common.JSONUint(res.Result["encrypted_balance_raw"])
	if err != nil {
		return nil, fmt.Errorf("view encrypted balance: encrypted_balance_raw: %w", err)
	}
	balance := &EncryptedBalance{Encrypted: encrypted}
	if public, err := common.JSONUint(res.Result["public_balance_raw"]); err == nil {
		balance.Public = public
	}
	return balance, nil
}

// RecipientReady reports whether address has published the public key needed
// to receive private transfers.
func (s *Shielder) RecipientReady(ctx context.Context, address string) (bool, error) {
	res := s.node.AddressInfo(ctx, address)
	if !res.OK {
		return false, fmt.Errorf("address info: %s", res.Error)
	}
	ready, _ := res.Result["has_public_key"].(bool)
	return ready, nil
}

// PrivateTransfer sends micro units of shielded balance to to.
func (s *Shielder) PrivateTransfer(ctx context.Context, to string, micro uint64) client.OpResult {
	if err := crypto.ValidateAddress(to); err != nil {
		return client.OpResult{Error: err.Error()}
	}

	pub := s.node.PublicKey(ctx, to)
	if !pub.OK {
		return client.OpResult{Error: "recipient public key unavailable: " + pub.Error}
	}
	toPublicKey, _ := pub.Result["public_key"].(string)
	if toPublicKey == "" {
		return client.OpResult{Error: "recipient public key unavailable"}
	}

	return s.node.PrivateTransfer(ctx, s.keys.Address(), to, micro, s.keys.SeedBase64(), toPublicKey)
}

// PendingTransfers lists inbound private transfers awaiting claim.
func (s *Shielder) PendingTransfers(ctx context.Context) ([]model.PendingTransfer, error) {
	res := s.node.PendingTransfers(ctx, s.keys.Address(), s.keys.SeedBase64())
	if !res.OK {
		return nil, fmt.Errorf("pending transfers: %s", res.Error)
	}

	raw, ok := res.Result["pending_transfers"].([]any)
	if !ok {
		if _, present := res.Result["pending_transfers"]; present {
			return nil, errors.New("pending transfers: pending_transfers is not a list")
		}
		return nil, nil
	}

	transfers := make([]model.PendingTransfer, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok || entry["id"] == nil {
			s.logger.Warn("skipping malformed pending transfer entry")
			continue
		}
		transfer := model.PendingTransfer{ID: fmt.Sprint(entry["id"])}
		transfer.Sender, _ = entry["sender"].(string)
		if epoch, err := common.JSONUint(entry["epoch_id"]); err == nil {
			transfer.Epoch = epoch
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

// ClaimTransfer claims one pending transfer.
func (s *Shielder) ClaimTransfer(ctx context.Context, transferID string) client.OpResult {
	return s.node.ClaimTransfer(ctx, s.keys.Address(), s.keys.SeedBase64(), transferID)
}
