package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs transactions on behalf of one account.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// KeySigner signs with an in-memory private key.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner parses a hex-encoded secp256k1 key, with or without 0x prefix.
func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	return NewKeySignerFromKey(key), nil
}

func NewKeySignerFromKey(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (s *KeySigner) Address() common.Address {
	return s.address
}

func (s *KeySigner) SignTx(_ context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	return signed, nil
}

// ApproveFunc asks a human to approve a transaction before it is signed. A
// non-nil error denies the request.
type ApproveFunc func(ctx context.Context, tx *types.Transaction) error

// ApprovalSigner gates another Signer behind an approval prompt, the way a
// browser wallet shows a confirmation popup.
type ApprovalSigner struct {
	signer  Signer
	approve ApproveFunc
}

func NewApprovalSigner(signer Signer, approve ApproveFunc) *ApprovalSigner {
	return &ApprovalSigner{signer: signer, approve: approve}
}

func (s *ApprovalSigner) Address() common.Address {
	return s.signer.Address()
}

func (s *ApprovalSigner) SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if err := s.approve(ctx, tx); err != nil {
		return nil, err
	}
	return s.signer.SignTx(ctx, tx, chainID)
}
