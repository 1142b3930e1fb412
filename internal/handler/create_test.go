package handler

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/set-night/influnest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCreateAllowed(t *testing.T) {
	signer := common.HexToAddress("0x71562b71999873DB5b286dF957af199Ec94617F7")
	signerHex := signer.Hex()
	otherHex := "0x00000000000000000000000000000000000000c1"

	tests := []struct {
		name    string
		user    *domain.User
		allowed bool
		reason  string
	}{
		{"admin with signing wallet", &domain.User{IsAdmin: true, WalletAddress: &signerHex}, true, ""},
		{"admin with lowercase signing wallet", &domain.User{IsAdmin: true, WalletAddress: ptr("0x71562b71999873db5b286df957af199ec94617f7")}, true, ""},
		{"regular user with signing wallet", &domain.User{WalletAddress: &signerHex}, false, "limited to bot operators"},
		{"regular user with own wallet", &domain.User{WalletAddress: &otherHex}, false, "limited to bot operators"},
		{"admin without wallet", &domain.User{IsAdmin: true}, false, "Use /connect first"},
		{"admin with other wallet", &domain.User{IsAdmin: true, WalletAddress: &otherHex}, false, signerHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := createAllowed(tt.user, signer)
			assert.Equal(t, tt.allowed, ok)
			if tt.allowed {
				assert.Empty(t, reason)
				return
			}
			assert.Contains(t, reason, tt.reason)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, isValidationError(domain.ErrSignerMismatch))
	assert.True(t, isValidationError(fmt.Errorf("create: %w", domain.ErrInvalidDuration)))
	assert.False(t, isValidationError(domain.ErrTransactionReverted))
	assert.Equal(t, "The connected wallet is not the signing account.", describeCreateError(domain.ErrSignerMismatch))
}

func ptr(s string) *string { return &s }
