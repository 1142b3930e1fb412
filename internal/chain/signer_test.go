package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyHex  = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	testKeyAddr = "0x71562b71999873DB5b286dF957af199Ec94617F7"
)

func testTx() *types.Transaction {
	to := testContract
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		GasPrice: big.NewInt(1),
		Gas:      21_000,
		To:       &to,
		Value:    big.NewInt(10),
	})
}

func TestNewKeySigner(t *testing.T) {
	for _, key := range []string{testKeyHex, "0x" + testKeyHex, " " + testKeyHex + "\n"} {
		s, err := NewKeySigner(key)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(testKeyAddr), s.Address())
	}

	_, err := NewKeySigner("not-a-key")
	assert.Error(t, err)
}

func TestKeySignerSignTx(t *testing.T) {
	s, err := NewKeySigner(testKeyHex)
	require.NoError(t, err)

	chainID := big.NewInt(84532)
	signed, err := s.SignTx(context.Background(), testTx(), chainID)
	require.NoError(t, err)

	from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), from)
}

func TestApprovalSigner(t *testing.T) {
	key, err := NewKeySigner(testKeyHex)
	require.NoError(t, err)

	t.Run("approved", func(t *testing.T) {
		var seen *types.Transaction
		s := NewApprovalSigner(key, func(_ context.Context, tx *types.Transaction) error {
			seen = tx
			return nil
		})

		tx := testTx()
		signed, err := s.SignTx(context.Background(), tx, big.NewInt(84532))
		require.NoError(t, err)
		assert.Equal(t, tx.Hash(), seen.Hash())
		assert.Equal(t, key.Address(), s.Address())

		v, r, _ := signed.RawSignatureValues()
		assert.NotZero(t, v.Sign())
		assert.NotZero(t, r.Sign())
	})

	t.Run("rejected", func(t *testing.T) {
		rejection := errors.New("User rejected the request.")
		s := NewApprovalSigner(key, func(context.Context, *types.Transaction) error {
			return rejection
		})

		signed, err := s.SignTx(context.Background(), testTx(), big.NewInt(84532))
		assert.Same(t, rejection, err)
		assert.Nil(t, signed)
	})
}
