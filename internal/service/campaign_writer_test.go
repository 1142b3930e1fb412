package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/set-night/influnest/internal/chain"
	"github.com/set-night/influnest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCreator = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	testTxHash  = common.HexToHash("0xabc1")
)

var testSigner = fakeSigner{addr: testCreator}

type fakeSigner struct {
	addr common.Address
}

func (f fakeSigner) Address() common.Address { return f.addr }

func (f fakeSigner) SignTx(_ context.Context, tx *types.Transaction, _ *big.Int) (*types.Transaction, error) {
	return tx, nil
}

type fakeSubmitter struct {
	createErr error
	waitErr   error
	receipt   *types.Receipt

	createCalls int
	waitCalls   int
	args        chain.CreateCampaignArgs
}

func (f *fakeSubmitter) CreateCampaign(_ context.Context, _ chain.Signer, args chain.CreateCampaignArgs) (common.Hash, error) {
	f.createCalls++
	f.args = args
	if f.createErr != nil {
		return common.Hash{}, f.createErr
	}
	return testTxHash, nil
}

func (f *fakeSubmitter) WaitMined(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.waitCalls++
	if f.waitErr != nil {
		return f.receipt, f.waitErr
	}
	if f.receipt != nil {
		return f.receipt, nil
	}
	return &types.Receipt{TxHash: hash, Status: types.ReceiptStatusSuccessful}, nil
}

type fakeDecoder struct {
	id  *big.Int
	err error
}

func (f fakeDecoder) CampaignID(*types.Receipt) (*big.Int, error) {
	return f.id, f.err
}

func validRequest() domain.CreateCampaignRequest {
	return domain.CreateCampaignRequest{
		TotalValue:   "1",
		DurationDays: "30",
		TargetLikes:  "100",
		TargetViews:  "100",
	}
}

func TestValidateCreateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.CreateCampaignRequest
		wantErr error
	}{
		{"zero value", domain.CreateCampaignRequest{TotalValue: "0", DurationDays: "10", TargetLikes: "5", TargetViews: "5"}, domain.ErrInvalidTotalValue},
		{"negative value", domain.CreateCampaignRequest{TotalValue: "-1", DurationDays: "10", TargetLikes: "5", TargetViews: "5"}, domain.ErrInvalidTotalValue},
		{"non-numeric value", domain.CreateCampaignRequest{TotalValue: "lots", DurationDays: "10", TargetLikes: "5", TargetViews: "5"}, domain.ErrInvalidTotalValue},
		{"duration too long", domain.CreateCampaignRequest{TotalValue: "1.5", DurationDays: "400", TargetLikes: "5", TargetViews: "5"}, domain.ErrInvalidDuration},
		{"duration zero", domain.CreateCampaignRequest{TotalValue: "1.5", DurationDays: "0", TargetLikes: "5", TargetViews: "5"}, domain.ErrInvalidDuration},
		{"fractional duration", domain.CreateCampaignRequest{TotalValue: "1.5", DurationDays: "7.5", TargetLikes: "5", TargetViews: "5"}, domain.ErrInvalidDuration},
		{"zero likes", domain.CreateCampaignRequest{TotalValue: "1", DurationDays: "30", TargetLikes: "0", TargetViews: "5"}, domain.ErrInvalidTargetLikes},
		{"fractional likes", domain.CreateCampaignRequest{TotalValue: "1", DurationDays: "30", TargetLikes: "1.5", TargetViews: "5"}, domain.ErrInvalidTargetLikes},
		{"negative views", domain.CreateCampaignRequest{TotalValue: "1", DurationDays: "30", TargetLikes: "5", TargetViews: "-5"}, domain.ErrInvalidTargetViews},
		{"valid", validRequest(), nil},
		{"bounds", domain.CreateCampaignRequest{TotalValue: "0.000000000000000001", DurationDays: "365", TargetLikes: "1", TargetViews: "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCreateRequest(tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestWriterRejectsInvalidInputWithoutNetwork(t *testing.T) {
	sub := &fakeSubmitter{}
	w := NewCampaignWriter(sub, nil)

	req := domain.CreateCampaignRequest{TotalValue: "0", DurationDays: "10", TargetLikes: "5", TargetViews: "5"}
	res, err := w.Create(context.Background(), testSigner, testCreator, req)

	assert.ErrorIs(t, err, domain.ErrInvalidTotalValue)
	assert.Equal(t, WriterFailed, res.State)
	assert.Equal(t, WriterFailed, w.State())
	assert.Zero(t, sub.createCalls)
}

func TestWriterRequiresWallet(t *testing.T) {
	sub := &fakeSubmitter{}
	w := NewCampaignWriter(sub, nil)

	res, err := w.Create(context.Background(), testSigner, common.Address{}, validRequest())

	assert.ErrorIs(t, err, domain.ErrWalletNotConnected)
	assert.Equal(t, WriterFailed, res.State)
	assert.Zero(t, sub.createCalls)
}

func TestWriterRequiresSignerToBeCreator(t *testing.T) {
	operator := fakeSigner{addr: common.HexToAddress("0x9904000000000000000000000000000000073cd0")}

	tests := []struct {
		name   string
		signer chain.Signer
	}{
		{"other account pays", operator},
		{"approval signer over other account", chain.NewApprovalSigner(operator, nil)},
		{"no signer", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			w := NewCampaignWriter(sub, nil)

			req := domain.CreateCampaignRequest{TotalValue: "1000", DurationDays: "30", TargetLikes: "1", TargetViews: "1"}
			res, err := w.Create(context.Background(), tt.signer, testCreator, req)

			assert.ErrorIs(t, err, domain.ErrSignerMismatch)
			assert.Equal(t, WriterFailed, res.State)
			assert.Zero(t, sub.createCalls)
			assert.Zero(t, sub.waitCalls)
		})
	}
}

func TestWriterSettles(t *testing.T) {
	sub := &fakeSubmitter{}
	w := NewCampaignWriter(sub, fakeDecoder{id: big.NewInt(7)})

	var mu sync.Mutex
	var states []WriterState
	w.Observe(func(res CreateResult) {
		mu.Lock()
		states = append(states, res.State)
		mu.Unlock()
	})

	res, err := w.Create(context.Background(), testSigner, testCreator, validRequest())
	require.NoError(t, err)

	assert.Equal(t, WriterSettled, res.State)
	assert.Equal(t, testTxHash, res.TxHash)
	require.NotNil(t, res.CampaignID)
	assert.Equal(t, int64(7), res.CampaignID.Int64())
	assert.Equal(t, []WriterState{WriterValidating, WriterSubmitting, WriterConfirming, WriterSettled}, states)

	assert.Equal(t, 1, sub.createCalls)
	assert.Equal(t, 1, sub.waitCalls)
	assert.Equal(t, testCreator, sub.args.Creator)
	assert.Equal(t, "1000000000000000000", sub.args.TotalValue.String())
	assert.Equal(t, int64(30), sub.args.DurationDays.Int64())
	assert.Equal(t, int64(100), sub.args.TargetLikes.Int64())
	assert.Equal(t, int64(100), sub.args.TargetViews.Int64())
}

func TestWriterCampaignIDIsBestEffort(t *testing.T) {
	tests := []struct {
		name    string
		decoder CampaignIDDecoder
	}{
		{"no decoder", nil},
		{"event missing", fakeDecoder{err: chain.ErrEventNotFound}},
		{"decode error", fakeDecoder{err: errors.New("bad data")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewCampaignWriter(&fakeSubmitter{}, tt.decoder)

			res, err := w.Create(context.Background(), testSigner, testCreator, validRequest())
			require.NoError(t, err)
			assert.Equal(t, WriterSettled, res.State)
			assert.Nil(t, res.CampaignID)
		})
	}
}

func TestWriterCancelledOnRejection(t *testing.T) {
	phrases := []string{
		"User rejected the request.",
		"MetaMask Tx Signature: User denied transaction signature.",
		"User cancelled the request: signature prompt expired",
		"Base Tx Signature: User denied",
	}

	for _, phrase := range phrases {
		t.Run(phrase, func(t *testing.T) {
			sub := &fakeSubmitter{createErr: errors.New(phrase)}
			w := NewCampaignWriter(sub, nil)

			res, err := w.Create(context.Background(), testSigner, testCreator, validRequest())

			assert.ErrorIs(t, err, domain.ErrTransactionCancelled)
			assert.Equal(t, WriterCancelled, res.State)
			assert.Equal(t, WriterCancelled, w.State())
			assert.Zero(t, sub.waitCalls)
		})
	}
}

func TestWriterFailsOnSubmitError(t *testing.T) {
	cause := errors.New("insufficient funds for gas * price + value")
	sub := &fakeSubmitter{createErr: fmt.Errorf("estimate gas: %w", cause)}
	w := NewCampaignWriter(sub, nil)

	res, err := w.Create(context.Background(), testSigner, testCreator, validRequest())

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrTransactionCancelled)
	assert.Equal(t, WriterFailed, res.State)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Zero(t, sub.waitCalls)
}

func TestWriterFailsOnRevert(t *testing.T) {
	sub := &fakeSubmitter{
		waitErr: fmt.Errorf("%w: %s", domain.ErrTransactionReverted, testTxHash.Hex()),
		receipt: &types.Receipt{Status: types.ReceiptStatusFailed},
	}
	w := NewCampaignWriter(sub, fakeDecoder{id: big.NewInt(1)})

	res, err := w.Create(context.Background(), testSigner, testCreator, validRequest())

	assert.ErrorIs(t, err, domain.ErrTransactionReverted)
	assert.Equal(t, WriterFailed, res.State)
	assert.Equal(t, testTxHash, res.TxHash)
	assert.Nil(t, res.CampaignID)
}

func TestWriterReset(t *testing.T) {
	w := NewCampaignWriter(&fakeSubmitter{createErr: errors.New("nope")}, nil)
	assert.Equal(t, WriterIdle, w.State())

	_, err := w.Create(context.Background(), testSigner, testCreator, validRequest())
	require.Error(t, err)
	require.Equal(t, WriterFailed, w.State())

	w.Reset()
	assert.Equal(t, WriterIdle, w.State())
	assert.Equal(t, CreateResult{State: WriterIdle}, w.Result())
}

func TestIsUserRejection(t *testing.T) {
	assert.False(t, IsUserRejection(nil))
	assert.False(t, IsUserRejection(errors.New("nonce too low")))
	assert.True(t, IsUserRejection(fmt.Errorf("sign: %w", errors.New("User rejected the request."))))
	assert.True(t, IsUserRejection(errors.New("User denied account authorization")))
}

func TestWriterStateBusy(t *testing.T) {
	for _, s := range []WriterState{WriterValidating, WriterSubmitting, WriterConfirming} {
		assert.True(t, s.Busy(), s)
	}
	for _, s := range []WriterState{WriterIdle, WriterSettled, WriterFailed, WriterCancelled} {
		assert.False(t, s.Busy(), s)
	}
}
