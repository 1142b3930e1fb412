package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/set-night/influnest/internal/domain"
)

// CreateCampaignArgs are the createCampaign arguments, all in on-chain units.
type CreateCampaignArgs struct {
	Creator      common.Address
	TotalValue   *big.Int // wei, also sent as msg.value
	DurationDays *big.Int
	TargetLikes  *big.Int
	TargetViews  *big.Int
}

// Transactor submits CampaignManager writes and waits for their receipts.
type Transactor struct {
	backend  Backend
	contract common.Address
	chainID  *big.Int
	abi      abi.ABI

	pollInitial time.Duration
	pollMax     time.Duration
	confirmWait time.Duration
}

// TransactorOption configures a Transactor.
type TransactorOption func(*Transactor)

// WithReceiptPolling sets the initial and maximum receipt polling interval.
func WithReceiptPolling(initial, max time.Duration) TransactorOption {
	return func(t *Transactor) {
		t.pollInitial = initial
		t.pollMax = max
	}
}

// WithConfirmTimeout bounds how long WaitMined polls.
func WithConfirmTimeout(d time.Duration) TransactorOption {
	return func(t *Transactor) {
		t.confirmWait = d
	}
}

func NewTransactor(backend Backend, contract common.Address, chainID int64, opts ...TransactorOption) (*Transactor, error) {
	parsed, err := ParseCampaignManagerABI()
	if err != nil {
		return nil, err
	}

	t := &Transactor{
		backend:     backend,
		contract:    contract,
		chainID:     big.NewInt(chainID),
		abi:         parsed,
		pollInitial: time.Second,
		pollMax:     10 * time.Second,
		confirmWait: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// CreateCampaign builds, signs and broadcasts one createCampaign transaction
// carrying args.TotalValue as its value transfer. Signer errors are returned
// unwrapped so their wording survives for classification.
func (t *Transactor) CreateCampaign(ctx context.Context, signer Signer, args CreateCampaignArgs) (common.Hash, error) {
	data, err := t.abi.Pack(methodCreateCampaign,
		args.Creator, args.TotalValue, args.DurationDays, args.TargetLikes, args.TargetViews)
	if err != nil {
		return common.Hash{}, fmt.Errorf("pack %s: %w", methodCreateCampaign, err)
	}

	from := signer.Address()

	nonce, err := t.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("get nonce: %w", err)
	}

	gasPrice, err := t.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("suggest gas price: %w", err)
	}

	to := t.contract
	gas, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: args.TotalValue,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    args.TotalValue,
		Data:     data,
	})

	signed, err := signer.SignTx(ctx, tx, t.chainID)
	if err != nil {
		return common.Hash{}, err
	}

	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction: %w", err)
	}

	slog.Info("transaction submitted", "hash", signed.Hash().Hex(), "from", from.Hex(), "nonce", nonce)
	return signed.Hash(), nil
}

// WaitMined polls for the receipt of hash until it is mined or ctx ends. A
// reverted receipt is returned together with domain.ErrTransactionReverted.
func (t *Transactor) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.pollInitial
	b.MaxInterval = t.pollMax

	operation := func() (*types.Receipt, error) {
		receipt, err := t.backend.TransactionReceipt(ctx, hash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return nil, err
			}
			return nil, backoff.Permanent(fmt.Errorf("get receipt: %w", err))
		}
		return receipt, nil
	}

	receipt, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(t.confirmWait),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("wait for %s: %w", hash.Hex(), ctxErr)
		}
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("transaction %s not mined within %s", hash.Hex(), t.confirmWait)
		}
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", domain.ErrTransactionReverted, hash.Hex())
	}
	return receipt, nil
}
