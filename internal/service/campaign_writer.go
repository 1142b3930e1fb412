package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/set-night/influnest/internal/chain"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/domain"
)

type WriterState string

const (
	WriterIdle       WriterState = "idle"
	WriterValidating WriterState = "validating"
	WriterSubmitting WriterState = "submitting"
	WriterConfirming WriterState = "confirming"
	WriterSettled    WriterState = "settled"
	WriterFailed     WriterState = "failed"
	WriterCancelled  WriterState = "cancelled"
)

// Busy reports whether a create call is in flight.
func (s WriterState) Busy() bool {
	return s == WriterValidating || s == WriterSubmitting || s == WriterConfirming
}

// rejectionPhrases are the wallet wordings for a user declining a signature.
var rejectionPhrases = []string{
	"User rejected",
	"User denied",
	"User cancelled",
	"Base Tx Signature: User denied",
}

// IsUserRejection reports whether err is a signer refusing the request.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, phrase := range rejectionPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// CampaignSubmitter sends createCampaign and waits for it to be mined.
type CampaignSubmitter interface {
	CreateCampaign(ctx context.Context, signer chain.Signer, args chain.CreateCampaignArgs) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// CampaignIDDecoder extracts the created campaign id from a receipt.
type CampaignIDDecoder interface {
	CampaignID(receipt *types.Receipt) (*big.Int, error)
}

// ValidatedCampaign is a create request converted to on-chain units.
type ValidatedCampaign struct {
	TotalValueWei *big.Int
	DurationDays  *big.Int
	TargetLikes   *big.Int
	TargetViews   *big.Int
}

// ValidateCreateRequest checks a create request without touching the network.
func ValidateCreateRequest(req domain.CreateCampaignRequest) (*ValidatedCampaign, error) {
	wei, err := ParseEther(strings.TrimSpace(req.TotalValue))
	if err != nil || wei.Sign() <= 0 {
		return nil, domain.ErrInvalidTotalValue
	}

	days, err := strconv.ParseInt(strings.TrimSpace(req.DurationDays), 10, 64)
	if err != nil || days < config.MinCampaignDays || days > config.MaxCampaignDays {
		return nil, domain.ErrInvalidDuration
	}

	likes, ok := parsePositiveInt(req.TargetLikes)
	if !ok {
		return nil, domain.ErrInvalidTargetLikes
	}

	views, ok := parsePositiveInt(req.TargetViews)
	if !ok {
		return nil, domain.ErrInvalidTargetViews
	}

	return &ValidatedCampaign{
		TotalValueWei: wei,
		DurationDays:  big.NewInt(days),
		TargetLikes:   likes,
		TargetViews:   views,
	}, nil
}

func parsePositiveInt(s string) (*big.Int, bool) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || n.Sign() <= 0 {
		return nil, false
	}
	return n, true
}

// CreateResult describes where a create call ended.
type CreateResult struct {
	State  WriterState
	TxHash common.Hash
	// CampaignID is nil when it could not be extracted from the receipt.
	CampaignID *big.Int
	Err        error
}

// CampaignWriter drives one create-campaign transaction at a time by
// convention. It does not serialize concurrent Create calls itself.
type CampaignWriter struct {
	submitter CampaignSubmitter
	decoder   CampaignIDDecoder

	mu       sync.RWMutex
	result   CreateResult
	onChange func(CreateResult)
}

// NewCampaignWriter builds a writer. decoder may be nil, leaving campaign ids
// unresolved.
func NewCampaignWriter(submitter CampaignSubmitter, decoder CampaignIDDecoder) *CampaignWriter {
	return &CampaignWriter{
		submitter: submitter,
		decoder:   decoder,
		result:    CreateResult{State: WriterIdle},
	}
}

// Observe registers fn to be called after every state transition.
func (w *CampaignWriter) Observe(fn func(CreateResult)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

func (w *CampaignWriter) State() WriterState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result.State
}

func (w *CampaignWriter) Result() CreateResult {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result
}

// Reset returns the writer to idle from any state.
func (w *CampaignWriter) Reset() {
	w.set(CreateResult{State: WriterIdle})
}

// Create validates req and, when valid, submits createCampaign for creator
// through signer and waits for confirmation. The signer pays msg.value, so it
// must be the creator's own account.
func (w *CampaignWriter) Create(ctx context.Context, signer chain.Signer, creator common.Address, req domain.CreateCampaignRequest) (CreateResult, error) {
	if creator == (common.Address{}) {
		return w.fail(common.Hash{}, domain.ErrWalletNotConnected)
	}
	if signer == nil || signer.Address() != creator {
		return w.fail(common.Hash{}, domain.ErrSignerMismatch)
	}

	w.set(CreateResult{State: WriterValidating})
	valid, err := ValidateCreateRequest(req)
	if err != nil {
		return w.fail(common.Hash{}, err)
	}

	w.set(CreateResult{State: WriterSubmitting})
	hash, err := w.submitter.CreateCampaign(ctx, signer, chain.CreateCampaignArgs{
		Creator:      creator,
		TotalValue:   valid.TotalValueWei,
		DurationDays: valid.DurationDays,
		TargetLikes:  valid.TargetLikes,
		TargetViews:  valid.TargetViews,
	})
	if err != nil {
		if IsUserRejection(err) {
			slog.Info("campaign creation cancelled by signer", "creator", creator.Hex(), "error", err)
			res := CreateResult{State: WriterCancelled, Err: domain.ErrTransactionCancelled}
			w.set(res)
			return res, res.Err
		}
		return w.fail(common.Hash{}, fmt.Errorf("submit campaign: %w", err))
	}

	w.set(CreateResult{State: WriterConfirming, TxHash: hash})
	receipt, err := w.submitter.WaitMined(ctx, hash)
	if err != nil {
		return w.fail(hash, fmt.Errorf("confirm campaign: %w", err))
	}

	res := CreateResult{State: WriterSettled, TxHash: hash, CampaignID: w.campaignID(receipt)}
	w.set(res)
	return res, nil
}

func (w *CampaignWriter) campaignID(receipt *types.Receipt) *big.Int {
	if w.decoder == nil || receipt == nil {
		return nil
	}
	id, err := w.decoder.CampaignID(receipt)
	if err != nil {
		if !errors.Is(err, chain.ErrEventNotFound) {
			slog.Warn("extract campaign id", "tx", receipt.TxHash.Hex(), "error", err)
		}
		return nil
	}
	return id
}

func (w *CampaignWriter) fail(hash common.Hash, err error) (CreateResult, error) {
	res := CreateResult{State: WriterFailed, TxHash: hash, Err: err}
	w.set(res)
	return res, err
}

func (w *CampaignWriter) set(res CreateResult) {
	w.mu.Lock()
	w.result = res
	onChange := w.onChange
	w.mu.Unlock()

	if onChange != nil {
		onChange(res)
	}
}
