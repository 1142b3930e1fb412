package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/set-night/influnest/internal/domain"
)

// Reader reads campaign state from the CampaignManager contract. It holds no
// mutable state and is safe for concurrent use.
type Reader struct {
	caller   Caller
	contract common.Address
	abi      abi.ABI
}

func NewReader(caller Caller, contract common.Address) (*Reader, error) {
	parsed, err := ParseCampaignManagerABI()
	if err != nil {
		return nil, err
	}
	return &Reader{caller: caller, contract: contract, abi: parsed}, nil
}

// CampaignCount returns the number of campaigns ever created.
func (r *Reader) CampaignCount(ctx context.Context) (uint64, error) {
	out, err := r.call(ctx, methodCampaignCounter)
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("%s: unexpected %d outputs", methodCampaignCounter, len(out))
	}

	count := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if count == nil || count.Sign() < 0 || !count.IsUint64() {
		return 0, fmt.Errorf("%s: value out of range", methodCampaignCounter)
	}
	return count.Uint64(), nil
}

// CampaignDetails returns the raw on-chain tuple for one campaign.
func (r *Reader) CampaignDetails(ctx context.Context, id uint64) (*domain.CampaignDetails, error) {
	out, err := r.call(ctx, methodGetCampaignDetails, new(big.Int).SetUint64(id))
	if err != nil {
		return nil, err
	}
	if len(out) != 10 {
		return nil, fmt.Errorf("%s: unexpected %d outputs", methodGetCampaignDetails, len(out))
	}

	bigAt := func(i int) *big.Int {
		return *abi.ConvertType(out[i], new(*big.Int)).(**big.Int)
	}

	return &domain.CampaignDetails{
		Brand:        *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Creator:      *abi.ConvertType(out[1], new(common.Address)).(*common.Address),
		TotalValue:   bigAt(2),
		Deadline:     bigAt(3),
		TargetLikes:  bigAt(4),
		TargetViews:  bigAt(5),
		CurrentLikes: bigAt(6),
		CurrentViews: bigAt(7),
		PaidAmount:   bigAt(8),
		Status:       *abi.ConvertType(out[9], new(uint8)).(*uint8),
	}, nil
}

// FetchCampaign is CampaignDetails with per-item isolation: any failure is
// logged and reported as nil so one bad id does not abort a batch.
func (r *Reader) FetchCampaign(ctx context.Context, id uint64) *domain.CampaignDetails {
	details, err := r.CampaignDetails(ctx, id)
	if err != nil {
		slog.Warn("fetch campaign details", "campaign_id", id, "error", err)
		return nil
	}
	return details
}

func (r *Reader) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	to := r.contract
	raw, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("call %s: empty result", method)
	}

	out, err := r.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}
