package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var testContract = common.HexToAddress("0xE7c3e1C1F678cDfE8651556F28c396A38CC88E8D")

// fakeChain answers CampaignManager calls from memory, encoding results
// with the real contract ABI.
type fakeChain struct {
	abi abi.ABI

	mu        sync.Mutex
	count     *big.Int
	campaigns map[uint64][]any
	failing   map[uint64]error
	callErr   error
	empty     bool
	calls     []ethereum.CallMsg

	nonce       uint64
	gasPrice    *big.Int
	gasLimit    uint64
	estimateErr error
	sent        []*types.Transaction
	receipts    []receiptResult
	receiptHits int
	balance     *big.Int
}

type receiptResult struct {
	receipt *types.Receipt
	err     error
}

func newFakeChain() *fakeChain {
	parsed, err := ParseCampaignManagerABI()
	if err != nil {
		panic(err)
	}
	return &fakeChain{
		abi:       parsed,
		count:     big.NewInt(0),
		campaigns: make(map[uint64][]any),
		failing:   make(map[uint64]error),
		gasPrice:  big.NewInt(1_000_000_000),
		gasLimit:  210_000,
	}
}

func (f *fakeChain) addCampaign(id uint64, brand, creator common.Address, status uint8) {
	f.campaigns[id] = []any{
		brand,
		creator,
		big.NewInt(2_000_000_000_000_000_000),
		big.NewInt(1_700_000_000),
		big.NewInt(100),
		big.NewInt(1000),
		big.NewInt(40),
		big.NewInt(100),
		big.NewInt(500_000_000_000_000_000),
		status,
	}
}

func (f *fakeChain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	if f.callErr != nil {
		return nil, f.callErr
	}
	if f.empty {
		return nil, nil
	}

	method, err := f.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case methodCampaignCounter:
		return method.Outputs.Pack(f.count)
	case methodGetCampaignDetails:
		args, err := method.Inputs.Unpack(call.Data[4:])
		if err != nil {
			return nil, err
		}
		id := args[0].(*big.Int).Uint64()
		if err, ok := f.failing[id]; ok {
			return nil, err
		}
		out, ok := f.campaigns[id]
		if !ok {
			return nil, errors.New("execution reverted")
		}
		return method.Outputs.Pack(out...)
	default:
		return nil, fmt.Errorf("unexpected call to %s", method.Name)
	}
}

func (f *fakeChain) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeChain) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeChain) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.gasLimit, f.estimateErr
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

// TransactionReceipt replays receipts in order, repeating the last one.
func (f *fakeChain) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.receipts) == 0 {
		return nil, ethereum.NotFound
	}
	i := min(f.receiptHits, len(f.receipts)-1)
	f.receiptHits++
	return f.receipts[i].receipt, f.receipts[i].err
}
