package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/set-night/influnest/internal/domain"
	"github.com/shopspring/decimal"
)

// BalanceReader reads native balances. *ethclient.Client satisfies it.
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// WalletStore persists the wallet session of a user.
type WalletStore interface {
	SetWalletAddress(ctx context.Context, userID int64, address *string) error
}

// Balance is a wallet balance ready for display.
type Balance struct {
	Wei       *big.Int
	Ether     decimal.Decimal
	Formatted string
	USD       decimal.Decimal
}

type WalletService struct {
	store   WalletStore
	reader  BalanceReader
	usdRate float64
}

func NewWalletService(store WalletStore, reader BalanceReader, usdRate float64) *WalletService {
	return &WalletService{store: store, reader: reader, usdRate: usdRate}
}

// ParseAddress validates a 20-byte hex address and returns it checksummed.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Address{}, domain.ErrInvalidAddress
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, domain.ErrInvalidAddress
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, domain.ErrInvalidAddress
	}
	return addr, nil
}

// Connect links address to the user, establishing a wallet session.
func (s *WalletService) Connect(ctx context.Context, user *domain.User, address string) (common.Address, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return common.Address{}, err
	}

	hex := addr.Hex()
	if err := s.store.SetWalletAddress(ctx, user.ID, &hex); err != nil {
		return common.Address{}, fmt.Errorf("connect wallet: %w", err)
	}
	user.WalletAddress = &hex
	return addr, nil
}

// Disconnect ends the wallet session of the user.
func (s *WalletService) Disconnect(ctx context.Context, user *domain.User) error {
	if err := s.store.SetWalletAddress(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("disconnect wallet: %w", err)
	}
	user.WalletAddress = nil
	user.WalletConnectedAt = nil
	return nil
}

// Balance reads the latest native balance of address.
func (s *WalletService) Balance(ctx context.Context, address common.Address) (*Balance, error) {
	wei, err := s.reader.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	ether := WeiToEther(wei)
	return &Balance{
		Wei:       wei,
		Ether:     ether,
		Formatted: FormatBalance(wei),
		USD:       EstimateUSD(ether, s.usdRate),
	}, nil
}
