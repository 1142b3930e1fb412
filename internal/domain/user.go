package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type User struct {
	ID                int64
	TelegramID        int64
	IsAdmin           bool
	FirstName         string
	Username          string
	WalletAddress     *string
	WalletConnectedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasWallet reports whether the user has a wallet session.
func (u *User) HasWallet() bool {
	return u != nil && u.WalletAddress != nil && *u.WalletAddress != ""
}

// Wallet returns the linked address, or the zero address without a session.
func (u *User) Wallet() common.Address {
	if !u.HasWallet() {
		return common.Address{}
	}
	return common.HexToAddress(*u.WalletAddress)
}
