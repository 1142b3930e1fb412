package domain

import "errors"

var (
	ErrWalletNotConnected   = errors.New("wallet not connected")
	ErrInvalidAddress       = errors.New("invalid wallet address")
	ErrInvalidTotalValue    = errors.New("invalid total value")
	ErrInvalidDuration      = errors.New("invalid duration (must be between 1 and 365 days)")
	ErrInvalidTargetLikes   = errors.New("invalid target likes")
	ErrInvalidTargetViews   = errors.New("invalid target views")
	ErrTransactionCancelled = errors.New("transaction was cancelled by user")
	ErrTransactionReverted  = errors.New("transaction reverted")
	ErrSignerMismatch       = errors.New("connected wallet is not the signing account")
)
