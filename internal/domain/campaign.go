package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type CampaignStatus string

const (
	StatusPending   CampaignStatus = "PENDING"
	StatusActive    CampaignStatus = "ACTIVE"
	StatusCompleted CampaignStatus = "COMPLETED"
	StatusExpired   CampaignStatus = "EXPIRED"
	StatusCancelled CampaignStatus = "CANCELLED"
)

// CampaignDetails is the raw tuple returned by getCampaignDetails.
type CampaignDetails struct {
	Brand        common.Address
	Creator      common.Address
	TotalValue   *big.Int
	Deadline     *big.Int
	TargetLikes  *big.Int
	TargetViews  *big.Int
	CurrentLikes *big.Int
	CurrentViews *big.Int
	PaidAmount   *big.Int
	Status       uint8
}

// Campaign is the display snapshot of one on-chain campaign. A new value is
// built on every synchronization pass.
type Campaign struct {
	ID           uint64
	Title        string
	Brand        string
	Creator      string
	TotalValue   string
	PaidAmount   string
	Deadline     string
	EndDate      string
	TargetLikes  string
	TargetViews  string
	CurrentLikes string
	CurrentViews string
	Status       CampaignStatus
	Progress     int
}

// CreateCampaignRequest carries the raw user input for a new campaign.
type CreateCampaignRequest struct {
	TotalValue   string // ETH
	DurationDays string
	TargetLikes  string
	TargetViews  string
}
