package config

import "time"

const (
	// Campaign list paging
	CampaignsPerPage = 5

	// Concurrent getCampaignDetails calls per synchronization pass
	MaxConcurrentReads = 16

	// Read path timeouts
	ReadTimeout  = 20 * time.Second
	CountTimeout = 10 * time.Second

	// Write path timeouts
	SignatureTimeout = 2 * time.Minute
	ConfirmTimeout   = 5 * time.Minute
	SubmitTimeout    = 8 * time.Minute

	// Receipt polling
	ReceiptPollInitial = 1 * time.Second
	ReceiptPollMax     = 10 * time.Second

	// History endpoint
	HistoryRequestTimeout = 15 * time.Second

	// How long a campaign counter read is reused while paging
	CountCacheTTL = 5 * time.Second

	// Updates taking longer than this are logged at warn level
	SlowUpdateThreshold = 5 * time.Second

	// Rate limits (per minute)
	RateLimitRegular = 20

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Ether has 18 decimals
	EtherDecimals = 18

	// Duration bounds for new campaigns, in days
	MinCampaignDays = 1
	MaxCampaignDays = 365
)

// CampaignFilters are the status filters offered by /campaigns, in display order.
var CampaignFilters = []string{"All", "Active", "Pending", "Completed", "Expired", "Cancelled"}
