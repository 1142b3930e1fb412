package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Network
	RPCURL      string `env:"RPC_URL" envDefault:"https://sepolia.base.org"`
	ChainID     int64  `env:"CHAIN_ID" envDefault:"84532"`
	NetworkName string `env:"NETWORK_NAME" envDefault:"Base Sepolia"`
	ExplorerURL string `env:"EXPLORER_URL" envDefault:"https://sepolia.basescan.org"`

	// Contracts
	CampaignManagerAddress string `env:"CAMPAIGN_MANAGER_ADDRESS" envDefault:"0xE7c3e1C1F678cDfE8651556F28c396A38CC88E8D"`

	// Signer: operator hot wallet funding campaigns. Empty disables /create.
	SignerPrivateKey string `env:"SIGNER_PRIVATE_KEY"`

	// Campaign-created event, as a JSON ABI fragment. Empty leaves campaign ids unresolved.
	CampaignCreatedEventABI string `env:"CAMPAIGN_CREATED_EVENT_ABI"`
	CampaignIDField         string `env:"CAMPAIGN_ID_FIELD" envDefault:"campaignId"`

	// Transaction history API
	TransactionsAPIURL string `env:"TRANSACTIONS_API_URL" envDefault:"http://localhost:3000"`

	// Balance card
	ETHUSDRate float64 `env:"ETH_USD_RATE" envDefault:"2500"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicCampaign  int   `env:"LOG_TOPIC_CAMPAIGN"`
	LogTopicWallet    int   `env:"LOG_TOPIC_WALLET"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.ChainID <= 0 {
		return errors.New("CHAIN_ID must be positive")
	}
	if !common.IsHexAddress(c.CampaignManagerAddress) {
		return fmt.Errorf("CAMPAIGN_MANAGER_ADDRESS %q is not a hex address", c.CampaignManagerAddress)
	}
	if c.ETHUSDRate < 0 {
		return errors.New("ETH_USD_RATE must not be negative")
	}
	c.ExplorerURL = strings.TrimRight(c.ExplorerURL, "/")
	c.TransactionsAPIURL = strings.TrimRight(c.TransactionsAPIURL, "/")
	return nil
}

func (c *Config) CampaignManager() common.Address {
	return common.HexToAddress(c.CampaignManagerAddress)
}

// WritesEnabled reports whether a signer key is configured.
func (c *Config) WritesEnabled() bool {
	return c.SignerPrivateKey != ""
}

func (c *Config) TxURL(hash string) string {
	return c.ExplorerURL + "/tx/" + hash
}

func (c *Config) AddressURL(address string) string {
	return c.ExplorerURL + "/address/" + address
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
