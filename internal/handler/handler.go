package handler

import (
	"sync"

	"github.com/go-telegram/bot"
	"github.com/set-night/influnest/internal/chain"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/repository"
	"github.com/set-night/influnest/internal/service"
	"github.com/set-night/influnest/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot            *bot.Bot
	cfg            *config.Config
	userService    *service.UserService
	walletService  *service.WalletService
	historyService *service.TransactionHistoryService
	counter        *service.CountCache
	registry       *service.SessionRegistry
	broker         *telegram.ApprovalBroker
	signer         chain.Signer
	queries        *repository.Queries
	tgLogger       *telegram.TelegramLogger
	botUsername    string

	// creating holds the Telegram ids with a create call in flight.
	creating sync.Map
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot            *bot.Bot
	Cfg            *config.Config
	UserService    *service.UserService
	WalletService  *service.WalletService
	HistoryService *service.TransactionHistoryService
	Counter        *service.CountCache
	Registry       *service.SessionRegistry
	Broker         *telegram.ApprovalBroker
	// Signer is nil when campaign creation is disabled.
	Signer      chain.Signer
	Queries     *repository.Queries
	TgLogger    *telegram.TelegramLogger
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:            deps.Bot,
		cfg:            deps.Cfg,
		userService:    deps.UserService,
		walletService:  deps.WalletService,
		historyService: deps.HistoryService,
		counter:        deps.Counter,
		registry:       deps.Registry,
		broker:         deps.Broker,
		signer:         deps.Signer,
		queries:        deps.Queries,
		tgLogger:       deps.TgLogger,
		botUsername:    deps.BotUsername,
	}
}
