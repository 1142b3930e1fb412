package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	influnest "github.com/set-night/influnest"
	"github.com/set-night/influnest/internal/chain"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/handler"
	"github.com/set-night/influnest/internal/middleware"
	"github.com/set-night/influnest/internal/repository"
	"github.com/set-night/influnest/internal/service"
	"github.com/set-night/influnest/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolSize{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(influnest.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	queries := repository.New(pool)

	// Connect to the chain
	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.ChainID)
	if err != nil {
		slog.Error("failed to connect to rpc", "error", err, "rpc_url", cfg.RPCURL)
		os.Exit(1)
	}
	defer client.Close()

	reader, err := chain.NewReader(client, cfg.CampaignManager())
	if err != nil {
		slog.Error("failed to create chain reader", "error", err)
		os.Exit(1)
	}

	// Initialize services
	userService := service.NewUserService(queries)
	walletService := service.NewWalletService(userService, client, cfg.ETHUSDRate)
	historyService := service.NewTransactionHistoryService(cfg.TransactionsAPIURL, config.HistoryRequestTimeout)

	newSync := func() *service.CampaignSynchronizer {
		return service.NewCampaignSynchronizer(reader, config.MaxConcurrentReads)
	}

	var signer chain.Signer
	var newWriter func() *service.CampaignWriter
	if cfg.WritesEnabled() {
		keySigner, err := chain.NewKeySigner(cfg.SignerPrivateKey)
		if err != nil {
			slog.Error("failed to load signer key", "error", err)
			os.Exit(1)
		}
		signer = keySigner

		transactor, err := chain.NewTransactor(client, cfg.CampaignManager(), cfg.ChainID,
			chain.WithReceiptPolling(config.ReceiptPollInitial, config.ReceiptPollMax),
			chain.WithConfirmTimeout(config.ConfirmTimeout),
		)
		if err != nil {
			slog.Error("failed to create transactor", "error", err)
			os.Exit(1)
		}

		var decoder service.CampaignIDDecoder
		if cfg.CampaignCreatedEventABI != "" {
			eventDecoder, err := chain.NewEventDecoder(cfg.CampaignManager(), cfg.CampaignCreatedEventABI, cfg.CampaignIDField)
			if err != nil {
				slog.Error("failed to parse campaign event abi", "error", err)
				os.Exit(1)
			}
			decoder = eventDecoder
		} else {
			slog.Warn("CAMPAIGN_CREATED_EVENT_ABI not set, created campaign ids will be reported as unknown")
		}

		newWriter = func() *service.CampaignWriter {
			return service.NewCampaignWriter(transactor, decoder)
		}
		slog.Info("campaign creation enabled", "signer", keySigner.Address().Hex())
	} else {
		slog.Warn("SIGNER_PRIVATE_KEY not set, campaign creation disabled")
	}

	registry := service.NewSessionRegistry(newSync, newWriter)
	counter := service.NewCountCache(reader, config.CountCacheTTL)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func(b *bot.Bot, update *models.Update, recovered any) {
				telegram.NewTelegramLogger(b, cfg).LogError(fmt.Errorf("panic: %v", recovered), fmt.Sprintf("update %d", update.ID))
			}),
			middleware.Logging(),
			middleware.RateLimit(queries, config.RateLimitRegular),
			middleware.UserLoader(userService, cfg),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	tgLogger := telegram.NewTelegramLogger(b, cfg)
	broker := telegram.NewApprovalBroker(b, config.SignatureTimeout)

	h := handler.New(handler.Deps{
		Bot:            b,
		Cfg:            cfg,
		UserService:    userService,
		WalletService:  walletService,
		HistoryService: historyService,
		Counter:        counter,
		Registry:       registry,
		Broker:         broker,
		Signer:         signer,
		Queries:        queries,
		TgLogger:       tgLogger,
		BotUsername:    me.Username,
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "network", cfg.NetworkName, "chain_id", cfg.ChainID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
