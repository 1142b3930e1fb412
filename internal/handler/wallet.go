package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/domain"
	"github.com/set-night/influnest/internal/middleware"
	"github.com/set-night/influnest/internal/telegram"
)

func (h *Handler) handleConnect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      "Usage: `/connect 0xYourAddress`",
			ParseMode: models.ParseModeMarkdownV1,
		})
		return
	}

	addr, err := h.walletService.Connect(ctx, user, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAddress) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ That is not a valid wallet address.",
			})
			return
		}
		slog.Error("connect wallet", "error", err, "telegram_id", user.TelegramID)
		h.tgLogger.LogError(err, "connect wallet")
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not connect the wallet. Please try again.",
		})
		return
	}

	// A new account starts with a fresh campaign list.
	h.registry.Forget(user.TelegramID)
	h.tgLogger.LogWalletConnected(user.TelegramID, addr.Hex())
	slog.Info("wallet connected", "telegram_id", user.TelegramID, "address", addr.Hex())

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf("✅ Wallet connected: `%s`\n\nUse /campaigns to browse campaigns.", addr.Hex()),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: telegram.ExplorerKeyboard("View on explorer", h.cfg.AddressURL(addr.Hex())),
	})
}

func (h *Handler) handleDisconnect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if !user.HasWallet() {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "No wallet is connected.",
		})
		return
	}

	if err := h.walletService.Disconnect(ctx, user); err != nil {
		slog.Error("disconnect wallet", "error", err, "telegram_id", user.TelegramID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not disconnect the wallet. Please try again.",
		})
		return
	}

	h.registry.Forget(user.TelegramID)
	h.tgLogger.LogWalletDisconnected(user.TelegramID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "👋 Wallet disconnected.",
	})
}

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if !user.HasWallet() {
		h.sendConnectPrompt(ctx, b, chatID)
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, config.CountTimeout)
	defer cancel()

	addr := user.Wallet()
	bal, err := h.walletService.Balance(readCtx, addr)
	if err != nil {
		slog.Error("read balance", "error", err, "address", addr.Hex())
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Could not read the balance. Please try again.",
		})
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        renderBalance(addr, bal, h.cfg),
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: telegram.ExplorerKeyboard("View on explorer", h.cfg.AddressURL(addr.Hex())),
	})
}

func (h *Handler) sendConnectPrompt(ctx context.Context, b *bot.Bot, chatID int64) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      connectPromptText,
		ParseMode: models.ParseModeMarkdownV1,
	})
}
