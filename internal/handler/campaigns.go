package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/domain"
	"github.com/set-night/influnest/internal/middleware"
	"github.com/set-night/influnest/internal/service"
	"github.com/set-night/influnest/internal/telegram"
)

func (h *Handler) handleCampaigns(ctx context.Context, b *bot.Bot, update *models.Update) {
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

	filter := service.FilterAll
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		filter = normalizeFilter(args[0])
	}

	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "⏳ Loading campaigns...",
	})
	if err != nil {
		slog.Error("send loading message", "error", err)
		return
	}

	snap := h.syncCampaigns(ctx, user, false)
	text, kb := renderCampaignPage(snap, filter, 0)
	if err := telegram.EditMessage(ctx, b, chatID, msg.ID, text, kb); err != nil {
		slog.Error("render campaigns", "error", err)
	}
}

// handleCampaignsCallback serves the filter, paging, refresh and try-again
// buttons of the campaign list.
func (h *Handler) handleCampaignsCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	chatID, messageID, ok := callbackMessage(update)
	if user == nil || !ok {
		h.handleNoop(ctx, b, update)
		return
	}

	filter, page, refresh, ok := parseCampaignsData(update.CallbackQuery.Data)
	if !ok {
		h.handleNoop(ctx, b, update)
		return
	}

	if !user.HasWallet() {
		h.answer(ctx, b, update, "Wallet not connected")
		telegram.EditMessage(ctx, b, chatID, messageID, connectPromptText, nil)
		return
	}

	if refresh {
		h.answer(ctx, b, update, "Refreshing...")
		telegram.EditMessage(ctx, b, chatID, messageID, "⏳ Loading campaigns...", nil)
	} else {
		h.handleNoop(ctx, b, update)
	}

	snap := h.syncCampaigns(ctx, user, refresh)
	text, kb := renderCampaignPage(snap, filter, page)
	if err := telegram.EditMessage(ctx, b, chatID, messageID, text, kb); err != nil {
		slog.Debug("edit campaigns message", "error", err)
	}
}

// syncCampaigns reads the campaign counter and signals the user's
// synchronizer with it. A failed counter read leaves the count unknown.
func (h *Handler) syncCampaigns(ctx context.Context, user *domain.User, manual bool) service.SyncSnapshot {
	synchronizer := h.registry.Synchronizer(user.TelegramID)

	var count *uint64
	countCtx, cancel := context.WithTimeout(ctx, config.CountTimeout)
	read := h.counter.CampaignCount
	if manual {
		read = h.counter.Fresh
	}
	n, err := read(countCtx)
	cancel()
	if err != nil {
		slog.Warn("read campaign count", "error", err, "telegram_id", user.TelegramID)
	} else {
		count = &n
	}

	readCtx, cancel := context.WithTimeout(ctx, config.ReadTimeout)
	defer cancel()

	synchronizer.Signal(readCtx, service.SyncSignal{
		Connected: user.HasWallet(),
		Count:     count,
		Manual:    manual,
	})
	return synchronizer.Snapshot()
}
