package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/middleware"
	"github.com/set-night/influnest/internal/telegram"
)

func (h *Handler) handleTransactions(ctx context.Context, b *bot.Bot, update *models.Update) {
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

	history := h.historyService.History(ctx, user.Wallet().Hex())
	telegram.SendLongMessage(ctx, b, chatID, renderHistory(history), nil)
}
