package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/connect", bot.MatchTypePrefix, h.handleConnect)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/disconnect", bot.MatchTypePrefix, h.handleDisconnect)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleBalance)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/campaigns", bot.MatchTypePrefix, h.handleCampaigns)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/create", bot.MatchTypePrefix, h.handleCreate)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/transactions", bot.MatchTypePrefix, h.handleTransactions)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stat", bot.MatchTypePrefix, h.handleStat)

	// Campaign list callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, campaignsPagePrefix, bot.MatchTypePrefix, h.handleCampaignsCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, campaignsRefreshPrefix, bot.MatchTypePrefix, h.handleCampaignsCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.NoopData, bot.MatchTypeExact, h.handleNoop)

	// Signature prompt callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.ApprovePrefix, bot.MatchTypePrefix, h.handleSignature)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, telegram.RejectPrefix, bot.MatchTypePrefix, h.handleSignature)
}

// handleNoop is a no-op callback handler used for pagination indicators and other
// non-interactive inline buttons. It simply acknowledges the callback query.
func (h *Handler) handleNoop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
	}
}

// callbackMessage returns the chat and message a callback was pressed on.
func callbackMessage(update *models.Update) (chatID int64, messageID int, ok bool) {
	if update.CallbackQuery == nil || update.CallbackQuery.Message.Message == nil {
		return 0, 0, false
	}
	msg := update.CallbackQuery.Message.Message
	return msg.Chat.ID, msg.ID, true
}

func (h *Handler) answer(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	})
}

// commandArgs returns the whitespace-separated arguments after the command.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
