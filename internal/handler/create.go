package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/chain"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/domain"
	"github.com/set-night/influnest/internal/middleware"
	"github.com/set-night/influnest/internal/service"
	"github.com/set-night/influnest/internal/telegram"
)

const createUsage = "Usage: `/create <ETH> <days> <likes> <views>`\n\n" +
	"Example: `/create 0.5 30 1000 10000`"

func (h *Handler) handleCreate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID

	writer := h.registry.Writer(user.TelegramID)
	if writer == nil || h.signer == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Campaign creation is disabled on this bot.",
		})
		return
	}

	if reason, ok := createAllowed(user, h.signer.Address()); !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      reason,
			ParseMode: models.ParseModeMarkdownV1,
		})
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 4 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      createUsage,
			ParseMode: models.ParseModeMarkdownV1,
		})
		return
	}

	if _, busy := h.creating.LoadOrStore(user.TelegramID, struct{}{}); busy || writer.State().Busy() {
		if !busy {
			h.creating.Delete(user.TelegramID)
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⏳ A campaign transaction is already in progress.",
		})
		return
	}

	req := domain.CreateCampaignRequest{
		TotalValue:   args[0],
		DurationDays: args[1],
		TargetLikes:  args[2],
		TargetViews:  args[3],
	}

	status, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "⏳ Validating campaign...",
	})
	if err != nil {
		h.creating.Delete(user.TelegramID)
		slog.Error("send create status", "error", err)
		return
	}

	writer.Observe(nil)
	writer.Reset()
	writer.Observe(func(res service.CreateResult) {
		text, kb := renderWriterStatus(res, h.cfg)
		if err := telegram.EditMessage(context.Background(), b, chatID, status.ID, text, kb); err != nil {
			slog.Debug("edit create status", "error", err, "state", res.State)
		}
		if res.State == service.WriterConfirming {
			h.tgLogger.LogCampaignSubmitted(user.TelegramID, user.Wallet().Hex(), req.TotalValue, h.cfg.TxURL(res.TxHash.Hex()))
		}
	})

	approve := h.broker.Approver(chatID, user.TelegramID, func(tx *types.Transaction) string {
		return describeCreateTx(tx, req, h.cfg)
	})
	signer := chain.NewApprovalSigner(h.signer, approve)

	// The write outlives this update so signature callbacks can be handled.
	go func() {
		defer h.creating.Delete(user.TelegramID)

		writeCtx, cancel := context.WithTimeout(context.Background(), config.SubmitTimeout)
		defer cancel()

		res, err := writer.Create(writeCtx, signer, user.Wallet(), req)
		switch res.State {
		case service.WriterSettled:
			campaignID := "unknown"
			if res.CampaignID != nil {
				campaignID = res.CampaignID.String()
			}
			slog.Info("campaign created", "telegram_id", user.TelegramID, "tx", res.TxHash.Hex(), "campaign_id", campaignID)
			h.tgLogger.LogCampaignSettled(user.TelegramID, campaignID, h.cfg.TxURL(res.TxHash.Hex()))

			// The counter moved; the next list render picks up the new campaign.
			h.counter.Invalidate()
			h.syncCampaigns(writeCtx, user, false)
		case service.WriterCancelled:
			slog.Info("campaign creation cancelled", "telegram_id", user.TelegramID)
		case service.WriterFailed:
			if isValidationError(err) {
				return
			}
			slog.Error("create campaign", "error", err, "telegram_id", user.TelegramID, "tx", res.TxHash.Hex())
			h.tgLogger.LogError(err, "create campaign")
		}
	}()
}

func (h *Handler) handleSignature(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := callbackMessage(update)
	if !ok {
		h.handleNoop(ctx, b, update)
		return
	}

	id, approved, ok := telegram.ParseApprovalData(update.CallbackQuery.Data)
	if !ok {
		h.answer(ctx, b, update, "This request is no longer active.")
		return
	}

	err := h.broker.Resolve(id, update.CallbackQuery.From.ID, approved)
	if errors.Is(err, telegram.ErrNotRequester) {
		h.answer(ctx, b, update, "Only the user who started this transaction can answer it.")
		return
	}
	if err != nil {
		h.answer(ctx, b, update, "This request is no longer active.")
		telegram.EditMessage(ctx, b, chatID, messageID, "⌛ Signature request is no longer active.", nil)
		return
	}

	if approved {
		h.answer(ctx, b, update, "Signed")
		telegram.EditMessage(ctx, b, chatID, messageID, "✍️ Signed.", nil)
		return
	}
	h.answer(ctx, b, update, "Rejected")
	telegram.EditMessage(ctx, b, chatID, messageID, "✖️ Rejected.", nil)
}

// createAllowed gates /create. The bot signs with the operator key, which
// pays the campaign value, so only admins whose linked wallet is that key's
// account may create campaigns.
func createAllowed(user *domain.User, signer common.Address) (string, bool) {
	switch {
	case !user.IsAdmin:
		return "Campaign creation is limited to bot operators.", false
	case !user.HasWallet():
		return "Wallet not connected. Use /connect first.", false
	case user.Wallet() != signer:
		return fmt.Sprintf("Connect the signing wallet `%s` to create campaigns.", signer.Hex()), false
	default:
		return "", true
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrWalletNotConnected) ||
		errors.Is(err, domain.ErrSignerMismatch) ||
		errors.Is(err, domain.ErrInvalidTotalValue) ||
		errors.Is(err, domain.ErrInvalidDuration) ||
		errors.Is(err, domain.ErrInvalidTargetLikes) ||
		errors.Is(err, domain.ErrInvalidTargetViews)
}
