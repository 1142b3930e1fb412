package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/set-night/influnest/internal/config"
	"github.com/set-night/influnest/internal/middleware"
)

func (h *Handler) handleStat(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil || !user.IsAdmin {
		return
	}

	chatID := update.Message.Chat.ID

	totalUsers, _ := h.queries.CountTotalUsers(ctx)
	wallets, _ := h.userService.CountConnectedWallets(ctx)

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -int(now.Weekday()))

	todayUsers, _ := h.queries.CountUsersCreatedAfter(ctx, pgtype.Timestamptz{Time: todayStart, Valid: true})
	weekUsers, _ := h.queries.CountUsersCreatedAfter(ctx, pgtype.Timestamptz{Time: weekStart, Valid: true})

	campaigns := "unavailable"
	countCtx, cancel := context.WithTimeout(ctx, config.CountTimeout)
	defer cancel()
	if n, err := h.counter.CampaignCount(countCtx); err != nil {
		slog.Warn("read campaign count for stats", "error", err)
	} else {
		campaigns = fmt.Sprintf("%d", n)
	}

	writes := "disabled"
	if h.signer != nil {
		writes = fmt.Sprintf("enabled (`%s`)", h.signer.Address().Hex())
	}

	text := fmt.Sprintf(
		"📊 *Stats*\n\n"+
			"👥 *Users:*\n"+
			"Total: %d\n"+
			"Today: %d\n"+
			"This week: %d\n"+
			"Wallets connected: %d\n\n"+
			"⛓ *Chain:*\n"+
			"Network: %s (%d)\n"+
			"Campaigns: %s\n"+
			"Writes: %s\n"+
			"Pending signatures: %d",
		totalUsers,
		todayUsers,
		weekUsers,
		wallets,
		h.cfg.NetworkName,
		h.cfg.ChainID,
		campaigns,
		writes,
		h.broker.Pending(),
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	})
}
