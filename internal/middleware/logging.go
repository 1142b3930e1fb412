package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/config"
)

// Logging returns middleware that logs every update with its command or
// callback data. Updates slower than config.SlowUpdateThreshold are logged
// at warn level; campaign sync runs inline and is the usual culprit.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()
			next(ctx, b, update)
			elapsed := time.Since(start)

			src := sourceOf(update)
			level := slog.LevelDebug
			if elapsed > config.SlowUpdateThreshold {
				level = slog.LevelWarn
			}
			slog.Log(ctx, level, "update processed",
				"type", src.kind,
				"data", updateData(update),
				"chat_id", src.chatID,
				"user_id", src.userID,
				"duration", elapsed,
			)
		}
	}
}

type updateSource struct {
	kind   string
	chatID int64
	userID int64
}

func sourceOf(update *models.Update) updateSource {
	switch {
	case update.Message != nil:
		src := updateSource{kind: "message", chatID: update.Message.Chat.ID}
		if update.Message.From != nil {
			src.userID = update.Message.From.ID
		}
		return src
	case update.CallbackQuery != nil:
		src := updateSource{kind: "callback_query", userID: update.CallbackQuery.From.ID}
		if update.CallbackQuery.Message.Message != nil {
			src.chatID = update.CallbackQuery.Message.Message.Chat.ID
		}
		return src
	default:
		return updateSource{kind: "unknown"}
	}
}

// updateData returns the command or callback data of an update, never free
// text: wallet addresses and amounts stay out of the logs.
func updateData(update *models.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return update.CallbackQuery.Data
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/"):
		cmd, _, _ := strings.Cut(update.Message.Text, " ")
		return cmd
	default:
		return ""
	}
}
