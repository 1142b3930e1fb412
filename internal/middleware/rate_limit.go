package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RateLimiter counts messages per chat in the current minute.
type RateLimiter interface {
	CheckAndIncrementRateLimit(ctx context.Context, chatID int64) (int32, error)
}

// RateLimit returns middleware that allows perMinute messages per chat.
// Callback queries pass untouched: they answer signature prompts and paging
// buttons of messages the bot already sent. A limiter failure lets the
// update through.
func RateLimit(limiter RateLimiter, perMinute int32) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}
			chatID := update.Message.Chat.ID

			count, err := limiter.CheckAndIncrementRateLimit(ctx, chatID)
			if err != nil {
				slog.Error("check rate limit", "error", err, "chat_id", chatID)
				next(ctx, b, update)
				return
			}
			if count <= perMinute {
				next(ctx, b, update)
				return
			}

			slog.Debug("rate limited", "chat_id", chatID, "count", count, "limit", perMinute)
			// Reply once per window; later messages in the same minute are dropped silently.
			if count == perMinute+1 {
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   fmt.Sprintf("⏳ Too many requests. Try again in %d seconds.", secondsToNextMinute(time.Now())),
				})
			}
		}
	}
}

func secondsToNextMinute(now time.Time) int {
	return 60 - now.Second()
}
