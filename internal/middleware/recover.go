package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// PanicHook is told about every recovered panic, e.g. to mirror it to the
// operator log chat. It runs after the user has been notified.
type PanicHook func(b *bot.Bot, update *models.Update, recovered any)

// Recover returns middleware that turns a handler panic into a logged error
// and a short apology in the chat. hook may be nil.
func Recover(hook PanicHook) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				src := sourceOf(update)
				slog.Error("handler panicked",
					"panic", r,
					"update_id", update.ID,
					"type", src.kind,
					"data", updateData(update),
					"chat_id", src.chatID,
					"stack", string(debug.Stack()),
				)
				if b != nil && src.chatID != 0 {
					b.SendMessage(ctx, &bot.SendMessageParams{
						ChatID: src.chatID,
						Text:   "❌ Something went wrong. Please try again.",
					})
				}
				if hook != nil {
					hook(b, update, r)
				}
			}()
			next(ctx, b, update)
		}
	}
}
