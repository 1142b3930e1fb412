package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/domain"
	"github.com/set-night/influnest/internal/service"
)

type ctxKey string

const UserKey ctxKey = "user"

// GetUser extracts user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// WithUser stores user in ctx.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserLoader returns middleware that loads the sender and their wallet
// session into context.
func UserLoader(userService *service.UserService, cfg interface{ IsAdmin(int64) bool }) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User

			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from == nil {
				next(ctx, b, update)
				return
			}

			user, created, err := userService.FindOrCreate(ctx, from.ID, from.FirstName, from.Username, cfg.IsAdmin(from.ID))
			if err != nil {
				slog.Error("load user", "error", err, "telegram_id", from.ID)
			} else if user != nil {
				user.IsAdmin = user.IsAdmin || cfg.IsAdmin(from.ID)
				if created {
					slog.Info("new user", "telegram_id", from.ID, "username", from.Username)
				}
				ctx = WithUser(ctx, user)
			}

			next(ctx, b, update)
		}
	}
}
