package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/influnest/internal/config"
)

// Sender is the part of *bot.Bot used to send and edit messages.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// SendLongMessage sends a potentially long message, splitting it into parts if needed.
// Falls back to plain text if Markdown parsing fails.
func SendLongMessage(ctx context.Context, b Sender, chatID int64, text string, markup *models.InlineKeyboardMarkup) (*models.Message, error) {
	parts := SplitMessage(text, config.MaxTelegramMessageLen)

	var last *models.Message
	for i, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: models.ParseModeMarkdownV1,
		}
		if i == len(parts)-1 && markup != nil {
			params.ReplyMarkup = markup
		}

		msg, err := b.SendMessage(ctx, params)
		if err != nil {
			slog.Warn("markdown send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			msg, err = b.SendMessage(ctx, params)
			if err != nil {
				return nil, fmt.Errorf("send message: %w", err)
			}
		}
		last = msg
	}

	return last, nil
}

// EditMessage replaces the text and keyboard of a message, falling back to
// plain text if Markdown parsing fails.
func EditMessage(ctx context.Context, b Sender, chatID int64, messageID int, text string, markup *models.InlineKeyboardMarkup) error {
	if len([]rune(text)) > config.MaxTelegramMessageLen {
		text = string([]rune(text)[:config.MaxTelegramMessageLen-3]) + "..."
	}

	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	_, err := b.EditMessageText(ctx, params)
	if err != nil {
		params.ParseMode = ""
		_, err = b.EditMessageText(ctx, params)
	}
	return err
}
