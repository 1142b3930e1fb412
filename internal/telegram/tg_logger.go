package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/influnest/internal/config"
)

// TelegramLogger mirrors operator-relevant events into topics of a log chat.
type TelegramLogger struct {
	sender Sender
	cfg    *config.Config
}

func NewTelegramLogger(sender Sender, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{sender: sender, cfg: cfg}
}

type LogType string

const (
	LogTypeError    LogType = "error"
	LogTypeCampaign LogType = "campaign"
	LogTypeWallet   LogType = "wallet"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		EscapeMarkdown(context), err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogWalletConnected(telegramID int64, address string) {
	msg := fmt.Sprintf("👛 *Wallet Connected*\n\n*User:* `%d`\n*Address:* `%s`", telegramID, address)
	l.Log(LogTypeWallet, msg)
}

func (l *TelegramLogger) LogWalletDisconnected(telegramID int64) {
	msg := fmt.Sprintf("👛 *Wallet Disconnected*\n\n*User:* `%d`", telegramID)
	l.Log(LogTypeWallet, msg)
}

func (l *TelegramLogger) LogCampaignSubmitted(telegramID int64, creator, value, txURL string) {
	msg := fmt.Sprintf("📣 *Campaign Submitted*\n\n*User:* `%d`\n*Creator:* `%s`\n*Value:* %s ETH\n*Tx:* %s",
		telegramID, creator, value, txURL)
	l.Log(LogTypeCampaign, msg)
}

func (l *TelegramLogger) LogCampaignSettled(telegramID int64, campaignID string, txURL string) {
	msg := fmt.Sprintf("✅ *Campaign Confirmed*\n\n*User:* `%d`\n*Campaign:* %s\n*Tx:* %s",
		telegramID, campaignID, txURL)
	l.Log(LogTypeCampaign, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeCampaign:
		return l.cfg.LogTopicCampaign
	case LogTypeWallet:
		return l.cfg.LogTopicWallet
	default:
		return 0
	}
}
