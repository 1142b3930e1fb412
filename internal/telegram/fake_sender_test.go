package telegram

import (
	"context"
	"errors"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []*bot.SendMessageParams
	edits   []*bot.EditMessageTextParams
	failFor map[models.ParseMode]bool
	nextID  int
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[params.ParseMode] {
		return nil, errors.New("can't parse entities")
	}
	copied := *params
	f.sent = append(f.sent, &copied)
	f.nextID++
	return &models.Message{ID: f.nextID}, nil
}

func (f *fakeSender) EditMessageText(_ context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[params.ParseMode] {
		return nil, errors.New("can't parse entities")
	}
	copied := *params
	f.edits = append(f.edits, &copied)
	return &models.Message{ID: params.MessageID}, nil
}

func (f *fakeSender) sentMessages() []*bot.SendMessageParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*bot.SendMessageParams(nil), f.sent...)
}

func (f *fakeSender) editedMessages() []*bot.EditMessageTextParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*bot.EditMessageTextParams(nil), f.edits...)
}
