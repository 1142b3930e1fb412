package service

import (
	"sync"
)

// SessionRegistry hands out one synchronizer and one writer per Telegram
// user, created on first use.
type SessionRegistry struct {
	newSync   func() *CampaignSynchronizer
	newWriter func() *CampaignWriter

	mu      sync.Mutex
	syncs   map[int64]*CampaignSynchronizer
	writers map[int64]*CampaignWriter
}

func NewSessionRegistry(newSync func() *CampaignSynchronizer, newWriter func() *CampaignWriter) *SessionRegistry {
	return &SessionRegistry{
		newSync:   newSync,
		newWriter: newWriter,
		syncs:     make(map[int64]*CampaignSynchronizer),
		writers:   make(map[int64]*CampaignWriter),
	}
}

func (r *SessionRegistry) Synchronizer(telegramID int64) *CampaignSynchronizer {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.syncs[telegramID]
	if !ok {
		s = r.newSync()
		r.syncs[telegramID] = s
	}
	return s
}

// Writer returns the user's writer, or nil when writes are disabled.
func (r *SessionRegistry) Writer(telegramID int64) *CampaignWriter {
	if r.newWriter == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.writers[telegramID]
	if !ok {
		w = r.newWriter()
		r.writers[telegramID] = w
	}
	return w
}

// Forget drops the user's synchronizer, discarding its list. Used when the
// wallet session ends.
func (r *SessionRegistry) Forget(telegramID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.syncs, telegramID)
}
