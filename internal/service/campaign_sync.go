package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/influnest/internal/domain"
	"golang.org/x/sync/errgroup"
)

type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncLoading SyncState = "loading"
	SyncReady   SyncState = "ready"
	SyncError   SyncState = "error"
)

// syncErrorMessage is shown to users when a pass fails as a whole.
const syncErrorMessage = "Failed to fetch campaigns"

// CampaignFetcher reads campaign details with per-item isolation: a nil result
// means the id could not be loaded.
type CampaignFetcher interface {
	FetchCampaign(ctx context.Context, id uint64) *domain.CampaignDetails
}

// SyncSignal describes what the synchronizer knows about its inputs. Count is
// nil while the campaign counter has not been loaded.
type SyncSignal struct {
	Connected bool
	Count     *uint64
	Manual    bool
}

// SyncSnapshot is a consistent view of the synchronizer.
type SyncSnapshot struct {
	State     SyncState
	Campaigns []domain.Campaign
	Error     string
	SyncedAt  time.Time
}

// CampaignSynchronizer keeps one list of campaign view models in step with the
// chain. Observers only ever see a complete list.
type CampaignSynchronizer struct {
	fetcher     CampaignFetcher
	concurrency int

	// pass serializes synchronization passes.
	pass sync.Mutex

	mu        sync.RWMutex
	state     SyncState
	campaigns []domain.Campaign
	errMsg    string
	syncedAt  time.Time
	synced    bool
	lastCount uint64
}

func NewCampaignSynchronizer(fetcher CampaignFetcher, concurrency int) *CampaignSynchronizer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &CampaignSynchronizer{
		fetcher:     fetcher,
		concurrency: concurrency,
		state:       SyncIdle,
	}
}

// Signal feeds new inputs to the synchronizer and runs a pass when needed:
// on the first known count, when the count changed, or on manual refresh.
// Losing the session clears the list. A missing count only keeps the
// synchronizer idle until the first pass; afterwards the last list stays.
// It reports whether a pass ran.
func (s *CampaignSynchronizer) Signal(ctx context.Context, sig SyncSignal) bool {
	s.pass.Lock()
	defer s.pass.Unlock()

	s.mu.Lock()
	if !sig.Connected {
		s.state = SyncIdle
		s.campaigns = nil
		s.errMsg = ""
		s.synced = false
		s.mu.Unlock()
		return false
	}
	if sig.Count == nil {
		if !s.synced {
			s.state = SyncIdle
		}
		s.mu.Unlock()
		return false
	}

	count := *sig.Count
	if s.synced && count == s.lastCount && !sig.Manual {
		s.mu.Unlock()
		return false
	}
	s.state = SyncLoading
	s.errMsg = ""
	s.mu.Unlock()

	campaigns, err := s.load(ctx, count)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.synced = true
	s.lastCount = count
	s.syncedAt = time.Now()
	if err != nil {
		slog.Error("synchronize campaigns", "error", err, "count", count)
		s.state = SyncError
		s.errMsg = syncErrorMessage
		s.campaigns = nil
		return true
	}

	s.state = SyncReady
	s.campaigns = campaigns
	return true
}

// Refresh forces a pass with the given count.
func (s *CampaignSynchronizer) Refresh(ctx context.Context, connected bool, count *uint64) bool {
	return s.Signal(ctx, SyncSignal{Connected: connected, Count: count, Manual: true})
}

func (s *CampaignSynchronizer) Snapshot() SyncSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SyncSnapshot{
		State:     s.state,
		Campaigns: s.campaigns,
		Error:     s.errMsg,
		SyncedAt:  s.syncedAt,
	}
}

// load fetches ids 0..count-1 concurrently and returns the surviving
// campaigns in ascending id order.
func (s *CampaignSynchronizer) load(ctx context.Context, count uint64) (campaigns []domain.Campaign, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during synchronization: %v", r)
		}
	}()

	if count > uint64(maxInt) {
		return nil, fmt.Errorf("campaign count %d too large", count)
	}

	details := make([]*domain.CampaignDetails, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := uint64(0); i < count; i++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("fetch campaign %d: panic: %v", i, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			details[i] = s.fetcher.FetchCampaign(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	campaigns = make([]domain.Campaign, 0, count)
	for id, d := range details {
		if d == nil {
			continue
		}
		campaigns = append(campaigns, ToCampaign(uint64(id), d))
	}
	return campaigns, nil
}

const maxInt = int(^uint(0) >> 1)
