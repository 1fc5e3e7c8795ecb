package fatigue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"adFatigue/domain"
)

var errRepoDown = errors.New("repository unavailable")

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []domain.MetricSnapshot
	err       error
}

func (r *fakeSnapshotRepo) FindByAd(_ context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.MetricSnapshot
	for _, s := range r.snapshots {
		if s.AdID == adID && !s.DateStart.Before(from) && !s.DateStart.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSnapshotRepo) FirstDelivery(_ context.Context, adID string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return time.Time{}, r.err
	}
	var first time.Time
	for _, s := range r.snapshots {
		if s.AdID == adID && (first.IsZero() || s.DateStart.Before(first)) {
			first = s.DateStart
		}
	}
	return first, nil
}

func (r *fakeSnapshotRepo) ListActiveAds(_ context.Context, since time.Time) ([]domain.AdRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	seen := map[string]bool{}
	var out []domain.AdRef
	for _, s := range r.snapshots {
		if s.DateStart.Before(since) || seen[s.AdID] {
			continue
		}
		seen[s.AdID] = true
		out = append(out, domain.AdRef{AccountID: s.AccountID, AdID: s.AdID})
	}
	return out, nil
}

type fakeReportRepo struct {
	mu      sync.Mutex
	reports []domain.FatigueReport
	err     error
}

func (r *fakeReportRepo) SaveReport(_ context.Context, report *domain.FatigueReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	report.ID = uint64(len(r.reports) + 1)
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeReportRepo) ListReports(_ context.Context, adID string, limit int) ([]domain.FatigueReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.FatigueReport
	for _, rep := range r.reports {
		if rep.AdID == adID {
			out = append(out, rep)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeReportRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[string]domain.FatigueConfig
	err     error
	gets    int
}

func (r *fakeConfigRepo) GetConfig(_ context.Context, accountID string) (domain.FatigueConfig, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.err != nil {
		return domain.FatigueConfig{}, false, r.err
	}
	cfg, ok := r.configs[accountID]
	return cfg, ok, nil
}

func (r *fakeConfigRepo) UpsertConfig(_ context.Context, cfg domain.FatigueConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.configs == nil {
		r.configs = map[string]domain.FatigueConfig{}
	}
	r.configs[cfg.AccountID] = cfg
	return nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]interface{}{}}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, _ int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return true
}

func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}
