package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"adFatigue/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stored []domain.MetricSnapshot
	err    error
}

func (r *fakeRepo) UpsertBatch(_ context.Context, snapshots []domain.MetricSnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.stored = append(r.stored, snapshots...)
	return nil
}

func (r *fakeRepo) FindByAd(_ context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.MetricSnapshot
	for _, s := range r.stored {
		if s.AdID == adID && !s.DateStart.Before(from) && !s.DateStart.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func validSnapshot() domain.MetricSnapshot {
	return domain.MetricSnapshot{
		AccountID:      "acc-1",
		AdID:           "ad-1",
		CreativeFormat: domain.FormatReels,
		DateStart:      time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC),
		Impressions:    3000,
		Reach:          1200,
		Clicks:         45,
		Spend:          decimal.RequireFromString("31.20"),
	}
}

func TestIngest_Normalizes(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewSnapshotService(repo)

	n, err := svc.Ingest(context.Background(), []domain.MetricSnapshot{validSnapshot()})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, repo.stored, 1)

	got := repo.stored[0]
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, day, got.DateStart)
	assert.Equal(t, day, got.DateEnd)
	assert.Equal(t, 2.5, got.Frequency)
}

func TestIngest_KeepsReportedFrequency(t *testing.T) {
	repo := &fakeRepo{}
	snap := validSnapshot()
	snap.Frequency = 1.8

	_, err := NewSnapshotService(repo).Ingest(context.Background(), []domain.MetricSnapshot{snap})
	require.NoError(t, err)
	assert.Equal(t, 1.8, repo.stored[0].Frequency)
}

func TestIngest_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.MetricSnapshot)
	}{
		{"missing account", func(s *domain.MetricSnapshot) { s.AccountID = "" }},
		{"missing ad", func(s *domain.MetricSnapshot) { s.AdID = "" }},
		{"unknown format", func(s *domain.MetricSnapshot) { s.CreativeFormat = "banner" }},
		{"missing start", func(s *domain.MetricSnapshot) { s.DateStart = time.Time{} }},
		{"end before start", func(s *domain.MetricSnapshot) { s.DateEnd = s.DateStart.AddDate(0, 0, -1) }},
		{"negative counter", func(s *domain.MetricSnapshot) { s.Saves = -1 }},
		{"negative frequency", func(s *domain.MetricSnapshot) { s.Frequency = -2 }},
		{"negative spend", func(s *domain.MetricSnapshot) { s.Spend = decimal.NewFromInt(-5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			snap := validSnapshot()
			tt.mutate(&snap)

			_, err := NewSnapshotService(repo).Ingest(context.Background(), []domain.MetricSnapshot{validSnapshot(), snap})
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
			assert.Empty(t, repo.stored)
		})
	}
}

func TestIngest_BatchLimits(t *testing.T) {
	svc := NewSnapshotService(&fakeRepo{})

	_, err := svc.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	big := make([]domain.MetricSnapshot, maxBatchSize+1)
	for i := range big {
		big[i] = validSnapshot()
	}
	_, err = svc.Ingest(context.Background(), big)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestIngest_RepoError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewSnapshotService(&fakeRepo{err: boom}).Ingest(context.Background(), []domain.MetricSnapshot{validSnapshot()})
	assert.ErrorIs(t, err, boom)
}

func TestListByAd(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewSnapshotService(repo)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []domain.MetricSnapshot{validSnapshot()})
	require.NoError(t, err)

	got, err := svc.ListByAd(ctx, "ad-1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListByAd(ctx, "", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	_, err = svc.ListByAd(ctx, "ad-1", time.Now().Add(time.Hour), time.Now())
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}
