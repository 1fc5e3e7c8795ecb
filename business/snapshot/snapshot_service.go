package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adFatigue/domain"
	"adFatigue/pkg/logger"
)

const maxBatchSize = 500

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// SnapshotRepository contract interface
type SnapshotRepository interface {
	UpsertBatch(ctx context.Context, snapshots []domain.MetricSnapshot) error
	FindByAd(ctx context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error)
}

type snapshotService struct {
	snapshotRepo SnapshotRepository
}

func NewSnapshotService(snapshotRepo SnapshotRepository) *snapshotService {
	return &snapshotService{
		snapshotRepo: snapshotRepo,
	}
}

// Ingest validates and stores a batch of snapshots. A snapshot for an ad and
// start date that already exists is replaced.
func (s *snapshotService) Ingest(ctx context.Context, snapshots []domain.MetricSnapshot) (int, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when ingesting snapshots")
		return 0, fmt.Errorf("context error: %w", err)
	}

	if len(snapshots) == 0 {
		return 0, fmt.Errorf("%w: empty batch", ErrInvalidSnapshot)
	}
	if len(snapshots) > maxBatchSize {
		return 0, fmt.Errorf("%w: batch exceeds %d snapshots", ErrInvalidSnapshot, maxBatchSize)
	}

	batch := make([]domain.MetricSnapshot, len(snapshots))
	for i, snap := range snapshots {
		normalized, err := normalize(snap)
		if err != nil {
			logger.Error("Invalid snapshot data", "index", i, "ad_id", snap.AdID, err)
			return 0, fmt.Errorf("snapshot %d: %w", i, err)
		}
		batch[i] = normalized
	}

	if err := s.snapshotRepo.UpsertBatch(ctx, batch); err != nil {
		logger.Error("failed to store snapshots", err)
		return 0, fmt.Errorf("failed to store snapshots: %w", err)
	}

	logger.Info("snapshots ingested", "count", len(batch))

	return len(batch), nil
}

func (s *snapshotService) ListByAd(ctx context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing snapshots")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if adID == "" {
		return nil, fmt.Errorf("%w: ad_id is required", ErrInvalidSnapshot)
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidSnapshot)
	}

	snapshots, err := s.snapshotRepo.FindByAd(ctx, adID, from, to)
	if err != nil {
		logger.Error("failed to find snapshots by ad", "ad_id", adID, err)
		return nil, err
	}

	return snapshots, nil
}

// normalize truncates the window to whole UTC days and derives a missing
// frequency from impressions and reach.
func normalize(s domain.MetricSnapshot) (domain.MetricSnapshot, error) {
	if s.AccountID == "" {
		return s, fmt.Errorf("%w: account_id is required", ErrInvalidSnapshot)
	}
	if s.AdID == "" {
		return s, fmt.Errorf("%w: ad_id is required", ErrInvalidSnapshot)
	}
	if s.CreativeFormat != "" && !s.CreativeFormat.Valid() {
		return s, fmt.Errorf("%w: unknown creative format %q", ErrInvalidSnapshot, s.CreativeFormat)
	}
	if s.DateStart.IsZero() {
		return s, fmt.Errorf("%w: date_start is required", ErrInvalidSnapshot)
	}

	s.DateStart = truncateDay(s.DateStart)
	if s.DateEnd.IsZero() {
		s.DateEnd = s.DateStart
	}
	s.DateEnd = truncateDay(s.DateEnd)
	if s.DateEnd.Before(s.DateStart) {
		return s, fmt.Errorf("%w: date_end is before date_start", ErrInvalidSnapshot)
	}

	counters := []int64{
		s.Impressions, s.Reach, s.Clicks,
		s.Saves, s.Shares, s.Comments, s.Likes, s.ProfileVisits, s.Follows,
	}
	for _, c := range counters {
		if c < 0 {
			return s, fmt.Errorf("%w: counters cannot be negative", ErrInvalidSnapshot)
		}
	}
	if s.Frequency < 0 {
		return s, fmt.Errorf("%w: frequency cannot be negative", ErrInvalidSnapshot)
	}
	if s.Spend.IsNegative() {
		return s, fmt.Errorf("%w: spend cannot be negative", ErrInvalidSnapshot)
	}

	if s.Frequency == 0 {
		s.Frequency = s.EffectiveFrequency()
	}

	s.ID = 0
	return s, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
