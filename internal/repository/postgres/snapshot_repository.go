package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"adFatigue/business/fatigue"
	"adFatigue/business/snapshot"
	"adFatigue/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const snapshotUpsertBatchSize = 100

type SnapshotRepository struct {
	DB *gorm.DB
}

var (
	_ fatigue.SnapshotRepository  = (*SnapshotRepository)(nil)
	_ snapshot.SnapshotRepository = (*SnapshotRepository)(nil)
)

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

// UpsertBatch inserts snapshots, replacing the counters of an existing
// (ad_id, date_start) row.
func (r *SnapshotRepository) UpsertBatch(ctx context.Context, snapshots []domain.MetricSnapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(snapshots) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ad_id"}, {Name: "date_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account_id",
				"creative_format",
				"date_end",
				"impressions",
				"reach",
				"clicks",
				"frequency",
				"spend",
				"saves",
				"shares",
				"comments",
				"likes",
				"profile_visits",
				"follows",
				"updated_at",
			}),
		}).
		CreateInBatches(&snapshots, snapshotUpsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert snapshots: %w", err)
	}

	return nil
}

// FindByAd returns the snapshots of an ad starting within [from, to], oldest first.
func (r *SnapshotRepository) FindByAd(ctx context.Context, adID string, from, to time.Time) ([]domain.MetricSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var snapshots []domain.MetricSnapshot
	err := r.DB.WithContext(ctx).
		Where("ad_id = ? AND date_start BETWEEN ? AND ?", adID, from, to).
		Order("date_start ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshots: %w", err)
	}

	return snapshots, nil
}

// FirstDelivery returns the earliest snapshot start of an ad, zero when it has none.
func (r *SnapshotRepository) FirstDelivery(ctx context.Context, adID string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, fmt.Errorf("context error: %w", err)
	}

	var first sql.NullTime
	err := r.DB.WithContext(ctx).
		Model(&domain.MetricSnapshot{}).
		Select("MIN(date_start)").
		Where("ad_id = ?", adID).
		Row().
		Scan(&first)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find first delivery: %w", err)
	}
	if !first.Valid {
		return time.Time{}, nil
	}

	return first.Time.UTC(), nil
}

// ListActiveAds returns every ad with a snapshot starting at or after since.
func (r *SnapshotRepository) ListActiveAds(ctx context.Context, since time.Time) ([]domain.AdRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var refs []domain.AdRef
	err := r.DB.WithContext(ctx).
		Model(&domain.MetricSnapshot{}).
		Distinct("account_id", "ad_id").
		Where("date_start >= ?", since).
		Order("account_id, ad_id").
		Scan(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active ads: %w", err)
	}

	return refs, nil
}
