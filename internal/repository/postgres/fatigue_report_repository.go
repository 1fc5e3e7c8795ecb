package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"adFatigue/business/fatigue"
	"adFatigue/domain"

	"gorm.io/gorm"
)

type FatigueReportRepository struct {
	DB *gorm.DB
}

var _ fatigue.ReportRepository = (*FatigueReportRepository)(nil)

func NewFatigueReportRepository(db *gorm.DB) *FatigueReportRepository {
	return &FatigueReportRepository{DB: db}
}

func (r *FatigueReportRepository) SaveReport(ctx context.Context, report *domain.FatigueReport) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	// keep the jsonb column in sync with the decoded detail
	if len(report.DetailRaw) == 0 && report.Detail != nil {
		raw, err := json.Marshal(report.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal report detail: %w", err)
		}
		report.DetailRaw = raw
	}

	if err := r.DB.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to save fatigue report: %w", err)
	}

	return nil
}

// ListReports returns the latest reports of an ad, newest first.
func (r *FatigueReportRepository) ListReports(ctx context.Context, adID string, limit int) ([]domain.FatigueReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var reports []domain.FatigueReport
	err := r.DB.WithContext(ctx).
		Where("ad_id = ?", adID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list fatigue reports: %w", err)
	}

	for i := range reports {
		if len(reports[i].DetailRaw) == 0 {
			continue
		}
		var detail domain.ReportDetail
		if err := json.Unmarshal(reports[i].DetailRaw, &detail); err == nil {
			reports[i].Detail = &detail
		}
	}

	return reports, nil
}
