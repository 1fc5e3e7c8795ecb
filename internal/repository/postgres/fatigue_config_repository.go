package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adFatigue/business/fatigue"
	"adFatigue/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FatigueConfigRepository struct {
	DB *gorm.DB
}

var _ fatigue.ConfigRepository = (*FatigueConfigRepository)(nil)

func NewFatigueConfigRepository(db *gorm.DB) *FatigueConfigRepository {
	return &FatigueConfigRepository{DB: db}
}

func (r *FatigueConfigRepository) GetConfig(ctx context.Context, accountID string) (domain.FatigueConfig, bool, error) {
	var cfg domain.FatigueConfig

	err := r.DB.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.FatigueConfig{}, false, nil
	}
	if err != nil {
		return domain.FatigueConfig{}, false, err
	}

	if len(cfg.FormatsRaw) > 0 {
		if err := json.Unmarshal(cfg.FormatsRaw, &cfg.Formats); err != nil {
			return domain.FatigueConfig{}, false, fmt.Errorf("failed to decode formats of account %s: %w", accountID, err)
		}
	}
	return cfg, true, nil
}

func (r *FatigueConfigRepository) UpsertConfig(ctx context.Context, cfg domain.FatigueConfig) error {
	if len(cfg.Formats) > 0 {
		raw, err := json.Marshal(cfg.Formats)
		if err != nil {
			return err
		}
		cfg.FormatsRaw = raw
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"weight_reach_increment",
				"weight_non_followers",
				"weight_frequency_inverse",
				"default_non_follower_rate",
				"value_score_cap",
				"caution_from",
				"warning_from",
				"critical_from",
				"ctr_decline_critical",
				"frequency_floor",
				"frequency_critical",
				"cpm_increase_critical",
				"formats",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
