package fatigue

import (
	"context"
	"encoding/json"
	"fmt"

	"adFatigue/domain"
	"adFatigue/pkg/logger"
)

// ConfigCache keeps resolved per-account configs between requests.
type ConfigCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, cost int64) bool
	Delete(key string)
}

func configCacheKey(accountID string) string {
	return "fatigue_config:" + accountID
}

// loadConfig resolves the scoring config of an account: defaults overlaid with
// the stored override. Any failure falls back to the defaults.
func (s *FatigueService) loadConfig(ctx context.Context, accountID string) Config {
	if accountID == "" || s.cfgRepo == nil {
		return s.defaultCfg
	}

	key := configCacheKey(accountID)
	if s.cfgCache != nil {
		if v, ok := s.cfgCache.Get(key); ok {
			if cfg, ok := v.(Config); ok {
				return cfg
			}
		}
	}

	dbCfg, ok, err := s.cfgRepo.GetConfig(ctx, accountID)
	if err != nil {
		logger.Warn("fatigue_config_load_failed",
			"trace_id", TraceIDFromContext(ctx),
			"account_id", accountID,
			"error", err,
		)
		return s.defaultCfg
	}

	cfg := s.defaultCfg
	if ok {
		merged, err := s.mergeOverride(dbCfg)
		if err != nil {
			logger.Warn("fatigue_config_override_rejected",
				"trace_id", TraceIDFromContext(ctx),
				"account_id", accountID,
				"error", err,
			)
		} else {
			cfg = merged
		}
	}

	if s.cfgCache != nil {
		s.cfgCache.Set(key, cfg, 1)
	}

	return cfg
}

// mergeOverride overlays a stored override on the defaults and validates the result.
func (s *FatigueService) mergeOverride(o domain.FatigueConfig) (Config, error) {
	patch, err := overrideToPatch(o)
	if err != nil {
		return Config{}, err
	}
	merged := overlay(s.defaultCfg, patch)
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// overrideToPatch converts a stored override into a Config patch for overlay.
func overrideToPatch(o domain.FatigueConfig) (Config, error) {
	var patch Config

	patch.Formats = o.Formats
	if len(patch.Formats) == 0 && len(o.FormatsRaw) > 0 {
		if err := json.Unmarshal(o.FormatsRaw, &patch.Formats); err != nil {
			return Config{}, fmt.Errorf("%w: formats: %v", ErrInvalidConfig, err)
		}
	}

	patch.Value.Cap = o.ValueScoreCap

	patch.Status = StatusBands{
		CautionFrom:  o.CautionFrom,
		WarningFrom:  o.WarningFrom,
		CriticalFrom: o.CriticalFrom,
	}

	patch.FirstTime = FirstTimeConfig{
		WeightReachIncrement:   o.WeightReachIncrement,
		WeightNonFollowers:     o.WeightNonFollowers,
		WeightFrequencyInverse: o.WeightFrequencyInverse,
		DefaultNonFollowerRate: o.DefaultNonFollowerRate,
	}

	patch.Base = BaseScoreConfig{
		CTRDeclineCritical:  o.CTRDeclineCritical,
		FrequencyFloor:      o.FrequencyFloor,
		FrequencyCritical:   o.FrequencyCritical,
		CPMIncreaseCritical: o.CPMIncreaseCritical,
	}

	return patch, nil
}

// overlay copies the non-zero parts of patch over a copy of base.
func overlay(base, patch Config) Config {
	out := base.clone()

	for f, t := range patch.Formats {
		out.Formats[f] = t
	}

	replaceTiers(&out.Value.SaveRate, patch.Value.SaveRate)
	replaceTiers(&out.Value.ProfileToFollowRate, patch.Value.ProfileToFollowRate)
	replaceTiers(&out.Value.ShareRate, patch.Value.ShareRate)
	replaceTiers(&out.Value.EngagementRate, patch.Value.EngagementRate)
	setFloat(&out.Value.Cap, patch.Value.Cap)

	a, pa := &out.Adjustment, patch.Adjustment
	setFloat(&a.SaveRateHigh, pa.SaveRateHigh)
	setFloat(&a.SaveRateHighBonus, pa.SaveRateHighBonus)
	setFloat(&a.SaveRateGood, pa.SaveRateGood)
	setFloat(&a.SaveRateGoodBonus, pa.SaveRateGoodBonus)
	setFloat(&a.SaveRateLow, pa.SaveRateLow)
	setFloat(&a.SaveRateLowPenalty, pa.SaveRateLowPenalty)
	setFloat(&a.FollowRateGood, pa.FollowRateGood)
	setFloat(&a.FollowRateBonus, pa.FollowRateBonus)
	setFloat(&a.NonFollowerRateGood, pa.NonFollowerRateGood)
	setFloat(&a.NonFollowerBonus, pa.NonFollowerBonus)

	setInt(&out.Status.CautionFrom, patch.Status.CautionFrom)
	setInt(&out.Status.WarningFrom, patch.Status.WarningFrom)
	setInt(&out.Status.CriticalFrom, patch.Status.CriticalFrom)

	ft, pft := &out.FirstTime, patch.FirstTime
	setFloat(&ft.WeightReachIncrement, pft.WeightReachIncrement)
	setFloat(&ft.WeightNonFollowers, pft.WeightNonFollowers)
	setFloat(&ft.WeightFrequencyInverse, pft.WeightFrequencyInverse)
	setFloat(&ft.DefaultNonFollowerRate, pft.DefaultNonFollowerRate)
	setInt(&ft.MinSnapshots, pft.MinSnapshots)
	setInt(&ft.MediumConfidenceMin, pft.MediumConfidenceMin)
	setInt(&ft.HighConfidenceMin, pft.HighConfidenceMin)

	b, pb := &out.Base, patch.Base
	setFloat(&b.CTRDeclineCritical, pb.CTRDeclineCritical)
	setFloat(&b.FrequencyFloor, pb.FrequencyFloor)
	setFloat(&b.FrequencyCritical, pb.FrequencyCritical)
	setFloat(&b.CPMIncreaseCritical, pb.CPMIncreaseCritical)

	return out
}

func replaceTiers(dst *TierTable, src TierTable) {
	if len(src) > 0 {
		*dst = src.clone()
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// GetConfigOverride returns the stored override of an account.
func (s *FatigueService) GetConfigOverride(ctx context.Context, accountID string) (domain.FatigueConfig, error) {
	if s.cfgRepo == nil {
		return domain.FatigueConfig{}, domain.ErrNotFound
	}
	cfg, ok, err := s.cfgRepo.GetConfig(ctx, accountID)
	if err != nil {
		return domain.FatigueConfig{}, err
	}
	if !ok {
		return domain.FatigueConfig{}, domain.ErrNotFound
	}
	return cfg, nil
}

// UpsertConfigOverride validates and stores an override, then drops the cached
// config of the account.
func (s *FatigueService) UpsertConfigOverride(ctx context.Context, override domain.FatigueConfig) error {
	if override.AccountID == "" {
		return fmt.Errorf("%w: account_id is required", ErrInvalidConfig)
	}
	if s.cfgRepo == nil {
		return fmt.Errorf("%w: no config repository", ErrInvalidConfig)
	}
	for f := range override.Formats {
		if !f.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidFormat, f)
		}
	}

	if _, err := s.mergeOverride(override); err != nil {
		return err
	}

	if err := s.cfgRepo.UpsertConfig(ctx, override); err != nil {
		return fmt.Errorf("failed to save fatigue config: %w", err)
	}

	if s.cfgCache != nil {
		s.cfgCache.Delete(configCacheKey(override.AccountID))
	}

	logger.Info("fatigue_config_updated",
		"trace_id", TraceIDFromContext(ctx),
		"account_id", override.AccountID,
	)

	return nil
}
