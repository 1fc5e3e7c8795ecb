package fatigue

import (
	"context"
	"fmt"

	"adFatigue/domain"
)

// Config carries every tunable constant of the scoring functions.
type Config struct {
	Formats map[domain.CreativeFormat]domain.FormatThreshold `mapstructure:"formats"`

	Value      ValueConfig      `mapstructure:"value"`
	Adjustment AdjustmentConfig `mapstructure:"adjustment"`
	Status     StatusBands      `mapstructure:"status"`
	FirstTime  FirstTimeConfig  `mapstructure:"first_time"`
	Base       BaseScoreConfig  `mapstructure:"base"`
}

// ValueConfig holds the Instagram value tiers.
type ValueConfig struct {
	SaveRate            TierTable `mapstructure:"save_rate"`
	ProfileToFollowRate TierTable `mapstructure:"profile_to_follow_rate"`
	ShareRate           TierTable `mapstructure:"share_rate"`
	EngagementRate      TierTable `mapstructure:"engagement_rate"`
	Cap                 float64   `mapstructure:"cap"`
}

// AdjustmentConfig holds the discrete creative adjustments applied by Blend.
// Save and follow thresholds are inclusive (>=), except SaveRateLow (<) and
// NonFollowerRateGood (>).
type AdjustmentConfig struct {
	SaveRateHigh        float64 `mapstructure:"save_rate_high"`
	SaveRateHighBonus   float64 `mapstructure:"save_rate_high_bonus"`
	SaveRateGood        float64 `mapstructure:"save_rate_good"`
	SaveRateGoodBonus   float64 `mapstructure:"save_rate_good_bonus"`
	SaveRateLow         float64 `mapstructure:"save_rate_low"`
	SaveRateLowPenalty  float64 `mapstructure:"save_rate_low_penalty"`
	FollowRateGood      float64 `mapstructure:"follow_rate_good"`
	FollowRateBonus     float64 `mapstructure:"follow_rate_bonus"`
	NonFollowerRateGood float64 `mapstructure:"non_follower_rate_good"`
	NonFollowerBonus    float64 `mapstructure:"non_follower_bonus"`
}

// StatusBands are the lower bounds of each status on the 0-100 total.
// Anything below CautionFrom is healthy.
type StatusBands struct {
	CautionFrom  int `mapstructure:"caution_from"`
	WarningFrom  int `mapstructure:"warning_from"`
	CriticalFrom int `mapstructure:"critical_from"`
}

type FirstTimeConfig struct {
	WeightReachIncrement   float64 `mapstructure:"weight_reach_increment"`
	WeightNonFollowers     float64 `mapstructure:"weight_non_followers"`
	WeightFrequencyInverse float64 `mapstructure:"weight_frequency_inverse"`
	// assumed non-follower share when insights do not report one
	DefaultNonFollowerRate float64 `mapstructure:"default_non_follower_rate"`
	MinSnapshots           int     `mapstructure:"min_snapshots"`
	MediumConfidenceMin    int     `mapstructure:"medium_confidence_min"`
	HighConfidenceMin      int     `mapstructure:"high_confidence_min"`
}

// BaseScoreConfig sets the deviations that map to a sub-score of 100.
type BaseScoreConfig struct {
	CTRDeclineCritical  float64 `mapstructure:"ctr_decline_critical"`
	FrequencyFloor      float64 `mapstructure:"frequency_floor"`
	FrequencyCritical   float64 `mapstructure:"frequency_critical"`
	CPMIncreaseCritical float64 `mapstructure:"cpm_increase_critical"`
}

const (
	defaultValueScoreCap = 65.0

	defaultSaveRateHigh        = 0.02
	defaultSaveRateHighBonus   = 20.0
	defaultSaveRateGood        = 0.015
	defaultSaveRateGoodBonus   = 10.0
	defaultSaveRateLow         = 0.005
	defaultSaveRateLowPenalty  = 10.0
	defaultFollowRateGood      = 0.05
	defaultFollowRateBonus     = 15.0
	defaultNonFollowerRateGood = 0.4
	defaultNonFollowerBonus    = 5.0

	defaultCautionFrom  = 30
	defaultWarningFrom  = 50
	defaultCriticalFrom = 75

	defaultWeightReachIncrement   = 0.4
	defaultWeightNonFollowers     = 0.4
	defaultWeightFrequencyInverse = 0.2
	defaultNonFollowerRate        = 0.35
	defaultMinSnapshots           = 2
	defaultMediumConfidenceMin    = 3
	defaultHighConfidenceMin      = 7

	defaultCTRDeclineCritical  = 0.5
	defaultFrequencyFloor      = 1.0
	defaultFrequencyCritical   = 5.0
	defaultCPMIncreaseCritical = 0.5
)

// DefaultFormatThresholds returns a fresh copy of the built-in format table.
func DefaultFormatThresholds() map[domain.CreativeFormat]domain.FormatThreshold {
	return map[domain.CreativeFormat]domain.FormatThreshold{
		domain.FormatImage:    threshold(3.0, 3.5, 7, 14),
		domain.FormatCarousel: threshold(3.5, 4.0, 10, 20),
		domain.FormatVideo:    threshold(2.5, 3.0, 5, 10),
		domain.FormatReels:    threshold(2.0, 2.5, 3, 7),
		domain.FormatStories:  threshold(4.0, 5.0, 1, 1),
	}
}

func threshold(warning, critical float64, optimal, stale int) domain.FormatThreshold {
	return domain.FormatThreshold{
		Frequency:  domain.FrequencyBand{Warning: warning, Critical: critical},
		DaysActive: domain.FreshnessBand{Optimal: optimal, Stale: stale},
	}
}

func DefaultConfig() Config {
	return Config{
		Formats: DefaultFormatThresholds(),

		Value: ValueConfig{
			SaveRate: TierTable{
				{Above: 0.02, Points: 25},
				{Above: 0.015, Points: 20},
				{Above: 0.01, Points: 15},
				{Above: 0.005, Points: 10},
				{Above: 0.003, Points: 5},
			},
			ProfileToFollowRate: TierTable{
				{Above: 0.10, Points: 20},
				{Above: 0.07, Points: 15},
				{Above: 0.05, Points: 12},
				{Above: 0.03, Points: 8},
				{Above: 0.01, Points: 4},
			},
			ShareRate: TierTable{
				{Above: 0.005, Points: 10},
				{Above: 0.003, Points: 7},
				{Above: 0.001, Points: 4},
			},
			EngagementRate: TierTable{
				{Above: 0.05, Points: 10},
				{Above: 0.03, Points: 7},
				{Above: 0.02, Points: 5},
				{Above: 0.01, Points: 3},
			},
			Cap: defaultValueScoreCap,
		},

		Adjustment: AdjustmentConfig{
			SaveRateHigh:        defaultSaveRateHigh,
			SaveRateHighBonus:   defaultSaveRateHighBonus,
			SaveRateGood:        defaultSaveRateGood,
			SaveRateGoodBonus:   defaultSaveRateGoodBonus,
			SaveRateLow:         defaultSaveRateLow,
			SaveRateLowPenalty:  defaultSaveRateLowPenalty,
			FollowRateGood:      defaultFollowRateGood,
			FollowRateBonus:     defaultFollowRateBonus,
			NonFollowerRateGood: defaultNonFollowerRateGood,
			NonFollowerBonus:    defaultNonFollowerBonus,
		},

		Status: StatusBands{
			CautionFrom:  defaultCautionFrom,
			WarningFrom:  defaultWarningFrom,
			CriticalFrom: defaultCriticalFrom,
		},

		FirstTime: FirstTimeConfig{
			WeightReachIncrement:   defaultWeightReachIncrement,
			WeightNonFollowers:     defaultWeightNonFollowers,
			WeightFrequencyInverse: defaultWeightFrequencyInverse,
			DefaultNonFollowerRate: defaultNonFollowerRate,
			MinSnapshots:           defaultMinSnapshots,
			MediumConfidenceMin:    defaultMediumConfidenceMin,
			HighConfidenceMin:      defaultHighConfidenceMin,
		},

		Base: BaseScoreConfig{
			CTRDeclineCritical:  defaultCTRDeclineCritical,
			FrequencyFloor:      defaultFrequencyFloor,
			FrequencyCritical:   defaultFrequencyCritical,
			CPMIncreaseCritical: defaultCPMIncreaseCritical,
		},
	}
}

// Threshold looks up the thresholds of a format.
func (cfg Config) Threshold(format domain.CreativeFormat) (domain.FormatThreshold, error) {
	t, ok := cfg.Formats[format]
	if !ok {
		return domain.FormatThreshold{}, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	return t, nil
}

// Validate rejects configs the scoring functions cannot honour their bounds with.
func (cfg Config) Validate() error {
	for _, f := range domain.CreativeFormats {
		t, ok := cfg.Formats[f]
		if !ok {
			return fmt.Errorf("%w: missing thresholds for %s", ErrInvalidConfig, f)
		}
		if t.Frequency.Warning < 0 || t.Frequency.Critical < t.Frequency.Warning {
			return fmt.Errorf("%w: %s frequency critical must be >= warning >= 0", ErrInvalidConfig, f)
		}
		if t.DaysActive.Optimal < 0 || t.DaysActive.Stale < t.DaysActive.Optimal {
			return fmt.Errorf("%w: %s stale days must be >= optimal days >= 0", ErrInvalidConfig, f)
		}
	}

	tables := []struct {
		name  string
		table TierTable
	}{
		{"save_rate", cfg.Value.SaveRate},
		{"profile_to_follow_rate", cfg.Value.ProfileToFollowRate},
		{"share_rate", cfg.Value.ShareRate},
		{"engagement_rate", cfg.Value.EngagementRate},
	}
	for _, tt := range tables {
		if err := tt.table.validate(tt.name); err != nil {
			return err
		}
	}
	if cfg.Value.Cap < 0 {
		return fmt.Errorf("%w: value cap must be >= 0", ErrInvalidConfig)
	}

	s := cfg.Status
	if s.CautionFrom < 0 || s.WarningFrom < s.CautionFrom || s.CriticalFrom < s.WarningFrom || s.CriticalFrom > 100 {
		return fmt.Errorf("%w: status bands must ascend within [0,100]", ErrInvalidConfig)
	}

	ft := cfg.FirstTime
	if ft.WeightReachIncrement < 0 || ft.WeightNonFollowers < 0 || ft.WeightFrequencyInverse < 0 {
		return fmt.Errorf("%w: first-time weights must be >= 0", ErrInvalidConfig)
	}
	if ft.DefaultNonFollowerRate < 0 || ft.DefaultNonFollowerRate > 1 {
		return fmt.Errorf("%w: default non-follower rate must be within [0,1]", ErrInvalidConfig)
	}
	if ft.MinSnapshots < 2 || ft.MediumConfidenceMin < 1 || ft.HighConfidenceMin < ft.MediumConfidenceMin {
		return fmt.Errorf("%w: invalid first-time snapshot thresholds", ErrInvalidConfig)
	}

	b := cfg.Base
	if b.CTRDeclineCritical <= 0 || b.CPMIncreaseCritical <= 0 || b.FrequencyCritical <= b.FrequencyFloor {
		return fmt.Errorf("%w: invalid base score thresholds", ErrInvalidConfig)
	}

	return nil
}

// clone returns a deep copy so overrides never touch the shared defaults.
func (cfg Config) clone() Config {
	out := cfg
	out.Formats = make(map[domain.CreativeFormat]domain.FormatThreshold, len(cfg.Formats))
	for k, v := range cfg.Formats {
		out.Formats[k] = v
	}
	out.Value.SaveRate = cfg.Value.SaveRate.clone()
	out.Value.ProfileToFollowRate = cfg.Value.ProfileToFollowRate.clone()
	out.Value.ShareRate = cfg.Value.ShareRate.clone()
	out.Value.EngagementRate = cfg.Value.EngagementRate.clone()
	return out
}

// read per-account scoring overrides from DB.
type ConfigRepository interface {
	GetConfig(ctx context.Context, accountID string) (domain.FatigueConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.FatigueConfig) error
}
