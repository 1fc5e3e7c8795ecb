package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FatigueConfig is a per-account override of the scoring constants. Zero values
// keep the service defaults.
type FatigueConfig struct {
	AccountID string `json:"account_id" gorm:"column:account_id;primaryKey" validate:"required"`

	// first-time ratio estimator
	WeightReachIncrement   float64 `json:"weight_reach_increment" gorm:"column:weight_reach_increment" validate:"gte=0"`
	WeightNonFollowers     float64 `json:"weight_non_followers" gorm:"column:weight_non_followers" validate:"gte=0"`
	WeightFrequencyInverse float64 `json:"weight_frequency_inverse" gorm:"column:weight_frequency_inverse" validate:"gte=0"`
	DefaultNonFollowerRate float64 `json:"default_non_follower_rate" gorm:"column:default_non_follower_rate" validate:"gte=0,lte=1"`

	// instagram value
	ValueScoreCap float64 `json:"value_score_cap" gorm:"column:value_score_cap" validate:"gte=0"`

	// status bands on the blended total
	CautionFrom  int `json:"caution_from" gorm:"column:caution_from" validate:"gte=0,lte=100"`
	WarningFrom  int `json:"warning_from" gorm:"column:warning_from" validate:"gte=0,lte=100"`
	CriticalFrom int `json:"critical_from" gorm:"column:critical_from" validate:"gte=0,lte=100"`

	// base score thresholds
	CTRDeclineCritical  float64 `json:"ctr_decline_critical" gorm:"column:ctr_decline_critical" validate:"gte=0"`
	FrequencyFloor      float64 `json:"frequency_floor" gorm:"column:frequency_floor" validate:"gte=0"`
	FrequencyCritical   float64 `json:"frequency_critical" gorm:"column:frequency_critical" validate:"gte=0"`
	CPMIncreaseCritical float64 `json:"cpm_increase_critical" gorm:"column:cpm_increase_critical" validate:"gte=0"`

	FormatsRaw datatypes.JSON                     `json:"-" gorm:"column:formats;type:jsonb"`
	Formats    map[CreativeFormat]FormatThreshold `json:"formats,omitempty" gorm:"-"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (FatigueConfig) TableName() string {
	return "fatigue_configs"
}
