package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ReportQuery selects the snapshot window a report is computed from.
type ReportQuery struct {
	AccountID string
	AdID      string
	From      time.Time
	To        time.Time

	NonFollowerRate *float64
}

// ReportDetail carries every intermediate result behind a report.
type ReportDetail struct {
	Base           BaseScores             `json:"base"`
	Delivery       *DeliveryMetrics       `json:"delivery,omitempty"`
	FormatFatigue  *FormatFatigue         `json:"format_fatigue,omitempty"`
	InstagramValue *InstagramValueScore   `json:"instagram_value,omitempty"`
	FirstTime      FirstTimeRatioEstimate `json:"first_time"`
	Score          FatigueScore           `json:"score"`
}

// FatigueReport is a persisted fatigue computation for one ad and window.
type FatigueReport struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      string         `gorm:"column:account_id;index" json:"account_id"`
	AdID           string         `gorm:"column:ad_id;not null;index" json:"ad_id"`
	CreativeFormat CreativeFormat `gorm:"column:creative_format;type:text" json:"creative_format"`
	DateFrom       time.Time      `gorm:"column:date_from;type:date" json:"date_from"`
	DateTo         time.Time      `gorm:"column:date_to;type:date" json:"date_to"`
	SnapshotCount  int            `gorm:"column:snapshot_count" json:"snapshot_count"`

	Creative     float64       `gorm:"column:creative" json:"creative"`
	Audience     float64       `gorm:"column:audience" json:"audience"`
	Algorithm    float64       `gorm:"column:algorithm" json:"algorithm"`
	Total        int           `gorm:"column:total" json:"total"`
	Status       FatigueStatus `gorm:"column:status;type:text" json:"status"`
	PrimaryIssue FatigueIssue  `gorm:"column:primary_issue;type:text" json:"primary_issue"`

	FirstTimeRatio      float64    `gorm:"column:first_time_ratio" json:"first_time_ratio"`
	FirstTimeConfidence Confidence `gorm:"column:first_time_confidence;type:text" json:"first_time_confidence"`
	InstagramValue      *float64   `gorm:"column:instagram_value" json:"instagram_value,omitempty"`

	DetailRaw datatypes.JSON `gorm:"column:detail;type:jsonb" json:"-"`
	Detail    *ReportDetail  `gorm:"-" json:"detail,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FatigueReport) TableName() string {
	return "fatigue_reports"
}
