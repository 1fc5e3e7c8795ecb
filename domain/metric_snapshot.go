package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.metric_snapshots (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     account_id      TEXT NOT NULL,
//     ad_id           TEXT NOT NULL,
//     creative_format TEXT,
//     date_start      DATE NOT NULL,
//     date_end        DATE NOT NULL,
//     ...
//     UNIQUE (ad_id, date_start)
// );

// MetricSnapshot is one observation window for one ad. Rows are written by the
// ingestion endpoint and only read by the scoring code.
type MetricSnapshot struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      string         `gorm:"column:account_id;not null;index" json:"account_id"`
	AdID           string         `gorm:"column:ad_id;not null;uniqueIndex:idx_snapshot_ad_date" json:"ad_id"`
	CreativeFormat CreativeFormat `gorm:"column:creative_format;type:text" json:"creative_format"`
	DateStart      time.Time      `gorm:"column:date_start;type:date;not null;uniqueIndex:idx_snapshot_ad_date" json:"date_start"`
	DateEnd        time.Time      `gorm:"column:date_end;type:date;not null" json:"date_end"`

	Impressions int64   `gorm:"column:impressions" json:"impressions"`
	Reach       int64   `gorm:"column:reach" json:"reach"`
	Clicks      int64   `gorm:"column:clicks" json:"clicks"`
	Frequency   float64 `gorm:"column:frequency" json:"frequency"`

	Spend decimal.Decimal `gorm:"column:spend;type:numeric" json:"spend"`

	Saves         int64 `gorm:"column:saves" json:"saves"`
	Shares        int64 `gorm:"column:shares" json:"shares"`
	Comments      int64 `gorm:"column:comments" json:"comments"`
	Likes         int64 `gorm:"column:likes" json:"likes"`
	ProfileVisits int64 `gorm:"column:profile_visits" json:"profile_visits"`
	Follows       int64 `gorm:"column:follows" json:"follows"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MetricSnapshot) TableName() string {
	return "metric_snapshots"
}

// EffectiveFrequency returns the reported frequency, or impressions/reach when
// the source did not report one. Zero reach yields 0.
func (s MetricSnapshot) EffectiveFrequency() float64 {
	if s.Frequency > 0 {
		return s.Frequency
	}
	if s.Reach <= 0 || s.Impressions <= 0 {
		return 0
	}
	return float64(s.Impressions) / float64(s.Reach)
}

// CTR is clicks per impression, 0 without impressions.
func (s MetricSnapshot) CTR() float64 {
	if s.Impressions <= 0 || s.Clicks <= 0 {
		return 0
	}
	return float64(s.Clicks) / float64(s.Impressions)
}

// CPM is spend per thousand impressions, 0 without impressions.
func (s MetricSnapshot) CPM() float64 {
	if s.Impressions <= 0 {
		return 0
	}
	return s.Spend.Mul(decimal.NewFromInt(1000)).
		Div(decimal.NewFromInt(s.Impressions)).
		InexactFloat64()
}

// HasEngagement reports whether any Instagram engagement counter is set.
func (s MetricSnapshot) HasEngagement() bool {
	return s.Saves > 0 || s.Shares > 0 || s.Comments > 0 ||
		s.Likes > 0 || s.ProfileVisits > 0 || s.Follows > 0
}

// AdRef identifies an ad with recent snapshots.
type AdRef struct {
	AccountID string `gorm:"column:account_id" json:"account_id"`
	AdID      string `gorm:"column:ad_id" json:"ad_id"`
}
