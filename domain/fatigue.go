package domain

// FatigueStatus is the band a total fatigue score falls into.
type FatigueStatus string

const (
	StatusHealthy  FatigueStatus = "healthy"
	StatusCaution  FatigueStatus = "caution"
	StatusWarning  FatigueStatus = "warning"
	StatusCritical FatigueStatus = "critical"
)

// FatigueIssue names the sub-score driving the fatigue.
type FatigueIssue string

const (
	IssueAudience  FatigueIssue = "audience"
	IssueCreative  FatigueIssue = "creative"
	IssueAlgorithm FatigueIssue = "algorithm"
)

// BaseScores are the upstream sub-scores fed into the blender. Creative, Audience
// and Algorithm are required; Total is only used when no adjustment applies.
type BaseScores struct {
	Creative  *float64 `json:"creative"`
	Audience  *float64 `json:"audience"`
	Algorithm *float64 `json:"algorithm"`
	Total     *float64 `json:"total,omitempty"`
}

// DeliveryMetrics drive the format-adjusted fatigue score.
type DeliveryMetrics struct {
	Frequency  float64        `json:"frequency"`
	DaysActive int            `json:"days_active"`
	Format     CreativeFormat `json:"format"`
}

// FormatFatigue is the format-adjusted score with its two halves.
type FormatFatigue struct {
	Format         CreativeFormat `json:"format"`
	FrequencyScore float64        `json:"frequency_score"`
	FreshnessScore float64        `json:"freshness_score"`
	Score          float64        `json:"score"`
}

// FatigueScore is the blended per-creative result.
type FatigueScore struct {
	Creative     float64       `json:"creative"`
	Audience     float64       `json:"audience"`
	Algorithm    float64       `json:"algorithm"`
	Total        int           `json:"total"`
	PrimaryIssue FatigueIssue  `json:"primary_issue"`
	Status       FatigueStatus `json:"status"`

	// set when delivery metrics contributed
	FormatScore *float64 `json:"format_score,omitempty"`
	Adjusted    bool     `json:"adjusted"`
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// FirstTimeMethods holds the per-method estimates before weighting.
type FirstTimeMethods struct {
	ReachIncrement   float64 `json:"reach_increment"`
	NonFollowers     float64 `json:"non_followers"`
	FrequencyInverse float64 `json:"frequency_inverse"`
}

// FirstTimeRatioEstimate is the estimated share of first exposures.
type FirstTimeRatioEstimate struct {
	Ratio         float64          `json:"ratio"`
	Confidence    Confidence       `json:"confidence"`
	Methods       FirstTimeMethods `json:"methods"`
	SnapshotsUsed int              `json:"snapshots_used"`
	// true when there was not enough history and the default ratio was returned
	Fallback bool `json:"fallback"`
}

// BlendRequest bundles the blender inputs.
type BlendRequest struct {
	Base      BaseScores        `json:"base"`
	Instagram *InstagramMetrics `json:"instagram,omitempty"`
	Delivery  *DeliveryMetrics  `json:"delivery,omitempty"`
}
