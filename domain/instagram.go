package domain

// InstagramMetrics are the engagement counters of one creative over a window.
type InstagramMetrics struct {
	Impressions   int64 `json:"impressions" validate:"gte=0"`
	Reach         int64 `json:"reach" validate:"gte=0"`
	Saves         int64 `json:"saves" validate:"gte=0"`
	Shares        int64 `json:"shares" validate:"gte=0"`
	Comments      int64 `json:"comments" validate:"gte=0"`
	Likes         int64 `json:"likes" validate:"gte=0"`
	ProfileVisits int64 `json:"profile_visits" validate:"gte=0"`
	Follows       int64 `json:"follows" validate:"gte=0"`

	WebsiteClicks *int64 `json:"website_clicks,omitempty" validate:"omitempty,gte=0"`
	StoryReplies  *int64 `json:"story_replies,omitempty" validate:"omitempty,gte=0"`
	StoryExits    *int64 `json:"story_exits,omitempty" validate:"omitempty,gte=0"`

	// share of reached accounts that do not follow the profile, as reported by insights
	ReachedNonFollowersRate *float64 `json:"reached_non_followers_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// InstagramValueScore is the engagement-quality bonus of a creative, bounded [0, 65]
// with the default tiers.
type InstagramValueScore struct {
	SaveRate            float64 `json:"save_rate"`
	ProfileToFollowRate float64 `json:"profile_to_follow_rate"`
	ShareRate           float64 `json:"share_rate"`
	EngagementRate      float64 `json:"engagement_rate"`

	SavePoints       float64 `json:"save_points"`
	FollowPoints     float64 `json:"follow_points"`
	SharePoints      float64 `json:"share_points"`
	EngagementPoints float64 `json:"engagement_points"`

	TotalValueScore float64 `json:"total_value_score"`
}
