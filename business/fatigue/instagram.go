package fatigue

import "adFatigue/domain"

// InstagramValue scores engagement quality. Each rate awards the points of its
// highest matching tier and the sum is capped at Value.Cap.
//
// Rates use a divisor floor of 1, so an ad without impressions or profile visits
// scores its raw counters against 1 instead of being undefined.
func (cfg Config) InstagramValue(m domain.InstagramMetrics) domain.InstagramValueScore {
	saveRate := floorRatio(float64(m.Saves), m.Impressions)
	followRate := floorRatio(float64(m.Follows), m.ProfileVisits)
	shareRate := floorRatio(float64(m.Shares), m.Impressions)
	// summed as floats so huge counters cannot overflow
	interactions := nonNegative(float64(m.Saves)) + nonNegative(float64(m.Shares)) +
		nonNegative(float64(m.Comments)) + nonNegative(float64(m.Likes))
	engagementRate := floorRatio(interactions, m.Impressions)

	v := cfg.Value
	res := domain.InstagramValueScore{
		SaveRate:            saveRate,
		ProfileToFollowRate: followRate,
		ShareRate:           shareRate,
		EngagementRate:      engagementRate,
		SavePoints:          v.SaveRate.Points(saveRate),
		FollowPoints:        v.ProfileToFollowRate.Points(followRate),
		SharePoints:         v.ShareRate.Points(shareRate),
		EngagementPoints:    v.EngagementRate.Points(engagementRate),
	}

	total := res.SavePoints + res.FollowPoints + res.SharePoints + res.EngagementPoints
	res.TotalValueScore = clamp(total, 0, v.Cap)

	return res
}
