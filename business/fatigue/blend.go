package fatigue

import (
	"fmt"
	"math"

	"adFatigue/domain"
)

// Blend merges the base sub-scores with the Instagram adjustments and the
// format-adjusted score. Adjustments run in a fixed order because every step
// clamps before the next one:
//  1. creative: save rate, then profile-to-follow rate, then non-follower reach
//  2. audience: averaged with the format-adjusted score
//  3. total: rounded mean of the three sub-scores
//
// Without Instagram or delivery data the base scores pass through unchanged.
// Out-of-range base scores are clamped to [0,100].
func (cfg Config) Blend(base domain.BaseScores, ig *domain.InstagramMetrics, delivery *domain.DeliveryMetrics) (domain.FatigueScore, error) {
	if err := checkBase(base); err != nil {
		return domain.FatigueScore{}, err
	}

	creative := clampScore(*base.Creative)
	audience := clampScore(*base.Audience)
	algorithm := clampScore(*base.Algorithm)

	var out domain.FatigueScore

	if ig != nil {
		creative = cfg.adjustCreative(creative, *ig)
		out.Adjusted = true
	}

	if delivery != nil && delivery.Format != "" {
		formatScore, err := cfg.FormatAdjustedFatigue(*delivery)
		if err != nil {
			return domain.FatigueScore{}, err
		}
		audience = (audience + formatScore) / 2
		out.FormatScore = &formatScore
		out.Adjusted = true
	}

	out.Creative = creative
	out.Audience = audience
	out.Algorithm = algorithm

	if out.Adjusted || base.Total == nil {
		out.Total = roundScore((creative + audience + algorithm) / 3)
	} else {
		out.Total = roundScore(*base.Total)
	}

	out.Status = cfg.StatusFor(out.Total)
	out.PrimaryIssue = PrimaryIssue(creative, audience, algorithm)

	return out, nil
}

func checkBase(base domain.BaseScores) error {
	switch {
	case base.Creative == nil:
		return fmt.Errorf("%w: creative", ErrMissingBaseScore)
	case base.Audience == nil:
		return fmt.Errorf("%w: audience", ErrMissingBaseScore)
	case base.Algorithm == nil:
		return fmt.Errorf("%w: algorithm", ErrMissingBaseScore)
	}
	return nil
}

func (cfg Config) adjustCreative(creative float64, ig domain.InstagramMetrics) float64 {
	a := cfg.Adjustment
	saveRate := floorRatio(float64(ig.Saves), ig.Impressions)
	followRate := floorRatio(float64(ig.Follows), ig.ProfileVisits)

	switch {
	case saveRate >= a.SaveRateHigh:
		creative = clampScore(creative + a.SaveRateHighBonus)
	case saveRate >= a.SaveRateGood:
		creative = clampScore(creative + a.SaveRateGoodBonus)
	case saveRate < a.SaveRateLow:
		creative = clampScore(creative - a.SaveRateLowPenalty)
	}

	if followRate >= a.FollowRateGood {
		creative = clampScore(creative + a.FollowRateBonus)
	}

	if ig.ReachedNonFollowersRate != nil && clampUnit(*ig.ReachedNonFollowersRate) > a.NonFollowerRateGood {
		creative = clampScore(creative + a.NonFollowerBonus)
	}

	return creative
}

func roundScore(v float64) int {
	return int(math.Round(clampScore(v)))
}
