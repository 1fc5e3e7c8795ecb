package fatigue

import (
	"sort"

	"adFatigue/domain"
)

// EstimateFirstTimeRatio estimates the share of impressions that were first
// exposures, from daily snapshots of one ad in any order. nonFollowerRate is the
// optional reached-non-followers share from Instagram insights.
//
// Three estimates are weighted together:
//   - reach increment: new reach today over today's impressions
//   - non-followers: the supplied rate, or the configured default
//   - frequency inverse: 1 / today's frequency
//
// With fewer than MinSnapshots snapshots the ratio is 1 with low confidence.
func (cfg Config) EstimateFirstTimeRatio(snapshots []domain.MetricSnapshot, nonFollowerRate *float64) domain.FirstTimeRatioEstimate {
	ft := cfg.FirstTime
	n := len(snapshots)

	if n < ft.MinSnapshots || n < 2 {
		return domain.FirstTimeRatioEstimate{
			Ratio:         1,
			Confidence:    domain.ConfidenceLow,
			SnapshotsUsed: n,
			Fallback:      true,
		}
	}

	ordered := newestFirst(snapshots)
	today, yesterday := ordered[0], ordered[1]

	// the weighted sum uses the raw estimates; only the breakdown is clamped
	var reachIncrement, frequencyInverse float64

	newReach := today.Reach - yesterday.Reach
	if newReach > 0 && today.Impressions > 0 {
		reachIncrement = float64(newReach) / float64(today.Impressions)
	}

	nonFollowers := ft.DefaultNonFollowerRate
	if nonFollowerRate != nil {
		nonFollowers = *nonFollowerRate
	}

	if freq := today.EffectiveFrequency(); freq > 0 {
		frequencyInverse = 1 / freq
	}

	ratio := ft.WeightReachIncrement*reachIncrement +
		ft.WeightNonFollowers*nonFollowers +
		ft.WeightFrequencyInverse*frequencyInverse

	methods := domain.FirstTimeMethods{
		ReachIncrement:   clampUnit(reachIncrement),
		NonFollowers:     clampUnit(nonFollowers),
		FrequencyInverse: clampUnit(frequencyInverse),
	}

	return domain.FirstTimeRatioEstimate{
		Ratio:         clampUnit(ratio),
		Confidence:    cfg.confidenceFor(n),
		Methods:       methods,
		SnapshotsUsed: n,
	}
}

func (cfg Config) confidenceFor(n int) domain.Confidence {
	switch {
	case n >= cfg.FirstTime.HighConfidenceMin:
		return domain.ConfidenceHigh
	case n >= cfg.FirstTime.MediumConfidenceMin:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// newestFirst returns a sorted copy; the input is never reordered.
func newestFirst(snapshots []domain.MetricSnapshot) []domain.MetricSnapshot {
	out := make([]domain.MetricSnapshot, len(snapshots))
	copy(out, snapshots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateStart.After(out[j].DateStart)
	})
	return out
}

func oldestFirst(snapshots []domain.MetricSnapshot) []domain.MetricSnapshot {
	out := make([]domain.MetricSnapshot, len(snapshots))
	copy(out, snapshots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateStart.Before(out[j].DateStart)
	})
	return out
}
