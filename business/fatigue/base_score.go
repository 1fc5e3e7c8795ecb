package fatigue

import (
	"fmt"
	"time"

	"adFatigue/domain"
)

// BaseScores derives the upstream sub-scores from a snapshot window:
//   - creative from the CTR decline of the latest snapshot against the window peak
//   - audience from the latest frequency between FrequencyFloor and FrequencyCritical
//   - algorithm from the CPM increase of the latest snapshot against the first one
//     with impressions
func (cfg Config) BaseScores(snapshots []domain.MetricSnapshot) (domain.BaseScores, error) {
	if len(snapshots) == 0 {
		return domain.BaseScores{}, fmt.Errorf("%w: no snapshots", ErrInsufficientData)
	}

	b := cfg.Base
	ordered := oldestFirst(snapshots)
	latest := ordered[len(ordered)-1]

	peakCTR := 0.0
	baselineCPM := 0.0
	for _, s := range ordered {
		if ctr := s.CTR(); ctr > peakCTR {
			peakCTR = ctr
		}
		if baselineCPM == 0 && s.Impressions > 0 {
			baselineCPM = s.CPM()
		}
	}

	ctrDecline := 0.0
	if peakCTR > 0 {
		ctrDecline = (peakCTR - latest.CTR()) / peakCTR
	}

	cpmIncrease := 0.0
	if baselineCPM > 0 {
		cpmIncrease = (latest.CPM() - baselineCPM) / baselineCPM
	}

	creative := clampScore(100 * ctrDecline / b.CTRDeclineCritical)
	audience := clampScore(100 * interpolationRatio(latest.EffectiveFrequency(), b.FrequencyFloor, b.FrequencyCritical))
	algorithm := clampScore(100 * cpmIncrease / b.CPMIncreaseCritical)
	total := float64(roundScore((creative + audience + algorithm) / 3))

	return domain.BaseScores{
		Creative:  &creative,
		Audience:  &audience,
		Algorithm: &algorithm,
		Total:     &total,
	}, nil
}

// DeliveryFromSnapshots summarises a window as delivery metrics: the latest
// frequency and format, and the days elapsed since firstDelivery. A zero
// firstDelivery, or one inside the window, counts from the earliest snapshot.
func DeliveryFromSnapshots(snapshots []domain.MetricSnapshot, firstDelivery time.Time) *domain.DeliveryMetrics {
	if len(snapshots) == 0 {
		return nil
	}
	ordered := oldestFirst(snapshots)
	first, latest := ordered[0], ordered[len(ordered)-1]

	start := first.DateStart
	if !firstDelivery.IsZero() && firstDelivery.Before(start) {
		start = firstDelivery
	}

	end := latest.DateEnd
	if end.Before(latest.DateStart) {
		end = latest.DateStart
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}

	return &domain.DeliveryMetrics{
		Frequency:  latest.EffectiveFrequency(),
		DaysActive: days,
		Format:     latest.CreativeFormat,
	}
}

// InstagramFromSnapshots sums the engagement counters of a window. It returns nil
// when no snapshot carries engagement data.
func InstagramFromSnapshots(snapshots []domain.MetricSnapshot, nonFollowerRate *float64) *domain.InstagramMetrics {
	var m domain.InstagramMetrics
	found := false
	for _, s := range snapshots {
		if s.HasEngagement() {
			found = true
		}
		m.Impressions += s.Impressions
		m.Saves += s.Saves
		m.Shares += s.Shares
		m.Comments += s.Comments
		m.Likes += s.Likes
		m.ProfileVisits += s.ProfileVisits
		m.Follows += s.Follows
		if s.Reach > m.Reach {
			m.Reach = s.Reach
		}
	}
	if !found {
		return nil
	}
	m.ReachedNonFollowersRate = nonFollowerRate
	return &m
}
