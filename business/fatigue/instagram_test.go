package fatigue

import (
	"math"
	"testing"

	"adFatigue/domain"

	"github.com/stretchr/testify/assert"
)

func TestInstagramValue_Scenario(t *testing.T) {
	cfg := DefaultConfig()

	got := cfg.InstagramValue(domain.InstagramMetrics{
		Impressions:   10000,
		Saves:         250,
		ProfileVisits: 500,
		Follows:       30,
		Shares:        60,
	})

	assert.InDelta(t, 0.025, got.SaveRate, 1e-12)
	assert.InDelta(t, 0.06, got.ProfileToFollowRate, 1e-12)
	assert.InDelta(t, 0.006, got.ShareRate, 1e-12)
	assert.InDelta(t, 0.031, got.EngagementRate, 1e-12)

	assert.Equal(t, 25.0, got.SavePoints)
	assert.Equal(t, 12.0, got.FollowPoints)
	assert.Equal(t, 10.0, got.SharePoints)
	assert.Equal(t, 7.0, got.EngagementPoints)
	assert.Equal(t, 54.0, got.TotalValueScore)
}

func TestInstagramValue_CappedAt65(t *testing.T) {
	cfg := DefaultConfig()

	got := cfg.InstagramValue(domain.InstagramMetrics{
		Impressions:   1000,
		Saves:         100,
		Shares:        100,
		ProfileVisits: 10,
		Follows:       5,
	})

	// 25 + 20 + 10 + 10 = 65
	assert.Equal(t, 65.0, got.TotalValueScore)

	cfg.Value.Cap = 40
	assert.Equal(t, 40.0, cfg.InstagramValue(domain.InstagramMetrics{
		Impressions: 1000, Saves: 100, Shares: 100, ProfileVisits: 10, Follows: 5,
	}).TotalValueScore)
}

func TestInstagramValue_TierBoundariesAreExclusive(t *testing.T) {
	cfg := DefaultConfig()

	// save rate exactly 0.02 falls to the 0.015 tier
	got := cfg.InstagramValue(domain.InstagramMetrics{Impressions: 1000, Saves: 20})
	assert.Equal(t, 20.0, got.SavePoints)

	got = cfg.InstagramValue(domain.InstagramMetrics{Impressions: 1000, Saves: 3})
	assert.Equal(t, 0.0, got.SavePoints)

	got = cfg.InstagramValue(domain.InstagramMetrics{Impressions: 1000, Saves: 4})
	assert.Equal(t, 5.0, got.SavePoints)
}

func TestInstagramValue_ZeroDenominators(t *testing.T) {
	cfg := DefaultConfig()

	got := cfg.InstagramValue(domain.InstagramMetrics{})
	assert.Equal(t, 0.0, got.TotalValueScore)
	assert.False(t, math.IsNaN(got.SaveRate))

	// floor divisor of 1: three follows without visits is a ratio of 3, clamped to 1
	got = cfg.InstagramValue(domain.InstagramMetrics{Follows: 3})
	assert.Equal(t, 1.0, got.ProfileToFollowRate)
	assert.Equal(t, 20.0, got.FollowPoints)
}

func TestInstagramValue_BoundedForPathologicalInputs(t *testing.T) {
	cfg := DefaultConfig()

	inputs := []domain.InstagramMetrics{
		{Impressions: math.MaxInt64, Saves: math.MaxInt64, Shares: math.MaxInt64, Comments: math.MaxInt64, Likes: math.MaxInt64},
		{Saves: math.MaxInt64, Follows: math.MaxInt64},
		{Impressions: -5, Saves: -10, Follows: -1, ProfileVisits: -1},
	}

	for _, in := range inputs {
		got := cfg.InstagramValue(in)
		assert.GreaterOrEqual(t, got.TotalValueScore, 0.0)
		assert.LessOrEqual(t, got.TotalValueScore, 65.0)
		for _, r := range []float64{got.SaveRate, got.ProfileToFollowRate, got.ShareRate, got.EngagementRate} {
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	}
}

func TestInstagramValue_Monotonic(t *testing.T) {
	cfg := DefaultConfig()
	base := domain.InstagramMetrics{Impressions: 100000, ProfileVisits: 10000}

	vary := map[string]func(m *domain.InstagramMetrics, n int64){
		"saves":   func(m *domain.InstagramMetrics, n int64) { m.Saves = n },
		"follows": func(m *domain.InstagramMetrics, n int64) { m.Follows = n },
		"shares":  func(m *domain.InstagramMetrics, n int64) { m.Shares = n },
		"likes":   func(m *domain.InstagramMetrics, n int64) { m.Likes = n },
	}

	for name, set := range vary {
		t.Run(name, func(t *testing.T) {
			prev := -1.0
			for n := int64(0); n <= 12000; n += 50 {
				m := base
				set(&m, n)
				score := cfg.InstagramValue(m).TotalValueScore
				assert.GreaterOrEqual(t, score, prev, "n=%d", n)
				prev = score
			}
		})
	}
}

func TestInstagramValue_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	m := domain.InstagramMetrics{Impressions: 5000, Saves: 40, Shares: 12, Likes: 90, ProfileVisits: 80, Follows: 4}
	assert.Equal(t, cfg.InstagramValue(m), cfg.InstagramValue(m))
}

func TestTierTable_Points(t *testing.T) {
	table := TierTable{{Above: 10, Points: 3}, {Above: 5, Points: 2}, {Above: 0, Points: 1}}

	assert.Equal(t, 3.0, table.Points(11))
	assert.Equal(t, 2.0, table.Points(10))
	assert.Equal(t, 1.0, table.Points(0.1))
	assert.Equal(t, 0.0, table.Points(0))
	assert.Equal(t, 0.0, TierTable(nil).Points(100))
}
