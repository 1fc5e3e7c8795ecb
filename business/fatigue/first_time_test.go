package fatigue

import (
	"testing"
	"time"

	"adFatigue/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func dailySnapshots(n int) []domain.MetricSnapshot {
	out := make([]domain.MetricSnapshot, n)
	for i := range out {
		d := day0.AddDate(0, 0, i)
		out[i] = domain.MetricSnapshot{
			AdID:        "ad-1",
			DateStart:   d,
			DateEnd:     d,
			Impressions: 1000,
			Reach:       int64(500 + 100*i),
			Frequency:   2,
		}
	}
	return out
}

func TestEstimateFirstTimeRatio_SingleSnapshotFallsBack(t *testing.T) {
	got := DefaultConfig().EstimateFirstTimeRatio(dailySnapshots(1), nil)

	assert.Equal(t, 1.0, got.Ratio)
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)
	assert.True(t, got.Fallback)
	assert.Equal(t, 1, got.SnapshotsUsed)
}

func TestEstimateFirstTimeRatio_NoSnapshots(t *testing.T) {
	got := DefaultConfig().EstimateFirstTimeRatio(nil, nil)

	assert.Equal(t, 1.0, got.Ratio)
	assert.Equal(t, domain.ConfidenceLow, got.Confidence)
	assert.True(t, got.Fallback)
}

func TestEstimateFirstTimeRatio_WeeklyHistory(t *testing.T) {
	snaps := dailySnapshots(7)
	snaps[5].Reach = 6000
	snaps[6].Reach = 8000
	snaps[6].Impressions = 12000
	snaps[6].Frequency = 1.5

	got := DefaultConfig().EstimateFirstTimeRatio(snaps, ptr(0.4))

	assert.InDelta(t, 2000.0/12000.0, got.Methods.ReachIncrement, 1e-9)
	assert.InDelta(t, 0.4, got.Methods.NonFollowers, 1e-9)
	assert.InDelta(t, 1/1.5, got.Methods.FrequencyInverse, 1e-9)
	assert.InDelta(t, 0.36, got.Ratio, 1e-4)
	assert.Equal(t, domain.ConfidenceHigh, got.Confidence)
	assert.False(t, got.Fallback)
	assert.Equal(t, 7, got.SnapshotsUsed)
}

func TestEstimateFirstTimeRatio_UnsortedInput(t *testing.T) {
	snaps := dailySnapshots(7)
	snaps[5].Reach = 6000
	snaps[6].Reach = 8000
	snaps[6].Impressions = 12000
	snaps[6].Frequency = 1.5

	shuffled := []domain.MetricSnapshot{snaps[3], snaps[6], snaps[0], snaps[5], snaps[1], snaps[4], snaps[2]}
	want := DefaultConfig().EstimateFirstTimeRatio(snaps, ptr(0.4))
	got := DefaultConfig().EstimateFirstTimeRatio(shuffled, ptr(0.4))

	assert.Equal(t, want, got)
	// input order untouched
	assert.Equal(t, snaps[3].DateStart, shuffled[0].DateStart)
}

func TestEstimateFirstTimeRatio_Confidence(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		n    int
		want domain.Confidence
	}{
		{2, domain.ConfidenceLow},
		{3, domain.ConfidenceMedium},
		{6, domain.ConfidenceMedium},
		{7, domain.ConfidenceHigh},
		{30, domain.ConfidenceHigh},
	}

	for _, tt := range tests {
		got := cfg.EstimateFirstTimeRatio(dailySnapshots(tt.n), nil)
		assert.Equal(t, tt.want, got.Confidence, "n=%d", tt.n)
		assert.False(t, got.Fallback)
	}
}

func TestEstimateFirstTimeRatio_DefaultNonFollowerRate(t *testing.T) {
	got := DefaultConfig().EstimateFirstTimeRatio(dailySnapshots(3), nil)
	assert.Equal(t, 0.35, got.Methods.NonFollowers)

	cfg := DefaultConfig()
	cfg.FirstTime.DefaultNonFollowerRate = 0.5
	got = cfg.EstimateFirstTimeRatio(dailySnapshots(3), nil)
	assert.Equal(t, 0.5, got.Methods.NonFollowers)
}

func TestEstimateFirstTimeRatio_Guards(t *testing.T) {
	t.Run("zero frequency and reach", func(t *testing.T) {
		snaps := dailySnapshots(3)
		snaps[2].Frequency = 0
		snaps[2].Reach = 0

		got := DefaultConfig().EstimateFirstTimeRatio(snaps, nil)
		assert.Equal(t, 0.0, got.Methods.FrequencyInverse)
		assert.Equal(t, 0.0, got.Methods.ReachIncrement)
		assert.InDelta(t, 0.4*0.35, got.Ratio, 1e-9)
	})

	t.Run("zero impressions", func(t *testing.T) {
		snaps := dailySnapshots(3)
		snaps[2].Impressions = 0

		got := DefaultConfig().EstimateFirstTimeRatio(snaps, nil)
		assert.Equal(t, 0.0, got.Methods.ReachIncrement)
	})

	t.Run("shrinking reach", func(t *testing.T) {
		snaps := dailySnapshots(3)
		snaps[2].Reach = 100

		got := DefaultConfig().EstimateFirstTimeRatio(snaps, nil)
		assert.Equal(t, 0.0, got.Methods.ReachIncrement)
	})

	t.Run("frequency below one", func(t *testing.T) {
		snaps := dailySnapshots(3)
		snaps[2].Frequency = 0.5

		got := DefaultConfig().EstimateFirstTimeRatio(snaps, nil)
		assert.Equal(t, 1.0, got.Methods.FrequencyInverse)
	})

	t.Run("only the combined ratio is clamped", func(t *testing.T) {
		snaps := dailySnapshots(3)
		snaps[2].Reach = 3000
		snaps[2].Frequency = 0.5

		got := DefaultConfig().EstimateFirstTimeRatio(snaps, nil)
		// 0.4*2.4 + 0.4*0.35 + 0.2*2 = 1.5
		assert.Equal(t, 1.0, got.Ratio)
		assert.Equal(t, 1.0, got.Methods.ReachIncrement)
		assert.Equal(t, 1.0, got.Methods.FrequencyInverse)
	})

	t.Run("hint out of range", func(t *testing.T) {
		got := DefaultConfig().EstimateFirstTimeRatio(dailySnapshots(3), ptr(3.0))
		assert.Equal(t, 1.0, got.Methods.NonFollowers)
	})

	t.Run("ratio stays within unit interval", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FirstTime.WeightReachIncrement = 5
		snaps := dailySnapshots(3)
		snaps[2].Reach = 100000

		got := cfg.EstimateFirstTimeRatio(snaps, ptr(1.0))
		require.LessOrEqual(t, got.Ratio, 1.0)
		assert.GreaterOrEqual(t, got.Ratio, 0.0)
	})
}
