package fatigue

import (
	"testing"
	"time"

	"adFatigue/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decliningWindow() []domain.MetricSnapshot {
	return []domain.MetricSnapshot{
		{
			AdID: "ad-1", CreativeFormat: domain.FormatImage,
			DateStart: day0.AddDate(0, 0, 2), DateEnd: day0.AddDate(0, 0, 2),
			Impressions: 1000, Reach: 333, Clicks: 15, Frequency: 3,
			Spend: decimal.RequireFromString("12.50"),
		},
		{
			AdID: "ad-1", CreativeFormat: domain.FormatImage,
			DateStart: day0, DateEnd: day0,
			Impressions: 1000, Reach: 1000, Clicks: 20, Frequency: 1,
			Spend: decimal.RequireFromString("10.00"),
		},
		{
			AdID: "ad-1", CreativeFormat: domain.FormatImage,
			DateStart: day0.AddDate(0, 0, 1), DateEnd: day0.AddDate(0, 0, 1),
			Impressions: 1000, Reach: 500, Clicks: 20, Frequency: 2,
			Spend: decimal.RequireFromString("12.00"),
		},
	}
}

func TestBaseScores(t *testing.T) {
	got, err := DefaultConfig().BaseScores(decliningWindow())
	require.NoError(t, err)

	require.NotNil(t, got.Creative)
	require.NotNil(t, got.Audience)
	require.NotNil(t, got.Algorithm)
	require.NotNil(t, got.Total)

	// CTR 2% -> 1.5% is a 25% decline, half of the critical 50%
	assert.InDelta(t, 50, *got.Creative, 1e-6)
	// frequency 3 sits halfway between 1 and 5
	assert.InDelta(t, 50, *got.Audience, 1e-6)
	// CPM 10 -> 12.5 is a 25% increase
	assert.InDelta(t, 50, *got.Algorithm, 1e-6)
	assert.Equal(t, 50.0, *got.Total)
}

func TestBaseScores_Empty(t *testing.T) {
	_, err := DefaultConfig().BaseScores(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestBaseScores_ImprovingAdScoresZero(t *testing.T) {
	snaps := []domain.MetricSnapshot{
		{DateStart: day0, Impressions: 1000, Clicks: 10, Frequency: 1.1, Spend: decimal.NewFromInt(20)},
		{DateStart: day0.AddDate(0, 0, 1), Impressions: 1000, Clicks: 30, Frequency: 0.5, Spend: decimal.NewFromInt(10)},
	}

	got, err := DefaultConfig().BaseScores(snaps)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *got.Creative)
	assert.Equal(t, 0.0, *got.Audience)
	assert.Equal(t, 0.0, *got.Algorithm)
	assert.Equal(t, 0.0, *got.Total)
}

func TestBaseScores_NoImpressions(t *testing.T) {
	snaps := []domain.MetricSnapshot{{DateStart: day0}, {DateStart: day0.AddDate(0, 0, 1)}}

	got, err := DefaultConfig().BaseScores(snaps)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *got.Creative)
	assert.Equal(t, 0.0, *got.Algorithm)
}

func TestBaseScores_SaturatesAtCritical(t *testing.T) {
	snaps := []domain.MetricSnapshot{
		{DateStart: day0, Impressions: 1000, Clicks: 50, Spend: decimal.NewFromInt(5), Frequency: 1},
		{DateStart: day0.AddDate(0, 0, 1), Impressions: 1000, Clicks: 1, Spend: decimal.NewFromInt(50), Frequency: 9},
	}

	got, err := DefaultConfig().BaseScores(snaps)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *got.Creative)
	assert.Equal(t, 100.0, *got.Audience)
	assert.Equal(t, 100.0, *got.Algorithm)
	assert.Equal(t, 100.0, *got.Total)
}

func TestDeliveryFromSnapshots(t *testing.T) {
	got := DeliveryFromSnapshots(decliningWindow(), time.Time{})
	require.NotNil(t, got)

	assert.Equal(t, 3.0, got.Frequency)
	assert.Equal(t, 2, got.DaysActive)
	assert.Equal(t, domain.FormatImage, got.Format)

	assert.Nil(t, DeliveryFromSnapshots(nil, time.Time{}))
}

func TestDeliveryFromSnapshots_DerivesFrequency(t *testing.T) {
	snaps := []domain.MetricSnapshot{
		{DateStart: day0, DateEnd: day0.AddDate(0, 0, 6), Impressions: 3000, Reach: 1000},
	}

	got := DeliveryFromSnapshots(snaps, time.Time{})
	require.NotNil(t, got)
	assert.Equal(t, 3.0, got.Frequency)
	assert.Equal(t, 6, got.DaysActive)
}

func TestDeliveryFromSnapshots_CountsFromFirstDelivery(t *testing.T) {
	window := decliningWindow()

	got := DeliveryFromSnapshots(window, day0.AddDate(0, 0, -40))
	require.NotNil(t, got)
	assert.Equal(t, 42, got.DaysActive)

	// a first delivery inside the window cannot shorten it
	got = DeliveryFromSnapshots(window, day0.AddDate(0, 0, 1))
	require.NotNil(t, got)
	assert.Equal(t, 2, got.DaysActive)
}

func TestInstagramFromSnapshots(t *testing.T) {
	assert.Nil(t, InstagramFromSnapshots(decliningWindow(), nil))

	snaps := decliningWindow()
	snaps[0].Saves = 4
	snaps[1].Saves = 6
	snaps[1].Follows = 2
	snaps[2].ProfileVisits = 40

	got := InstagramFromSnapshots(snaps, ptr(0.5))
	require.NotNil(t, got)
	assert.Equal(t, int64(3000), got.Impressions)
	assert.Equal(t, int64(1000), got.Reach)
	assert.Equal(t, int64(10), got.Saves)
	assert.Equal(t, int64(2), got.Follows)
	assert.Equal(t, int64(40), got.ProfileVisits)
	require.NotNil(t, got.ReachedNonFollowersRate)
	assert.Equal(t, 0.5, *got.ReachedNonFollowersRate)
}
