package fatigue

import "adFatigue/domain"

// FormatAdjustedFatigue scores delivery against the thresholds of its format,
// 100 being fresh and 0 being fully worn out.
func (cfg Config) FormatAdjustedFatigue(d domain.DeliveryMetrics) (float64, error) {
	res, err := cfg.FormatFatigue(d)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// FormatFatigue is FormatAdjustedFatigue with both halves of the score.
func (cfg Config) FormatFatigue(d domain.DeliveryMetrics) (domain.FormatFatigue, error) {
	t, err := cfg.Threshold(d.Format)
	if err != nil {
		return domain.FormatFatigue{}, err
	}

	freq := frequencyScore(nonNegative(d.Frequency), t.Frequency)
	days := d.DaysActive
	if days < 0 {
		days = 0
	}
	fresh := freshnessScore(days, t.DaysActive)

	return domain.FormatFatigue{
		Format:         d.Format,
		FrequencyScore: freq,
		FreshnessScore: fresh,
		Score:          clampScore((freq + fresh) / 2),
	}, nil
}

// frequencyScore drops to 50 just past the warning threshold and reaches 0 at critical.
func frequencyScore(freq float64, band domain.FrequencyBand) float64 {
	switch {
	case freq <= band.Warning:
		return 100
	case freq > band.Critical:
		return 0
	}
	return clampScore(50 * (1 - interpolationRatio(freq, band.Warning, band.Critical)))
}

func freshnessScore(days int, band domain.FreshnessBand) float64 {
	switch {
	case days <= band.Optimal:
		return 100
	case days > band.Stale:
		return 0
	}
	r := interpolationRatio(float64(days), float64(band.Optimal), float64(band.Stale))
	return clampScore(100 * (1 - r))
}
