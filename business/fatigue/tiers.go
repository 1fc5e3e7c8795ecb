package fatigue

import "fmt"

// Tier awards Points when a value is strictly greater than Above.
type Tier struct {
	Above  float64 `json:"above" mapstructure:"above"`
	Points float64 `json:"points" mapstructure:"points"`
}

// TierTable is an ordered list of tiers, highest threshold first. Only the first
// matching tier applies.
type TierTable []Tier

// Points returns the points of the first tier whose threshold v exceeds, or 0.
func (t TierTable) Points(v float64) float64 {
	for _, tier := range t {
		if v > tier.Above {
			return tier.Points
		}
	}
	return 0
}

// validate checks the table is strictly descending in threshold and
// non-increasing in points, so Points is monotonic in v.
func (t TierTable) validate(name string) error {
	for i, tier := range t {
		if tier.Points < 0 {
			return fmt.Errorf("%w: %s tier %d has negative points", ErrInvalidConfig, name, i)
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if tier.Above >= prev.Above {
			return fmt.Errorf("%w: %s tiers must be ordered by descending threshold", ErrInvalidConfig, name)
		}
		if tier.Points > prev.Points {
			return fmt.Errorf("%w: %s tier %d awards more than a higher tier", ErrInvalidConfig, name, i)
		}
	}
	return nil
}

func (t TierTable) clone() TierTable {
	if t == nil {
		return nil
	}
	out := make(TierTable, len(t))
	copy(out, t)
	return out
}
