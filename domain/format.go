package domain

// CreativeFormat is the presentation type of an ad creative.
type CreativeFormat string

const (
	FormatImage    CreativeFormat = "image"
	FormatCarousel CreativeFormat = "carousel"
	FormatVideo    CreativeFormat = "video"
	FormatReels    CreativeFormat = "reels"
	FormatStories  CreativeFormat = "stories"
)

// CreativeFormats lists every supported format.
var CreativeFormats = []CreativeFormat{
	FormatImage,
	FormatCarousel,
	FormatVideo,
	FormatReels,
	FormatStories,
}

func (f CreativeFormat) Valid() bool {
	for _, known := range CreativeFormats {
		if f == known {
			return true
		}
	}
	return false
}

type FrequencyBand struct {
	Warning  float64 `json:"warning" mapstructure:"warning"`
	Critical float64 `json:"critical" mapstructure:"critical"`
}

type FreshnessBand struct {
	Optimal int `json:"optimal" mapstructure:"optimal"`
	Stale   int `json:"stale" mapstructure:"stale"`
}

// FormatThreshold is the fatigue tolerance of one creative format.
type FormatThreshold struct {
	Frequency  FrequencyBand `json:"frequency" mapstructure:"frequency"`
	DaysActive FreshnessBand `json:"days_active" mapstructure:"days_active"`
}
