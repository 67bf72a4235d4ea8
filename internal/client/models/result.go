package models

import "time"

// HazeLevel is the three-bucket haze classification derived from the AQI.
type HazeLevel string

const (
	HazeLow    HazeLevel = "Low"
	HazeMedium HazeLevel = "Medium"
	HazeHigh   HazeLevel = "High"
)

// HazeLevelFor buckets an AQI value.
func HazeLevelFor(aqi int) HazeLevel {
	switch {
	case aqi <= 50:
		return HazeLow
	case aqi <= 150:
		return HazeMedium
	default:
		return HazeHigh
	}
}

// AnalysisResult is one successful analysis. Created once, never mutated.
type AnalysisResult struct {
	ID        string    `json:"id" yaml:"id"`
	AQI       int       `json:"aqi" yaml:"aqi"`
	Category  string    `json:"category" yaml:"category"`
	HazeLevel HazeLevel `json:"hazeLevel" yaml:"hazeLevel"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// CurrentResult is the single-slot cache read by the results view: the
// freshest result plus a reference to the image it was computed from.
type CurrentResult struct {
	AnalysisResult
	ImageRef string `json:"tempImageUrl,omitempty"`
}

// AQIBand describes how an AQI value is presented to the user.
type AQIBand struct {
	Status      string
	Description string
	// Color is an ANSI 256 colour code.
	Color string
}

var aqiBands = []struct {
	max  int
	band AQIBand
}{
	{50, AQIBand{Status: "Good", Description: "Air quality is satisfactory.", Color: "42"}},
	{100, AQIBand{Status: "Moderate", Description: "Acceptable quality.", Color: "220"}},
	{150, AQIBand{Status: "Unhealthy for Sensitive Groups", Description: "Members of sensitive groups may experience health effects.", Color: "208"}},
	{200, AQIBand{Status: "Unhealthy", Description: "Everyone may begin to experience health effects.", Color: "196"}},
}

var aqiBandSevere = AQIBand{Status: "Very Unhealthy", Description: "Health warnings of emergency conditions.", Color: "129"}

// BandFor returns the display band for aqi.
func BandFor(aqi int) AQIBand {
	for _, b := range aqiBands {
		if aqi <= b.max {
			return b.band
		}
	}
	return aqiBandSevere
}
