package service

import (
	"math"
	"regexp"
	"strconv"
)

// durationPattern matches the first "<number>분" token in free storyboard text.
var durationPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*분`)

// DurationEstimator converts free-text on-screen durations into real
// shooting minutes. One on-screen minute costs `ratio` shooting minutes.
type DurationEstimator struct {
	ratio    float64
	fallback float64
}

// NewDurationEstimator builds an estimator, applying the standard ratio and
// fallback when the provided values are unset.
func NewDurationEstimator(ratio, fallback float64) *DurationEstimator {
	if ratio <= 0 {
		ratio = 60
	}
	if fallback <= 0 {
		fallback = 5
	}
	return &DurationEstimator{ratio: ratio, fallback: fallback}
}

// OnScreenMinutes parses the storyboard duration text. Unparseable or empty
// input yields the configured fallback, never an error.
func (e *DurationEstimator) OnScreenMinutes(raw string) float64 {
	match := durationPattern.FindStringSubmatch(raw)
	if match == nil {
		return e.fallback
	}
	minutes, err := strconv.ParseFloat(match[1], 64)
	if err != nil || minutes <= 0 {
		return e.fallback
	}
	return minutes
}

// ShootingMinutes converts on-screen minutes to whole shooting minutes,
// clamped to at least one minute.
func (e *DurationEstimator) ShootingMinutes(onScreenMinutes float64) int {
	minutes := int(math.Round(onScreenMinutes * e.ratio))
	if minutes < 1 {
		return 1
	}
	return minutes
}
