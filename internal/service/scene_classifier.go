package service

import (
	"strings"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
)

// Baseline resource sets applied when a scene's storyboard metadata carries
// no richer information. Every shoot needs at least these.
var (
	baselineCrew      = []string{"감독", "촬영감독", "카메라 오퍼레이터"}
	baselineEquipment = []string{"카메라", "조명 장비", "붐마이크"}
)

var validTimeOfDay = map[string]struct{}{
	models.TimeOfDayDay:         {},
	models.TimeOfDayMorning:     {},
	models.TimeOfDayAfternoon:   {},
	models.TimeOfDayNight:       {},
	models.TimeOfDayEvening:     {},
	models.TimeOfDayDawn:        {},
	models.TimeOfDayUnspecified: {},
}

// SceneClassifier derives scheduling dimensions from raw scene metadata.
// Every method is total: arbitrary external input yields a safe default,
// never a panic.
type SceneClassifier struct{}

// Location returns the scene's free-text location, defaulting to 미정.
func (SceneClassifier) Location(s models.Scene) string {
	loc := strings.TrimSpace(s.Location)
	if loc == "" {
		return models.LocationUnspecified
	}
	return loc
}

// TimeOfDay normalises the time-of-day bucket, defaulting to 오후 for
// anything outside the known vocabulary.
func (SceneClassifier) TimeOfDay(s models.Scene) string {
	tod := strings.TrimSpace(s.TimeOfDay)
	if _, ok := validTimeOfDay[tod]; !ok {
		return models.TimeOfDayAfternoon
	}
	return tod
}

// Cast returns the cleaned cast list; scenes without cast get an empty list.
func (SceneClassifier) Cast(s models.Scene) []string {
	return cleanList(s.Cast)
}

// Equipment returns the scene's equipment, falling back to the baseline kit.
func (SceneClassifier) Equipment(s models.Scene) []string {
	items := cleanList(s.Equipment)
	if len(items) == 0 {
		return append([]string(nil), baselineEquipment...)
	}
	return items
}

// Crew returns the scene's crew, falling back to the baseline trio.
func (SceneClassifier) Crew(s models.Scene) []string {
	items := cleanList(s.Crew)
	if len(items) == 0 {
		return append([]string(nil), baselineCrew...)
	}
	return items
}

// Props returns the cleaned prop list, empty when none are specified.
func (SceneClassifier) Props(s models.Scene) []string {
	return cleanList(s.Props)
}

// Costumes returns the cleaned costume list, empty when none are specified.
func (SceneClassifier) Costumes(s models.Scene) []string {
	return cleanList(s.Costumes)
}

// cleanList trims entries, drops blanks, and deduplicates while preserving
// the original order. Always returns a non-nil slice.
func cleanList(raw []string) []string {
	result := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
