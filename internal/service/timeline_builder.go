package service

import (
	"fmt"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/config"
)

const (
	lunchThresholdMinutes  = 12 * 60
	dinnerThresholdMinutes = 18 * 60
	minutesPerDay          = 24 * 60
)

// timelineBuilder expands a packed day into a contiguous wall-clock
// timeline. Blocks are appended by successive addition from the daily start,
// so they can never overlap or run backwards.
type timelineBuilder struct {
	cfg config.SchedulerConfig
}

// build fills day.Timeline in place.
func (b timelineBuilder) build(day *models.ShootingDay) {
	cursor := b.cfg.DayStart
	var timeline []models.TimeBlock

	add := func(activity, description string, minutes, sceneNumber int) {
		if minutes <= 0 {
			return
		}
		timeline = append(timeline, models.TimeBlock{
			StartTime:   clockString(cursor),
			EndTime:     clockString(cursor + minutes),
			Activity:    activity,
			Description: description,
			SceneNumber: sceneNumber,
		})
		cursor += minutes
	}

	locationLabel := day.LocationGroupName
	if locationLabel == "" {
		locationLabel = day.LocationGroupID
	}

	add(models.ActivityAssembly, "전체 집합 및 장비 점검", b.cfg.AssemblyMinutes, 0)
	add(models.ActivityTravel, fmt.Sprintf("%s 이동", locationLabel), b.cfg.TravelMinutes, 0)
	add(models.ActivityRehearsal, "씬 리허설", day.RehearsalMinutes, 0)

	lunchDone := false
	dinnerDone := false
	prevRealLocID := ""
	for i, scene := range day.Scenes {
		setup := 0
		if i > 0 && scene.RealLocationID != prevRealLocID {
			setup = b.cfg.SetupMinutes
		}

		if !lunchDone && cursor+setup+scene.ShootingMinutes > lunchThresholdMinutes {
			add(models.ActivityLunch, "점심 식사", b.cfg.MealMinutes, 0)
			lunchDone = true
		}
		if !dinnerDone && cursor+setup+scene.ShootingMinutes > dinnerThresholdMinutes {
			add(models.ActivityDinner, "저녁 식사", b.cfg.MealMinutes, 0)
			dinnerDone = true
		}

		if setup > 0 {
			label := scene.RealLocationName
			if label == "" {
				label = scene.RealLocationID
			}
			add(models.ActivitySetup, fmt.Sprintf("%s 세팅", label), setup, 0)
		}

		title := scene.Title
		if title == "" {
			title = fmt.Sprintf("씬 %d", scene.SceneNumber)
		}
		add(models.ActivityShooting, fmt.Sprintf("씬 %d 촬영: %s", scene.SceneNumber, title), scene.ShootingMinutes, scene.SceneNumber)
		prevRealLocID = scene.RealLocationID
	}

	add(models.ActivityWrap, "장비 철수 및 정리", b.cfg.WrapMinutes, 0)

	day.Timeline = timeline
}

// clockString formats minutes-from-midnight as HH:MM, wrapping past 24:00
// for night-spanning days.
func clockString(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
