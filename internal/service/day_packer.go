package service

import (
	"math"
	"sort"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/config"
)

// dayPacker greedily fills shooting days under the daily time cap. The cap
// covers shooting plus rehearsal plus setup overhead; a day always holds at
// least one scene, so a single oversized scene still gets its own day.
type dayPacker struct {
	cfg config.SchedulerConfig
}

type dayAccumulator struct {
	group         sceneGroup
	scenes        []models.EnrichedScene
	shooting      int
	rehearsal     int
	setup         int
	prevRealLocID string
}

// pack consumes ordered location groups and emits day records with 1-based
// sequential indices. A new location group always opens a new day.
func (p dayPacker) pack(groups []sceneGroup) []models.ShootingDay {
	var days []models.ShootingDay
	for _, group := range groups {
		acc := dayAccumulator{group: group}
		for _, scene := range group.Scenes {
			rehearsal := p.rehearsalFor(scene.ShootingMinutes)
			setup := 0
			if len(acc.scenes) > 0 && scene.RealLocationID != acc.prevRealLocID {
				setup = p.cfg.SetupMinutes
			}

			load := acc.shooting + acc.rehearsal + acc.setup
			overflow := load+scene.ShootingMinutes+rehearsal+setup > p.cfg.DailyCapMinutes
			full := len(acc.scenes) >= p.cfg.MaxScenesPerDay
			if len(acc.scenes) > 0 && (overflow || full) {
				days = append(days, p.close(acc, len(days)+1))
				acc = dayAccumulator{group: group}
				setup = 0
			}

			acc.scenes = append(acc.scenes, scene)
			acc.shooting += scene.ShootingMinutes
			acc.rehearsal += rehearsal
			acc.setup += setup
			acc.prevRealLocID = scene.RealLocationID
		}
		if len(acc.scenes) > 0 {
			days = append(days, p.close(acc, len(days)+1))
		}
	}
	return days
}

func (p dayPacker) rehearsalFor(shootingMinutes int) int {
	return int(math.Ceil(float64(shootingMinutes) * p.cfg.RehearsalRatio))
}

func (p dayPacker) close(acc dayAccumulator, dayIndex int) models.ShootingDay {
	return models.ShootingDay{
		DayIndex:             dayIndex,
		LocationGroupID:      acc.group.GroupID,
		LocationGroupName:    acc.group.GroupName,
		Scenes:               acc.scenes,
		TotalShootingMinutes: acc.shooting,
		RehearsalMinutes:     acc.rehearsal,
		RequiredCrew:         unionSorted(acc.scenes, func(s models.EnrichedScene) []string { return s.Crew }),
		RequiredEquipment:    unionSorted(acc.scenes, func(s models.EnrichedScene) []string { return s.Equipment }),
	}
}

// unionSorted collects the distinct items across all scenes, sorted for
// deterministic output.
func unionSorted(scenes []models.EnrichedScene, pick func(models.EnrichedScene) []string) []string {
	set := make(map[string]struct{})
	for _, scene := range scenes {
		for _, item := range pick(scene) {
			set[item] = struct{}{}
		}
	}
	result := make([]string, 0, len(set))
	for item := range set {
		result = append(result, item)
	}
	sort.Strings(result)
	return result
}
