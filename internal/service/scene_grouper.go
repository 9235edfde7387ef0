package service

import (
	"sort"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
)

// Combination score weights. Adjacent scenes sharing a dimension reward the
// ordering; the score is advisory and never constrains packing.
const (
	scoreSameLocation  = 1000
	scoreSharedCast    = 500
	scoreSameTimeSlot  = 200
	scoreSharedGear    = 100
	scoreLongScenePair = 50

	longSceneOnScreenMinutes = 8
)

// sceneGroup is one location-group cluster in shooting order.
type sceneGroup struct {
	GroupID   string
	GroupName string
	Scenes    []models.EnrichedScene
}

// groupScenes partitions enriched scenes by location group in first-encounter
// order. Synthetic unknown_scene_* groups carry unique ids, so each failed
// lookup stays a singleton.
func groupScenes(scenes []models.EnrichedScene) []sceneGroup {
	var groups []sceneGroup
	index := make(map[string]int)
	for _, scene := range scenes {
		pos, ok := index[scene.LocationGroupID]
		if !ok {
			pos = len(groups)
			index[scene.LocationGroupID] = pos
			groups = append(groups, sceneGroup{
				GroupID:   scene.LocationGroupID,
				GroupName: scene.LocationGroupName,
			})
		}
		groups[pos].Scenes = append(groups[pos].Scenes, scene)
	}
	for i := range groups {
		groups[i].Scenes = orderWithinGroup(groups[i].Scenes)
	}
	return groups
}

// orderWithinGroup partitions a group by real location (first-encounter
// order), sorts each bucket by scene number, and concatenates the buckets.
// The result is deterministic for a given input order.
func orderWithinGroup(scenes []models.EnrichedScene) []models.EnrichedScene {
	var bucketOrder []string
	buckets := make(map[string][]models.EnrichedScene)
	for _, scene := range scenes {
		if _, ok := buckets[scene.RealLocationID]; !ok {
			bucketOrder = append(bucketOrder, scene.RealLocationID)
		}
		buckets[scene.RealLocationID] = append(buckets[scene.RealLocationID], scene)
	}

	ordered := make([]models.EnrichedScene, 0, len(scenes))
	for _, realLocation := range bucketOrder {
		bucket := buckets[realLocation]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].SceneNumber < bucket[j].SceneNumber
		})
		ordered = append(ordered, bucket...)
	}
	return ordered
}

// flattenGroups concatenates group scene lists into the global shooting order.
func flattenGroups(groups []sceneGroup) []models.EnrichedScene {
	var ordered []models.EnrichedScene
	for _, group := range groups {
		ordered = append(ordered, group.Scenes...)
	}
	return ordered
}

// combinationScore rates an ordering by how often adjacent scenes share
// scheduling-relevant attributes.
func combinationScore(ordered []models.EnrichedScene) int {
	score := 0
	for i := 0; i < len(ordered)-1; i++ {
		current, next := ordered[i], ordered[i+1]
		if current.LocationGroupID == next.LocationGroupID {
			score += scoreSameLocation
		}
		if sharesAny(current.Cast, next.Cast) {
			score += scoreSharedCast
		}
		if current.TimeOfDay == next.TimeOfDay && current.TimeOfDay != models.TimeOfDayUnspecified {
			score += scoreSameTimeSlot
		}
		if sharesAny(current.Equipment, next.Equipment) {
			score += scoreSharedGear
		}
		if current.OnScreenMinutes >= longSceneOnScreenMinutes && next.OnScreenMinutes >= longSceneOnScreenMinutes {
			score += scoreLongScenePair
		}
	}
	return score
}

func sharesAny(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	for _, item := range b {
		if _, ok := set[item]; ok {
			return true
		}
	}
	return false
}
