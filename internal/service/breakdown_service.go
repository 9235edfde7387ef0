package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/export"
)

// Breakdown category labels used in the export dataset.
const (
	categoryLocation = "Location"
	categoryCast     = "Actor"
	categoryTimeSlot = "Time Slot"
	categoryGear     = "Equipment"
	categoryCrew     = "Crew"
	categoryProps    = "Props"
	categoryCostumes = "Costumes"
)

// BreakdownService classifies scenes by resource category for reporting.
// It runs over the raw scene list, independent of day packing.
type BreakdownService struct {
	classifier SceneClassifier
}

// NewBreakdownService constructs the aggregator.
func NewBreakdownService() *BreakdownService {
	return &BreakdownService{}
}

// Aggregate buckets every scene under each of its resource items.
func (s *BreakdownService) Aggregate(scenes []models.Scene) models.Breakdown {
	breakdown := models.Breakdown{
		Locations: make(map[string][]models.SceneRef),
		Cast:      make(map[string][]models.SceneRef),
		TimeSlots: make(map[string][]models.SceneRef),
		Equipment: make(map[string][]models.SceneRef),
		Crew:      make(map[string][]models.SceneRef),
		Props:     make(map[string][]models.SceneRef),
		Costumes:  make(map[string][]models.SceneRef),
	}

	for _, scene := range scenes {
		ref := scene.Ref()
		appendBucket(breakdown.Locations, s.classifier.Location(scene), ref)
		appendBucket(breakdown.TimeSlots, s.classifier.TimeOfDay(scene), ref)
		for _, actor := range s.classifier.Cast(scene) {
			appendBucket(breakdown.Cast, actor, ref)
		}
		for _, item := range s.classifier.Equipment(scene) {
			appendBucket(breakdown.Equipment, item, ref)
		}
		for _, member := range s.classifier.Crew(scene) {
			appendBucket(breakdown.Crew, member, ref)
		}
		for _, prop := range s.classifier.Props(scene) {
			appendBucket(breakdown.Props, prop, ref)
		}
		for _, costume := range s.classifier.Costumes(scene) {
			appendBucket(breakdown.Costumes, costume, ref)
		}
	}

	return breakdown
}

// Dataset renders the breakdown as the reporting CSV table.
func (s *BreakdownService) Dataset(breakdown models.Breakdown) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Category", "Item", "Scenes", "Count"},
	}
	categories := []struct {
		name    string
		buckets map[string][]models.SceneRef
	}{
		{categoryLocation, breakdown.Locations},
		{categoryCast, breakdown.Cast},
		{categoryTimeSlot, breakdown.TimeSlots},
		{categoryGear, breakdown.Equipment},
		{categoryCrew, breakdown.Crew},
		{categoryProps, breakdown.Props},
		{categoryCostumes, breakdown.Costumes},
	}
	for _, category := range categories {
		items := make([]string, 0, len(category.buckets))
		for item := range category.buckets {
			items = append(items, item)
		}
		sort.Strings(items)
		for _, item := range items {
			refs := category.buckets[item]
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Category": category.name,
				"Item":     item,
				"Scenes":   sceneNumberList(refs),
				"Count":    fmt.Sprintf("%d", len(refs)),
			})
		}
	}
	return dataset
}

func appendBucket(buckets map[string][]models.SceneRef, key string, ref models.SceneRef) {
	if key == "" {
		return
	}
	buckets[key] = append(buckets[key], ref)
}

func sceneNumberList(refs []models.SceneRef) string {
	numbers := make([]string, 0, len(refs))
	for _, ref := range refs {
		numbers = append(numbers, fmt.Sprintf("%d", ref.SceneNumber))
	}
	return strings.Join(numbers, ", ")
}
