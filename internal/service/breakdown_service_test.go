package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
)

func TestBreakdownAggregateBucketsByResource(t *testing.T) {
	svc := NewBreakdownService()
	scenes := []models.Scene{
		{ID: "s1", SceneNumber: 1, Location: "카페", TimeOfDay: "밤", Cast: []string{"지은", "민호"}, Props: []string{"커피잔"}},
		{ID: "s2", SceneNumber: 2, Location: "카페", TimeOfDay: "낮", Cast: []string{"지은"}},
		{ID: "s3", SceneNumber: 3, Cast: []string{"민호"}, Costumes: []string{"교복"}},
	}

	breakdown := svc.Aggregate(scenes)

	require.Len(t, breakdown.Locations["카페"], 2)
	require.Len(t, breakdown.Locations["미정"], 1)
	assert.Len(t, breakdown.Cast["지은"], 2)
	assert.Len(t, breakdown.Cast["민호"], 2)
	assert.Len(t, breakdown.TimeSlots["밤"], 1)
	// s3 has no time of day, so it lands in the default bucket
	assert.Len(t, breakdown.TimeSlots["오후"], 1)
	assert.Len(t, breakdown.Props["커피잔"], 1)
	assert.Len(t, breakdown.Costumes["교복"], 1)
	// baseline crew applies to every scene
	assert.Len(t, breakdown.Crew["감독"], 3)
}

func TestBreakdownAggregateEmptyInput(t *testing.T) {
	svc := NewBreakdownService()
	breakdown := svc.Aggregate(nil)

	assert.NotNil(t, breakdown.Locations)
	assert.Empty(t, breakdown.Locations)
	assert.NotNil(t, breakdown.Cast)
}

func TestBreakdownDatasetRows(t *testing.T) {
	svc := NewBreakdownService()
	scenes := []models.Scene{
		{ID: "s1", SceneNumber: 1, Location: "카페", Cast: []string{"지은"}},
		{ID: "s2", SceneNumber: 2, Location: "카페"},
	}

	dataset := svc.Dataset(svc.Aggregate(scenes))
	assert.Equal(t, []string{"Category", "Item", "Scenes", "Count"}, dataset.Headers)

	var found bool
	for _, row := range dataset.Rows {
		if row["Category"] == "Location" && row["Item"] == "카페" {
			found = true
			assert.Equal(t, "1, 2", row["Scenes"])
			assert.Equal(t, "2", row["Count"])
		}
	}
	assert.True(t, found, "expected a Location row for 카페")
}
