package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/dto"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	appErrors "github.com/gistjackdaniel/filmWithAi-sub001/pkg/errors"
)

type stubResolver struct {
	locations map[string]models.SceneLocation
	calls     int
}

func (s *stubResolver) Resolve(_ context.Context, _, sceneID string) (*models.SceneLocation, error) {
	s.calls++
	if loc, ok := s.locations[sceneID]; ok {
		return &loc, nil
	}
	return nil, appErrors.Clone(appErrors.ErrResolverFailure, "registry returned 500")
}

type fakeSnapshotStore struct {
	records []*models.ScheduleSnapshot
}

func (f *fakeSnapshotStore) CreateVersioned(_ context.Context, snapshot *models.ScheduleSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	snapshot.Version = len(f.records) + 1
	f.records = append(f.records, snapshot)
	return nil
}

func (f *fakeSnapshotStore) ListByProject(_ context.Context, projectID string) ([]models.ScheduleSnapshot, error) {
	var result []models.ScheduleSnapshot
	for _, record := range f.records {
		if record.ProjectID == projectID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (f *fakeSnapshotStore) FindByID(_ context.Context, id string) (*models.ScheduleSnapshot, error) {
	for _, record := range f.records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSnapshotStore) Delete(_ context.Context, id string) error {
	for i, record := range f.records {
		if record.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newScheduleServiceFixture(t *testing.T, locations *stubResolver, store SnapshotStore) *ScheduleService {
	t.Helper()
	svc, err := NewScheduleService(locations, store, nil, nil, nil, nil, ScheduleServiceConfig{})
	require.NoError(t, err)
	return svc
}

func cafeLocations() map[string]models.SceneLocation {
	return map[string]models.SceneLocation{
		"s1": {LocationGroupID: "cafe", RealLocationID: "cafe-1", GroupName: "강남 카페"},
		"s2": {LocationGroupID: "cafe", RealLocationID: "cafe-1", GroupName: "강남 카페"},
	}
}

func cafeRequest() dto.GenerateScheduleRequest {
	return dto.GenerateScheduleRequest{
		ProjectID: "proj-1",
		Scenes: []dto.SceneInput{
			{ID: "s1", SceneNumber: 1, Title: "재회", OnScreenDurationText: "2분", Cast: []string{"지은"}},
			{ID: "s2", SceneNumber: 2, Title: "이별", OnScreenDurationText: "3분", Cast: []string{"지은", "민호"}},
		},
	}
}

func TestScheduleServiceGenerateSuccess(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, nil)

	resp, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.ProposalID)

	// 2분 and 3분 become 120 and 180 shooting minutes and share a day.
	require.Len(t, resp.Schedule.Days, 1)
	day := resp.Schedule.Days[0]
	assert.Equal(t, 300, day.TotalShootingMinutes)
	assert.Equal(t, "cafe", day.LocationGroupID)
	assert.Equal(t, 120, day.Scenes[0].ShootingMinutes)
	assert.Equal(t, 180, day.Scenes[1].ShootingMinutes)
	assert.NotEmpty(t, day.Timeline)
	assert.Equal(t, 2, resp.Schedule.TotalScenes)
	assert.Greater(t, resp.Schedule.OptimizationScore.Total, 0)
	assert.NotEmpty(t, resp.Breakdown.Cast["지은"])
}

func TestScheduleServiceGenerateIsDeterministic(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, nil)

	first, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ProposalID, second.ProposalID)
	assert.Equal(t, first.Schedule, second.Schedule)
}

func TestScheduleServiceGenerateEmptyScenes(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{}, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "proj-1"})
	require.NoError(t, err)
	assert.Empty(t, resp.Schedule.Days)
	assert.Equal(t, "스케줄링할 씬이 없습니다", resp.Schedule.Message)
	assert.Empty(t, resp.ProposalID)
}

func TestScheduleServiceGenerateRequiresProjectID(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{}, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceFailedLookupsStaySingletons(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{}, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		ProjectID: "proj-1",
		Scenes: []dto.SceneInput{
			{ID: "s7", SceneNumber: 7, OnScreenDurationText: "1분"},
			{ID: "s9", SceneNumber: 9, OnScreenDurationText: "1분"},
		},
	})
	require.NoError(t, err)

	// Each unresolved scene gets its own synthetic group, so they never share a day.
	require.Len(t, resp.Schedule.Days, 2)
	assert.True(t, strings.HasPrefix(resp.Schedule.Days[0].LocationGroupID, "unknown_scene_"))
	assert.NotEqual(t, resp.Schedule.Days[0].LocationGroupID, resp.Schedule.Days[1].LocationGroupID)
}

func TestScheduleServiceGenerateAssignsSequentialDates(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{}, nil)

	req := dto.GenerateScheduleRequest{
		ProjectID: "proj-1",
		StartDate: "2026-03-02",
		Scenes: []dto.SceneInput{
			{ID: "s1", SceneNumber: 1, OnScreenDurationText: "1분"},
			{ID: "s2", SceneNumber: 2, OnScreenDurationText: "1분"},
		},
	}
	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Schedule.Days, 2)
	assert.Equal(t, "2026-03-02", resp.Schedule.Days[0].Date)
	assert.Equal(t, "2026-03-03", resp.Schedule.Days[1].Date)
}

func TestScheduleServiceGenerateNeverDropsScenes(t *testing.T) {
	locations := make(map[string]models.SceneLocation)
	var scenes []dto.SceneInput
	for i := 1; i <= 40; i++ {
		id := fmt.Sprintf("s%d", i)
		scenes = append(scenes, dto.SceneInput{ID: id, SceneNumber: i, OnScreenDurationText: "1분"})
		if i%3 != 0 {
			locations[id] = models.SceneLocation{
				LocationGroupID: fmt.Sprintf("group-%d", i%4),
				RealLocationID:  fmt.Sprintf("loc-%d", i%5),
			}
		}
	}
	svc := newScheduleServiceFixture(t, &stubResolver{locations: locations}, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{ProjectID: "proj-1", Scenes: scenes})
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, day := range resp.Schedule.Days {
		for _, scene := range day.Scenes {
			seen[scene.SceneNumber]++
		}
	}
	assert.Len(t, seen, 40)
	for number, count := range seen {
		assert.Equal(t, 1, count, "scene %d scheduled %d times", number, count)
	}
}

func TestScheduleServiceEfficiencyCappedAtHundred(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{locations: map[string]models.SceneLocation{
		"s1": {LocationGroupID: "desert", RealLocationID: "dune-1"},
	}}, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{
		ProjectID: "proj-1",
		Scenes:    []dto.SceneInput{{ID: "s1", SceneNumber: 1, OnScreenDurationText: "10분"}},
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, resp.Schedule.OptimizationScore.EfficiencyPercent, 100.0)
}

func TestScheduleServiceSavePersistsVersionedSnapshot(t *testing.T) {
	store := &fakeSnapshotStore{}
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, store)

	resp, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)

	id, err := svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID, Confirm: true})
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	assert.Equal(t, id, store.records[0].ID)
	assert.Equal(t, "proj-1", store.records[0].ProjectID)
	assert.Equal(t, models.ScheduleSnapshotStatusConfirmed, store.records[0].Status)
	assert.Equal(t, 1, store.records[0].TotalDays)
	assert.NotEmpty(t, store.records[0].Fingerprint)

	// The proposal is consumed on save.
	_, err = svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceSaveWithoutStore(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, nil)

	resp, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceSnapshotLifecycle(t *testing.T) {
	store := &fakeSnapshotStore{}
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, store)

	resp, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)
	id, err := svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID})
	require.NoError(t, err)

	list, err := svc.ListSnapshots(context.Background(), dto.SnapshotQuery{ProjectID: "proj-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	loaded, err := svc.GetSnapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleSnapshotStatusDraft, loaded.Status)

	require.NoError(t, svc.DeleteSnapshot(context.Background(), id))
	_, err = svc.GetSnapshot(context.Background(), id)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceDeleteConfirmedSnapshotRejected(t *testing.T) {
	store := &fakeSnapshotStore{}
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, store)

	resp, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)
	id, err := svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID, Confirm: true})
	require.NoError(t, err)

	err = svc.DeleteSnapshot(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceProposalExpiresAfterSave(t *testing.T) {
	svc := newScheduleServiceFixture(t, &stubResolver{locations: cafeLocations()}, &fakeSnapshotStore{})

	resp, err := svc.Generate(context.Background(), cafeRequest())
	require.NoError(t, err)

	proposal, err := svc.Proposal(resp.ProposalID)
	require.NoError(t, err)
	assert.Equal(t, resp.Schedule, proposal.Schedule)

	_, err = svc.Save(context.Background(), dto.SaveScheduleRequest{ProposalID: resp.ProposalID})
	require.NoError(t, err)
	_, err = svc.Proposal(resp.ProposalID)
	require.Error(t, err)
}
