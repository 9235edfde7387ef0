package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/dto"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/resolver"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/config"
	appErrors "github.com/gistjackdaniel/filmWithAi-sub001/pkg/errors"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/export"
)

const emptyScheduleMessage = "스케줄링할 씬이 없습니다"

// SnapshotStore persists versioned schedule snapshots. A nil store disables
// the save/list/delete surface.
type SnapshotStore interface {
	CreateVersioned(ctx context.Context, snapshot *models.ScheduleSnapshot) error
	ListByProject(ctx context.Context, projectID string) ([]models.ScheduleSnapshot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSnapshot, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleServiceConfig governs optimizer behaviour.
type ScheduleServiceConfig struct {
	Scheduler           config.SchedulerConfig
	ResolverConcurrency int
}

func (c *ScheduleServiceConfig) normalize() error {
	s := &c.Scheduler
	if s.ShootingRatio == 0 {
		s.ShootingRatio = 60
	}
	if s.FallbackOnScreenMinutes == 0 {
		s.FallbackOnScreenMinutes = 5
	}
	if s.DailyCapMinutes == 0 {
		s.DailyCapMinutes = 360
	}
	if s.MaxScenesPerDay == 0 {
		s.MaxScenesPerDay = 8
	}
	if s.DayStart == 0 {
		s.DayStart = 6 * 60
	}
	if s.AssemblyMinutes == 0 {
		s.AssemblyMinutes = 60
	}
	if s.TravelMinutes == 0 {
		s.TravelMinutes = 60
	}
	if s.MealMinutes == 0 {
		s.MealMinutes = 60
	}
	if s.WrapMinutes == 0 {
		s.WrapMinutes = 60
	}
	if s.ProposalTTL <= 0 {
		s.ProposalTTL = 30 * time.Minute
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = 10 * time.Minute
	}
	if c.ResolverConcurrency <= 0 {
		c.ResolverConcurrency = 8
	}

	if s.DailyCapMinutes < 0 {
		return fmt.Errorf("daily cap must be > 0, got %d", s.DailyCapMinutes)
	}
	if s.ShootingRatio < 0 {
		return fmt.Errorf("shooting ratio must be > 0, got %v", s.ShootingRatio)
	}
	if s.RehearsalRatio < 0 || s.RehearsalRatio >= 1 {
		return fmt.Errorf("rehearsal ratio must be in [0,1), got %v", s.RehearsalRatio)
	}
	if s.SetupMinutes < 0 {
		return fmt.Errorf("setup minutes must be >= 0, got %d", s.SetupMinutes)
	}
	if s.MaxScenesPerDay < 0 {
		return fmt.Errorf("max scenes per day must be > 0, got %d", s.MaxScenesPerDay)
	}
	return nil
}

// ScheduleService runs the shooting-schedule optimization pipeline and
// manages proposal and snapshot lifecycles.
type ScheduleService struct {
	locations           resolver.LocationResolver
	snapshots           SnapshotStore
	cache               *CacheService
	metrics             *MetricsService
	validator           *validator.Validate
	logger              *zap.Logger
	cfg                 config.SchedulerConfig
	resolverConcurrency int

	estimator  *DurationEstimator
	classifier SceneClassifier
	breakdowns *BreakdownService
	store      *proposalStore
}

// NewScheduleService wires optimizer dependencies. Invalid scheduler
// configuration is rejected here, before any scheduling run.
func NewScheduleService(
	locations resolver.LocationResolver,
	snapshots SnapshotStore,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleServiceConfig,
) (*ScheduleService, error) {
	if err := cfg.normalize(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduler configuration")
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		locations:           locations,
		snapshots:           snapshots,
		cache:               cache,
		metrics:             metrics,
		validator:           validate,
		logger:              logger,
		cfg:                 cfg.Scheduler,
		resolverConcurrency: cfg.ResolverConcurrency,
		estimator:           NewDurationEstimator(cfg.Scheduler.ShootingRatio, cfg.Scheduler.FallbackOnScreenMinutes),
		breakdowns:          NewBreakdownService(),
		store:               newProposalStore(cfg.Scheduler.ProposalTTL),
	}, nil
}

// Generate runs the full pipeline: enrichment, grouping, packing, timeline
// expansion, and breakdown aggregation. The run is a pure function of its
// input and the registry's answers, so identical requests yield identical
// schedules.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	scenes := make([]models.Scene, 0, len(req.Scenes))
	for _, input := range req.Scenes {
		scenes = append(scenes, input.Scene())
	}

	if len(scenes) == 0 {
		return &dto.GenerateScheduleResponse{
			Schedule: models.ShootingSchedule{
				Days:    []models.ShootingDay{},
				Message: emptyScheduleMessage,
			},
			Breakdown: s.breakdowns.Aggregate(nil),
		}, nil
	}

	fingerprint := sceneFingerprint(scenes)
	cacheKey := fmt.Sprintf("schedule:%s:%s", req.ProjectID, fingerprint)
	if s.cache != nil {
		var cached dto.GenerateScheduleResponse
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			cached.FromCache = true
			return &cached, nil
		}
	}

	started := time.Now()
	enriched := s.enrichScenes(ctx, req.ProjectID, scenes)

	groups := groupScenes(enriched)
	ordered := flattenGroups(groups)

	packer := dayPacker{cfg: s.cfg}
	days := packer.pack(groups)
	assignDates(days, req.StartDate)

	builder := timelineBuilder{cfg: s.cfg}
	totalShooting := 0
	for i := range days {
		builder.build(&days[i])
		totalShooting += days[i].TotalShootingMinutes
	}

	schedule := models.ShootingSchedule{
		Days:                 days,
		TotalDays:            len(days),
		TotalScenes:          len(ordered),
		TotalShootingMinutes: totalShooting,
		OptimizationScore:    s.scoreSchedule(ordered, len(days), totalShooting),
	}

	resp := &dto.GenerateScheduleResponse{
		ProposalID: uuid.NewString(),
		Schedule:   schedule,
		Breakdown:  s.breakdowns.Aggregate(scenes),
	}

	s.store.Save(scheduleProposal{
		ProposalID:  resp.ProposalID,
		ProjectID:   req.ProjectID,
		Fingerprint: fingerprint,
		Schedule:    schedule,
		Breakdown:   resp.Breakdown,
		RequestedAt: time.Now().UTC(),
	})

	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(started), len(days))
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	}

	s.logger.Info("schedule generated",
		zap.String("project_id", req.ProjectID),
		zap.Int("scenes", len(ordered)),
		zap.Int("days", len(days)),
		zap.Int("score", schedule.OptimizationScore.Total))

	return resp, nil
}

// Save persists a previously generated proposal as a versioned snapshot.
func (s *ScheduleService) Save(ctx context.Context, req dto.SaveScheduleRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save schedule payload")
	}
	if s.snapshots == nil {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "snapshot persistence is disabled")
	}
	proposal, ok := s.store.Get(req.ProposalID)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}

	payload, err := json.Marshal(map[string]any{
		"schedule":  proposal.Schedule,
		"breakdown": proposal.Breakdown,
	})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule payload")
	}

	status := models.ScheduleSnapshotStatusDraft
	if req.Confirm {
		status = models.ScheduleSnapshotStatusConfirmed
	}
	record := &models.ScheduleSnapshot{
		ProjectID:   proposal.ProjectID,
		Fingerprint: proposal.Fingerprint,
		Status:      status,
		TotalDays:   proposal.Schedule.TotalDays,
		Score:       proposal.Schedule.OptimizationScore.EfficiencyPercent,
		Payload:     types.JSONText(payload),
	}
	if err := s.snapshots.CreateVersioned(ctx, record); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule snapshot")
	}

	s.store.Delete(req.ProposalID)
	return record.ID, nil
}

// Proposal returns a stored proposal for export rendering.
func (s *ScheduleService) Proposal(proposalID string) (*dto.GenerateScheduleResponse, error) {
	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	return &dto.GenerateScheduleResponse{
		ProposalID: proposal.ProposalID,
		Schedule:   proposal.Schedule,
		Breakdown:  proposal.Breakdown,
	}, nil
}

// ListSnapshots returns stored snapshot versions for a project.
func (s *ScheduleService) ListSnapshots(ctx context.Context, query dto.SnapshotQuery) ([]models.ScheduleSnapshot, error) {
	if query.ProjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "projectId is required")
	}
	if s.snapshots == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "snapshot persistence is disabled")
	}
	list, err := s.snapshots.ListByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule snapshots")
	}
	return list, nil
}

// GetSnapshot loads one snapshot by id.
func (s *ScheduleService) GetSnapshot(ctx context.Context, id string) (*models.ScheduleSnapshot, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "snapshot id is required")
	}
	if s.snapshots == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "snapshot persistence is disabled")
	}
	record, err := s.snapshots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule snapshot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule snapshot")
	}
	return record, nil
}

// DeleteSnapshot removes a draft snapshot.
func (s *ScheduleService) DeleteSnapshot(ctx context.Context, id string) error {
	record, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != models.ScheduleSnapshotStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft snapshots can be deleted")
	}
	if err := s.snapshots.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule snapshot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule snapshot")
	}
	return nil
}

// ScheduleDataset renders a schedule as the call-sheet table.
func (s *ScheduleService) ScheduleDataset(schedule models.ShootingSchedule) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Day", "Date", "Location", "Scenes", "Estimated Duration", "Crew", "Equipment"},
	}
	for _, day := range schedule.Days {
		location := day.LocationGroupName
		if location == "" {
			location = day.LocationGroupID
		}
		numbers := make([]string, 0, len(day.Scenes))
		for _, scene := range day.Scenes {
			numbers = append(numbers, fmt.Sprintf("%d", scene.SceneNumber))
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":                fmt.Sprintf("%d", day.DayIndex),
			"Date":               day.Date,
			"Location":           location,
			"Scenes":             strings.Join(numbers, ", "),
			"Estimated Duration": fmt.Sprintf("%d분", day.TotalShootingMinutes+day.RehearsalMinutes),
			"Crew":               strings.Join(day.RequiredCrew, ", "),
			"Equipment":          strings.Join(day.RequiredEquipment, ", "),
		})
	}
	return dataset
}

// BreakdownDataset renders the breakdown report table.
func (s *ScheduleService) BreakdownDataset(breakdown models.Breakdown) export.Dataset {
	return s.breakdowns.Dataset(breakdown)
}

// enrichScenes derives per-scene attributes synchronously, then resolves
// locations with bounded concurrency. Results merge back by index, so no
// cross-lookup ordering is needed.
func (s *ScheduleService) enrichScenes(ctx context.Context, projectID string, scenes []models.Scene) []models.EnrichedScene {
	enriched := make([]models.EnrichedScene, len(scenes))
	for i, scene := range scenes {
		normalized := scene
		normalized.Location = s.classifier.Location(scene)
		normalized.TimeOfDay = s.classifier.TimeOfDay(scene)
		normalized.Cast = s.classifier.Cast(scene)
		normalized.Equipment = s.classifier.Equipment(scene)
		normalized.Crew = s.classifier.Crew(scene)
		normalized.Props = s.classifier.Props(scene)
		normalized.Costumes = s.classifier.Costumes(scene)

		onScreen := s.estimator.OnScreenMinutes(scene.OnScreenDurationText)
		enriched[i] = models.EnrichedScene{
			Scene:           normalized,
			OnScreenMinutes: onScreen,
			ShootingMinutes: s.estimator.ShootingMinutes(onScreen),
		}
	}

	sem := make(chan struct{}, s.resolverConcurrency)
	var wg sync.WaitGroup
	for i := range enriched {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			s.resolveLocation(ctx, projectID, &enriched[i])
		}(i)
	}
	wg.Wait()

	return enriched
}

func (s *ScheduleService) resolveLocation(ctx context.Context, projectID string, scene *models.EnrichedScene) {
	var (
		location *models.SceneLocation
		err      error
	)
	if s.locations != nil {
		location, err = s.locations.Resolve(ctx, projectID, scene.ID)
	}
	if location == nil {
		fallback := resolver.Fallback(scene.SceneNumber)
		location = &fallback
		if err != nil {
			if s.metrics != nil {
				s.metrics.RecordResolverFailure()
			}
			s.logger.Warn("location lookup failed, using singleton group",
				zap.String("project_id", projectID),
				zap.Int("scene_number", scene.SceneNumber),
				zap.Error(err))
		}
	}
	scene.LocationGroupID = location.LocationGroupID
	scene.RealLocationID = location.RealLocationID
	scene.LocationGroupName = location.GroupName
	scene.RealLocationName = location.RealLocationName
}

func (s *ScheduleService) scoreSchedule(ordered []models.EnrichedScene, totalDays, totalShooting int) models.OptimizationScore {
	total := combinationScore(ordered)
	score := models.OptimizationScore{Total: total}
	if pairs := len(ordered) - 1; pairs > 0 {
		score.Average = float64(total) / float64(pairs)
	}
	if totalDays > 0 {
		efficiency := float64(totalShooting) / float64(totalDays*s.cfg.DailyCapMinutes) * 100
		if efficiency > 100 {
			efficiency = 100
		}
		score.EfficiencyPercent = efficiency
	}
	return score
}

// assignDates stamps sequential calendar dates onto days when a start date
// was supplied.
func assignDates(days []models.ShootingDay, startDate string) {
	if startDate == "" {
		return
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return
	}
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i).Format("2006-01-02")
	}
}

// sceneFingerprint hashes the canonical scene list. Schedules are cached and
// snapshotted against this value, so any scene change invalidates them.
func sceneFingerprint(scenes []models.Scene) string {
	payload, err := json.Marshal(scenes)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// --- Proposal cache ---

type scheduleProposal struct {
	ProposalID  string
	ProjectID   string
	Fingerprint string
	Schedule    models.ShootingSchedule
	Breakdown   models.Breakdown
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]scheduleProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]scheduleProposal),
	}
}

func (s *proposalStore) Save(proposal scheduleProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (scheduleProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return scheduleProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return scheduleProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
