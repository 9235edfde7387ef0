package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Timeline activity labels, matching the call-sheet vocabulary of the
// production team.
const (
	ActivityAssembly  = "집합"
	ActivityTravel    = "이동"
	ActivityRehearsal = "리허설"
	ActivitySetup     = "세팅"
	ActivityShooting  = "촬영"
	ActivityLunch     = "점심"
	ActivityDinner    = "저녁"
	ActivityWrap      = "정리"
)

// TimeBlock is one contiguous slot on a shooting day's wall-clock timeline.
type TimeBlock struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Activity    string `json:"activity"`
	Description string `json:"description"`
	SceneNumber int    `json:"sceneNumber,omitempty"`
}

// ShootingDay is one physical shooting day produced by the packer.
type ShootingDay struct {
	DayIndex             int             `json:"dayIndex"`
	Date                 string          `json:"date,omitempty"`
	LocationGroupID      string          `json:"locationGroupId"`
	LocationGroupName    string          `json:"locationGroupName,omitempty"`
	Scenes               []EnrichedScene `json:"scenes"`
	TotalShootingMinutes int             `json:"totalShootingMinutes"`
	RehearsalMinutes     int             `json:"rehearsalMinutes"`
	RequiredCrew         []string        `json:"requiredCrew"`
	RequiredEquipment    []string        `json:"requiredEquipment"`
	Timeline             []TimeBlock     `json:"timeline"`
}

// OptimizationScore reports how well the ordering clusters related scenes.
// Advisory only; packing never consults it.
type OptimizationScore struct {
	Total             int     `json:"total"`
	Average           float64 `json:"average"`
	EfficiencyPercent float64 `json:"efficiencyPercent"`
}

// ShootingSchedule is the full multi-day plan for a project's scene list.
type ShootingSchedule struct {
	Days                 []ShootingDay     `json:"days"`
	TotalDays            int               `json:"totalDays"`
	TotalScenes          int               `json:"totalScenes"`
	TotalShootingMinutes int               `json:"totalShootingMinutes"`
	OptimizationScore    OptimizationScore `json:"optimizationScore"`
	Message              string            `json:"message,omitempty"`
}

// Breakdown maps every resource category to its item buckets.
type Breakdown struct {
	Locations map[string][]SceneRef `json:"locations"`
	Cast      map[string][]SceneRef `json:"cast"`
	TimeSlots map[string][]SceneRef `json:"timeSlots"`
	Equipment map[string][]SceneRef `json:"equipment"`
	Crew      map[string][]SceneRef `json:"crew"`
	Props     map[string][]SceneRef `json:"props"`
	Costumes  map[string][]SceneRef `json:"costumes"`
}

// ScheduleSnapshotStatus tracks a persisted snapshot's lifecycle.
type ScheduleSnapshotStatus string

const (
	ScheduleSnapshotStatusDraft     ScheduleSnapshotStatus = "DRAFT"
	ScheduleSnapshotStatusConfirmed ScheduleSnapshotStatus = "CONFIRMED"
)

// ScheduleSnapshot is a persisted, versioned schedule for a project.
type ScheduleSnapshot struct {
	ID          string                 `db:"id" json:"id"`
	ProjectID   string                 `db:"project_id" json:"projectId"`
	Fingerprint string                 `db:"fingerprint" json:"fingerprint"`
	Version     int                    `db:"version" json:"version"`
	Status      ScheduleSnapshotStatus `db:"status" json:"status"`
	TotalDays   int                    `db:"total_days" json:"totalDays"`
	Score       float64                `db:"score" json:"score"`
	Payload     types.JSONText         `db:"payload" json:"payload"`
	CreatedAt   time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updatedAt"`
}

// Pagination describes paged list metadata in API responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}
