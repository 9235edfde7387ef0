package dto

import "github.com/gistjackdaniel/filmWithAi-sub001/internal/models"

// SceneInput mirrors the storyboard scene payload sent by the main backend.
// Most fields are optional; the classifier fills defaults for whatever is
// missing.
type SceneInput struct {
	ID                   string   `json:"id"`
	SceneNumber          int      `json:"sceneNumber" validate:"required,min=1"`
	Title                string   `json:"title"`
	OnScreenDurationText string   `json:"onScreenDurationText"`
	Location             string   `json:"location"`
	Cast                 []string `json:"cast"`
	TimeOfDay            string   `json:"timeOfDay"`
	Equipment            []string `json:"equipment"`
	Crew                 []string `json:"crew"`
	Props                []string `json:"props"`
	Costumes             []string `json:"costumes"`
	SpecialRequirements  string   `json:"specialRequirements"`
}

// GenerateScheduleRequest asks the optimizer for a fresh multi-day plan.
type GenerateScheduleRequest struct {
	ProjectID string       `json:"projectId" validate:"required"`
	Scenes    []SceneInput `json:"scenes" validate:"dive"`
	// StartDate (YYYY-MM-DD) assigns sequential calendar dates to days when set.
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}

// GenerateScheduleResponse returns the generated plan plus its breakdown.
type GenerateScheduleResponse struct {
	ProposalID string                  `json:"proposalId,omitempty"`
	Schedule   models.ShootingSchedule `json:"schedule"`
	Breakdown  models.Breakdown        `json:"breakdown"`
	FromCache  bool                    `json:"fromCache"`
}

// SaveScheduleRequest persists a generated proposal as a project snapshot.
type SaveScheduleRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	Confirm    bool   `json:"confirm"`
}

// SnapshotQuery filters snapshot summaries by project.
type SnapshotQuery struct {
	ProjectID string `form:"projectId" json:"projectId"`
}

// Scene converts the transport shape into the immutable domain scene.
func (s SceneInput) Scene() models.Scene {
	return models.Scene{
		ID:                   s.ID,
		SceneNumber:          s.SceneNumber,
		Title:                s.Title,
		OnScreenDurationText: s.OnScreenDurationText,
		Location:             s.Location,
		Cast:                 s.Cast,
		TimeOfDay:            s.TimeOfDay,
		Equipment:            s.Equipment,
		Crew:                 s.Crew,
		Props:                s.Props,
		Costumes:             s.Costumes,
		SpecialRequirements:  s.SpecialRequirements,
	}
}
