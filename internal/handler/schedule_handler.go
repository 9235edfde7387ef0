package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/dto"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	appErrors "github.com/gistjackdaniel/filmWithAi-sub001/pkg/errors"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/export"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/response"
)

type scheduleService interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Save(ctx context.Context, req dto.SaveScheduleRequest) (string, error)
	Proposal(proposalID string) (*dto.GenerateScheduleResponse, error)
	ListSnapshots(ctx context.Context, query dto.SnapshotQuery) ([]models.ScheduleSnapshot, error)
	GetSnapshot(ctx context.Context, id string) (*models.ScheduleSnapshot, error)
	DeleteSnapshot(ctx context.Context, id string) error
	ScheduleDataset(schedule models.ShootingSchedule) export.Dataset
	BreakdownDataset(breakdown models.Breakdown) export.Dataset
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ScheduleHandler exposes schedule optimization endpoints.
type ScheduleHandler struct {
	service scheduleService
	cache   cacheInvalidator
	csv     csvRenderer
	pdf     pdfRenderer
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService, cache cacheInvalidator) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		cache:   cache,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// Generate godoc
// @Summary Generate an optimized shooting schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Scenes to schedule"
// @Success 200 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Persist a generated schedule proposal as a snapshot
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Proposal reference"
// @Success 201 {object} response.Envelope
// @Router /schedules/save [post]
func (h *ScheduleHandler) Save(c *gin.Context) {
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid save payload"))
		return
	}
	id, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"snapshotId": id})
}

// ExportSchedule godoc
// @Summary Export a proposal's call sheet as CSV or PDF
// @Tags Schedules
// @Produce application/octet-stream
// @Param id path string true "Proposal ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /schedules/proposals/{id}/export [get]
func (h *ScheduleHandler) ExportSchedule(c *gin.Context) {
	proposal, err := h.service.Proposal(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset := h.service.ScheduleDataset(proposal.Schedule)
	h.render(c, dataset, "Shooting Schedule", fmt.Sprintf("schedule_%s", proposal.ProposalID))
}

// ExportBreakdown godoc
// @Summary Export a proposal's production breakdown as CSV or PDF
// @Tags Schedules
// @Produce application/octet-stream
// @Param id path string true "Proposal ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /schedules/proposals/{id}/breakdown/export [get]
func (h *ScheduleHandler) ExportBreakdown(c *gin.Context) {
	proposal, err := h.service.Proposal(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset := h.service.BreakdownDataset(proposal.Breakdown)
	h.render(c, dataset, "Production Breakdown", fmt.Sprintf("breakdown_%s", proposal.ProposalID))
}

func (h *ScheduleHandler) render(c *gin.Context, dataset export.Dataset, title, filename string) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, title)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

// ListSnapshots godoc
// @Summary List stored schedule snapshots for a project
// @Tags Snapshots
// @Produce json
// @Param projectId query string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/snapshots [get]
func (h *ScheduleHandler) ListSnapshots(c *gin.Context) {
	list, err := h.service.ListSnapshots(c.Request.Context(), dto.SnapshotQuery{ProjectID: c.Query("projectId")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// GetSnapshot godoc
// @Summary Load one schedule snapshot
// @Tags Snapshots
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/snapshots/{id} [get]
func (h *ScheduleHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.service.GetSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// DeleteSnapshot godoc
// @Summary Delete a draft schedule snapshot
// @Tags Snapshots
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 204 {object} nil
// @Router /schedules/snapshots/{id} [delete]
func (h *ScheduleHandler) DeleteSnapshot(c *gin.Context) {
	if err := h.service.DeleteSnapshot(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// InvalidateCache godoc
// @Summary Drop cached schedules for a project
// @Tags Schedules
// @Produce json
// @Param projectId query string true "Project ID"
// @Success 204 {object} nil
// @Router /schedules/cache [delete]
func (h *ScheduleHandler) InvalidateCache(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "projectId required"))
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(c.Request.Context(), fmt.Sprintf("schedule:%s:*", projectID)); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate cache"))
			return
		}
	}
	response.NoContent(c)
}
