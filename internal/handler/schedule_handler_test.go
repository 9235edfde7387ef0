package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistjackdaniel/filmWithAi-sub001/internal/dto"
	"github.com/gistjackdaniel/filmWithAi-sub001/internal/models"
	appErrors "github.com/gistjackdaniel/filmWithAi-sub001/pkg/errors"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/export"
	"github.com/gistjackdaniel/filmWithAi-sub001/pkg/response"
)

type scheduleServiceMock struct {
	generateResp *dto.GenerateScheduleResponse
	generateErr  error
	saveID       string
	saveErr      error
	proposalResp *dto.GenerateScheduleResponse
	proposalErr  error
	snapshots    []models.ScheduleSnapshot
	deleteErr    error
}

func (m *scheduleServiceMock) Generate(_ context.Context, _ dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	return m.generateResp, m.generateErr
}

func (m *scheduleServiceMock) Save(_ context.Context, _ dto.SaveScheduleRequest) (string, error) {
	return m.saveID, m.saveErr
}

func (m *scheduleServiceMock) Proposal(_ string) (*dto.GenerateScheduleResponse, error) {
	return m.proposalResp, m.proposalErr
}

func (m *scheduleServiceMock) ListSnapshots(_ context.Context, _ dto.SnapshotQuery) ([]models.ScheduleSnapshot, error) {
	return m.snapshots, nil
}

func (m *scheduleServiceMock) GetSnapshot(_ context.Context, id string) (*models.ScheduleSnapshot, error) {
	for i := range m.snapshots {
		if m.snapshots[i].ID == id {
			return &m.snapshots[i], nil
		}
	}
	return nil, appErrors.ErrNotFound
}

func (m *scheduleServiceMock) DeleteSnapshot(_ context.Context, _ string) error {
	return m.deleteErr
}

func (m *scheduleServiceMock) ScheduleDataset(_ models.ShootingSchedule) export.Dataset {
	return export.Dataset{Headers: []string{"Day"}, Rows: []map[string]string{{"Day": "1"}}}
}

func (m *scheduleServiceMock) BreakdownDataset(_ models.Breakdown) export.Dataset {
	return export.Dataset{Headers: []string{"Category"}, Rows: []map[string]string{{"Category": "Location"}}}
}

func newScheduleTestContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestScheduleHandlerGenerateSuccess(t *testing.T) {
	mock := &scheduleServiceMock{generateResp: &dto.GenerateScheduleResponse{
		ProposalID: "prop-1",
		Schedule:   models.ShootingSchedule{TotalDays: 1},
	}}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodPost, "/schedules", dto.GenerateScheduleRequest{ProjectID: "proj-1"})
	h.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestScheduleHandlerGenerateInvalidBody(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil)

	c, w := newScheduleTestContext(t, http.MethodPost, "/schedules", nil)
	c.Request.Body = http.NoBody
	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerGeneratePropagatesServiceError(t *testing.T) {
	mock := &scheduleServiceMock{generateErr: appErrors.Clone(appErrors.ErrValidation, "projectId required")}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodPost, "/schedules", dto.GenerateScheduleRequest{})
	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerSaveCreated(t *testing.T) {
	mock := &scheduleServiceMock{saveID: "snap-1"}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodPost, "/schedules/save", dto.SaveScheduleRequest{ProposalID: "prop-1"})
	h.Save(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "snap-1")
}

func TestScheduleHandlerExportScheduleCSV(t *testing.T) {
	mock := &scheduleServiceMock{proposalResp: &dto.GenerateScheduleResponse{ProposalID: "prop-1"}}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodGet, "/schedules/proposals/prop-1/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "prop-1"}}
	h.ExportSchedule(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule_prop-1.csv")
	assert.Contains(t, w.Body.String(), "Day")
}

func TestScheduleHandlerExportSchedulePDF(t *testing.T) {
	mock := &scheduleServiceMock{proposalResp: &dto.GenerateScheduleResponse{ProposalID: "prop-1"}}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodGet, "/schedules/proposals/prop-1/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "prop-1"}}
	h.ExportSchedule(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestScheduleHandlerExportUnknownFormat(t *testing.T) {
	mock := &scheduleServiceMock{proposalResp: &dto.GenerateScheduleResponse{ProposalID: "prop-1"}}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodGet, "/schedules/proposals/prop-1/export?format=xlsx", nil)
	c.Params = gin.Params{{Key: "id", Value: "prop-1"}}
	h.ExportSchedule(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerExportExpiredProposal(t *testing.T) {
	mock := &scheduleServiceMock{proposalErr: appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodGet, "/schedules/proposals/gone/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "gone"}}
	h.ExportSchedule(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlerExportBreakdown(t *testing.T) {
	mock := &scheduleServiceMock{proposalResp: &dto.GenerateScheduleResponse{ProposalID: "prop-1"}}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodGet, "/schedules/proposals/prop-1/breakdown/export", nil)
	c.Params = gin.Params{{Key: "id", Value: "prop-1"}}
	h.ExportBreakdown(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Category")
}

func TestScheduleHandlerListSnapshots(t *testing.T) {
	mock := &scheduleServiceMock{snapshots: []models.ScheduleSnapshot{{ID: "snap-1", ProjectID: "proj-1", Version: 1}}}
	h := NewScheduleHandler(mock, nil)

	c, w := newScheduleTestContext(t, http.MethodGet, "/schedules/snapshots?projectId=proj-1", nil)
	h.ListSnapshots(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "snap-1")
}

func TestScheduleHandlerDeleteSnapshot(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil)

	c, w := newScheduleTestContext(t, http.MethodDelete, "/schedules/snapshots/snap-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "snap-1"}}
	h.DeleteSnapshot(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestScheduleHandlerInvalidateCacheRequiresProject(t *testing.T) {
	h := NewScheduleHandler(&scheduleServiceMock{}, nil)

	c, w := newScheduleTestContext(t, http.MethodDelete, "/schedules/cache", nil)
	h.InvalidateCache(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
