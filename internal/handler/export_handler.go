package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elearn-api/internal/models"
	"github.com/noah-isme/elearn-api/internal/service"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
	"github.com/noah-isme/elearn-api/pkg/response"
)

type exportService interface {
	ScopeLeaderboard(ctx context.Context, scope models.RankScope, scopeID string, format service.ExportFormat) (*service.ExportResult, error)
	GradeLeaderboard(ctx context.Context, grade models.GradeLevel, format service.ExportFormat) (*service.ExportResult, error)
	StudentProgress(ctx context.Context, studentID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams leaderboard exports as file downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ScopeLeaderboard godoc
// @Summary Export a scope leaderboard
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param scope query string true "Scope (school, district, county)"
// @Param scopeId query string true "Scope ID"
// @Param format query string false "Format (csv or pdf). Defaults to csv"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /exports/leaderboard [get]
func (h *ExportHandler) ScopeLeaderboard(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	scope, ok := parseScope(c.Query("scope"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "scope must be school, district or county"))
		return
	}
	scopeID := strings.TrimSpace(c.Query("scopeId"))
	if scopeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "scopeId is required"))
		return
	}

	result, err := h.service.ScopeLeaderboard(c.Request.Context(), scope, scopeID, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, result)
}

// GradeLeaderboard godoc
// @Summary Export a grade-level leaderboard
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param grade path string true "Grade level (e.g. 3 or GRADE 3)"
// @Param format query string false "Format (csv or pdf). Defaults to csv"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /exports/leaderboard/grades/{grade} [get]
func (h *ExportHandler) GradeLeaderboard(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	grade, ok := models.ParseGradeLevel(c.Param("grade"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown grade level"))
		return
	}

	result, err := h.service.GradeLeaderboard(c.Request.Context(), grade, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, result)
}

// StudentProgress godoc
// @Summary Export a per-student progress report
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "Format (csv or pdf). Defaults to csv"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/students/{id}/progress [get]
func (h *ExportHandler) StudentProgress(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return
	}

	result, err := h.service.StudentProgress(c.Request.Context(), studentID, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	stream(c, result)
}

func parseScope(raw string) (models.RankScope, bool) {
	switch models.RankScope(strings.ToLower(strings.TrimSpace(raw))) {
	case models.ScopeSchool:
		return models.ScopeSchool, true
	case models.ScopeDistrict:
		return models.ScopeDistrict, true
	case models.ScopeCounty:
		return models.ScopeCounty, true
	default:
		return "", false
	}
}

func exportFormat(c *gin.Context) service.ExportFormat {
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		return service.ExportFormatCSV
	}
	return service.ExportFormat(format)
}

func stream(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
