package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/elearn-api/internal/dto"
	"github.com/noah-isme/elearn-api/internal/middleware"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
	"github.com/noah-isme/elearn-api/pkg/response"
)

type dashboardService interface {
	Student(ctx context.Context, userID string) (*dto.StudentDashboardResponse, bool, error)
	Kids(ctx context.Context, userID string) (*dto.KidsDashboardResponse, bool, error)
	Garden(ctx context.Context, userID string) (*dto.GardenDashboardResponse, bool, error)
	Parent(ctx context.Context, userID string) (*dto.ParentDashboardResponse, bool, error)
	Teacher(ctx context.Context, userID string) (*dto.TeacherDashboardResponse, bool, error)
	Admin(ctx context.Context) (*dto.AdminDashboardResponse, bool, error)
}

// DashboardHandler wires the dashboard views to HTTP endpoints. Every view
// is keyed by the authenticated identity; there are no query parameters.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Student godoc
// @Summary Student dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /dashboard/student [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	h.serve(c, func(ctx context.Context, userID string) (interface{}, bool, error) {
		return h.service.Student(ctx, userID)
	})
}

// Kids godoc
// @Summary Simplified dashboard for younger learners
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /dashboard/kids [get]
func (h *DashboardHandler) Kids(c *gin.Context) {
	h.serve(c, func(ctx context.Context, userID string) (interface{}, bool, error) {
		return h.service.Kids(ctx, userID)
	})
}

// Garden godoc
// @Summary Progress garden dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /dashboard/garden [get]
func (h *DashboardHandler) Garden(c *gin.Context) {
	h.serve(c, func(ctx context.Context, userID string) (interface{}, bool, error) {
		return h.service.Garden(ctx, userID)
	})
}

// Parent godoc
// @Summary Parent dashboard with per-child summaries
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /dashboard/parent [get]
func (h *DashboardHandler) Parent(c *gin.Context) {
	h.serve(c, func(ctx context.Context, userID string) (interface{}, bool, error) {
		return h.service.Parent(ctx, userID)
	})
}

// Teacher godoc
// @Summary Teacher dashboard with per-subject cohort overviews
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /dashboard/teacher [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	h.serve(c, func(ctx context.Context, userID string) (interface{}, bool, error) {
		return h.service.Teacher(ctx, userID)
	})
}

// Admin godoc
// @Summary Platform-wide admin dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, nil, meta)
}

func (h *DashboardHandler) serve(c *gin.Context, view func(ctx context.Context, userID string) (interface{}, bool, error)) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	start := time.Now()
	summary, cacheHit, err := view(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, nil, meta)
}
