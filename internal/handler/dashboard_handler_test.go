package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/elearn-api/internal/dto"
	"github.com/noah-isme/elearn-api/internal/middleware"
	"github.com/noah-isme/elearn-api/internal/models"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
)

type fakeDashboardSrv struct {
	studentResp *dto.StudentDashboardResponse
	studentErr  error
	studentHit  bool
	adminResp   *dto.AdminDashboardResponse
	adminHit    bool
	lastUserID  string
}

func (f *fakeDashboardSrv) Student(_ context.Context, userID string) (*dto.StudentDashboardResponse, bool, error) {
	f.lastUserID = userID
	return f.studentResp, f.studentHit, f.studentErr
}

func (f *fakeDashboardSrv) Kids(context.Context, string) (*dto.KidsDashboardResponse, bool, error) {
	return &dto.KidsDashboardResponse{}, false, nil
}

func (f *fakeDashboardSrv) Garden(context.Context, string) (*dto.GardenDashboardResponse, bool, error) {
	return &dto.GardenDashboardResponse{}, false, nil
}

func (f *fakeDashboardSrv) Parent(context.Context, string) (*dto.ParentDashboardResponse, bool, error) {
	return &dto.ParentDashboardResponse{}, false, nil
}

func (f *fakeDashboardSrv) Teacher(context.Context, string) (*dto.TeacherDashboardResponse, bool, error) {
	return &dto.TeacherDashboardResponse{}, false, nil
}

func (f *fakeDashboardSrv) Admin(context.Context) (*dto.AdminDashboardResponse, bool, error) {
	return f.adminResp, f.adminHit, nil
}

func TestDashboardHandlerStudentRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)

	handler.Student(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerStudentSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{
		studentResp: &dto.StudentDashboardResponse{OverallProgressPercent: 50},
		studentHit:  true,
	}
	handler := NewDashboardHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})

	handler.Student(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", service.lastUserID)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(50), envelope.Data["overall_progress_percent"])
}

func TestDashboardHandlerStudentProfileRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		studentErr: appErrors.Clone(appErrors.ErrProfileRequired, "no student profile"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/student", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})

	handler.Student(c)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
}

func TestDashboardHandlerAdminSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		adminResp: &dto.AdminDashboardResponse{Totals: dto.AdminTotals{Students: 42}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)

	handler.Admin(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, false, envelope.Meta["cache_hit"])
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
