package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/elearn-api/internal/models"
	"github.com/noah-isme/elearn-api/internal/service"
)

type fakeExportSrv struct {
	result      *service.ExportResult
	lastScope   models.RankScope
	lastGrade   models.GradeLevel
	lastStudent string
	lastFmt     service.ExportFormat
}

func (f *fakeExportSrv) ScopeLeaderboard(_ context.Context, scope models.RankScope, _ string, format service.ExportFormat) (*service.ExportResult, error) {
	f.lastScope = scope
	f.lastFmt = format
	return f.result, nil
}

func (f *fakeExportSrv) GradeLeaderboard(_ context.Context, grade models.GradeLevel, format service.ExportFormat) (*service.ExportResult, error) {
	f.lastGrade = grade
	f.lastFmt = format
	return f.result, nil
}

func (f *fakeExportSrv) StudentProgress(_ context.Context, studentID string, format service.ExportFormat) (*service.ExportResult, error) {
	f.lastStudent = studentID
	f.lastFmt = format
	return f.result, nil
}

func csvExportResult() *service.ExportResult {
	return &service.ExportResult{
		Filename:    "leaderboard_school_school-1_20260101_000000.csv",
		ContentType: "text/csv",
		Payload:     []byte("Rank,Student,Score\n1,Ama K,210.50\n"),
	}
}

func TestExportHandlerScopeLeaderboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{result: csvExportResult()}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/leaderboard?scope=school&scopeId=school-1", nil)

	handler.ScopeLeaderboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ScopeSchool, srv.lastScope)
	assert.Equal(t, service.ExportFormatCSV, srv.lastFmt)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "leaderboard_school_school-1")
	assert.Contains(t, rec.Body.String(), "1,Ama K,210.50")
}

func TestExportHandlerScopeLeaderboardRejectsUnknownScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/leaderboard?scope=galaxy&scopeId=g-1", nil)

	handler.ScopeLeaderboard(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerScopeLeaderboardRequiresScopeID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/leaderboard?scope=school", nil)

	handler.ScopeLeaderboard(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerGradeLeaderboard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{result: csvExportResult()}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/leaderboard/grades/3?format=pdf", nil)
	c.Params = gin.Params{{Key: "grade", Value: "3"}}

	handler.GradeLeaderboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Grade3, srv.lastGrade)
	assert.Equal(t, service.ExportFormat("pdf"), srv.lastFmt)
}

func TestExportHandlerStudentProgress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{result: csvExportResult()}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/students/s1/progress", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	handler.StudentProgress(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", srv.lastStudent)
}

func TestExportHandlerGradeLeaderboardUnknownGrade(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/leaderboard/grades/99", nil)
	c.Params = gin.Params{{Key: "grade", Value: "99"}}

	handler.GradeLeaderboard(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
