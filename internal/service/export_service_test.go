package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/models"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
)

type fakeLeaderboardRanker struct {
	ranked []models.RankedStudent
}

func (f *fakeLeaderboardRanker) ScopeTop(context.Context, models.RankScope, string, int) ([]models.RankedStudent, error) {
	return f.ranked, nil
}

func (f *fakeLeaderboardRanker) GradeLeaderboard(context.Context, models.GradeLevel, int) ([]models.RankedStudent, error) {
	return f.ranked, nil
}

type fakeNameResolver struct {
	names map[string]string
}

func (f *fakeNameResolver) StudentNames(context.Context, []string) (map[string]string, error) {
	return f.names, nil
}

type fakeStudentFinder struct {
	student *models.Student
}

func (f *fakeStudentFinder) Student(context.Context, string) (*models.Student, error) {
	return f.student, nil
}

type fakeOverviewer struct {
	overview *CompletionOverview
}

func (f *fakeOverviewer) Overview(context.Context, *models.Student) (*CompletionOverview, error) {
	return f.overview, nil
}

func newExportService() *ExportService {
	return NewExportService(ExportServiceParams{
		Ranking: &fakeLeaderboardRanker{ranked: []models.RankedStudent{
			{StudentID: "s1", Score: 210.5, Rank: 1},
			{StudentID: "s2", Score: 88, Rank: 2},
		}},
		Profiles: &fakeNameResolver{names: map[string]string{"s1": "Ama K", "s2": "Kofi K"}},
		Students: &fakeStudentFinder{student: &models.Student{ID: "s1", FullName: "Ama K", Grade: models.Grade3}},
		Completion: &fakeOverviewer{overview: &CompletionOverview{
			Subjects: []models.SubjectCompletion{
				{SubjectID: "sub-a", Name: "Math", Taken: 4, Total: 4, Percent: 100},
				{SubjectID: "sub-b", Name: "Science", Taken: 2, Total: 4, Percent: 50},
			},
		}},
		Logger: zap.NewNop(),
	})
}

func TestExportScopeLeaderboardCSV(t *testing.T) {
	svc := newExportService()

	result, err := svc.ScopeLeaderboard(context.Background(), models.ScopeSchool, "school-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "leaderboard_school_school-1_"))

	body := string(result.Payload)
	assert.Contains(t, body, "Rank,Student,Score")
	assert.Contains(t, body, "1,Ama K,210.50")
	assert.Contains(t, body, "2,Kofi K,88.00")
}

func TestExportGradeLeaderboardPDF(t *testing.T) {
	svc := newExportService()

	result, err := svc.GradeLeaderboard(context.Background(), models.Grade3, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportStudentProgressCSV(t *testing.T) {
	svc := newExportService()

	result, err := svc.StudentProgress(context.Background(), "s1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "progress_s1_"))

	body := string(result.Payload)
	assert.Contains(t, body, "Subject,Taken,Total,Percent")
	assert.Contains(t, body, "Math,4,4,100")
	assert.Contains(t, body, "Science,2,4,50")
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := newExportService()

	_, err := svc.GradeLeaderboard(context.Background(), models.Grade3, ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
