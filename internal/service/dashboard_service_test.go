package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/dto"
	"github.com/noah-isme/elearn-api/internal/models"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
)

type fakeProfiles struct {
	student *models.Student
	teacher *models.TeacherProfile
	parent  *models.ParentProfile
	kids    []models.Student
}

func (f *fakeProfiles) StudentOf(context.Context, string) (*models.Student, error) {
	if f.student == nil {
		return nil, appErrors.Clone(appErrors.ErrProfileRequired, "a student profile is required for this view")
	}
	return f.student, nil
}

func (f *fakeProfiles) TeacherOf(context.Context, string) (*models.TeacherProfile, error) {
	if f.teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrProfileRequired, "a teacher profile is required for this view")
	}
	return f.teacher, nil
}

func (f *fakeProfiles) ChildrenOf(context.Context, string) (*models.ParentProfile, []models.Student, error) {
	if f.parent == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrProfileRequired, "a parent profile is required for this view")
	}
	return f.parent, f.kids, nil
}

type fakeStreaks struct {
	result models.StreakResult
	points int
}

func (f *fakeStreaks) Streaks(context.Context, string) (models.StreakResult, error) {
	return f.result, nil
}

func (f *fakeStreaks) PointsThisMonth(context.Context, string) (int, error) {
	return f.points, nil
}

type fakeCompletion struct {
	overview *CompletionOverview
	items    []dto.ContinueLearningItem
}

func (f *fakeCompletion) Overview(context.Context, *models.Student) (*CompletionOverview, error) {
	return f.overview, nil
}

func (f *fakeCompletion) ContinueLearning(context.Context, *models.Student) ([]dto.ContinueLearningItem, error) {
	return f.items, nil
}

type fakeRanking struct {
	assessment  *models.AssessmentRank
	engagement  *models.RankResult
	scopeRanks  map[models.RankScope]*models.RankResult
	leaderboard []models.RankedStudent
	topN        int
}

func (f *fakeRanking) AssessmentRank(context.Context, *models.Student) (*models.AssessmentRank, error) {
	return f.assessment, nil
}

func (f *fakeRanking) EngagementRank(context.Context, *models.Student) (*models.RankResult, error) {
	return f.engagement, nil
}

func (f *fakeRanking) ScopeRank(_ context.Context, scope models.RankScope, _, _ string) (*models.RankResult, error) {
	return f.scopeRanks[scope], nil
}

func (f *fakeRanking) GradeLeaderboard(context.Context, models.GradeLevel, int) ([]models.RankedStudent, error) {
	return f.leaderboard, nil
}

func (f *fakeRanking) TopN() int {
	if f.topN == 0 {
		return 20
	}
	return f.topN
}

type fakeHierarchy struct {
	hierarchy models.SchoolHierarchy
	subjects  []models.Subject
	counts    []models.SubjectLessonCount
}

func (f *fakeHierarchy) SchoolHierarchy(context.Context, string) (*models.SchoolHierarchy, error) {
	h := f.hierarchy
	return &h, nil
}

func (f *fakeHierarchy) SubjectsForTeacher(context.Context, string) ([]models.Subject, error) {
	return f.subjects, nil
}

func (f *fakeHierarchy) SubjectLessonCounts(context.Context, models.GradeLevel) ([]models.SubjectLessonCount, error) {
	return f.counts, nil
}

type fakeFeed struct {
	activities    []models.ActivityEntry
	subjectCounts []models.StudentLessonCount
	lessonsTotal  int
}

func (f *fakeFeed) RecentActivities(context.Context, string, int) ([]models.ActivityEntry, error) {
	return f.activities, nil
}

func (f *fakeFeed) LessonCountsForSubject(context.Context, string) ([]models.StudentLessonCount, error) {
	return f.subjectCounts, nil
}

func (f *fakeFeed) CountLessonsTaken(context.Context) (int, error) {
	return f.lessonsTotal, nil
}

type fakeAssessments struct {
	upcoming []models.UpcomingAssessment
	total    int
}

func (f *fakeAssessments) UpcomingAssessments(context.Context, models.GradeLevel, time.Time, time.Time) ([]models.UpcomingAssessment, error) {
	return f.upcoming, nil
}

func (f *fakeAssessments) CountGrades(context.Context) (int, error) {
	return f.total, nil
}

type fakeStudentCount struct {
	total int
}

func (f *fakeStudentCount) CountStudents(context.Context) (int, error) {
	return f.total, nil
}

func baseOverview() *CompletionOverview {
	return &CompletionOverview{
		Subjects: []models.SubjectCompletion{
			{SubjectID: "sub-a", Name: "Math", Taken: 4, Total: 4, Percent: 100},
			{SubjectID: "sub-b", Name: "Science", Taken: 2, Total: 4, Percent: 50},
		},
		QuickStats:             dto.QuickStats{TotalCourses: 2, CompletedCourses: 1, InProgressCourses: 1},
		OverallProgressPercent: 50,
	}
}

func newStudentDashboard(profiles *fakeProfiles, ranking *fakeRanking, cache *CacheService) (*DashboardService, *fakeAssessments) {
	assessments := &fakeAssessments{upcoming: []models.UpcomingAssessment{}}
	svc := NewDashboardService(DashboardServiceParams{
		Profiles:   profiles,
		Streaks:    &fakeStreaks{result: models.StreakResult{Current: 3, Longest: 5}, points: 9},
		Completion: &fakeCompletion{overview: baseOverview()},
		Ranking:    ranking,
		Catalog:    &fakeHierarchy{},
		Activity:   &fakeFeed{},
		Grades:     assessments,
		Students:   &fakeStudentCount{},
		Cache:      cache,
		Logger:     zap.NewNop(),
	})
	return svc, assessments
}

func TestDashboardStudentComposes(t *testing.T) {
	due := time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)
	profiles := &fakeProfiles{student: grade3Student()}
	ranking := &fakeRanking{assessment: &models.AssessmentRank{
		AssessmentID: "a-1", AssessmentTitle: "Science Quiz", Rank: 2, GradedAt: due,
	}}
	svc, assessments := newStudentDashboard(profiles, ranking, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false))
	assessments.upcoming = []models.UpcomingAssessment{{Title: "Science Quiz", DueAt: &due}}
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	result, cacheHit, err := svc.Student(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 1, result.AssignmentsDueThisWeek)
	assert.Equal(t, 50, result.OverallProgressPercent)
	assert.Equal(t, dto.QuickStats{TotalCourses: 2, CompletedCourses: 1, InProgressCourses: 1}, result.QuickStats)
	assert.True(t, result.StudentRanking.Show)
	assert.Equal(t, models.BadgeAssessmentTop20, result.StudentRanking.Type)
	assert.Equal(t, 2, result.StudentRanking.Rank)
	assert.Equal(t, "Ranked #2 in Science Quiz", result.StudentRanking.Subtitle)
	require.Len(t, result.Upcoming, 1)
	require.NotNil(t, result.Upcoming[0].DueInDays)
	assert.Equal(t, 3, *result.Upcoming[0].DueInDays)
	assert.Equal(t, 3, result.Streaks.CurrentStudyStreakDays)
	assert.Equal(t, 9, result.Streaks.PointsThisMonth)
}

func TestDashboardStudentCachedPayloadSurvivesDataChange(t *testing.T) {
	profiles := &fakeProfiles{student: grade3Student()}
	ranking := &fakeRanking{engagement: &models.RankResult{Rank: 4, OutOf: 30}}
	cache := NewCacheService(newStubCacheBackend(), nil, time.Minute, zap.NewNop(), true)
	svc, assessments := newStudentDashboard(profiles, ranking, cache)

	first, hit, err := svc.Student(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, hit)

	// Underlying data changes inside the TTL window; the cached blob wins.
	due := time.Now().UTC().Add(48 * time.Hour)
	assessments.upcoming = []models.UpcomingAssessment{{Title: "New Quiz", DueAt: &due}}

	second, hit, err := svc.Student(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, second.AssignmentsDueThisWeek)
}

func TestDashboardBadgeFallsBackToEngagement(t *testing.T) {
	profiles := &fakeProfiles{student: grade3Student()}
	ranking := &fakeRanking{engagement: &models.RankResult{Rank: 7, OutOf: 40}}
	svc, _ := newStudentDashboard(profiles, ranking, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false))

	result, _, err := svc.Student(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, result.StudentRanking.Show)
	assert.Equal(t, models.BadgeEngagementTop20, result.StudentRanking.Type)
	assert.Equal(t, 7, result.StudentRanking.Rank)
}

func TestDashboardBadgeHiddenBeyondThreshold(t *testing.T) {
	profiles := &fakeProfiles{student: grade3Student()}
	ranking := &fakeRanking{engagement: &models.RankResult{Rank: 21, OutOf: 100}}
	svc, _ := newStudentDashboard(profiles, ranking, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false))

	result, _, err := svc.Student(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, result.StudentRanking.Show)
	assert.Empty(t, result.StudentRanking.Type)
	assert.Zero(t, result.StudentRanking.Rank)
}

func TestDashboardStudentRequiresProfile(t *testing.T) {
	svc, _ := newStudentDashboard(&fakeProfiles{}, &fakeRanking{}, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false))

	_, _, err := svc.Student(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileRequired.Code, appErrors.FromError(err).Code)
}

func TestDashboardGardenScopeRanks(t *testing.T) {
	schoolID := "school-1"
	districtID := "district-1"
	profiles := &fakeProfiles{student: grade3Student()}
	ranking := &fakeRanking{scopeRanks: map[models.RankScope]*models.RankResult{
		models.ScopeSchool:   {Rank: 2, OutOf: 25, Scope: models.ScopeSchool},
		models.ScopeDistrict: {Rank: 11, OutOf: 310, Scope: models.ScopeDistrict},
	}}
	svc := NewDashboardService(DashboardServiceParams{
		Profiles:   profiles,
		Streaks:    &fakeStreaks{result: models.StreakResult{Current: 2}},
		Completion: &fakeCompletion{overview: baseOverview()},
		Ranking:    ranking,
		Catalog:    &fakeHierarchy{hierarchy: models.SchoolHierarchy{SchoolID: &schoolID, DistrictID: &districtID}},
		Activity:   &fakeFeed{},
		Grades:     &fakeAssessments{},
		Students:   &fakeStudentCount{},
		Cache:      NewCacheService(nil, nil, time.Minute, zap.NewNop(), false),
		Logger:     zap.NewNop(),
	})

	result, _, err := svc.Garden(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, result.RankInSchool)
	assert.Equal(t, dto.ScopeRank{Rank: 2, OutOf: 25}, *result.RankInSchool)
	require.NotNil(t, result.RankInDistrict)
	// County never resolved for this student.
	assert.Nil(t, result.RankInCounty)
	assert.Equal(t, 50, result.OverallProgressPercent)
}

func TestDashboardParentSummaries(t *testing.T) {
	profiles := &fakeProfiles{
		parent: &models.ParentProfile{ID: "parent-1", UserID: "user-9", FullName: "P"},
		kids: []models.Student{
			{ID: "student-1", FullName: "Ama K", Grade: models.Grade3},
		},
	}
	ranking := &fakeRanking{engagement: &models.RankResult{Rank: 3, OutOf: 12}}
	svc := NewDashboardService(DashboardServiceParams{
		Profiles:   profiles,
		Streaks:    &fakeStreaks{result: models.StreakResult{Current: 4}},
		Completion: &fakeCompletion{overview: baseOverview()},
		Ranking:    ranking,
		Catalog:    &fakeHierarchy{},
		Activity:   &fakeFeed{},
		Grades:     &fakeAssessments{},
		Students:   &fakeStudentCount{},
		Cache:      NewCacheService(nil, nil, time.Minute, zap.NewNop(), false),
		Logger:     zap.NewNop(),
	})

	result, _, err := svc.Parent(context.Background(), "user-9")
	require.NoError(t, err)
	require.Len(t, result.Children, 1)
	child := result.Children[0]
	assert.Equal(t, "Ama K", child.Name)
	assert.Equal(t, 50, child.OverallProgressPercent)
	assert.Equal(t, 4, child.CurrentStreakDays)
	assert.True(t, child.Ranking.Show)
}

func TestDashboardTeacherSubjectOverview(t *testing.T) {
	profiles := &fakeProfiles{teacher: &models.TeacherProfile{ID: "teacher-1", UserID: "user-2"}}
	svc := NewDashboardService(DashboardServiceParams{
		Profiles:   profiles,
		Streaks:    &fakeStreaks{},
		Completion: &fakeCompletion{overview: baseOverview()},
		Ranking:    &fakeRanking{},
		Catalog: &fakeHierarchy{
			subjects: []models.Subject{{ID: "sub-a", Name: "Math", Grade: models.Grade3}},
			counts:   []models.SubjectLessonCount{{SubjectID: "sub-a", Name: "Math", TotalLessons: 4}},
		},
		Activity: &fakeFeed{subjectCounts: []models.StudentLessonCount{
			{StudentID: "s1", LessonCount: 4},
			{StudentID: "s2", LessonCount: 2},
		}},
		Grades:   &fakeAssessments{},
		Students: &fakeStudentCount{},
		Cache:    NewCacheService(nil, nil, time.Minute, zap.NewNop(), false),
		Logger:   zap.NewNop(),
	})

	result, _, err := svc.Teacher(context.Background(), "user-2")
	require.NoError(t, err)
	require.Len(t, result.Subjects, 1)
	overview := result.Subjects[0]
	assert.Equal(t, 2, overview.ActiveStudents)
	assert.Equal(t, 75, overview.AverageCompletionPercent)
	require.Len(t, overview.TopPerformers, 2)
	assert.Equal(t, "s1", overview.TopPerformers[0].StudentID)
}

func TestDashboardAdminTotalsAndLeaderboards(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Profiles:   &fakeProfiles{},
		Streaks:    &fakeStreaks{},
		Completion: &fakeCompletion{},
		Ranking:    &fakeRanking{leaderboard: []models.RankedStudent{{StudentID: "s1", Score: 42, Rank: 1}}},
		Catalog:    &fakeHierarchy{},
		Activity:   &fakeFeed{lessonsTotal: 500},
		Grades:     &fakeAssessments{total: 120},
		Students:   &fakeStudentCount{total: 88},
		Cache:      NewCacheService(nil, nil, time.Minute, zap.NewNop(), false),
		Logger:     zap.NewNop(),
	})

	result, _, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 88, result.Totals.Students)
	assert.Equal(t, 500, result.Totals.LessonsTaken)
	assert.Equal(t, 120, result.Totals.GradesRecorded)
	// Same fake leaderboard served for each grade level.
	assert.Len(t, result.Leaderboards, 12)
}
