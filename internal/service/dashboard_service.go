package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/dto"
	"github.com/noah-isme/elearn-api/internal/models"
)

type streakProvider interface {
	Streaks(ctx context.Context, studentID string) (models.StreakResult, error)
	PointsThisMonth(ctx context.Context, studentID string) (int, error)
}

type completionProvider interface {
	Overview(ctx context.Context, student *models.Student) (*CompletionOverview, error)
	ContinueLearning(ctx context.Context, student *models.Student) ([]dto.ContinueLearningItem, error)
}

type rankingProvider interface {
	AssessmentRank(ctx context.Context, student *models.Student) (*models.AssessmentRank, error)
	EngagementRank(ctx context.Context, student *models.Student) (*models.RankResult, error)
	ScopeRank(ctx context.Context, scope models.RankScope, scopeID, studentID string) (*models.RankResult, error)
	GradeLeaderboard(ctx context.Context, grade models.GradeLevel, n int) ([]models.RankedStudent, error)
	TopN() int
}

type profileProvider interface {
	StudentOf(ctx context.Context, userID string) (*models.Student, error)
	TeacherOf(ctx context.Context, userID string) (*models.TeacherProfile, error)
	ChildrenOf(ctx context.Context, userID string) (*models.ParentProfile, []models.Student, error)
}

type hierarchyResolver interface {
	SchoolHierarchy(ctx context.Context, studentID string) (*models.SchoolHierarchy, error)
	SubjectsForTeacher(ctx context.Context, teacherID string) ([]models.Subject, error)
	SubjectLessonCounts(ctx context.Context, grade models.GradeLevel) ([]models.SubjectLessonCount, error)
}

type activityFeedReader interface {
	RecentActivities(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error)
	LessonCountsForSubject(ctx context.Context, subjectID string) ([]models.StudentLessonCount, error)
	CountLessonsTaken(ctx context.Context) (int, error)
}

type assessmentScheduleReader interface {
	UpcomingAssessments(ctx context.Context, grade models.GradeLevel, from, to time.Time) ([]models.UpcomingAssessment, error)
	CountGrades(ctx context.Context) (int, error)
}

type studentCounter interface {
	CountStudents(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard composition and per-view cache TTLs.
type DashboardServiceConfig struct {
	StudentTTL            time.Duration
	KidsTTL               time.Duration
	GardenTTL             time.Duration
	ParentTTL             time.Duration
	TeacherTTL            time.Duration
	AdminTTL              time.Duration
	UpcomingWindowDays    int
	RecentActivitiesLimit int
	LeaderboardSize       int
}

// DashboardService assembles the role-specific dashboard payloads from the
// calculators and applies the short-TTL read-through cache. Writes never
// invalidate; staleness inside the TTL is an accepted property.
type DashboardService struct {
	profiles   profileProvider
	streaks    streakProvider
	completion completionProvider
	ranking    rankingProvider
	catalog    hierarchyResolver
	activity   activityFeedReader
	grades     assessmentScheduleReader
	students   studentCounter
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Profiles   profileProvider
	Streaks    streakProvider
	Completion completionProvider
	Ranking    rankingProvider
	Catalog    hierarchyResolver
	Activity   activityFeedReader
	Grades     assessmentScheduleReader
	Students   studentCounter
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.StudentTTL <= 0 {
		cfg.StudentTTL = 2 * time.Minute
	}
	if cfg.KidsTTL <= 0 {
		cfg.KidsTTL = 2 * time.Minute
	}
	if cfg.GardenTTL <= 0 {
		cfg.GardenTTL = time.Minute
	}
	if cfg.ParentTTL <= 0 {
		cfg.ParentTTL = 2 * time.Minute
	}
	if cfg.TeacherTTL <= 0 {
		cfg.TeacherTTL = 2 * time.Minute
	}
	if cfg.AdminTTL <= 0 {
		cfg.AdminTTL = 2 * time.Minute
	}
	if cfg.UpcomingWindowDays <= 0 {
		cfg.UpcomingWindowDays = 7
	}
	if cfg.RecentActivitiesLimit <= 0 {
		cfg.RecentActivitiesLimit = 10
	}
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		profiles:   params.Profiles,
		streaks:    params.Streaks,
		completion: params.Completion,
		ranking:    params.Ranking,
		catalog:    params.Catalog,
		activity:   params.Activity,
		grades:     params.Grades,
		students:   params.Students,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// Student returns the full student dashboard and indicates cache utilisation.
func (s *DashboardService) Student(ctx context.Context, userID string) (*dto.StudentDashboardResponse, bool, error) {
	student, err := s.profiles.StudentOf(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dash:student:%s", student.ID)
	var cached dto.StudentDashboardResponse
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	start := s.now()
	summary, err := s.composeStudent(ctx, userID, student)
	if err != nil {
		return nil, false, err
	}
	s.observeCompose("student", start)
	s.cacheSet(ctx, cacheKey, summary, s.cfg.StudentTTL)
	return summary, false, nil
}

// Kids returns the simplified dashboard for younger learners.
func (s *DashboardService) Kids(ctx context.Context, userID string) (*dto.KidsDashboardResponse, bool, error) {
	student, err := s.profiles.StudentOf(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dash:kids:%s", student.ID)
	var cached dto.KidsDashboardResponse
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	start := s.now()
	overview, err := s.completion.Overview(ctx, student)
	if err != nil {
		return nil, false, err
	}
	streaks, err := s.streaks.Streaks(ctx, student.ID)
	if err != nil {
		return nil, false, err
	}
	badge, err := s.badge(ctx, student)
	if err != nil {
		return nil, false, err
	}

	summary := &dto.KidsDashboardResponse{
		StreakDays:             streaks.Current,
		OverallProgressPercent: overview.OverallProgressPercent,
		StudentRanking:         badge,
	}
	for _, subject := range overview.Subjects {
		summary.Subjects = append(summary.Subjects, dto.KidsSubject{Name: subject.Name, Percent: subject.Percent})
	}
	s.observeCompose("kids", start)
	s.cacheSet(ctx, cacheKey, summary, s.cfg.KidsTTL)
	return summary, false, nil
}

// Garden returns the progress-garden view with standings in every
// organisational scope the student resolves to.
func (s *DashboardService) Garden(ctx context.Context, userID string) (*dto.GardenDashboardResponse, bool, error) {
	student, err := s.profiles.StudentOf(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dash:garden:%s", student.ID)
	var cached dto.GardenDashboardResponse
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	start := s.now()
	overview, err := s.completion.Overview(ctx, student)
	if err != nil {
		return nil, false, err
	}
	streaks, err := s.streaks.Streaks(ctx, student.ID)
	if err != nil {
		return nil, false, err
	}
	points, err := s.streaks.PointsThisMonth(ctx, student.ID)
	if err != nil {
		return nil, false, err
	}
	hierarchy, err := s.catalog.SchoolHierarchy(ctx, student.ID)
	if err != nil {
		return nil, false, err
	}

	summary := &dto.GardenDashboardResponse{
		OverallProgressPercent: overview.OverallProgressPercent,
		Streaks:                dto.Streaks{CurrentStudyStreakDays: streaks.Current, PointsThisMonth: points},
		Subjects:               overview.Subjects,
	}
	summary.RankInSchool, err = s.scopeRank(ctx, models.ScopeSchool, hierarchy.SchoolID, student.ID)
	if err != nil {
		return nil, false, err
	}
	summary.RankInDistrict, err = s.scopeRank(ctx, models.ScopeDistrict, hierarchy.DistrictID, student.ID)
	if err != nil {
		return nil, false, err
	}
	summary.RankInCounty, err = s.scopeRank(ctx, models.ScopeCounty, hierarchy.CountyID, student.ID)
	if err != nil {
		return nil, false, err
	}
	s.observeCompose("garden", start)
	s.cacheSet(ctx, cacheKey, summary, s.cfg.GardenTTL)
	return summary, false, nil
}

// Parent returns per-child summaries for a parent account.
func (s *DashboardService) Parent(ctx context.Context, userID string) (*dto.ParentDashboardResponse, bool, error) {
	parent, children, err := s.profiles.ChildrenOf(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dash:parent:%s", parent.ID)
	var cached dto.ParentDashboardResponse
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	start := s.now()
	summary := &dto.ParentDashboardResponse{Children: []dto.ChildSummary{}}
	for i := range children {
		child := &children[i]
		overview, err := s.completion.Overview(ctx, child)
		if err != nil {
			return nil, false, err
		}
		streaks, err := s.streaks.Streaks(ctx, child.ID)
		if err != nil {
			return nil, false, err
		}
		badge, err := s.badge(ctx, child)
		if err != nil {
			return nil, false, err
		}
		summary.Children = append(summary.Children, dto.ChildSummary{
			StudentID:              child.ID,
			Name:                   child.FullName,
			Grade:                  child.Grade,
			OverallProgressPercent: overview.OverallProgressPercent,
			CurrentStreakDays:      streaks.Current,
			Ranking:                badge,
		})
	}
	s.observeCompose("parent", start)
	s.cacheSet(ctx, cacheKey, summary, s.cfg.ParentTTL)
	return summary, false, nil
}

// Teacher returns per-subject cohort overviews for a teacher account.
func (s *DashboardService) Teacher(ctx context.Context, userID string) (*dto.TeacherDashboardResponse, bool, error) {
	teacher, err := s.profiles.TeacherOf(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("dash:teacher:%s", teacher.ID)
	var cached dto.TeacherDashboardResponse
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	start := s.now()
	subjects, err := s.catalog.SubjectsForTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, false, err
	}

	summary := &dto.TeacherDashboardResponse{TeacherID: teacher.ID, Subjects: []dto.TeacherSubjectOverview{}}
	totalsByGrade := map[models.GradeLevel]map[string]int{}
	for _, subject := range subjects {
		totals, ok := totalsByGrade[subject.Grade]
		if !ok {
			counts, err := s.catalog.SubjectLessonCounts(ctx, subject.Grade)
			if err != nil {
				return nil, false, err
			}
			totals = make(map[string]int, len(counts))
			for _, count := range counts {
				totals[count.SubjectID] = count.TotalLessons
			}
			totalsByGrade[subject.Grade] = totals
		}

		counts, err := s.activity.LessonCountsForSubject(ctx, subject.ID)
		if err != nil {
			return nil, false, err
		}
		overview := dto.TeacherSubjectOverview{
			SubjectID:      subject.ID,
			Name:           subject.Name,
			Grade:          subject.Grade,
			ActiveStudents: len(counts),
		}
		if total := totals[subject.ID]; total > 0 && len(counts) > 0 {
			var percentSum int
			for _, member := range counts {
				percentSum += completionPercent(member.LessonCount, total)
			}
			overview.AverageCompletionPercent = percentSum / len(counts)
		}
		overview.TopPerformers = topBySubjectEngagement(counts, s.cfg.LeaderboardSize)
		summary.Subjects = append(summary.Subjects, overview)
	}
	s.observeCompose("teacher", start)
	s.cacheSet(ctx, cacheKey, summary, s.cfg.TeacherTTL)
	return summary, false, nil
}

// Admin returns platform totals and per-grade engagement leaderboards.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, bool, error) {
	const cacheKey = "dash:admin:global"
	var cached dto.AdminDashboardResponse
	if hit, err := s.cacheGet(ctx, cacheKey, &cached); err != nil {
		return nil, false, err
	} else if hit {
		return &cached, true, nil
	}

	start := s.now()
	summary := &dto.AdminDashboardResponse{}
	var err error
	if summary.Totals.Students, err = s.students.CountStudents(ctx); err != nil {
		return nil, false, err
	}
	if summary.Totals.LessonsTaken, err = s.activity.CountLessonsTaken(ctx); err != nil {
		return nil, false, err
	}
	if summary.Totals.GradesRecorded, err = s.grades.CountGrades(ctx); err != nil {
		return nil, false, err
	}

	for _, grade := range models.GradeLevels {
		top, err := s.ranking.GradeLeaderboard(ctx, grade, s.cfg.LeaderboardSize)
		if err != nil {
			return nil, false, err
		}
		if len(top) == 0 {
			continue
		}
		summary.Leaderboards = append(summary.Leaderboards, dto.GradeLeaderboard{Grade: grade, Top: top})
	}
	s.observeCompose("admin", start)
	s.cacheSet(ctx, cacheKey, summary, s.cfg.AdminTTL)
	return summary, false, nil
}

func (s *DashboardService) composeStudent(ctx context.Context, userID string, student *models.Student) (*dto.StudentDashboardResponse, error) {
	overview, err := s.completion.Overview(ctx, student)
	if err != nil {
		return nil, err
	}
	continueLearning, err := s.completion.ContinueLearning(ctx, student)
	if err != nil {
		return nil, err
	}
	streaks, err := s.streaks.Streaks(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	points, err := s.streaks.PointsThisMonth(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	badge, err := s.badge(ctx, student)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	windowEnd := now.AddDate(0, 0, s.cfg.UpcomingWindowDays)
	assessments, err := s.grades.UpcomingAssessments(ctx, student.Grade, now, windowEnd)
	if err != nil {
		return nil, err
	}
	activities, err := s.activity.RecentActivities(ctx, userID, s.cfg.RecentActivitiesLimit)
	if err != nil {
		return nil, err
	}

	summary := &dto.StudentDashboardResponse{
		AssignmentsDueThisWeek: len(assessments),
		QuickStats:             overview.QuickStats,
		OverallProgressPercent: overview.OverallProgressPercent,
		StudentRanking:         badge,
		Upcoming:               []dto.UpcomingItem{},
		Streaks:                dto.Streaks{CurrentStudyStreakDays: streaks.Current, PointsThisMonth: points},
		ContinueLearning:       continueLearning,
		RecentActivities:       activities,
	}
	for _, assessment := range assessments {
		item := dto.UpcomingItem{Name: assessment.Title}
		if assessment.DueAt != nil {
			days := int(assessment.DueAt.Sub(now).Hours() / 24)
			item.DueInDays = &days
		}
		summary.Upcoming = append(summary.Upcoming, item)
	}
	return summary, nil
}

// badge resolves the ranking badge: the best assessment dense rank when one
// qualifies, the grade-level engagement rank otherwise, hidden when neither
// lands inside the threshold.
func (s *DashboardService) badge(ctx context.Context, student *models.Student) (dto.RankingBadge, error) {
	assessmentRank, err := s.ranking.AssessmentRank(ctx, student)
	if err != nil {
		return dto.RankingBadge{}, err
	}
	if assessmentRank != nil {
		return dto.RankingBadge{
			Show:     true,
			Type:     models.BadgeAssessmentTop20,
			Title:    "Top Performer",
			Subtitle: fmt.Sprintf("Ranked #%d in %s", assessmentRank.Rank, assessmentRank.AssessmentTitle),
			Rank:     assessmentRank.Rank,
		}, nil
	}

	engagementRank, err := s.ranking.EngagementRank(ctx, student)
	if err != nil {
		return dto.RankingBadge{}, err
	}
	if engagementRank != nil && engagementRank.Rank <= s.ranking.TopN() {
		return dto.RankingBadge{
			Show:     true,
			Type:     models.BadgeEngagementTop20,
			Title:    "Top Performer",
			Subtitle: fmt.Sprintf("Ranked #%d in your grade by lessons completed", engagementRank.Rank),
			Rank:     engagementRank.Rank,
		}, nil
	}
	return dto.RankingBadge{Show: false}, nil
}

func (s *DashboardService) scopeRank(ctx context.Context, scope models.RankScope, scopeID *string, studentID string) (*dto.ScopeRank, error) {
	if scopeID == nil || *scopeID == "" {
		return nil, nil
	}
	result, err := s.ranking.ScopeRank(ctx, scope, *scopeID, studentID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return &dto.ScopeRank{Rank: result.Rank, OutOf: result.OutOf}, nil
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	return s.cache.Get(ctx, key, dest)
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *DashboardService) observeCompose(view string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDashboardCompose(view, s.now().Sub(start))
}

// topBySubjectEngagement ranks a subject cohort by distinct lessons taken,
// ties broken by student id ascending.
func topBySubjectEngagement(counts []models.StudentLessonCount, n int) []models.RankedStudent {
	sorted := make([]models.StudentLessonCount, len(counts))
	copy(sorted, counts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].LessonCount == sorted[j].LessonCount {
			return sorted[i].StudentID < sorted[j].StudentID
		}
		return sorted[i].LessonCount > sorted[j].LessonCount
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	top := make([]models.RankedStudent, 0, len(sorted))
	for i, member := range sorted {
		top = append(top, models.RankedStudent{
			StudentID: member.StudentID,
			Score:     float64(member.LessonCount),
			Rank:      i + 1,
		})
	}
	return top
}
