package dto

import "github.com/noah-isme/elearn-api/internal/models"

// QuickStats summarises course progress counts for the student dashboard.
type QuickStats struct {
	TotalCourses      int `json:"total_courses"`
	CompletedCourses  int `json:"completed_courses"`
	InProgressCourses int `json:"in_progress_courses"`
}

// RankingBadge is the student_ranking payload. When Show is false all other
// fields are omitted.
type RankingBadge struct {
	Show     bool                    `json:"show"`
	Type     models.RankingBadgeType `json:"type,omitempty"`
	Title    string                  `json:"title,omitempty"`
	Subtitle string                  `json:"subtitle,omitempty"`
	Rank     int                     `json:"rank,omitempty"`
}

// UpcomingItem is an assessment due soon. DueInDays is nil when the
// assessment carries no due date.
type UpcomingItem struct {
	Name      string `json:"name"`
	DueInDays *int   `json:"due_in_days"`
}

// Streaks carries consecutive-day activity and monthly engagement points.
type Streaks struct {
	CurrentStudyStreakDays int `json:"current_study_streak_days"`
	PointsThisMonth        int `json:"points_this_month"`
}

// ContinueLearningItem is an in-progress course with remaining effort.
type ContinueLearningItem struct {
	Course          string  `json:"course"`
	LastLesson      *string `json:"last_lesson"`
	PercentComplete int     `json:"percent_complete"`
	HoursLeft       float64 `json:"hours_left"`
}

// StudentDashboardResponse is the student dashboard contract.
type StudentDashboardResponse struct {
	AssignmentsDueThisWeek int                    `json:"assignments_due_this_week"`
	QuickStats             QuickStats             `json:"quick_stats"`
	OverallProgressPercent int                    `json:"overall_progress_percent"`
	StudentRanking         RankingBadge           `json:"student_ranking"`
	Upcoming               []UpcomingItem         `json:"upcoming"`
	Streaks                Streaks                `json:"streaks"`
	ContinueLearning       []ContinueLearningItem `json:"continue_learning"`
	RecentActivities       []models.ActivityEntry `json:"recent_activities"`
}

// KidsSubject is the simplified per-subject progress for the kids view.
type KidsSubject struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

// KidsDashboardResponse is the simplified dashboard for younger learners.
type KidsDashboardResponse struct {
	StreakDays             int           `json:"streak_days"`
	OverallProgressPercent int           `json:"overall_progress_percent"`
	Subjects               []KidsSubject `json:"subjects"`
	StudentRanking         RankingBadge  `json:"student_ranking"`
}

// ScopeRank is a leaderboard standing within one organisational scope.
type ScopeRank struct {
	Rank  int `json:"rank"`
	OutOf int `json:"out_of"`
}

// GardenDashboardResponse backs the "progress garden" view: growth is the
// overall progress, plus standings in each organisational scope. Rank
// fields are null when the scope cannot be resolved.
type GardenDashboardResponse struct {
	OverallProgressPercent int                        `json:"overall_progress_percent"`
	Streaks                Streaks                    `json:"streaks"`
	Subjects               []models.SubjectCompletion `json:"subjects"`
	RankInSchool           *ScopeRank                 `json:"rank_in_school"`
	RankInDistrict         *ScopeRank                 `json:"rank_in_district"`
	RankInCounty           *ScopeRank                 `json:"rank_in_county"`
}

// ChildSummary is one child's snapshot on the parent dashboard.
type ChildSummary struct {
	StudentID              string            `json:"student_id"`
	Name                   string            `json:"name"`
	Grade                  models.GradeLevel `json:"grade"`
	OverallProgressPercent int               `json:"overall_progress_percent"`
	CurrentStreakDays      int               `json:"current_streak_days"`
	Ranking                RankingBadge      `json:"ranking"`
}

// ParentDashboardResponse lists per-child summaries.
type ParentDashboardResponse struct {
	Children []ChildSummary `json:"children"`
}

// TeacherSubjectOverview aggregates a subject's cohort for the teacher view.
type TeacherSubjectOverview struct {
	SubjectID                string                 `json:"subject_id"`
	Name                     string                 `json:"name"`
	Grade                    models.GradeLevel      `json:"grade"`
	ActiveStudents           int                    `json:"active_students"`
	AverageCompletionPercent int                    `json:"average_completion_percent"`
	TopPerformers            []models.RankedStudent `json:"top_performers"`
}

// TeacherDashboardResponse is the teacher dashboard contract.
type TeacherDashboardResponse struct {
	TeacherID string                   `json:"teacher_id"`
	Subjects  []TeacherSubjectOverview `json:"subjects"`
}

// GradeLeaderboard is a per-grade engagement leaderboard for admins.
type GradeLeaderboard struct {
	Grade models.GradeLevel      `json:"grade"`
	Top   []models.RankedStudent `json:"top"`
}

// AdminTotals carries platform-wide counters.
type AdminTotals struct {
	Students       int `json:"students"`
	LessonsTaken   int `json:"lessons_taken"`
	GradesRecorded int `json:"grades_recorded"`
}

// AdminDashboardResponse is the admin dashboard contract.
type AdminDashboardResponse struct {
	Totals       AdminTotals        `json:"totals"`
	Leaderboards []GradeLeaderboard `json:"leaderboards"`
}
