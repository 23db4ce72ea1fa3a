package models

import "time"

// StreakResult holds consecutive-day activity streaks, UTC date granularity.
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// SubjectCompletion is the per-subject completion breakdown.
type SubjectCompletion struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Taken     int    `json:"taken"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

// RankScope identifies the population boundary of a ranking computation.
type RankScope string

const (
	ScopeSchool   RankScope = "school"
	ScopeDistrict RankScope = "district"
	ScopeCounty   RankScope = "county"
)

// RankResult is a 1-based standing within a cohort. A nil *RankResult means
// the cohort could not be resolved (for example, no school assigned); that
// is an expected outcome, not an error.
type RankResult struct {
	Rank  int       `json:"rank"`
	OutOf int       `json:"out_of"`
	Scope RankScope `json:"scope,omitempty"`
}

// RankedStudent pairs a cohort member with their performance score,
// the unit of scope-population leaderboards.
type RankedStudent struct {
	StudentID string  `json:"student_id"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
}

// RankingBadgeType names the two ranking badge flavours.
type RankingBadgeType string

const (
	BadgeAssessmentTop20 RankingBadgeType = "assessment_top20"
	BadgeEngagementTop20 RankingBadgeType = "engagement_top20"
)

// AssessmentRank is a student's dense rank within one assessment cohort.
type AssessmentRank struct {
	AssessmentID    string
	AssessmentTitle string
	Rank            int
	GradedAt        time.Time
}

// AnalyticsSystemMetrics represents system level analytics captured from instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
