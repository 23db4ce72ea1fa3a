package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/models"
)

type cohortActivityReader interface {
	LessonCountsForGrade(ctx context.Context, grade models.GradeLevel) ([]models.StudentLessonCount, error)
	LessonCountsForScope(ctx context.Context, scope models.RankScope, scopeID string) ([]models.StudentLessonCount, error)
}

type cohortGradeReader interface {
	AssessmentGradesForGrade(ctx context.Context, grade models.GradeLevel) ([]models.AssessmentGradeEntry, error)
	CohortGrades(ctx context.Context, studentIDs []string) ([]models.CohortGrade, error)
}

// RankingServiceConfig tunes ranking behaviour.
type RankingServiceConfig struct {
	TopN int
}

// RankingService computes peer standings. Three modes feed the dashboards:
// assessment-scoped dense rank, grade-level engagement rank, and
// scope-population rank over the performance score. An unresolvable cohort
// yields a nil result, never an error.
type RankingService struct {
	activity cohortActivityReader
	grades   cohortGradeReader
	logger   *zap.Logger
	cfg      RankingServiceConfig
}

// RankingServiceParams groups constructor dependencies.
type RankingServiceParams struct {
	Activity cohortActivityReader
	Grades   cohortGradeReader
	Logger   *zap.Logger
	Config   RankingServiceConfig
}

// NewRankingService constructs a RankingService with sane defaults.
func NewRankingService(params RankingServiceParams) *RankingService {
	cfg := params.Config
	if cfg.TopN <= 0 {
		cfg.TopN = 20
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{activity: params.Activity, grades: params.Grades, logger: logger, cfg: cfg}
}

// TopN exposes the badge threshold.
func (s *RankingService) TopN() int {
	return s.cfg.TopN
}

// AssessmentRank returns the student's best dense rank across all assessments
// graded within their grade level, keeping only ranks within the badge
// threshold. Ties between equally ranked assessments resolve to the most
// recently graded one. Nil means no qualifying rank anywhere.
func (s *RankingService) AssessmentRank(ctx context.Context, student *models.Student) (*models.AssessmentRank, error) {
	entries, err := s.grades.AssessmentGradesForGrade(ctx, student.Grade)
	if err != nil {
		return nil, fmt.Errorf("load assessment grades: %w", err)
	}

	byAssessment := make(map[string][]models.AssessmentGradeEntry)
	for _, entry := range entries {
		byAssessment[entry.AssessmentID] = append(byAssessment[entry.AssessmentID], entry)
	}

	var best *models.AssessmentRank
	for _, cohort := range byAssessment {
		ranks := denseRanks(cohort)
		for _, entry := range cohort {
			if entry.StudentID != student.ID {
				continue
			}
			rank := ranks[entry.Score]
			if rank > s.cfg.TopN {
				break
			}
			candidate := &models.AssessmentRank{
				AssessmentID:    entry.AssessmentID,
				AssessmentTitle: entry.AssessmentTitle,
				Rank:            rank,
				GradedAt:        entry.CreatedAt,
			}
			if best == nil || candidate.Rank < best.Rank ||
				(candidate.Rank == best.Rank && candidate.GradedAt.After(best.GradedAt)) {
				best = candidate
			}
			break
		}
	}
	return best, nil
}

// EngagementRank ranks the student within their grade level by distinct
// lessons taken: one plus the number of peers with strictly more. Students
// with zero lessons never rank.
func (s *RankingService) EngagementRank(ctx context.Context, student *models.Student) (*models.RankResult, error) {
	counts, err := s.activity.LessonCountsForGrade(ctx, student.Grade)
	if err != nil {
		return nil, fmt.Errorf("load grade lesson counts: %w", err)
	}

	var own int
	found := false
	for _, member := range counts {
		if member.StudentID == student.ID {
			own = member.LessonCount
			found = true
			break
		}
	}
	if !found || own == 0 {
		return nil, nil
	}

	rank := 1
	for _, member := range counts {
		if member.LessonCount > own {
			rank++
		}
	}
	return &models.RankResult{Rank: rank, OutOf: len(counts)}, nil
}

// ScopeRank places the student within the school/district/county population
// of students with at least one lesson taken, ordered by performance score
// descending with student id ascending as the deterministic tie-break.
func (s *RankingService) ScopeRank(ctx context.Context, scope models.RankScope, scopeID, studentID string) (*models.RankResult, error) {
	ranked, err := s.scopeLeaderboard(ctx, scope, scopeID)
	if err != nil {
		return nil, err
	}
	for _, member := range ranked {
		if member.StudentID == studentID {
			return &models.RankResult{Rank: member.Rank, OutOf: len(ranked), Scope: scope}, nil
		}
	}
	return nil, nil
}

// ScopeTop returns the best n students of a scope population.
func (s *RankingService) ScopeTop(ctx context.Context, scope models.RankScope, scopeID string, n int) ([]models.RankedStudent, error) {
	ranked, err := s.scopeLeaderboard(ctx, scope, scopeID)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// GradeLeaderboard returns the best n students of a grade level, scored with
// the same formula as the scope populations.
func (s *RankingService) GradeLeaderboard(ctx context.Context, grade models.GradeLevel, n int) ([]models.RankedStudent, error) {
	counts, err := s.activity.LessonCountsForGrade(ctx, grade)
	if err != nil {
		return nil, fmt.Errorf("load grade lesson counts: %w", err)
	}
	ranked, err := s.rankPopulation(ctx, counts)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (s *RankingService) scopeLeaderboard(ctx context.Context, scope models.RankScope, scopeID string) ([]models.RankedStudent, error) {
	if scopeID == "" {
		return nil, nil
	}
	counts, err := s.activity.LessonCountsForScope(ctx, scope, scopeID)
	if err != nil {
		return nil, fmt.Errorf("load scope lesson counts: %w", err)
	}
	return s.rankPopulation(ctx, counts)
}

func (s *RankingService) rankPopulation(ctx context.Context, counts []models.StudentLessonCount) ([]models.RankedStudent, error) {
	if len(counts) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(counts))
	for _, member := range counts {
		ids = append(ids, member.StudentID)
	}
	grades, err := s.grades.CohortGrades(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cohort grades: %w", err)
	}
	scores := scoreCohort(counts, grades)

	ranked := make([]models.RankedStudent, 0, len(scores))
	for studentID, score := range scores {
		ranked = append(ranked, models.RankedStudent{StudentID: studentID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].StudentID < ranked[j].StudentID
		}
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// denseRanks maps each distinct score in a cohort to its dense rank: tied
// scores share a rank and the next distinct score continues at rank+1.
func denseRanks(cohort []models.AssessmentGradeEntry) map[float64]int {
	distinct := make([]float64, 0, len(cohort))
	seen := make(map[float64]struct{}, len(cohort))
	for _, entry := range cohort {
		if _, ok := seen[entry.Score]; ok {
			continue
		}
		seen[entry.Score] = struct{}{}
		distinct = append(distinct, entry.Score)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	ranks := make(map[float64]int, len(distinct))
	for i, score := range distinct {
		ranks[score] = i + 1
	}
	return ranks
}
