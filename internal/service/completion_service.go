package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/dto"
	"github.com/noah-isme/elearn-api/internal/models"
)

type subjectCatalog interface {
	SubjectLessonCounts(ctx context.Context, grade models.GradeLevel) ([]models.SubjectLessonCount, error)
	LessonsForGrade(ctx context.Context, grade models.GradeLevel) ([]models.LessonSummary, error)
}

type lessonActivityReader interface {
	TakenLessons(ctx context.Context, studentID string) ([]models.TakenLesson, error)
}

// CompletionOverview combines the per-subject breakdown with the aggregate
// counters the dashboards display.
type CompletionOverview struct {
	Subjects               []models.SubjectCompletion
	QuickStats             dto.QuickStats
	OverallProgressPercent int
}

// CompletionService computes per-subject completion and remaining effort.
// Only subjects with at least one catalog lesson participate in progress
// classification; a subject is completed when every catalog lesson is taken.
type CompletionService struct {
	catalog  subjectCatalog
	activity lessonActivityReader
	logger   *zap.Logger
}

// CompletionServiceParams groups constructor dependencies.
type CompletionServiceParams struct {
	Catalog  subjectCatalog
	Activity lessonActivityReader
	Logger   *zap.Logger
}

// NewCompletionService constructs a CompletionService.
func NewCompletionService(params CompletionServiceParams) *CompletionService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionService{catalog: params.Catalog, activity: params.Activity, logger: logger}
}

// Overview returns the completion breakdown for a student. Lessons taken are
// already unique per (student, lesson), so counting them per subject needs no
// further deduplication.
func (s *CompletionService) Overview(ctx context.Context, student *models.Student) (*CompletionOverview, error) {
	counts, err := s.catalog.SubjectLessonCounts(ctx, student.Grade)
	if err != nil {
		return nil, fmt.Errorf("load subject lesson counts: %w", err)
	}
	taken, err := s.activity.TakenLessons(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("load taken lessons: %w", err)
	}

	takenPerSubject := make(map[string]int)
	for _, lesson := range taken {
		takenPerSubject[lesson.SubjectID]++
	}

	overview := &CompletionOverview{}
	for _, subject := range counts {
		if subject.TotalLessons == 0 {
			continue
		}
		takenCount := takenPerSubject[subject.SubjectID]
		if takenCount > subject.TotalLessons {
			takenCount = subject.TotalLessons
		}
		overview.Subjects = append(overview.Subjects, models.SubjectCompletion{
			SubjectID: subject.SubjectID,
			Name:      subject.Name,
			Taken:     takenCount,
			Total:     subject.TotalLessons,
			Percent:   completionPercent(takenCount, subject.TotalLessons),
		})
		overview.QuickStats.TotalCourses++
		switch {
		case takenCount >= subject.TotalLessons:
			overview.QuickStats.CompletedCourses++
		case takenCount > 0:
			overview.QuickStats.InProgressCourses++
		}
	}
	overview.OverallProgressPercent = completionPercent(overview.QuickStats.CompletedCourses, overview.QuickStats.TotalCourses)
	return overview, nil
}

// ContinueLearning lists the in-progress subjects with the last lesson taken
// and the estimated hours left in each.
func (s *CompletionService) ContinueLearning(ctx context.Context, student *models.Student) ([]dto.ContinueLearningItem, error) {
	overview, err := s.Overview(ctx, student)
	if err != nil {
		return nil, err
	}
	lessons, err := s.catalog.LessonsForGrade(ctx, student.Grade)
	if err != nil {
		return nil, fmt.Errorf("load lessons for grade: %w", err)
	}
	taken, err := s.activity.TakenLessons(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("load taken lessons: %w", err)
	}

	takenSet := make(map[string]struct{}, len(taken))
	lastLessonPerSubject := make(map[string]string)
	for _, lesson := range taken {
		takenSet[lesson.LessonID] = struct{}{}
		// TakenLessons is ordered most recent first.
		if _, ok := lastLessonPerSubject[lesson.SubjectID]; !ok {
			lastLessonPerSubject[lesson.SubjectID] = lesson.Title
		}
	}

	minutesLeft := make(map[string]int)
	for _, lesson := range lessons {
		if _, ok := takenSet[lesson.LessonID]; ok {
			continue
		}
		if lesson.DurationMinutes != nil {
			minutesLeft[lesson.SubjectID] += *lesson.DurationMinutes
		}
	}

	var items []dto.ContinueLearningItem
	for _, subject := range overview.Subjects {
		if subject.Taken == 0 || subject.Taken >= subject.Total {
			continue
		}
		item := dto.ContinueLearningItem{
			Course:          subject.Name,
			PercentComplete: subject.Percent,
			HoursLeft:       roundHours(minutesLeft[subject.SubjectID]),
		}
		if title, ok := lastLessonPerSubject[subject.SubjectID]; ok {
			item.LastLesson = &title
		}
		items = append(items, item)
	}
	return items, nil
}

// completionPercent rounds taken/total to a whole percentage, yielding 0 when
// the denominator is 0.
func completionPercent(taken, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(total) * 100))
}

// roundHours converts minutes to hours with 2-decimal rounding.
func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
