package service

import (
	"github.com/noah-isme/elearn-api/internal/models"
)

// performanceScore applies the platform-wide scoring formula: distinct
// lessons taken plus twice the average grade percentage. Every ranking in the
// system compares students with this one function.
func performanceScore(lessonCount int, grades []models.CohortGrade) float64 {
	return float64(lessonCount) + 2*averageGradePercentage(grades)
}

// averageGradePercentage pools lesson-scoped and general grades into one
// arithmetic mean of score/marks expressed as a percentage. Students with no
// grades score 0; rows with non-positive marks are skipped rather than
// allowed to divide by zero.
func averageGradePercentage(grades []models.CohortGrade) float64 {
	var sum float64
	var count int
	for _, grade := range grades {
		if grade.Marks <= 0 {
			continue
		}
		sum += grade.Score / grade.Marks * 100
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// scoreCohort computes the performance score for every member of a cohort.
// Members with lessons but no grades still receive a lesson-only score.
func scoreCohort(lessonCounts []models.StudentLessonCount, grades []models.CohortGrade) map[string]float64 {
	gradesByStudent := make(map[string][]models.CohortGrade)
	for _, grade := range grades {
		gradesByStudent[grade.StudentID] = append(gradesByStudent[grade.StudentID], grade)
	}
	scores := make(map[string]float64, len(lessonCounts))
	for _, member := range lessonCounts {
		scores[member.StudentID] = performanceScore(member.LessonCount, gradesByStudent[member.StudentID])
	}
	return scores
}
