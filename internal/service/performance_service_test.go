package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/elearn-api/internal/models"
)

func TestPerformanceScoreNoGrades(t *testing.T) {
	assert.Equal(t, 7.0, performanceScore(7, nil))
}

func TestPerformanceScorePoolsBothGradeKinds(t *testing.T) {
	grades := []models.CohortGrade{
		{StudentID: "s", Score: 18, Marks: 20},  // 90%
		{StudentID: "s", Score: 50, Marks: 100}, // 50%
	}
	// 5 lessons + 2 * mean(90, 50) = 5 + 140
	assert.InDelta(t, 145.0, performanceScore(5, grades), 0.001)
}

func TestAverageGradePercentageSkipsZeroMarks(t *testing.T) {
	grades := []models.CohortGrade{
		{StudentID: "s", Score: 10, Marks: 0},
		{StudentID: "s", Score: 8, Marks: 10},
	}
	assert.InDelta(t, 80.0, averageGradePercentage(grades), 0.001)
}

func TestScoreCohort(t *testing.T) {
	counts := []models.StudentLessonCount{
		{StudentID: "s1", LessonCount: 3},
		{StudentID: "s2", LessonCount: 10},
	}
	grades := []models.CohortGrade{
		{StudentID: "s1", Score: 100, Marks: 100},
	}
	scores := scoreCohort(counts, grades)
	assert.InDelta(t, 203.0, scores["s1"], 0.001)
	assert.InDelta(t, 10.0, scores["s2"], 0.001)
}
