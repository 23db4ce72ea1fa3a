package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elearn-api/internal/models"
)

// GradeRepository reads lesson-scoped and general assessment grades. The two
// categories live in separate tables, each unique per (assessment, student);
// reads pool them with UNION ALL.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// GradesForStudent returns all grades a student holds, both kinds pooled,
// most recent first.
func (r *GradeRepository) GradesForStudent(ctx context.Context, studentID string) ([]models.GradeRecord, error) {
	const query = `SELECT la.id AS assessment_id, la.title AS assessment_title, 'lesson' AS kind, lag.score, la.marks, lag.created_at
        FROM lesson_assessment_grades lag
        JOIN lesson_assessments la ON la.id = lag.lesson_assessment_id
        WHERE lag.student_id = $1
        UNION ALL
        SELECT ga.id AS assessment_id, ga.title AS assessment_title, 'general' AS kind, gag.score, ga.marks, gag.created_at
        FROM general_assessment_grades gag
        JOIN general_assessments ga ON ga.id = gag.assessment_id
        WHERE gag.student_id = $1
        ORDER BY created_at DESC`
	var grades []models.GradeRecord
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("query grades for student: %w", err)
	}
	return grades, nil
}

// CohortGrades returns every grade held by any of the given students. Used
// to score a ranking cohort in one round trip.
func (r *GradeRepository) CohortGrades(ctx context.Context, studentIDs []string) ([]models.CohortGrade, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT lag.student_id, lag.score, la.marks
        FROM lesson_assessment_grades lag
        JOIN lesson_assessments la ON la.id = lag.lesson_assessment_id
        WHERE lag.student_id IN (?)
        UNION ALL
        SELECT gag.student_id, gag.score, ga.marks
        FROM general_assessment_grades gag
        JOIN general_assessments ga ON ga.id = gag.assessment_id
        WHERE gag.student_id IN (?)`, studentIDs, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("build cohort grades query: %w", err)
	}
	query = r.db.Rebind(query)

	var grades []models.CohortGrade
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("query cohort grades: %w", err)
	}
	return grades, nil
}

// AssessmentGradesForGrade returns every grade recorded against assessments
// targeting the given grade level: lesson assessments through their lesson's
// subject, general assessments through their own grade column (null = global).
// Rows are ordered by assessment then score descending so callers can group
// cohorts in a single pass.
func (r *GradeRepository) AssessmentGradesForGrade(ctx context.Context, grade models.GradeLevel) ([]models.AssessmentGradeEntry, error) {
	const query = `SELECT la.id AS assessment_id, la.title AS assessment_title, lag.student_id, lag.score, lag.created_at
        FROM lesson_assessment_grades lag
        JOIN lesson_assessments la ON la.id = lag.lesson_assessment_id
        JOIN lesson_resources lr ON lr.id = la.lesson_id
        JOIN subjects s ON s.id = lr.subject_id
        WHERE s.grade = $1
        UNION ALL
        SELECT ga.id AS assessment_id, ga.title AS assessment_title, gag.student_id, gag.score, gag.created_at
        FROM general_assessment_grades gag
        JOIN general_assessments ga ON ga.id = gag.assessment_id
        WHERE ga.grade = $1 OR ga.grade IS NULL
        ORDER BY assessment_id, score DESC`
	var entries []models.AssessmentGradeEntry
	if err := r.db.SelectContext(ctx, &entries, query, grade); err != nil {
		return nil, fmt.Errorf("query assessment grades for grade: %w", err)
	}
	return entries, nil
}

// UpcomingAssessments returns approved assessments targeting the grade with
// a due date inside the window, soonest first.
func (r *GradeRepository) UpcomingAssessments(ctx context.Context, grade models.GradeLevel, from, to time.Time) ([]models.UpcomingAssessment, error) {
	const query = `SELECT ga.title, ga.due_at
        FROM general_assessments ga
        WHERE ga.status = 'APPROVED' AND (ga.grade = $1 OR ga.grade IS NULL)
          AND ga.due_at IS NOT NULL AND ga.due_at >= $2 AND ga.due_at <= $3
        UNION ALL
        SELECT la.title, la.due_at
        FROM lesson_assessments la
        JOIN lesson_resources lr ON lr.id = la.lesson_id
        JOIN subjects s ON s.id = lr.subject_id
        WHERE la.status = 'APPROVED' AND s.grade = $1
          AND la.due_at IS NOT NULL AND la.due_at >= $2 AND la.due_at <= $3
        ORDER BY due_at`
	var assessments []models.UpcomingAssessment
	if err := r.db.SelectContext(ctx, &assessments, query, grade, from, to); err != nil {
		return nil, fmt.Errorf("query upcoming assessments: %w", err)
	}
	return assessments, nil
}

// CountGrades returns the platform-wide grade total across both categories.
func (r *GradeRepository) CountGrades(ctx context.Context) (int, error) {
	const query = `SELECT (SELECT COUNT(*) FROM lesson_assessment_grades) + (SELECT COUNT(*) FROM general_assessment_grades)`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count grades: %w", err)
	}
	return count, nil
}
