package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elearn-api/internal/models"
)

// CatalogRepository resolves subject/lesson catalog data and the
// School -> District -> County hierarchy. Only approved content counts
// toward completion denominators.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SubjectLessonCounts returns approved subjects for the grade with their
// approved lesson totals. Subjects with zero lessons are included; callers
// decide how to classify them.
func (r *CatalogRepository) SubjectLessonCounts(ctx context.Context, grade models.GradeLevel) ([]models.SubjectLessonCount, error) {
	const query = `SELECT s.id AS subject_id, s.name, COUNT(lr.id) AS total_lessons
        FROM subjects s
        LEFT JOIN lesson_resources lr ON lr.subject_id = s.id AND lr.status = 'APPROVED'
        WHERE s.grade = $1 AND s.status = 'APPROVED'
        GROUP BY s.id, s.name
        ORDER BY s.name`
	var counts []models.SubjectLessonCount
	if err := r.db.SelectContext(ctx, &counts, query, grade); err != nil {
		return nil, fmt.Errorf("query subject lesson counts: %w", err)
	}
	return counts, nil
}

// LessonsForGrade returns all approved lessons for subjects of the grade,
// including duration estimates for remaining-hours math.
func (r *CatalogRepository) LessonsForGrade(ctx context.Context, grade models.GradeLevel) ([]models.LessonSummary, error) {
	const query = `SELECT lr.id AS lesson_id, lr.subject_id, lr.title, lr.duration_minutes
        FROM lesson_resources lr
        JOIN subjects s ON s.id = lr.subject_id
        WHERE s.grade = $1 AND s.status = 'APPROVED' AND lr.status = 'APPROVED'
        ORDER BY lr.subject_id, lr.created_at`
	var lessons []models.LessonSummary
	if err := r.db.SelectContext(ctx, &lessons, query, grade); err != nil {
		return nil, fmt.Errorf("query lessons for grade: %w", err)
	}
	return lessons, nil
}

// SchoolHierarchy resolves the organisational scope for a student. Every
// level may be null when the student has no school assigned.
func (r *CatalogRepository) SchoolHierarchy(ctx context.Context, studentID string) (*models.SchoolHierarchy, error) {
	const query = `SELECT st.school_id, sc.district_id, d.county_id
        FROM students st
        LEFT JOIN schools sc ON sc.id = st.school_id
        LEFT JOIN districts d ON d.id = sc.district_id
        WHERE st.id = $1`
	var hierarchy models.SchoolHierarchy
	if err := r.db.GetContext(ctx, &hierarchy, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("query school hierarchy: %w", err)
	}
	return &hierarchy, nil
}

// SubjectsForTeacher returns the approved subjects a teacher is linked to.
func (r *CatalogRepository) SubjectsForTeacher(ctx context.Context, teacherID string) ([]models.Subject, error) {
	const query = `SELECT s.id, s.name, s.grade, s.status, s.created_at
        FROM subjects s
        JOIN teacher_subjects ts ON ts.subject_id = s.id
        WHERE ts.teacher_id = $1 AND s.status = 'APPROVED'
        ORDER BY s.name`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, teacherID); err != nil {
		return nil, fmt.Errorf("query subjects for teacher: %w", err)
	}
	return subjects, nil
}
