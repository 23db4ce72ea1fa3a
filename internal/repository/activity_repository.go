package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elearn-api/internal/models"
)

// ActivityRepository reads the lesson-taken ledger and the generic user
// activity feed. All queries are read-only; lesson-taken rows are unique per
// (student, lesson) so counts never need re-deduplication.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// TakenLessons returns every lesson the student has taken with catalog
// metadata, most recent first.
func (r *ActivityRepository) TakenLessons(ctx context.Context, studentID string) ([]models.TakenLesson, error) {
	const query = `SELECT tl.lesson_id, lr.subject_id, lr.title, tl.created_at AS taken_at
        FROM take_lessons tl
        JOIN lesson_resources lr ON lr.id = tl.lesson_id
        WHERE tl.student_id = $1
        ORDER BY tl.created_at DESC`
	var lessons []models.TakenLesson
	if err := r.db.SelectContext(ctx, &lessons, query, studentID); err != nil {
		return nil, fmt.Errorf("query taken lessons: %w", err)
	}
	return lessons, nil
}

// ActiveDates returns the distinct UTC calendar dates on which the student
// took at least one lesson, ascending.
func (r *ActivityRepository) ActiveDates(ctx context.Context, studentID string, since *time.Time) ([]time.Time, error) {
	query := `SELECT DISTINCT (tl.created_at AT TIME ZONE 'UTC')::date AS active_date
        FROM take_lessons tl
        WHERE tl.student_id = $1`
	args := []interface{}{studentID}
	if since != nil {
		args = append(args, *since)
		query += fmt.Sprintf(" AND tl.created_at >= $%d", len(args))
	}
	query += " ORDER BY active_date"

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, args...); err != nil {
		return nil, fmt.Errorf("query active dates: %w", err)
	}
	return dates, nil
}

// LessonCountsForGrade returns distinct-lesson counts for every student in
// the grade with at least one lesson taken.
func (r *ActivityRepository) LessonCountsForGrade(ctx context.Context, grade models.GradeLevel) ([]models.StudentLessonCount, error) {
	const query = `SELECT s.id AS student_id, COUNT(DISTINCT tl.lesson_id) AS lesson_count
        FROM students s
        JOIN take_lessons tl ON tl.student_id = s.id
        WHERE s.grade = $1
        GROUP BY s.id`
	var counts []models.StudentLessonCount
	if err := r.db.SelectContext(ctx, &counts, query, grade); err != nil {
		return nil, fmt.Errorf("query lesson counts for grade: %w", err)
	}
	return counts, nil
}

// LessonCountsForScope returns distinct-lesson counts for every student in
// the school/district/county cohort with at least one lesson taken.
func (r *ActivityRepository) LessonCountsForScope(ctx context.Context, scope models.RankScope, scopeID string) ([]models.StudentLessonCount, error) {
	var condition string
	switch scope {
	case models.ScopeSchool:
		condition = "s.school_id = $1"
	case models.ScopeDistrict:
		condition = "sc.district_id = $1"
	case models.ScopeCounty:
		condition = "d.county_id = $1"
	default:
		return nil, fmt.Errorf("unknown rank scope %q", scope)
	}

	query := fmt.Sprintf(`SELECT s.id AS student_id, COUNT(DISTINCT tl.lesson_id) AS lesson_count
        FROM students s
        JOIN schools sc ON sc.id = s.school_id
        JOIN districts d ON d.id = sc.district_id
        JOIN take_lessons tl ON tl.student_id = s.id
        WHERE %s
        GROUP BY s.id`, condition)

	var counts []models.StudentLessonCount
	if err := r.db.SelectContext(ctx, &counts, query, scopeID); err != nil {
		return nil, fmt.Errorf("query lesson counts for scope: %w", err)
	}
	return counts, nil
}

// LessonCountsForSubject returns distinct-lesson counts within one subject
// for every student who has taken at least one of its lessons.
func (r *ActivityRepository) LessonCountsForSubject(ctx context.Context, subjectID string) ([]models.StudentLessonCount, error) {
	const query = `SELECT tl.student_id, COUNT(DISTINCT tl.lesson_id) AS lesson_count
        FROM take_lessons tl
        JOIN lesson_resources lr ON lr.id = tl.lesson_id
        WHERE lr.subject_id = $1
        GROUP BY tl.student_id`
	var counts []models.StudentLessonCount
	if err := r.db.SelectContext(ctx, &counts, query, subjectID); err != nil {
		return nil, fmt.Errorf("query lesson counts for subject: %w", err)
	}
	return counts, nil
}

// LessonsTakenSince counts lessons the student took at or after the cutoff.
func (r *ActivityRepository) LessonsTakenSince(ctx context.Context, studentID string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM take_lessons WHERE student_id = $1 AND created_at >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, since); err != nil {
		return 0, fmt.Errorf("count lessons taken since: %w", err)
	}
	return count, nil
}

// RecentActivities returns the latest feed entries for a user.
func (r *ActivityRepository) RecentActivities(ctx context.Context, userID string, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `SELECT type, description, created_at FROM activities WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	var entries []models.ActivityEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("query recent activities: %w", err)
	}
	return entries, nil
}

// CountLessonsTaken returns the platform-wide lesson-taken total.
func (r *ActivityRepository) CountLessonsTaken(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM take_lessons`); err != nil {
		return 0, fmt.Errorf("count lessons taken: %w", err)
	}
	return count, nil
}
