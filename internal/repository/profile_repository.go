package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/elearn-api/internal/models"
)

// ProfileRepository resolves the role profile linked to a user account and
// parent/child relationships.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository instantiates the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Resolve returns the profile variant for the user. At most one of
// student/teacher/parent exists per account; a user with none yields
// Kind == ProfileNone without error.
func (r *ProfileRepository) Resolve(ctx context.Context, userID string) (models.Profile, error) {
	var student models.Student
	err := r.db.GetContext(ctx, &student,
		`SELECT id, user_id, full_name, grade, school_id, created_at, updated_at FROM students WHERE user_id = $1`, userID)
	if err == nil {
		return models.Profile{Kind: models.ProfileStudent, Student: &student}, nil
	}
	if err != sql.ErrNoRows {
		return models.Profile{}, fmt.Errorf("resolve student profile: %w", err)
	}

	var teacher models.TeacherProfile
	err = r.db.GetContext(ctx, &teacher,
		`SELECT id, user_id, full_name, school_id FROM teachers WHERE user_id = $1`, userID)
	if err == nil {
		return models.Profile{Kind: models.ProfileTeacher, Teacher: &teacher}, nil
	}
	if err != sql.ErrNoRows {
		return models.Profile{}, fmt.Errorf("resolve teacher profile: %w", err)
	}

	var parent models.ParentProfile
	err = r.db.GetContext(ctx, &parent,
		`SELECT id, user_id, full_name FROM parents WHERE user_id = $1`, userID)
	if err == nil {
		return models.Profile{Kind: models.ProfileParent, Parent: &parent}, nil
	}
	if err != sql.ErrNoRows {
		return models.Profile{}, fmt.Errorf("resolve parent profile: %w", err)
	}

	return models.Profile{Kind: models.ProfileNone}, nil
}

// FindStudent fetches a student profile by its own id.
func (r *ProfileRepository) FindStudent(ctx context.Context, studentID string) (*models.Student, error) {
	var student models.Student
	err := r.db.GetContext(ctx, &student,
		`SELECT id, user_id, full_name, grade, school_id, created_at, updated_at FROM students WHERE id = $1`, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// ChildrenOf returns the students linked to a parent profile.
func (r *ProfileRepository) ChildrenOf(ctx context.Context, parentID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.user_id, s.full_name, s.grade, s.school_id, s.created_at, s.updated_at
        FROM students s
        JOIN parent_students ps ON ps.student_id = s.id
        WHERE ps.parent_id = $1
        ORDER BY s.full_name`
	var children []models.Student
	if err := r.db.SelectContext(ctx, &children, query, parentID); err != nil {
		return nil, fmt.Errorf("query children of parent: %w", err)
	}
	return children, nil
}

// CountStudents returns the platform-wide student total.
func (r *ProfileRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return count, nil
}

// StudentNames returns display names for the given student ids, used to
// decorate leaderboards.
func (r *ProfileRepository) StudentNames(ctx context.Context, studentIDs []string) (map[string]string, error) {
	if len(studentIDs) == 0 {
		return map[string]string{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, full_name FROM students WHERE id IN (?)`, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("build student names query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []struct {
		ID       string `db:"id"`
		FullName string `db:"full_name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query student names: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.FullName
	}
	return names, nil
}
