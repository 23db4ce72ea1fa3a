package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elearn-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestActivityRepositoryTakenLessons(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	takenAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"lesson_id", "subject_id", "title", "taken_at"}).
		AddRow("lesson-1", "subject-1", "Fractions", takenAt)
	mock.ExpectQuery("SELECT tl.lesson_id, lr.subject_id, lr.title, tl.created_at AS taken_at").
		WithArgs("student-1").
		WillReturnRows(rows)

	lessons, err := repo.TakenLessons(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "lesson-1", lessons[0].LessonID)
	assert.Equal(t, takenAt, lessons[0].TakenAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryActiveDates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows([]string{"active_date"}).
		AddRow(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).
		AddRow(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT DISTINCT").
		WithArgs("student-1").
		WillReturnRows(rows)

	dates, err := repo.ActiveDates(context.Background(), "student-1", nil)
	require.NoError(t, err)
	assert.Len(t, dates, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryActiveDatesSince(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT DISTINCT").
		WithArgs("student-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"active_date"}))

	dates, err := repo.ActiveDates(context.Background(), "student-1", &since)
	require.NoError(t, err)
	assert.Empty(t, dates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryLessonCountsForScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "lesson_count"}).
		AddRow("student-1", 4).
		AddRow("student-2", 2)
	mock.ExpectQuery("COUNT\\(DISTINCT tl.lesson_id\\)").
		WithArgs("school-1").
		WillReturnRows(rows)

	counts, err := repo.LessonCountsForScope(context.Background(), models.ScopeSchool, "school-1")
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 4, counts[0].LessonCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryLessonCountsForScopeUnknown(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	_, err := repo.LessonCountsForScope(context.Background(), models.RankScope("planet"), "x")
	assert.Error(t, err)
}

func TestActivityRepositoryLessonsTakenSince(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM take_lessons").
		WithArgs("student-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.LessonsTakenSince(context.Background(), "student-1", since)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
