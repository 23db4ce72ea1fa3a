package models

import "time"

// LessonTakenEvent records that a student took a lesson. At most one event
// exists per (student, lesson) pair; re-taking a lesson is idempotent.
type LessonTakenEvent struct {
	StudentID string    `db:"student_id" json:"student_id"`
	LessonID  string    `db:"lesson_id" json:"lesson_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TakenLesson is a lesson the student has taken, with the catalog title for
// "continue learning" style views.
type TakenLesson struct {
	LessonID  string    `db:"lesson_id"`
	SubjectID string    `db:"subject_id"`
	Title     string    `db:"title"`
	TakenAt   time.Time `db:"taken_at"`
}

// StudentLessonCount is a cohort member with their distinct-lesson count,
// the input to engagement ranking.
type StudentLessonCount struct {
	StudentID   string `db:"student_id"`
	LessonCount int    `db:"lesson_count"`
}

// ActivityEntry is a row from the generic user activity feed
// (login, take_lesson, play_game, ...).
type ActivityEntry struct {
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
