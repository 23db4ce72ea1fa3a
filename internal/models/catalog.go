package models

import "time"

// ModerationStatus is the content moderation label. Transitions are direct
// assignments performed outside this service; analytics reads consider only
// approved content.
type ModerationStatus string

const (
	StatusDraft    ModerationStatus = "DRAFT"
	StatusPending  ModerationStatus = "PENDING"
	StatusApproved ModerationStatus = "APPROVED"
	StatusRejected ModerationStatus = "REJECTED"
)

// Subject is a course of study scoped to a grade level.
type Subject struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Grade     GradeLevel       `db:"grade" json:"grade"`
	Status    ModerationStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// SubjectLessonCount pairs a subject with its approved lesson total,
// the denominator for completion percentages.
type SubjectLessonCount struct {
	SubjectID    string `db:"subject_id"`
	Name         string `db:"name"`
	TotalLessons int    `db:"total_lessons"`
}

// LessonSummary is the catalog view of a lesson used by completion math.
// DurationMinutes is nil when the author never estimated one.
type LessonSummary struct {
	LessonID        string `db:"lesson_id"`
	SubjectID       string `db:"subject_id"`
	Title           string `db:"title"`
	DurationMinutes *int   `db:"duration_minutes"`
}
