package models

import "time"

// GradeKind distinguishes the two disjoint assessment-grade categories.
type GradeKind string

const (
	GradeKindLesson  GradeKind = "lesson"
	GradeKindGeneral GradeKind = "general"
)

// GradeRecord is one assessment grade held by a student. Score is bounded
// 0 <= Score <= Marks at write time and assumed valid on read.
type GradeRecord struct {
	AssessmentID    string    `db:"assessment_id" json:"assessment_id"`
	AssessmentTitle string    `db:"assessment_title" json:"assessment_title"`
	Kind            GradeKind `db:"kind" json:"kind"`
	Score           float64   `db:"score" json:"score"`
	Marks           float64   `db:"marks" json:"marks"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// AssessmentGradeEntry is one student's grade within an assessment cohort.
type AssessmentGradeEntry struct {
	AssessmentID    string    `db:"assessment_id"`
	AssessmentTitle string    `db:"assessment_title"`
	StudentID       string    `db:"student_id"`
	Score           float64   `db:"score"`
	CreatedAt       time.Time `db:"created_at"`
}

// CohortGrade is a flattened grade row used when scoring a ranking cohort.
type CohortGrade struct {
	StudentID string  `db:"student_id"`
	Score     float64 `db:"score"`
	Marks     float64 `db:"marks"`
}

// UpcomingAssessment is an assessment with a due date ahead of now,
// surfaced in the "upcoming" dashboard section.
type UpcomingAssessment struct {
	Title string     `db:"title"`
	DueAt *time.Time `db:"due_at"`
}
