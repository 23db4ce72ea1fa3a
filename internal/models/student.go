package models

import (
	"strings"
	"time"
)

// GradeLevel is the grade band a student (or a subject) belongs to.
type GradeLevel string

const (
	Grade1     GradeLevel = "GRADE 1"
	Grade2     GradeLevel = "GRADE 2"
	Grade3     GradeLevel = "GRADE 3"
	Grade4     GradeLevel = "GRADE 4"
	Grade5     GradeLevel = "GRADE 5"
	Grade6     GradeLevel = "GRADE 6"
	Grade7     GradeLevel = "GRADE 7"
	Grade8     GradeLevel = "GRADE 8"
	Grade9     GradeLevel = "GRADE 9"
	Grade10    GradeLevel = "GRADE 10"
	Grade11    GradeLevel = "GRADE 11"
	Grade12    GradeLevel = "GRADE 12"
	GradeOther GradeLevel = "OTHER"
)

// GradeLevels enumerates the numbered grade bands in ascending order.
var GradeLevels = []GradeLevel{
	Grade1, Grade2, Grade3, Grade4, Grade5, Grade6,
	Grade7, Grade8, Grade9, Grade10, Grade11, Grade12,
}

// ParseGradeLevel normalises user supplied grade identifiers. Accepts the
// canonical form ("GRADE 3"), lowercase variants and the bare number.
func ParseGradeLevel(raw string) (GradeLevel, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", false
	}
	if !strings.HasPrefix(normalized, "GRADE ") {
		normalized = "GRADE " + normalized
	}
	for _, grade := range GradeLevels {
		if GradeLevel(normalized) == grade {
			return grade, true
		}
	}
	if GradeLevel(strings.ToUpper(strings.TrimSpace(raw))) == GradeOther {
		return GradeOther, true
	}
	return "", false
}

// Student is a learner profile linked to a user account. The school link is
// optional; students may self-register before a school assigns them.
type Student struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	FullName  string     `db:"full_name" json:"full_name"`
	Grade     GradeLevel `db:"grade" json:"grade"`
	SchoolID  *string    `db:"school_id" json:"school_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// TeacherProfile links a user account to a school as teaching staff.
type TeacherProfile struct {
	ID       string  `db:"id" json:"id"`
	UserID   string  `db:"user_id" json:"user_id"`
	FullName string  `db:"full_name" json:"full_name"`
	SchoolID *string `db:"school_id" json:"school_id,omitempty"`
}

// ParentProfile links a user account to one or more students.
type ParentProfile struct {
	ID       string `db:"id" json:"id"`
	UserID   string `db:"user_id" json:"user_id"`
	FullName string `db:"full_name" json:"full_name"`
}

// ProfileKind discriminates the Profile variant.
type ProfileKind string

const (
	ProfileNone    ProfileKind = ""
	ProfileStudent ProfileKind = "student"
	ProfileTeacher ProfileKind = "teacher"
	ProfileParent  ProfileKind = "parent"
)

// Profile is the resolved role profile for a user: exactly one of the
// pointers is set, matching Kind. Resolved once per request instead of
// probing relations ad hoc.
type Profile struct {
	Kind    ProfileKind
	Student *Student
	Teacher *TeacherProfile
	Parent  *ParentProfile
}

// SchoolHierarchy carries the resolved organisational scope for a student.
// Any level may be absent when the student has no school assigned.
type SchoolHierarchy struct {
	SchoolID   *string `db:"school_id"`
	DistrictID *string `db:"district_id"`
	CountyID   *string `db:"county_id"`
}
