package models

import "time"

// UserRole represents the available roles on the platform.
type UserRole string

const (
	RoleAdmin            UserRole = "ADMIN"
	RoleStudent          UserRole = "STUDENT"
	RoleTeacher          UserRole = "TEACHER"
	RoleParent           UserRole = "PARENT"
	RoleContentCreator   UserRole = "CONTENTCREATOR"
	RoleContentValidator UserRole = "CONTENTVALIDATOR"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	Deleted      bool       `db:"deleted" json:"-"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
