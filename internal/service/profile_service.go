package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/elearn-api/internal/models"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
)

type profileResolver interface {
	Resolve(ctx context.Context, userID string) (models.Profile, error)
	FindStudent(ctx context.Context, studentID string) (*models.Student, error)
	ChildrenOf(ctx context.Context, parentID string) ([]models.Student, error)
}

// ProfileService resolves the role profile behind an authenticated user once
// per request. A caller missing the profile a view requires gets a
// precondition failure, never an internal error.
type ProfileService struct {
	profiles profileResolver
	logger   *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(profiles profileResolver, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, logger: logger}
}

// Resolve returns the profile variant for a user id.
func (s *ProfileService) Resolve(ctx context.Context, userID string) (models.Profile, error) {
	return s.profiles.Resolve(ctx, userID)
}

// StudentOf returns the student profile for a user, failing the precondition
// when the user has none.
func (s *ProfileService) StudentOf(ctx context.Context, userID string) (*models.Student, error) {
	profile, err := s.profiles.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if profile.Kind != models.ProfileStudent || profile.Student == nil {
		return nil, appErrors.Clone(appErrors.ErrProfileRequired, "a student profile is required for this view")
	}
	return profile.Student, nil
}

// TeacherOf returns the teacher profile for a user, failing the precondition
// when the user has none.
func (s *ProfileService) TeacherOf(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	profile, err := s.profiles.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if profile.Kind != models.ProfileTeacher || profile.Teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrProfileRequired, "a teacher profile is required for this view")
	}
	return profile.Teacher, nil
}

// ChildrenOf returns the students linked to a user's parent profile, failing
// the precondition when the user is not a parent.
func (s *ProfileService) ChildrenOf(ctx context.Context, userID string) (*models.ParentProfile, []models.Student, error) {
	profile, err := s.profiles.Resolve(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve profile: %w", err)
	}
	if profile.Kind != models.ProfileParent || profile.Parent == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrProfileRequired, "a parent profile is required for this view")
	}
	children, err := s.profiles.ChildrenOf(ctx, profile.Parent.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load children: %w", err)
	}
	return profile.Parent, children, nil
}

// Student fetches a student by id, for parent and teacher drill-down views.
func (s *ProfileService) Student(ctx context.Context, studentID string) (*models.Student, error) {
	return s.profiles.FindStudent(ctx, studentID)
}
