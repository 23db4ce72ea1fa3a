package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elearn-api/internal/models"
	appErrors "github.com/noah-isme/elearn-api/pkg/errors"
)

type fakeProfileStore struct {
	profile  models.Profile
	children []models.Student
}

func (f *fakeProfileStore) Resolve(context.Context, string) (models.Profile, error) {
	return f.profile, nil
}

func (f *fakeProfileStore) FindStudent(context.Context, string) (*models.Student, error) {
	return f.profile.Student, nil
}

func (f *fakeProfileStore) ChildrenOf(context.Context, string) ([]models.Student, error) {
	return f.children, nil
}

func TestProfileServiceStudentOf(t *testing.T) {
	store := &fakeProfileStore{profile: models.Profile{Kind: models.ProfileStudent, Student: grade3Student()}}
	svc := NewProfileService(store, nil)

	student, err := svc.StudentOf(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", student.ID)
}

func TestProfileServiceStudentOfRequiresProfile(t *testing.T) {
	store := &fakeProfileStore{profile: models.Profile{Kind: models.ProfileTeacher, Teacher: &models.TeacherProfile{ID: "t"}}}
	svc := NewProfileService(store, nil)

	_, err := svc.StudentOf(context.Background(), "user-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrProfileRequired.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrProfileRequired.Status, appErr.Status)
}

func TestProfileServiceChildrenOf(t *testing.T) {
	store := &fakeProfileStore{
		profile:  models.Profile{Kind: models.ProfileParent, Parent: &models.ParentProfile{ID: "parent-1"}},
		children: []models.Student{{ID: "student-1"}, {ID: "student-2"}},
	}
	svc := NewProfileService(store, nil)

	parent, children, err := svc.ChildrenOf(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "parent-1", parent.ID)
	assert.Len(t, children, 2)
}

func TestProfileServiceChildrenOfRequiresParent(t *testing.T) {
	store := &fakeProfileStore{profile: models.Profile{Kind: models.ProfileNone}}
	svc := NewProfileService(store, nil)

	_, _, err := svc.ChildrenOf(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileRequired.Code, appErrors.FromError(err).Code)
}
