package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithmk180105/attendance-portal/internal/database/testutil"
	"github.com/codewithmk180105/attendance-portal/internal/models"
)

func TestUpdateProfileAppliesChanges(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	user := &models.User{
		Name: "Before", Email: "profile@user.edu", Password: "hash",
		Role: models.RoleStudent, College: "C", Department: "D",
		ContactNumber: "000",
	}
	require.NoError(t, db.Create(user).Error)

	name := "After"
	contact := "12345"
	picture := "/uploads/abc.png"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Name:           &name,
		ContactNumber:  &contact,
		ProfilePicture: &picture,
	})
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "12345", updated.ContactNumber)
	assert.Equal(t, "/uploads/abc.png", updated.ProfilePicture)
}

func TestUpdateProfileRejectsBlankName(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	user := &models.User{
		Name: "Keep", Email: "blankname@user.edu", Password: "hash",
		Role: models.RoleHOD, College: "C", Department: "D",
	}
	require.NoError(t, db.Create(user).Error)

	blank := "  "
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Name: &blank})
	require.Error(t, err)
}

func TestUpdateProfileNoChangesIsNoOp(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	user := &models.User{
		Name: "Same", Email: "noop@user.edu", Password: "hash",
		Role: models.RoleProfessor, College: "C", Department: "D",
	}
	require.NoError(t, db.Create(user).Error)

	got, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "Same", got.Name)
}

func TestGetByIDUnknown(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
}
