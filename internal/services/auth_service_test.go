package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/database/testutil"
	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/pkg/crypto"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
)

func seedSignInUser(t *testing.T, db *gorm.DB, email, password string, role models.Role, verified bool) *models.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Name: "Sign In", Email: email, Password: hash, Role: role,
		College: "SignIn College", Department: "SignIn Department",
		IsVerified: verified,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSignInSuccess(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewAuthService(db)
	require.NoError(t, err)

	seedSignInUser(t, db, "ok@signin.edu", "right-pass", models.RoleStudent, true)

	user, err := svc.SignIn(context.Background(), "OK@signin.edu", "right-pass", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "ok@signin.edu", user.Email)
}

func TestSignInWrongPassword(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewAuthService(db)
	require.NoError(t, err)

	seedSignInUser(t, db, "badpw@signin.edu", "right-pass", models.RoleStudent, true)

	_, err = svc.SignIn(context.Background(), "badpw@signin.edu", "wrong-pass", models.RoleStudent)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewAuthService(db)
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), "missing@signin.edu", "whatever", models.RoleHOD)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestSignInRoleMismatchNamesStoredRole(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewAuthService(db)
	require.NoError(t, err)

	seedSignInUser(t, db, "prof@signin.edu", "pass", models.RoleProfessor, true)

	_, err = svc.SignIn(context.Background(), "prof@signin.edu", "pass", models.RoleStudent)
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, 401, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "professor")
}

func TestSignInUnverifiedAccount(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewAuthService(db)
	require.NoError(t, err)

	seedSignInUser(t, db, "pending@signin.edu", "pass", models.RoleHOD, false)

	_, err = svc.SignIn(context.Background(), "pending@signin.edu", "pass", models.RoleHOD)
	require.ErrorIs(t, err, ErrAccountUnverified)
}

func TestSignInInvalidRoleValue(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewAuthService(db)
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), "any@signin.edu", "pass", models.Role("admin"))
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
