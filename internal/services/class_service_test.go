package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithmk180105/attendance-portal/internal/database/testutil"
	"github.com/codewithmk180105/attendance-portal/internal/models"
)

func TestCreateForHodIssuesDistinctCodes(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewClassService(db)
	require.NoError(t, err)

	class, err := svc.CreateForHod(context.Background(), nil, "hod-codes", "MIT College", "Computer Science")
	require.NoError(t, err)

	assert.Len(t, class.StudentCode, 6)
	assert.Len(t, class.ProfessorCode, 6)
	assert.NotEqual(t, class.StudentCode, class.ProfessorCode)
	assert.Equal(t, "MIT College", class.College)
}

func TestCreateForHodRejectsDuplicateScope(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewClassService(db)
	require.NoError(t, err)

	_, err = svc.CreateForHod(context.Background(), nil, "hod-dup-1", "Scope College", "Scope Department")
	require.NoError(t, err)

	_, err = svc.CreateForHod(context.Background(), nil, "hod-dup-2", "Scope College", "Scope Department")
	require.ErrorIs(t, err, ErrScopeTaken)
}

func TestResolveJoinCodePerRole(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewClassService(db)
	require.NoError(t, err)

	class, err := svc.CreateForHod(context.Background(), nil, "hod-resolve", "Resolve College", "Resolve Department")
	require.NoError(t, err)

	got, err := svc.ResolveJoinCode(context.Background(), class.StudentCode, JoinRoleStudent)
	require.NoError(t, err)
	assert.Equal(t, class.ID, got.ID)

	got, err = svc.ResolveJoinCode(context.Background(), class.ProfessorCode, JoinRoleProfessor)
	require.NoError(t, err)
	assert.Equal(t, class.ID, got.ID)

	// The student code does not open the professor door
	_, err = svc.ResolveJoinCode(context.Background(), class.StudentCode, JoinRoleProfessor)
	assert.ErrorIs(t, err, ErrInvalidJoinCode)
}

func TestResolveJoinCodeUnknownCode(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewClassService(db)
	require.NoError(t, err)

	_, err = svc.ResolveJoinCode(context.Background(), "ZZZZ99", JoinRoleStudent)
	assert.ErrorIs(t, err, ErrInvalidJoinCode)
}

func TestResolveJoinCodeValidatesInput(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewClassService(db)
	require.NoError(t, err)

	_, err = svc.ResolveJoinCode(context.Background(), "", JoinRoleStudent)
	assert.Error(t, err)

	_, err = svc.ResolveJoinCode(context.Background(), "ABC123", JoinRole("admin"))
	assert.Error(t, err)
}

func TestListProfessorsOrderedByCreation(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	svc, err := NewClassService(db)
	require.NoError(t, err)

	first := &models.User{
		Name: "Prof One", Email: "prof.one@listprof.edu", Password: "x",
		Role: models.RoleProfessor, College: "List College", Department: "List Department",
	}
	second := &models.User{
		Name: "Prof Two", Email: "prof.two@listprof.edu", Password: "x",
		Role: models.RoleProfessor, College: "List College", Department: "List Department",
	}
	other := &models.User{
		Name: "Elsewhere", Email: "prof.other@listprof.edu", Password: "x",
		Role: models.RoleProfessor, College: "List College", Department: "Other Department",
	}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)
	require.NoError(t, db.Create(other).Error)

	professors, err := svc.ListProfessors(context.Background(), "List College", "List Department")
	require.NoError(t, err)
	require.Len(t, professors, 2)
	assert.Equal(t, "Prof One", professors[0].Name)
	assert.Equal(t, "Prof Two", professors[1].Name)
}
