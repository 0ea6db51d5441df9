package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithmk180105/attendance-portal/internal/models"
)

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "classes", "attendance_requests"} {
		require.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestClassScopeUniqueness(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	hod := models.User{
		Name:     "Dr. Unique",
		Email:    "unique-hod@example.edu",
		Password: "hash",
		Role:     models.RoleHOD,
		College:  "MigrateCollege", Department: "MigrateDept",
	}
	require.NoError(t, db.Create(&hod).Error)

	first := models.Class{
		College: "MigrateCollege", Department: "MigrateDept",
		StudentCode: "MIGS01", ProfessorCode: "MIGP01",
		HodID: hod.ID,
	}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Class{
		College: "MigrateCollege", Department: "MigrateDept",
		StudentCode: "MIGS02", ProfessorCode: "MIGP02",
		HodID: hod.ID,
	}
	require.Error(t, db.Create(&dup).Error, "duplicate (college, department) must violate the unique index")

	dupCode := models.Class{
		College: "OtherCollege", Department: "OtherDept",
		StudentCode: "MIGS01", ProfessorCode: "MIGP03",
		HodID: hod.ID,
	}
	require.Error(t, db.Create(&dupCode).Error, "duplicate student code must violate the unique index")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}
