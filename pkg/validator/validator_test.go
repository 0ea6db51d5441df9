package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type signupFields struct {
	Role        string `json:"role" validate:"required,role"`
	StudentCode string `json:"studentCode" validate:"omitempty,joincode"`
}

func TestValidateStructRoleRule(t *testing.T) {
	require.NoError(t, ValidateStruct(signupFields{Role: "student"}))
	require.NoError(t, ValidateStruct(signupFields{Role: "HOD"}))

	err := ValidateStruct(signupFields{Role: "admin"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Equal(t, "role", failures[0].Field)
	require.Equal(t, "role", failures[0].Tag)
}

func TestValidateStructJoinCodeRule(t *testing.T) {
	require.NoError(t, ValidateStruct(signupFields{Role: "student", StudentCode: "AB12CD"}))
	require.NoError(t, ValidateStruct(signupFields{Role: "student", StudentCode: "ab12cd"}))
	require.NoError(t, ValidateStruct(signupFields{Role: "student"}))

	err := ValidateStruct(signupFields{Role: "student", StudentCode: "AB12"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Equal(t, "studentCode", failures[0].Field)
	require.Equal(t, "joincode", failures[0].Tag)
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Tag: "required"},
		{Field: "password", Tag: "min", Param: "6"},
	}
	require.Equal(t, "email failed on required; password failed on min=6", errs.Error())
}
