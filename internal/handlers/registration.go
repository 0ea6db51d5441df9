package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/internal/services"
	"github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/response"
)

// RegistrationHandler manages sign-up and email verification.
type RegistrationHandler struct {
	registrations *services.RegistrationService
	verifications *services.VerificationService
}

func NewRegistrationHandler(registrations *services.RegistrationService, verifications *services.VerificationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, verifications: verifications}
}

// signUpRequest carries the union of all role payloads; the role field
// selects which branch is validated and applied.
type signUpRequest struct {
	Role          string `json:"role" validate:"required,role"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	ContactNumber string `json:"contactNumber" validate:"required"`
	Gender        string `json:"gender"`

	// HOD
	College    string `json:"college"`
	Department string `json:"department"`

	// Student
	RollNo      string `json:"rollNo"`
	StudentID   string `json:"userId"`
	Division    string `json:"division"`
	StudentCode string `json:"studentCode" validate:"omitempty,joincode"`

	// Professor
	ProfessorCode string `json:"professorCode" validate:"omitempty,joincode"`
}

// POST /api/auth/sign-up
func (h *RegistrationHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)
	var (
		user *models.User
		err  error
	)
	switch models.Role(req.Role) {
	case models.RoleHOD:
		user, err = h.registrations.SignUpHod(ctx, services.HodSignup{
			Name:          req.Name,
			Email:         req.Email,
			Password:      req.Password,
			ContactNumber: req.ContactNumber,
			Gender:        req.Gender,
			College:       req.College,
			Department:    req.Department,
		})
	case models.RoleProfessor:
		user, err = h.registrations.SignUpProfessor(ctx, services.ProfessorSignup{
			Name:          req.Name,
			Email:         req.Email,
			Password:      req.Password,
			ContactNumber: req.ContactNumber,
			Gender:        req.Gender,
			ProfessorCode: req.ProfessorCode,
		})
	case models.RoleStudent:
		user, err = h.registrations.SignUpStudent(ctx, services.StudentSignup{
			Name:          req.Name,
			Email:         req.Email,
			Password:      req.Password,
			ContactNumber: req.ContactNumber,
			Gender:        req.Gender,
			RollNo:        req.RollNo,
			StudentID:     req.StudentID,
			Division:      req.Division,
			StudentCode:   req.StudentCode,
		})
	default:
		response.Error(c, errors.NewBadRequest("role must be hod, professor or student"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated,
		"Account created, please check your email for the verification code",
		gin.H{"user": user})
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// POST /api/auth/verify
func (h *RegistrationHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.verifications.Verify(requestContext(c), req.Email, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Email verified successfully", gin.H{"user": user})
}
