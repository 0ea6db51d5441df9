package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithmk180105/attendance-portal/internal/services"
	"github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/response"
)

// ClassHandler resolves join codes and lists scope professors.
type ClassHandler struct {
	classes *services.ClassService
	users   *services.UserService
}

func NewClassHandler(classes *services.ClassService, users *services.UserService) *ClassHandler {
	return &ClassHandler{classes: classes, users: users}
}

// GET /api/classes/resolve?code=&role=
func (h *ClassHandler) Resolve(c *gin.Context) {
	code := c.Query("code")
	role := c.Query("role")
	if code == "" || role == "" {
		response.Error(c, errors.NewBadRequest("code and role query parameters are required"))
		return
	}

	class, err := h.classes.ResolveJoinCode(requestContext(c), code, services.JoinRole(role))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"college":    class.College,
		"department": class.Department,
	})
}

// GET /api/classes/professors
func (h *ClassHandler) ListProfessors(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetByID(requestContext(c), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	professors, err := h.classes.ListProfessors(requestContext(c), user.College, user.Department)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"professors": professors})
}
