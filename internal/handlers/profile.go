package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithmk180105/attendance-portal/internal/services"
	"github.com/codewithmk180105/attendance-portal/internal/uploads"
	"github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/response"
)

// ProfileHandler serves the caller's own account record.
type ProfileHandler struct {
	users   *services.UserService
	uploads uploads.Store
}

func NewProfileHandler(users *services.UserService, uploadStore uploads.Store) *ProfileHandler {
	return &ProfileHandler{users: users, uploads: uploadStore}
}

// GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
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

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// PUT /api/profile (multipart)
func (h *ProfileHandler) Update(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var input services.UpdateProfileInput
	if value, ok := c.GetPostForm("name"); ok {
		input.Name = &value
	}
	if value, ok := c.GetPostForm("contactNumber"); ok {
		input.ContactNumber = &value
	}
	if value, ok := c.GetPostForm("gender"); ok {
		input.Gender = &value
	}

	if file, err := c.FormFile("profilePicture"); err == nil && file != nil {
		if h.uploads == nil {
			response.Error(c, errors.NewBadRequest("file uploads are not enabled"))
			return
		}
		url, err := h.uploads.Save(file)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.ProfilePicture = &url
	}

	user, err := h.users.UpdateProfile(requestContext(c), claims.UserID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Profile updated", gin.H{"user": user})
}
