package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/codewithmk180105/attendance-portal/internal/auth"
	"github.com/codewithmk180105/attendance-portal/internal/middleware"
	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/internal/services"
	"github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/response"
)

// CookieSettings controls how the session cookie is issued.
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler manages sign-in, logout and the current-user endpoint.
type AuthHandler struct {
	auth   *services.AuthService
	users  *services.UserService
	jwt    *iauth.JWTService
	cookie CookieSettings
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService, jwt *iauth.JWTService, cookie CookieSettings) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = middleware.AuthCookieName
	}
	return &AuthHandler{auth: auth, users: users, jwt: jwt, cookie: cookie}
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// POST /api/auth/sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.auth.SignIn(requestContext(c), req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateToken(iauth.TokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}

	maxAge := int(h.jwt.TokenTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)

	response.SuccessWithMessage(c, http.StatusOK, "Signed in successfully", gin.H{"user": user})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.SuccessWithMessage(c, http.StatusOK, "Signed out", nil)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
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
