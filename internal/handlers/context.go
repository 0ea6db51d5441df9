package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	iauth "github.com/codewithmk180105/attendance-portal/internal/auth"
	"github.com/codewithmk180105/attendance-portal/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentClaims returns the identity the auth middleware attached.
func currentClaims(c *gin.Context) (*iauth.Claims, bool) {
	return middleware.ClaimsFromContext(c)
}
