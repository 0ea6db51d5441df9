package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/pkg/crypto"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/metrics"
)

// ErrAccountUnverified prompts the user to complete email verification.
var ErrAccountUnverified = apperrors.New("ACCOUNT_UNVERIFIED", "Please verify your email before signing in", http.StatusUnauthorized)

// AuthService validates credentials for sign-in.
type AuthService struct {
	db *gorm.DB
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(db *gorm.DB) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	return &AuthService{db: db}, nil
}

// SignIn checks email, password and the role the caller claims to hold.
// All failures map to 401 so callers cannot probe which accounts exist,
// except the role mismatch, whose message names the stored role to steer
// users to the right portal.
func (s *AuthService) SignIn(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.NewBadRequest("email and password are required")
	}
	if !role.Valid() {
		metrics.AuthAttempts.WithLabelValues("invalid_role").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("unknown_email").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "lookup account")
	}

	if user.Role != role {
		metrics.AuthAttempts.WithLabelValues("role_mismatch").Inc()
		return nil, apperrors.ErrUnauthorized.WithMessage(
			fmt.Sprintf("This account is registered as %s, please sign in as %s", user.Role, user.Role))
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("bad_password").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		metrics.AuthAttempts.WithLabelValues("unverified").Inc()
		return nil, ErrAccountUnverified
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}
