package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
)

var (
	// ErrVerifyCodeExpired indicates the code's one-hour window passed.
	ErrVerifyCodeExpired = apperrors.New("VERIFY_CODE_EXPIRED", "Verification code expired, please sign up again to receive a new one", http.StatusBadRequest)
	// ErrVerifyCodeInvalid indicates the code does not match the account.
	ErrVerifyCodeInvalid = apperrors.New("VERIFY_CODE_INVALID", "Invalid verification code", http.StatusBadRequest)
)

// VerificationService confirms account ownership via emailed codes.
type VerificationService struct {
	db  *gorm.DB
	now func() time.Time
}

// VerificationOption customises a VerificationService.
type VerificationOption func(*VerificationService)

// WithVerificationClock overrides the time source for expiry checks.
func WithVerificationClock(now func() time.Time) VerificationOption {
	return func(s *VerificationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewVerificationService constructs a VerificationService instance.
func NewVerificationService(db *gorm.DB, opts ...VerificationOption) (*VerificationService, error) {
	if db == nil {
		return nil, errors.New("verification service: db is required")
	}
	svc := &VerificationService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Verify marks the account for email as verified when code matches and is
// still within its window. Already-verified accounts succeed idempotently.
func (s *VerificationService) Verify(ctx context.Context, email, code string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, apperrors.NewBadRequest("email and verification code are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("no account found for this email")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "lookup account")
	}

	if user.IsVerified {
		return &user, nil
	}

	if s.now().After(user.VerifyCodeExpiry) {
		return nil, ErrVerifyCodeExpired
	}
	if user.VerifyCode == "" || user.VerifyCode != code {
		return nil, ErrVerifyCodeInvalid
	}

	updates := map[string]interface{}{
		"is_verified":        true,
		"verify_code":        "",
		"verify_code_expiry": time.Time{},
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(err, "mark verified")
	}

	user.IsVerified = true
	user.VerifyCode = ""
	user.VerifyCodeExpiry = time.Time{}
	return &user, nil
}
