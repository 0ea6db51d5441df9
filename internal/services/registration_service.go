package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/pkg/crypto"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/logger"
	"github.com/codewithmk180105/attendance-portal/pkg/mail"
	"github.com/codewithmk180105/attendance-portal/pkg/metrics"
)

const (
	verifyCodeDigits = 6
	verifyCodeTTL    = time.Hour
)

// ErrEmailExists indicates a verified account already uses the email.
var ErrEmailExists = apperrors.New("EMAIL_EXISTS", "Email already exists", http.StatusConflict)

// HodSignup registers a head of department, claiming a fresh
// (college, department) scope.
type HodSignup struct {
	Name          string
	Email         string
	Password      string
	ContactNumber string
	Gender        string
	College       string
	Department    string
}

// ProfessorSignup registers a professor joining an existing class by code.
type ProfessorSignup struct {
	Name          string
	Email         string
	Password      string
	ContactNumber string
	Gender        string
	ProfessorCode string
}

// StudentSignup registers a student joining an existing class by code.
type StudentSignup struct {
	Name          string
	Email         string
	Password      string
	ContactNumber string
	Gender        string
	RollNo        string
	StudentID     string
	Division      string
	StudentCode   string
}

// RegistrationService provisions unverified accounts and dispatches
// verification codes.
type RegistrationService struct {
	db      *gorm.DB
	classes *ClassService
	mailer  mail.Mailer
	from    string
	now     func() time.Time
}

// RegistrationOption customises a RegistrationService.
type RegistrationOption func(*RegistrationService)

// WithRegistrationClock overrides the time source, used by tests to
// control verify-code expiry.
func WithRegistrationClock(now func() time.Time) RegistrationOption {
	return func(s *RegistrationService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(db *gorm.DB, classes *ClassService, mailer mail.Mailer, from string, opts ...RegistrationOption) (*RegistrationService, error) {
	if db == nil {
		return nil, errors.New("registration service: db is required")
	}
	if classes == nil {
		return nil, errors.New("registration service: class service is required")
	}
	svc := &RegistrationService{
		db:      db,
		classes: classes,
		mailer:  mailer,
		from:    from,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SignUpHod registers a new head of department. The user and its class are
// created in one transaction so a failed scope claim leaves no orphan account.
func (s *RegistrationService) SignUpHod(ctx context.Context, input HodSignup) (*models.User, error) {
	ctx = ensureContext(ctx)

	base, err := s.prepareBase(input.Name, input.Email, input.Password, input.ContactNumber, input.Gender)
	if err != nil {
		return nil, err
	}
	college := strings.TrimSpace(input.College)
	department := strings.TrimSpace(input.Department)
	if college == "" || department == "" {
		return nil, apperrors.NewBadRequest("college and department are required")
	}

	existing, err := s.findByEmail(ctx, base.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		metrics.Registrations.WithLabelValues(string(models.RoleHOD), "conflict").Inc()
		return nil, ErrEmailExists
	}

	user := existing
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if user == nil {
			user = &models.User{}
		}
		applyBase(user, base)
		user.Role = models.RoleHOD
		user.College = college
		user.Department = department

		// An unverified HOD re-registering may already own a class for a
		// previous scope choice; release it before claiming the new one.
		if existing != nil {
			if err := tx.Where("hod_id = ?", existing.ID).Delete(&models.Class{}).Error; err != nil {
				return apperrors.Wrap(err, "release previous class")
			}
		}

		if err := tx.Save(user).Error; err != nil {
			return apperrors.Wrap(err, "save hod")
		}

		class, err := s.classes.CreateForHod(ctx, tx, user.ID, college, department)
		if err != nil {
			return err
		}
		user.StudentCode = class.StudentCode
		user.ProfessorCode = class.ProfessorCode
		return tx.Save(user).Error
	})
	if err != nil {
		metrics.Registrations.WithLabelValues(string(models.RoleHOD), "error").Inc()
		return nil, apperrors.FromError(err)
	}

	metrics.Registrations.WithLabelValues(string(models.RoleHOD), "created").Inc()
	s.dispatchVerifyCode(ctx, user)
	return user, nil
}

// SignUpProfessor registers a professor against the class issuing the code.
func (s *RegistrationService) SignUpProfessor(ctx context.Context, input ProfessorSignup) (*models.User, error) {
	ctx = ensureContext(ctx)

	base, err := s.prepareBase(input.Name, input.Email, input.Password, input.ContactNumber, input.Gender)
	if err != nil {
		return nil, err
	}

	// The email check comes first: a verified account conflicts no matter
	// what the rest of the payload looks like.
	existing, err := s.findByEmail(ctx, base.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		metrics.Registrations.WithLabelValues(string(models.RoleProfessor), "conflict").Inc()
		return nil, ErrEmailExists
	}

	class, err := s.classes.ResolveJoinCode(ctx, input.ProfessorCode, JoinRoleProfessor)
	if err != nil {
		metrics.Registrations.WithLabelValues(string(models.RoleProfessor), "invalid_code").Inc()
		return nil, err
	}

	user := existing
	if user == nil {
		user = &models.User{}
	}
	applyBase(user, base)
	user.Role = models.RoleProfessor
	user.College = class.College
	user.Department = class.Department
	user.ProfessorCode = class.ProfessorCode

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		metrics.Registrations.WithLabelValues(string(models.RoleProfessor), "error").Inc()
		return nil, apperrors.Wrap(err, "save professor")
	}

	metrics.Registrations.WithLabelValues(string(models.RoleProfessor), "created").Inc()
	s.dispatchVerifyCode(ctx, user)
	return user, nil
}

// SignUpStudent registers a student against the class issuing the code.
func (s *RegistrationService) SignUpStudent(ctx context.Context, input StudentSignup) (*models.User, error) {
	ctx = ensureContext(ctx)

	base, err := s.prepareBase(input.Name, input.Email, input.Password, input.ContactNumber, input.Gender)
	if err != nil {
		return nil, err
	}
	rollNo := strings.TrimSpace(input.RollNo)
	studentID := strings.TrimSpace(input.StudentID)
	division := strings.TrimSpace(input.Division)
	if rollNo == "" || studentID == "" || division == "" {
		return nil, apperrors.NewBadRequest("rollNo, userId and division are required")
	}

	existing, err := s.findByEmail(ctx, base.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		metrics.Registrations.WithLabelValues(string(models.RoleStudent), "conflict").Inc()
		return nil, ErrEmailExists
	}

	class, err := s.classes.ResolveJoinCode(ctx, input.StudentCode, JoinRoleStudent)
	if err != nil {
		metrics.Registrations.WithLabelValues(string(models.RoleStudent), "invalid_code").Inc()
		return nil, err
	}

	user := existing
	if user == nil {
		user = &models.User{}
	}
	applyBase(user, base)
	user.Role = models.RoleStudent
	user.College = class.College
	user.Department = class.Department
	user.RollNo = rollNo
	user.StudentID = studentID
	user.Division = division
	user.StudentCode = class.StudentCode

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		metrics.Registrations.WithLabelValues(string(models.RoleStudent), "error").Inc()
		return nil, apperrors.Wrap(err, "save student")
	}

	metrics.Registrations.WithLabelValues(string(models.RoleStudent), "created").Inc()
	s.dispatchVerifyCode(ctx, user)
	return user, nil
}

type signupBase struct {
	Name          string
	Email         string
	PasswordHash  string
	ContactNumber string
	Gender        string
	VerifyCode    string
	VerifyExpiry  time.Time
}

func (s *RegistrationService) prepareBase(name, email, password, contact, gender string) (signupBase, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" || strings.TrimSpace(contact) == "" {
		return signupBase{}, apperrors.NewBadRequest("name, email, password and contact number are required")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return signupBase{}, apperrors.Wrap(err, "hash password")
	}

	code, err := crypto.GenerateNumericCode(verifyCodeDigits)
	if err != nil {
		return signupBase{}, apperrors.Wrap(err, "generate verify code")
	}

	return signupBase{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		ContactNumber: strings.TrimSpace(contact),
		Gender:        strings.TrimSpace(gender),
		VerifyCode:    code,
		VerifyExpiry:  s.now().Add(verifyCodeTTL),
	}, nil
}

// applyBase overwrites the mutable fields. For an existing unverified
// account this refreshes the record in place, preserving its identity.
func applyBase(user *models.User, base signupBase) {
	user.Name = base.Name
	user.Email = base.Email
	user.Password = base.PasswordHash
	user.ContactNumber = base.ContactNumber
	if base.Gender != "" {
		user.Gender = base.Gender
	}
	user.IsVerified = false
	user.VerifyCode = base.VerifyCode
	user.VerifyCodeExpiry = base.VerifyExpiry
}

func (s *RegistrationService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "lookup email")
	}
	return &user, nil
}

// dispatchVerifyCode emails the verification code. Delivery problems are
// logged but never fail the signup; the code stays on the record and the
// user can re-register for a fresh one.
func (s *RegistrationService) dispatchVerifyCode(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}

	msg := mail.Message{
		From:    s.from,
		To:      []string{user.Email},
		Subject: "Verify your attendance portal account",
		Body: fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires in one hour.\n",
			user.Name, user.VerifyCode),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			logger.WithModule("registration").Debug("smtp disabled, verification code not emailed",
				zap.String("email", user.Email))
			return
		}
		logger.WithModule("registration").Warn("verification email failed",
			zap.String("email", user.Email), zap.Error(err))
	}
}
