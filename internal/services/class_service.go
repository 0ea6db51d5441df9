package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/pkg/crypto"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
)

const (
	joinCodeLength = 6

	// codeRetryBudget caps regeneration attempts when a freshly minted
	// join code collides with an existing one.
	codeRetryBudget = 5
)

var (
	// ErrScopeTaken indicates another HOD already owns the (college, department) pair.
	ErrScopeTaken = apperrors.New("DUPLICATE_SCOPE", "A class for this college and department already exists", http.StatusConflict)
	// ErrInvalidJoinCode indicates the supplied code matches no class.
	ErrInvalidJoinCode = apperrors.New("INVALID_JOIN_CODE", "Invalid class code", http.StatusNotFound)
	// ErrCodeGenerationExhausted indicates repeated join-code collisions.
	ErrCodeGenerationExhausted = apperrors.New("CODE_GENERATION_EXHAUSTED", "Could not issue unique class codes", http.StatusInternalServerError)
)

// JoinRole distinguishes which of a class's two codes a joiner used.
type JoinRole string

const (
	JoinRoleStudent   JoinRole = "student"
	JoinRoleProfessor JoinRole = "professor"
)

// ClassService manages class records and the join codes they issue.
type ClassService struct {
	db *gorm.DB
}

// NewClassService constructs a ClassService instance.
func NewClassService(db *gorm.DB) (*ClassService, error) {
	if db == nil {
		return nil, errors.New("class service: db is required")
	}
	return &ClassService{db: db}, nil
}

// CreateForHod claims the (college, department) scope for the given HOD,
// minting both join codes. Runs inside tx so the caller can bundle it
// with the HOD user insert. Code collisions retry with fresh codes up to
// the retry budget; a scope collision is reported as a conflict.
func (s *ClassService) CreateForHod(ctx context.Context, tx *gorm.DB, hodID, college, department string) (*models.Class, error) {
	ctx = ensureContext(ctx)

	college = strings.TrimSpace(college)
	department = strings.TrimSpace(department)
	if college == "" || department == "" {
		return nil, apperrors.NewBadRequest("college and department are required")
	}
	if tx == nil {
		tx = s.db
	}

	// Pre-check catches the common duplicate-scope case cheaply; a racing
	// claim still trips the unique index below.
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Class{}).
		Where("college = ? AND department = ?", college, department).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(err, "check scope")
	}
	if count > 0 {
		return nil, ErrScopeTaken
	}

	for attempt := 0; attempt < codeRetryBudget; attempt++ {
		studentCode, err := crypto.GenerateClassCode(joinCodeLength)
		if err != nil {
			return nil, apperrors.Wrap(err, "generate student code")
		}
		professorCode, err := crypto.GenerateClassCode(joinCodeLength)
		if err != nil {
			return nil, apperrors.Wrap(err, "generate professor code")
		}

		class := &models.Class{
			College:       college,
			Department:    department,
			StudentCode:   studentCode,
			ProfessorCode: professorCode,
			HodID:         hodID,
		}

		// Each attempt runs under a savepoint so a failed insert does not
		// poison the enclosing transaction.
		err = tx.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
			return inner.Create(class).Error
		})
		if err == nil {
			return class, nil
		}
		if !isUniqueConstraintError(err) {
			return nil, apperrors.Wrap(err, "create class")
		}
		if isScopeViolation(err) {
			return nil, ErrScopeTaken
		}
		// Otherwise a code index collided; draw fresh codes and retry.
	}

	return nil, ErrCodeGenerationExhausted
}

// isScopeViolation distinguishes a (college, department) unique violation
// from a join-code one by inspecting the driver's constraint report.
func isScopeViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "idx_classes_scope") ||
		(strings.Contains(msg, "college") && strings.Contains(msg, "department"))
}

// ResolveJoinCode finds the class issuing the given code for the given role.
func (s *ClassService) ResolveJoinCode(ctx context.Context, code string, role JoinRole) (*models.Class, error) {
	ctx = ensureContext(ctx)

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.NewBadRequest("class code is required")
	}

	var column string
	switch role {
	case JoinRoleStudent:
		column = "student_code"
	case JoinRoleProfessor:
		column = "professor_code"
	default:
		return nil, apperrors.NewBadRequest("role must be student or professor")
	}

	var class models.Class
	err := s.db.WithContext(ctx).Where(column+" = ?", code).First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidJoinCode
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "resolve class code")
	}
	return &class, nil
}

// GetByScope returns the class owning the (college, department) pair.
func (s *ClassService) GetByScope(ctx context.Context, college, department string) (*models.Class, error) {
	ctx = ensureContext(ctx)

	var class models.Class
	err := s.db.WithContext(ctx).
		Where("college = ? AND department = ?", college, department).
		First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("class not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "load class")
	}
	return &class, nil
}

// ListProfessors returns the verified professors registered in the scope,
// ordered by creation time.
func (s *ClassService) ListProfessors(ctx context.Context, college, department string) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var professors []models.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND college = ? AND department = ?", models.RoleProfessor, college, department).
		Order("created_at ASC").
		Find(&professors).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "list professors")
	}
	return professors, nil
}
