package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
)

// UpdateProfileInput enumerates the mutable profile attributes. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	Name           *string
	ContactNumber  *string
	Gender         *string
	ProfilePicture *string
}

// UserService exposes account lookups and profile updates.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// GetByID returns the account for the given primary key.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "load user")
	}
	return &user, nil
}

// UpdateProfile applies the supplied profile changes to the account.
func (s *UserService) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("name cannot be blank")
		}
		updates["name"] = name
	}
	if input.ContactNumber != nil {
		contact := strings.TrimSpace(*input.ContactNumber)
		if contact == "" {
			return nil, apperrors.NewBadRequest("contact number cannot be blank")
		}
		updates["contact_number"] = contact
	}
	if input.Gender != nil {
		updates["gender"] = strings.TrimSpace(*input.Gender)
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = *input.ProfilePicture
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(err, "update profile")
	}
	return s.GetByID(ctx, id)
}
