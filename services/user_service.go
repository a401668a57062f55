package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hmdavis/whatsapp-diet/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetByPhoneNumber resolves the sender of a message. Returns ErrUserNotFound
// when no user exists for the number.
func (s *UserService) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, phoneNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// CreateUser registers a user. The message pipeline never creates users;
// this serves the seeding path.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) error {
	if user.PhoneNumber == "" {
		return fmt.Errorf("%w: phone_number is required", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// TargetUpdate carries a partial update of the daily targets. Nil fields are
// left untouched.
type TargetUpdate struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

// UpdateTargets applies a partial target update and returns the saved user.
func (s *UserService) UpdateTargets(ctx context.Context, userID uint, update TargetUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Calories != nil {
		user.TargetCalories = update.Calories
	}
	if update.Protein != nil {
		user.TargetProtein = update.Protein
	}
	if update.Carbs != nil {
		user.TargetCarbs = update.Carbs
	}
	if update.Fats != nil {
		user.TargetFats = update.Fats
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update targets: %w", err)
	}
	return user, nil
}
