package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/techagentng/citypulse/models"
	"gorm.io/gorm"
)

var ErrEmailExists = errors.New("email already in use")

type AuthRepository interface {
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	IsEmailExist(ctx context.Context, email string) error
	FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	FindProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.Role == "" {
		profile.Role = models.RoleCitizen
	}
	if err := a.DB.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (a *authRepo) IsEmailExist(ctx context.Context, email string) error {
	var count int64
	err := a.DB.WithContext(ctx).Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return ErrEmailExists
	}
	return nil
}

func (a *authRepo) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := a.DB.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if err != nil {
		return nil, errors.Wrap(err, "find profile by email")
	}
	return &profile, nil
}

func (a *authRepo) FindProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := a.DB.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, errors.Wrap(err, "find profile by id")
	}
	return &profile, nil
}
