package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/techagentng/citypulse/models"
	"gorm.io/gorm"
)

// RewardRepository manages the point balance held on each profile
type RewardRepository interface {
	IncrementPoints(ctx context.Context, userID string, amount int) error
	GetPoints(ctx context.Context, userID string) (int, error)
	SetPoints(ctx context.Context, userID string, points int) error
	GetTopProfiles(ctx context.Context, limit int) ([]models.Profile, error)
}

type rewardRepo struct {
	DB *gorm.DB
}

func NewRewardRepo(db *GormDB) RewardRepository {
	return &rewardRepo{db.DB}
}

// IncrementPoints adds amount to the balance in a single UPDATE
func (r *rewardRepo) IncrementPoints(ctx context.Context, userID string, amount int) error {
	result := r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if result.Error != nil {
		return errors.Wrap(result.Error, "increment points")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rewardRepo) GetPoints(ctx context.Context, userID string) (int, error) {
	var profile models.Profile
	err := r.DB.WithContext(ctx).Select("points").Where("id = ?", userID).First(&profile).Error
	if err != nil {
		return 0, errors.Wrap(err, "get points")
	}
	return profile.Points, nil
}

func (r *rewardRepo) SetPoints(ctx context.Context, userID string, points int) error {
	result := r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		UpdateColumn("points", points)
	if result.Error != nil {
		return errors.Wrap(result.Error, "set points")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rewardRepo) GetTopProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.DB.WithContext(ctx).Order("points DESC").Order("created_at ASC").Limit(limit).Find(&profiles).Error
	if err != nil {
		return nil, errors.Wrap(err, "top profiles")
	}
	return profiles, nil
}
