package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/techagentng/citypulse/models"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Ping(ctx context.Context) error
	CreateReport(ctx context.Context, report *models.Report) (*models.Report, error)
	GetAllReports(ctx context.Context) ([]models.Report, error)
	GetReportsByUserID(ctx context.Context, userID string) ([]models.Report, error)
	CountReportsByUserID(ctx context.Context, userID string) (int64, error)
	GetReportByID(ctx context.Context, id string) (*models.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) error
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

// Ping issues the cheapest possible read against the reports table
func (r *reportRepo) Ping(ctx context.Context) error {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&models.Report{}).Select("id").Limit(1).Find(&ids).Error
	if err != nil {
		return errors.Wrap(err, "ping reports")
	}
	return nil
}

func (r *reportRepo) CreateReport(ctx context.Context, report *models.Report) (*models.Report, error) {
	if err := r.DB.WithContext(ctx).Create(report).Error; err != nil {
		return nil, errors.Wrap(err, "insert report")
	}
	return report, nil
}

// GetAllReports returns every report, newest first
func (r *reportRepo) GetAllReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := r.DB.WithContext(ctx).Order("timestamp DESC").Find(&reports).Error; err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	return reports, nil
}

func (r *reportRepo) GetReportsByUserID(ctx context.Context, userID string) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC").Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user reports")
	}
	return reports, nil
}

func (r *reportRepo) CountReportsByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Report{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count user reports")
	}
	return count, nil
}

func (r *reportRepo) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateReportStatus writes only the status column
func (r *reportRepo) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) error {
	result := r.DB.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update report status")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
