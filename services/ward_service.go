package services

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/techagentng/citypulse/db"
	apiError "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"gorm.io/gorm"
)

type WardService interface {
	Dashboard(ctx context.Context, lang string) (*models.WardDashboard, error)
	UpdateStatus(ctx context.Context, reportID string, status string) (*models.Report, error)
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type wardService struct {
	reportRepo    db.ReportRepository
	localeService LocaleService
}

func NewWardService(reportRepo db.ReportRepository, localeService LocaleService) WardService {
	return &wardService{
		reportRepo:    reportRepo,
		localeService: localeService,
	}
}

// Aggregate counts reports in one pass. Active and pending overlap: an open
// report is both.
func Aggregate(reports []models.Report) models.WardStats {
	stats := models.WardStats{Total: len(reports)}
	for _, r := range reports {
		switch models.NormalizeStatus(r.Status) {
		case models.StatusResolved:
			stats.Resolved++
			continue
		case models.StatusOpen, models.StatusPending:
			stats.Pending++
		}
		stats.Active++
	}
	return stats
}

// Dashboard recomputes the ward counts from the full report collection
func (w *wardService) Dashboard(ctx context.Context, lang string) (*models.WardDashboard, error) {
	reports, err := w.reportRepo.GetAllReports(ctx)
	if err != nil {
		log.Printf("error loading ward reports: %v", err)
		return nil, apiError.Wrap(ErrLoadReports, err)
	}
	views := make([]models.ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, NewReportView(r, lang, w.localeService))
	}
	return &models.WardDashboard{
		Stats:   Aggregate(reports),
		Reports: views,
	}, nil
}

// UpdateStatus moves a report to a new status. Awarded points are untouched.
func (w *wardService) UpdateStatus(ctx context.Context, reportID string, status string) (*models.Report, error) {
	st, ok := models.ParseStatus(status)
	if !ok {
		return nil, apiError.New("status must be open, in_progress or resolved", http.StatusBadRequest)
	}
	if err := w.reportRepo.UpdateReportStatus(ctx, reportID, st); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		log.Printf("error updating report %s: %v", reportID, err)
		return nil, apiError.ErrInternalServerError
	}
	report, err := w.reportRepo.GetReportByID(ctx, reportID)
	if err != nil {
		log.Printf("error reloading report %s: %v", reportID, err)
		return nil, apiError.ErrInternalServerError
	}
	return report, nil
}

// Analytics summarises every report by status, issue type and priority.
// Like the dashboard it is recomputed per request.
func (w *wardService) Analytics(ctx context.Context) (*models.Analytics, error) {
	reports, err := w.reportRepo.GetAllReports(ctx)
	if err != nil {
		log.Printf("error loading reports for analytics: %v", err)
		return nil, apiError.Wrap(ErrLoadReports, err)
	}
	return Summarize(reports), nil
}

// Summarize builds the analytics view. Unknown issue types count as other and
// unknown priorities as Medium.
func Summarize(reports []models.Report) *models.Analytics {
	byType := make(map[models.IssueType]int, len(models.IssueTypes))
	byPriority := make(map[models.Priority]int, 3)
	points := 0
	for _, r := range reports {
		t, ok := models.ParseIssueType(string(r.Type))
		if !ok {
			t = models.IssueOther
		}
		byType[t]++

		p, ok := models.ParsePriority(string(r.Priority))
		if !ok {
			p = models.PriorityMedium
		}
		byPriority[p]++
		points += r.RewardPoints
	}

	a := &models.Analytics{
		Stats:         Aggregate(reports),
		PointsAwarded: points,
	}
	for _, t := range models.IssueTypes {
		a.ByType = append(a.ByType, models.IssueCount{Type: t, Count: byType[t]})
	}
	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		a.ByPriority = append(a.ByPriority, models.PriorityCount{Priority: p, Count: byPriority[p]})
	}
	if a.Stats.Total > 0 {
		a.ResolutionRate = math.Round(float64(a.Stats.Resolved)*1000/float64(a.Stats.Total)) / 10
	}
	return a
}
