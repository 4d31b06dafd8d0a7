package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/techagentng/citypulse/config"
	"github.com/techagentng/citypulse/db"
	apiError "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
)

var ErrLoadReports = apiError.New("failed to load reports", http.StatusInternalServerError)

type ReportService interface {
	SubmitReport(ctx context.Context, session *models.Session, request *models.ReportRequest, image *models.ImageUpload) (*models.SubmissionResult, error)
	ListReports(ctx context.Context, lang string) ([]models.ReportView, error)
	ListUserReports(ctx context.Context, userID, lang string) ([]models.ReportView, error)
	GetProfile(ctx context.Context, session *models.Session, lang string) (*models.ProfileView, error)
}

type reportService struct {
	Config        *config.Config
	reportRepo    db.ReportRepository
	authRepo      db.AuthRepository
	mediaService  MediaService
	rewardService RewardService
	authService   AuthService
	localeService LocaleService
	now           func() time.Time
}

func NewReportService(reportRepo db.ReportRepository, authRepo db.AuthRepository, mediaService MediaService,
	rewardService RewardService, authService AuthService, localeService LocaleService, conf *config.Config) ReportService {
	return &reportService{
		Config:        conf,
		reportRepo:    reportRepo,
		authRepo:      authRepo,
		mediaService:  mediaService,
		rewardService: rewardService,
		authService:   authService,
		localeService: localeService,
		now:           time.Now,
	}
}

// SubmitReport runs the submission workflow: probe the store, upload the
// optional image, draw the award, insert the report, reconcile the profile
// balance and mirror the new balance into the session. Only the first three
// failures are returned; reconciliation and session errors are logged.
func (s *reportService) SubmitReport(ctx context.Context, session *models.Session, request *models.ReportRequest, image *models.ImageUpload) (*models.SubmissionResult, error) {
	if session == nil {
		return nil, apiError.ErrUnauthorized
	}
	if err := models.ValidateStruct(request); err != nil {
		return nil, err
	}
	issueType, ok := models.ParseIssueType(request.Type)
	if !ok {
		return nil, apiError.New("unknown issue type", http.StatusBadRequest)
	}
	priority, ok := models.ParsePriority(request.Priority)
	if !ok {
		return nil, apiError.New("priority must be Low, Medium or High", http.StatusBadRequest)
	}
	if err := s.mediaService.ValidateImage(image); err != nil {
		return nil, err
	}

	if err := s.reportRepo.Ping(ctx); err != nil {
		log.Printf("report store unreachable: %v", err)
		return nil, apiError.Wrap(apiError.ErrStoreUnreachable, err)
	}

	var imageURL string
	if image != nil {
		url, err := s.mediaService.UploadReportImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	award, err := s.rewardService.Award()
	if err != nil {
		log.Printf("error drawing award: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	userID := session.UserID
	now := s.now().UTC()
	report := &models.Report{
		UserID:       &userID,
		Type:         issueType,
		Location:     request.Location,
		Description:  request.Description,
		ImageURL:     imageURL,
		Status:       models.StatusOpen,
		Priority:     priority,
		RewardPoints: award,
		Timestamp:    &now,
	}
	report, err = s.reportRepo.CreateReport(ctx, report)
	if err != nil {
		log.Printf("report insert rejected: %v", err)
		return nil, apiError.Wrap(apiError.ErrInsertRejected, err)
	}

	if err := s.rewardService.Reconcile(ctx, userID, award); err != nil {
		log.Printf("could not reconcile %d points for %s: %v", award, userID, err)
	}

	balance := session.Points + award
	if err := s.authService.UpdatePoints(ctx, session.ID, balance); err != nil {
		log.Printf("could not update session %s balance: %v", session.ID, err)
	}
	session.Points = balance

	return &models.SubmissionResult{
		Report:        report,
		AwardedPoints: award,
		Balance:       balance,
	}, nil
}

func (s *reportService) ListReports(ctx context.Context, lang string) ([]models.ReportView, error) {
	reports, err := s.reportRepo.GetAllReports(ctx)
	if err != nil {
		log.Printf("error listing reports: %v", err)
		return nil, apiError.Wrap(ErrLoadReports, err)
	}
	return s.views(reports, lang), nil
}

func (s *reportService) ListUserReports(ctx context.Context, userID, lang string) ([]models.ReportView, error) {
	reports, err := s.reportRepo.GetReportsByUserID(ctx, userID)
	if err != nil {
		log.Printf("error listing reports for %s: %v", userID, err)
		return nil, apiError.Wrap(ErrLoadReports, err)
	}
	return s.views(reports, lang), nil
}

func (s *reportService) GetProfile(ctx context.Context, session *models.Session, lang string) (*models.ProfileView, error) {
	profile, err := s.authRepo.FindProfileByID(ctx, session.UserID)
	if err != nil {
		log.Printf("error loading profile %s: %v", session.UserID, err)
		return nil, apiError.ErrNotFound
	}
	reports, err := s.ListUserReports(ctx, session.UserID, lang)
	if err != nil {
		return nil, err
	}
	return &models.ProfileView{
		Profile: profile,
		Level:   models.LevelFor(len(reports)),
		Reports: reports,
	}, nil
}

func (s *reportService) views(reports []models.Report, lang string) []models.ReportView {
	views := make([]models.ReportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, NewReportView(r, lang, s.localeService))
	}
	return views
}

// NewReportView shapes a stored report for display in lang
func NewReportView(r models.Report, lang string, locale LocaleService) models.ReportView {
	return models.ReportView{
		Report:      r,
		Date:        locale.FormatDate(lang, r.Timestamp),
		Image:       r.ImageURL,
		StatusStyle: models.StatusStyle(r.Status),
	}
}
