package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/techagentng/citypulse/db"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"gorm.io/gorm"
)

// callLog records the order in which collaborators are invoked
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeReportRepo struct {
	log       *callLog
	pingErr   error
	createErr error
	listErr   error
	reports   []models.Report
}

func (f *fakeReportRepo) Ping(ctx context.Context) error {
	f.log.add("ping")
	return f.pingErr
}

func (f *fakeReportRepo) CreateReport(ctx context.Context, report *models.Report) (*models.Report, error) {
	f.log.add("insert")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if report.ID == "" {
		report.ID = fmt.Sprintf("r%d", len(f.reports)+1)
	}
	f.reports = append(f.reports, *report)
	return report, nil
}

func (f *fakeReportRepo) GetAllReports(ctx context.Context) ([]models.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := append([]models.Report(nil), f.reports...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp == nil || out[j].Timestamp == nil {
			return out[j].Timestamp == nil && out[i].Timestamp != nil
		}
		return out[i].Timestamp.After(*out[j].Timestamp)
	})
	return out, nil
}

func (f *fakeReportRepo) GetReportsByUserID(ctx context.Context, userID string) ([]models.Report, error) {
	all, err := f.GetAllReports(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Report
	for _, r := range all {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) CountReportsByUserID(ctx context.Context, userID string) (int64, error) {
	mine, err := f.GetReportsByUserID(ctx, userID)
	return int64(len(mine)), err
}

func (f *fakeReportRepo) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) error {
	for i := range f.reports {
		if f.reports[i].ID == id {
			f.reports[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAuthRepo struct {
	profiles map[string]*models.Profile
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{profiles: map[string]*models.Profile{}}
}

func (f *fakeAuthRepo) CreateProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	if p.ID == "" {
		p.ID = "user-" + p.Email
	}
	f.profiles[p.ID] = p
	return p, nil
}

func (f *fakeAuthRepo) IsEmailExist(ctx context.Context, email string) error {
	for _, p := range f.profiles {
		if p.Email == email {
			return db.ErrEmailExists
		}
	}
	return nil
}

func (f *fakeAuthRepo) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepo) FindProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRewardRepo struct {
	log          *callLog
	points       map[string]int
	incrementErr error
	getErr       error
	setErr       error
}

func (f *fakeRewardRepo) IncrementPoints(ctx context.Context, userID string, amount int) error {
	f.log.add("increment")
	if f.incrementErr != nil {
		return f.incrementErr
	}
	if _, ok := f.points[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.points[userID] += amount
	return nil
}

func (f *fakeRewardRepo) GetPoints(ctx context.Context, userID string) (int, error) {
	f.log.add("get_points")
	if f.getErr != nil {
		return 0, f.getErr
	}
	p, ok := f.points[userID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRewardRepo) SetPoints(ctx context.Context, userID string, points int) error {
	f.log.add("set_points")
	if f.setErr != nil {
		return f.setErr
	}
	f.points[userID] = points
	return nil
}

func (f *fakeRewardRepo) GetTopProfiles(ctx context.Context, limit int) ([]models.Profile, error) {
	var out []models.Profile
	for id, pts := range f.points {
		out = append(out, models.Profile{Model: models.Model{ID: id}, Email: id + "@example.com", Points: pts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSessionRepo struct {
	log      *callLog
	sessions map[string]*models.Session
	ttls     map[string]time.Duration
}

func newFakeSessionRepo(log *callLog) *fakeSessionRepo {
	return &fakeSessionRepo{log: log, sessions: map[string]*models.Session{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSessionRepo) SaveSession(ctx context.Context, s *models.Session, ttl time.Duration) error {
	cp := *s
	f.sessions[s.ID] = &cp
	f.ttls[s.ID] = ttl
	return nil
}

func (f *fakeSessionRepo) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, errs.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) UpdateSessionPoints(ctx context.Context, id string, points int) error {
	if f.log != nil {
		f.log.add("session_update")
	}
	s, ok := f.sessions[id]
	if !ok {
		return errs.ErrSessionNotFound
	}
	s.Points = points
	return nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeMediaRepo struct {
	log          *callLog
	uploadErr    error
	uploads      map[string][]byte
	contentTypes map[string]string
}

func (f *fakeMediaRepo) UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.log.add("upload")
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads[key] = data
	if f.contentTypes != nil {
		f.contentTypes[key] = contentType
	}
	return f.PublicURL(key), nil
}

func (f *fakeMediaRepo) PublicURL(key string) string {
	return "https://cdn.test/" + key
}
