package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/citypulse/config"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/services"
)

type fakeAuthService struct {
	sessions  map[string]*models.Session
	loggedOut []string
}

func (f *fakeAuthService) Signup(ctx context.Context, r *models.SignupRequest) (*models.Profile, error) {
	return &models.Profile{Email: r.Email, Role: models.RoleCitizen}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, r *models.LoginRequest) (*models.LoginResponse, error) {
	for token, s := range f.sessions {
		if s.Email == r.Email && r.Password == "secret1" {
			return &models.LoginResponse{Session: s, AccessToken: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
		}
	}
	return nil, services.ErrInvalidCredentials
}

func (f *fakeAuthService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, errs.ErrUnauthorized
}

func (f *fakeAuthService) UpdatePoints(ctx context.Context, sessionID string, balance int) error {
	return nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	delete(f.sessions, token)
	return nil
}

type fakeReportService struct {
	submitErr error
	request   *models.ReportRequest
	image     *models.ImageUpload
	reports   []models.ReportView
}

func (f *fakeReportService) SubmitReport(ctx context.Context, s *models.Session, r *models.ReportRequest, img *models.ImageUpload) (*models.SubmissionResult, error) {
	f.request = r
	f.image = img
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.SubmissionResult{
		Report:        &models.Report{ID: "r1", Type: models.IssuePothole, Status: models.StatusOpen, RewardPoints: 4},
		AwardedPoints: 4,
		Balance:       s.Points + 4,
	}, nil
}

func (f *fakeReportService) ListReports(ctx context.Context, lang string) ([]models.ReportView, error) {
	return f.reports, nil
}

func (f *fakeReportService) ListUserReports(ctx context.Context, userID, lang string) ([]models.ReportView, error) {
	return f.reports, nil
}

func (f *fakeReportService) GetProfile(ctx context.Context, s *models.Session, lang string) (*models.ProfileView, error) {
	return &models.ProfileView{Profile: &models.Profile{Email: s.Email}, Level: models.LevelContributor}, nil
}

type fakeWardService struct {
	updated map[string]string
}

func (f *fakeWardService) Dashboard(ctx context.Context, lang string) (*models.WardDashboard, error) {
	return &models.WardDashboard{Stats: models.WardStats{Total: 3, Active: 2, Resolved: 1, Pending: 1}}, nil
}

func (f *fakeWardService) Analytics(ctx context.Context) (*models.Analytics, error) {
	return &models.Analytics{
		Stats:          models.WardStats{Total: 4, Active: 3, Resolved: 1, Pending: 2},
		ByType:         []models.IssueCount{{Type: models.IssuePothole, Count: 3}, {Type: models.IssueGarbage, Count: 1}},
		ResolutionRate: 25,
	}, nil
}

func (f *fakeWardService) UpdateStatus(ctx context.Context, id, status string) (*models.Report, error) {
	f.updated[id] = status
	return &models.Report{ID: id, Status: models.ReportStatus(status)}, nil
}

type fakeRewardService struct{}

func (fakeRewardService) Award() (int, error) { return 1, nil }

func (fakeRewardService) Reconcile(ctx context.Context, userID string, amount int) error { return nil }

func (fakeRewardService) Summary(ctx context.Context, userID string) (*models.RewardSummary, error) {
	return &models.RewardSummary{Balance: 120, Tier: "Silver", NextTier: "Gold", PointsToNext: 130}, nil
}

func (fakeRewardService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return []models.LeaderboardEntry{{Rank: 1, UserID: "u9", Points: 300}}, nil
}

type testServer struct {
	router  *gin.Engine
	auth    *fakeAuthService
	reports *fakeReportService
	ward    *fakeWardService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("GIN_MODE", "test")

	locale, err := services.NewLocaleService("en")
	require.NoError(t, err)
	city, err := services.NewCityService()
	require.NoError(t, err)
	assistant, err := services.NewAssistantService()
	require.NoError(t, err)

	ts := &testServer{
		auth: &fakeAuthService{sessions: map[string]*models.Session{
			"citizen-token": {ID: "s1", UserID: "u1", Email: "asha@example.com", FullName: "asha", Role: models.RoleCitizen, Points: 10},
			"head-token":    {ID: "s2", UserID: "u2", Email: "head@example.com", FullName: "head", Role: models.RoleWardHead},
		}},
		reports: &fakeReportService{},
		ward:    &fakeWardService{updated: map[string]string{}},
	}
	s := &Server{
		Config: &config.Config{
			LoginPath:     "/login",
			TokenTTL:      time.Hour,
			MaxImageBytes: 1 << 20,
		},
		AuthService:   ts.auth,
		ReportService: ts.reports,
		RewardService: fakeRewardService{},
		WardService:   ts.ward,
		LocaleService: locale,
		CityService:   city,

		AssistantService: assistant,
	}
	ts.router = s.setupRouter()
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthorizeRejectsAPIWithoutSession(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeBody(t, w)["errors"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	w = ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizeRedirectsPagesToLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/app/report-issues", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fapp%2Freport-issues", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	w = ts.do(req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))
}

func TestAuthorizePassesThroughWithSession(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/app/report-issues", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "citizen-token"})
	w := ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "Report an Issue")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w = ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "u1", data["user_id"])
}

func TestLoginFormSetsCookieAndRedirects(t *testing.T) {
	ts := newTestServer(t)

	form := "email=asha%40example.com&password=secret1&next=%2Fapp%2Frewards"
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := ts.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/app/rewards", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), tokenCookieName+"=citizen-token")

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=asha%40example.com&password=nope12&next=https%3A%2F%2Fevil.test"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
	assert.Contains(t, w.Body.String(), `value="/app/report-issues"`)
}

func TestLoginAPI(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":" ASHA@example.com ","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "citizen-token", data["access_token"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = ts.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w := ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"citizen-token"}, ts.auth.loggedOut)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	assert.Equal(t, http.StatusUnauthorized, ts.do(req).Code)
}

func multipartReport(t *testing.T, fields map[string]string, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(reportImageField, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestSubmitReportHandler(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartReport(t, map[string]string{
		"type": "Pothole", "location": "MG Road", "description": "Deep hole",
	}, "hole.png", []byte("fake-png"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w := ts.do(req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 4, data["awarded_points"])
	assert.EqualValues(t, 14, data["balance"])
	require.NotNil(t, ts.reports.image)
	assert.Equal(t, "hole.png", ts.reports.image.Filename)
	assert.Equal(t, []byte("fake-png"), ts.reports.image.Data)
	assert.Equal(t, "MG Road", ts.reports.request.Location)
}

func TestSubmitReportHandlerWithoutImage(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartReport(t, map[string]string{
		"type": "garbage", "location": "Market", "description": "Overflowing",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w := ts.do(req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, ts.reports.image)
}

func TestSubmitReportHandlerMapsWorkflowErrors(t *testing.T) {
	cases := map[error]int{
		errs.Wrap(errs.ErrStoreUnreachable, assert.AnError): http.StatusServiceUnavailable,
		errs.Wrap(errs.ErrUploadFailed, assert.AnError):     http.StatusBadGateway,
		errs.Wrap(errs.ErrInsertRejected, assert.AnError):   http.StatusUnprocessableEntity,
	}
	for submitErr, status := range cases {
		ts := newTestServer(t)
		ts.reports.submitErr = submitErr

		body, contentType := multipartReport(t, map[string]string{"type": "other", "location": "x", "description": "y"}, "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer citizen-token")
		w := ts.do(req)

		assert.Equal(t, status, w.Code)
		errMsg := decodeBody(t, w)["errors"].(string)
		assert.NotContains(t, errMsg, assert.AnError.Error(), "causes stay out of the response")
	}
}

func TestWardDashboardRequiresWardHead(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ward/dashboard", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	assert.Equal(t, http.StatusForbidden, ts.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ward/dashboard", nil)
	req.Header.Set("Authorization", "Bearer head-token")
	w := ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["data"].(map[string]interface{})["stats"].(map[string]interface{})
	assert.EqualValues(t, 2, stats["active"])

	req = httptest.NewRequest(http.MethodPut, "/api/v1/ward/reports/r7/status", strings.NewReader(`{"status":"resolved"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer head-token")
	assert.Equal(t, http.StatusOK, ts.do(req).Code)
	assert.Equal(t, "resolved", ts.ward.updated["r7"])
}

func TestLocaleEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/locale?lang=kn", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "kn", data["lang"])

	req := httptest.NewRequest(http.MethodPut, "/api/v1/locale", strings.NewReader(`{"lang":"kn"}`))
	req.Header.Set("Content-Type", "application/json")
	w = ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), langCookieName+"=kn")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locale", nil)
	req.AddCookie(&http.Cookie{Name: langCookieName, Value: "kn"})
	data = decodeBody(t, ts.do(req))["data"].(map[string]interface{})
	assert.Equal(t, "kn", data["lang"])

	req = httptest.NewRequest(http.MethodPut, "/api/v1/locale", strings.NewReader(`{"lang":"fr"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, ts.do(req).Code)
}

func TestCityEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/geo/format?lat=12.971598&lon=77.594566", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "12.9716, 77.5946", data["location"])

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/geo/format?lat=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["message"], "manually")

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/city/bills", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 4)
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                   "/app/report-issues",
		"/app/rewards":       "/app/rewards",
		"/app/profile?tab=2": "/app/profile?tab=2",
		"https://evil.test":  "/app/report-issues",
		"//evil.test":        "/app/report-issues",
		"/\\evil.test":       "/app/report-issues",
		"/app\\..\\evil":     "/app/report-issues",
		"/\t/evil.test":      "/app/report-issues",
		"relative/path":      "/app/report-issues",
	}
	for next, want := range cases {
		assert.Equal(t, want, safeNext(next), "next=%q", next)
	}
}

func TestLoginFormIgnoresBackslashRedirect(t *testing.T) {
	ts := newTestServer(t)

	form := "email=asha%40example.com&password=secret1&next=%2F%5Cevil.test"
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := ts.do(req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/app/report-issues", w.Header().Get("Location"))
}

func TestAnalyticsForAnySignedInUser(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	req.Header.Set("Authorization", "Bearer citizen-token")
	w = ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 25, data["resolutionRate"])
	assert.Len(t, data["byType"], 2)
}

func TestAssistantEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/assistant", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeBody(t, w)["data"].(map[string]interface{})["reply"], "assistant")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant", strings.NewReader(`{"message":"  How do I pay my bill?  "}`))
	req.Header.Set("Content-Type", "application/json")
	w = ts.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "bills", data["topic"])

	req = httptest.NewRequest(http.MethodPost, "/api/v1/assistant", strings.NewReader(`{"message":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, ts.do(req).Code)
}
