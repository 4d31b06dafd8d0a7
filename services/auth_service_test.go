package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/citypulse/config"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/services/jwt"
)

func newTestAuthService() (AuthService, *fakeAuthRepo, *fakeSessionRepo) {
	profiles := newFakeAuthRepo()
	sessions := newFakeSessionRepo(nil)
	conf := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, WardHeadInviteCode: "WARD-42"}
	return NewAuthService(profiles, sessions, conf), profiles, sessions
}

func TestSignup(t *testing.T) {
	svc, profiles, _ := newTestAuthService()
	ctx := context.Background()

	p, err := svc.Signup(ctx, &models.SignupRequest{Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "asha", p.Fullname)
	assert.Equal(t, models.RoleCitizen, p.Role)
	assert.NotEmpty(t, p.HashedPassword)
	assert.Len(t, profiles.profiles, 1)

	_, err = svc.Signup(ctx, &models.SignupRequest{Email: "asha@example.com", Password: "secret1"})
	assert.Equal(t, 409, errs.Status(err))

	_, err = svc.Signup(ctx, &models.SignupRequest{Email: "short@example.com", Password: "abc"})
	assert.Equal(t, 400, errs.Status(err))
}

func TestSignupWardHeadNeedsInviteCode(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "head@example.com", Password: "secret1", Role: "ward_head"})
	assert.Equal(t, 403, errs.Status(err))

	p, err := svc.Signup(ctx, &models.SignupRequest{Email: "head@example.com", Password: "secret1", Role: "ward_head", InviteCode: "WARD-42"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleWardHead, p.Role)
}

func TestLoginSessionLifecycle(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Email: "ravi@example.com", Password: "secret1", Fullname: "Ravi K"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ravi@example.com", Password: "wrong12"})
	assert.Equal(t, 401, errs.Status(err))
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, 401, errs.Status(err))

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "ravi@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", resp.Session.FullName)
	assert.Equal(t, time.Hour, sessions.ttls[resp.Session.ID])

	claims, err := jwt.ValidateAndGetClaims(resp.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.Session.ID, claims["sid"])

	s, err := svc.GetSession(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Session.UserID, s.UserID)

	require.NoError(t, svc.UpdatePoints(ctx, s.ID, 15))
	s, err = svc.GetSession(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 15, s.Points)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	_, err = svc.GetSession(ctx, resp.AccessToken)
	assert.Equal(t, 401, errs.Status(err))
}

func TestGetSessionRejectsBadTokens(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "")
	assert.Equal(t, 401, errs.Status(err))

	_, err = svc.GetSession(ctx, "not-a-token")
	assert.Equal(t, 401, errs.Status(err))

	forged, err := jwt.GenerateToken("u1", "s1", "other-secret", time.Hour)
	require.NoError(t, err)
	_, err = svc.GetSession(ctx, forged)
	assert.Equal(t, 401, errs.Status(err))

	orphan, err := jwt.GenerateToken("u1", "missing", "test-secret", time.Hour)
	require.NoError(t, err)
	_, err = svc.GetSession(ctx, orphan)
	assert.Equal(t, 401, errs.Status(err))
}
