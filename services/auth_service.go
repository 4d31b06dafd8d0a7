package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/techagentng/citypulse/config"
	"github.com/techagentng/citypulse/db"
	apiError "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/services/jwt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = apiError.New("invalid email or password", http.StatusUnauthorized)

// AuthService owns profiles and the sessions issued to them
type AuthService interface {
	Signup(ctx context.Context, request *models.SignupRequest) (*models.Profile, error)
	Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error)
	GetSession(ctx context.Context, token string) (*models.Session, error)
	UpdatePoints(ctx context.Context, sessionID string, balance int) error
	Logout(ctx context.Context, token string) error
}

type authService struct {
	Config      *config.Config
	authRepo    db.AuthRepository
	sessionRepo db.SessionRepository
	now         func() time.Time
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, sessionRepo db.SessionRepository, conf *config.Config) AuthService {
	return &authService{
		Config:      conf,
		authRepo:    authRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

func (a *authService) Signup(ctx context.Context, request *models.SignupRequest) (*models.Profile, error) {
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	role := models.RoleCitizen
	if request.Role != "" {
		role = models.Role(request.Role)
		if !role.Valid() {
			return nil, apiError.New("unknown role", http.StatusBadRequest)
		}
	}
	if role == models.RoleWardHead {
		if a.Config.WardHeadInviteCode == "" || request.InviteCode != a.Config.WardHeadInviteCode {
			return nil, apiError.New("a valid invite code is required for ward heads", http.StatusForbidden)
		}
	}

	if err := a.authRepo.IsEmailExist(ctx, request.Email); err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			return nil, apiError.Wrap(apiError.ErrConflict, err)
		}
		log.Printf("Signup error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	profile := &models.Profile{
		Email:    request.Email,
		Fullname: request.Fullname,
		Role:     role,
	}
	if profile.Fullname == "" {
		profile.Fullname = models.DisplayNameFromEmail(request.Email)
	}
	if err := profile.SetPassword(request.Password); err != nil {
		log.Printf("Signup error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	profile, err := a.authRepo.CreateProfile(ctx, profile)
	if err != nil {
		log.Printf("Signup error creating profile: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return profile, nil
}

// Login verifies the credentials and opens a new session
func (a *authService) Login(ctx context.Context, request *models.LoginRequest) (*models.LoginResponse, error) {
	profile, err := a.authRepo.FindProfileByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("Error finding profile by email: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if err := profile.VerifyPassword(request.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	session := models.NewSession(xid.New().String(), profile, now)
	if err := a.sessionRepo.SaveSession(ctx, session, a.Config.TokenTTL); err != nil {
		log.Printf("Error saving session for %s: %v", profile.ID, err)
		return nil, apiError.ErrInternalServerError
	}

	token, err := jwt.GenerateToken(profile.ID, session.ID, a.Config.JWTSecret, a.Config.TokenTTL)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		Session:     session,
		AccessToken: token,
		ExpiresAt:   now.Add(a.Config.TokenTTL),
	}, nil
}

// GetSession resolves a token to its live session. A valid token whose
// session has been deleted or has expired is rejected.
func (a *authService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, apiError.ErrUnauthorized
	}
	claims, err := jwt.ValidateAndGetClaims(token, a.Config.JWTSecret)
	if err != nil {
		return nil, apiError.Wrap(apiError.ErrUnauthorized, err)
	}
	userID, sessionID, err := jwt.SessionClaims(claims)
	if err != nil {
		return nil, apiError.Wrap(apiError.ErrUnauthorized, err)
	}

	session, err := a.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apiError.ErrSessionNotFound) {
			return nil, apiError.Wrap(apiError.ErrUnauthorized, err)
		}
		log.Printf("Error loading session %s: %v", sessionID, err)
		return nil, apiError.ErrInternalServerError
	}
	if session.UserID != userID {
		return nil, apiError.ErrUnauthorized
	}
	return session, nil
}

func (a *authService) UpdatePoints(ctx context.Context, sessionID string, balance int) error {
	if balance < 0 {
		balance = 0
	}
	return a.sessionRepo.UpdateSessionPoints(ctx, sessionID, balance)
}

func (a *authService) Logout(ctx context.Context, token string) error {
	claims, err := jwt.ValidateAndGetClaims(token, a.Config.JWTSecret)
	if err != nil {
		return apiError.Wrap(apiError.ErrUnauthorized, err)
	}
	_, sessionID, err := jwt.SessionClaims(claims)
	if err != nil {
		return apiError.Wrap(apiError.ErrUnauthorized, err)
	}
	if err := a.sessionRepo.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("Error deleting session %s: %v", sessionID, err)
		return apiError.ErrInternalServerError
	}
	return nil
}
