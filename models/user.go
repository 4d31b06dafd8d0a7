package models

import (
	"errors"
	"strings"
	"time"

	goval "github.com/go-passwd/validator"
	"golang.org/x/crypto/bcrypt"
)

// Profile is the persisted identity behind a session. Points is the single
// source of truth for a citizen's reward balance.
type Profile struct {
	Model
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Fullname       string `json:"full_name"`
	Role           Role   `json:"role" gorm:"type:varchar(20);not null;default:citizen"`
	Points         int    `json:"points" gorm:"not null;default:0"`
	HashedPassword string `json:"-"`
}

type SignupRequest struct {
	Email      string `json:"email" form:"email" conform:"trim,lower" validate:"required,email"`
	Password   string `json:"password" form:"password" validate:"required"`
	Fullname   string `json:"full_name" form:"full_name" conform:"trim"`
	Role       string `json:"role" form:"role" conform:"trim,lower" validate:"omitempty,oneof=citizen ward_head"`
	InviteCode string `json:"invite_code" form:"invite_code" conform:"trim"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" conform:"trim,lower" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResponse struct {
	Session     *Session  `json:"session"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ProfileView is what the profile page shows about the signed-in user
type ProfileView struct {
	Profile *Profile     `json:"profile"`
	Level   string       `json:"level"`
	Reports []ReportView `json:"reports"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(15, errors.New("password cant be more than 15 characters")))
	return passwordValidator.Validate(password)
}

func (p *Profile) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.HashedPassword = string(hashed)
	return nil
}

// VerifyPassword verifies the collected password with the profile's hashed password
func (p *Profile) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.HashedPassword), []byte(password))
}

// DisplayNameFromEmail returns the local part of an email address
func DisplayNameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}
