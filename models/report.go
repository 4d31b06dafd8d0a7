package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IssueType string

const (
	IssuePothole      IssueType = "pothole"
	IssueStreetLight  IssueType = "street_light"
	IssueGarbage      IssueType = "garbage"
	IssueWaterLeakage IssueType = "water_leakage"
	IssueOther        IssueType = "other"
)

// IssueTypes lists every issue type in display order
var IssueTypes = []IssueType{IssuePothole, IssueStreetLight, IssueGarbage, IssueWaterLeakage, IssueOther}

var issueTypes = map[IssueType]bool{
	IssuePothole:      true,
	IssueStreetLight:  true,
	IssueGarbage:      true,
	IssueWaterLeakage: true,
	IssueOther:        true,
}

// ParseIssueType accepts display names such as "Street Light" as well as the
// stored form "street_light".
func ParseIssueType(s string) (IssueType, bool) {
	t := IssueType(normalizeKey(s))
	return t, issueTypes[t]
}

type ReportStatus string

const (
	StatusOpen       ReportStatus = "open"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
	// StatusPending appears on rows written by older clients
	StatusPending ReportStatus = "pending"
)

// NormalizeStatus folds case and separators so "In Progress" and
// "in_progress" compare equal.
func NormalizeStatus(s ReportStatus) ReportStatus {
	return ReportStatus(normalizeKey(string(s)))
}

// ParseStatus returns the status a ward head may set
func ParseStatus(s string) (ReportStatus, bool) {
	st := NormalizeStatus(ReportStatus(s))
	switch st {
	case StatusOpen, StatusInProgress, StatusResolved:
		return st, true
	}
	return st, false
}

// StatusStyle buckets a status for display: resolved, in_progress, or
// pending for anything else.
func StatusStyle(s ReportStatus) string {
	switch NormalizeStatus(s) {
	case StatusResolved:
		return "resolved"
	case StatusInProgress:
		return "in_progress"
	default:
		return "pending"
	}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

// Report is a citizen-submitted civic issue. RewardPoints is fixed when the
// report is inserted and never updated.
type Report struct {
	ID           string       `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID       *string      `json:"user_id" gorm:"type:varchar(36);index"`
	Type         IssueType    `json:"type" gorm:"type:varchar(32);not null"`
	Location     string       `json:"location" gorm:"not null"`
	Description  string       `json:"description" gorm:"type:varchar(1000);not null"`
	ImageURL     string       `json:"image_url"`
	Status       ReportStatus `json:"status" gorm:"type:varchar(20);not null;default:open"`
	Priority     Priority     `json:"priority" gorm:"type:varchar(10);default:Medium"`
	RewardPoints int          `json:"reward_points" gorm:"not null;default:0"`
	Timestamp    *time.Time   `json:"timestamp" gorm:"index"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReportRequest is the multipart form posted by the report-issues page
type ReportRequest struct {
	Type        string `form:"type" conform:"trim" validate:"required"`
	Location    string `form:"location" conform:"trim" validate:"required"`
	Description string `form:"description" conform:"trim" validate:"required,max=1000"`
	Priority    string `form:"priority" conform:"trim"`
}

// ImageUpload is the optional photo attached to a report
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportView is a report shaped for the listing and ward views
type ReportView struct {
	Report
	Date        string `json:"date"`
	Image       string `json:"imageUrl"`
	StatusStyle string `json:"statusStyle"`
}

// SubmissionResult is returned after a report is accepted
type SubmissionResult struct {
	Report        *Report `json:"report"`
	AwardedPoints int     `json:"awarded_points"`
	Balance       int     `json:"balance"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" conform:"trim" validate:"required"`
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
