package models

import "time"

// Session is the server-held state of a signed-in user, persisted in the
// session store and looked up on every guarded request.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSession(id string, p *Profile, now time.Time) *Session {
	name := p.Fullname
	if name == "" {
		name = DisplayNameFromEmail(p.Email)
	}
	return &Session{
		ID:        id,
		UserID:    p.ID,
		Email:     p.Email,
		FullName:  name,
		Role:      p.Role,
		Points:    p.Points,
		CreatedAt: now,
	}
}
