package models

// WardStats are derived on every dashboard load and never stored.
// Active and Pending overlap: an open report counts in both.
type WardStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
	Pending  int `json:"pending"`
}

type WardDashboard struct {
	Stats   WardStats    `json:"stats"`
	Reports []ReportView `json:"reports"`
}

type IssueCount struct {
	Type  IssueType `json:"type"`
	Count int       `json:"count"`
}

type PriorityCount struct {
	Priority Priority `json:"priority"`
	Count    int      `json:"count"`
}

// Analytics is the city-wide summary shown to every signed-in user
type Analytics struct {
	Stats          WardStats       `json:"stats"`
	ByType         []IssueCount    `json:"byType"`
	ByPriority     []PriorityCount `json:"byPriority"`
	ResolutionRate float64         `json:"resolutionRate"`
	PointsAwarded  int             `json:"pointsAwarded"`
}
