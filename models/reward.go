package models

// Tier of the rewards program, derived from the point balance
type Tier struct {
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

var Tiers = []Tier{
	{Name: "Bronze", MinPoints: 0},
	{Name: "Silver", MinPoints: 100},
	{Name: "Gold", MinPoints: 250},
	{Name: "Platinum", MinPoints: 500},
}

// TierFor returns the tier for balance and the next one, nil at the top
func TierFor(balance int) (Tier, *Tier) {
	current := Tiers[0]
	for i, t := range Tiers {
		if balance < t.MinPoints {
			next := Tiers[i]
			return current, &next
		}
		current = t
	}
	return current, nil
}

const (
	LevelContributor   = "Contributor"
	LevelCommunityHero = "Community Hero"
)

// LevelFor gives the profile badge: more than five reports makes a hero
func LevelFor(reportCount int) string {
	if reportCount > 5 {
		return LevelCommunityHero
	}
	return LevelContributor
}

type RewardSummary struct {
	Balance      int    `json:"balance"`
	Tier         string `json:"tier"`
	NextTier     string `json:"next_tier,omitempty"`
	PointsToNext int    `json:"points_to_next"`
	ReportsFiled int    `json:"reports_filed"`
	Level        string `json:"level"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Points   int    `json:"points"`
}
