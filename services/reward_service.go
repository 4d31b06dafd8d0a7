package services

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"

	"github.com/techagentng/citypulse/config"
	"github.com/techagentng/citypulse/db"
	apiError "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"gorm.io/gorm"
)

const (
	MinAward = 1
	MaxAward = 10
)

// AwardFunc returns the points granted for one accepted report
type AwardFunc func() (int, error)

// RandomAward draws uniformly from [MinAward, MaxAward]
func RandomAward() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxAward-MinAward+1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + MinAward, nil
}

type RewardService interface {
	Award() (int, error)
	Reconcile(ctx context.Context, userID string, amount int) error
	Summary(ctx context.Context, userID string) (*models.RewardSummary, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type rewardService struct {
	Config     *config.Config
	rewardRepo db.RewardRepository
	reportRepo db.ReportRepository
	award      AwardFunc
}

func NewRewardService(rewardRepo db.RewardRepository, reportRepo db.ReportRepository, conf *config.Config) RewardService {
	return &rewardService{
		Config:     conf,
		rewardRepo: rewardRepo,
		reportRepo: reportRepo,
		award:      RandomAward,
	}
}

func (s *rewardService) Award() (int, error) {
	return s.award()
}

// Reconcile adds amount to the stored balance with an atomic increment.
// When that fails and the fallback is enabled the balance is read and
// rewritten instead, which can lose concurrent updates.
func (s *rewardService) Reconcile(ctx context.Context, userID string, amount int) error {
	err := s.rewardRepo.IncrementPoints(ctx, userID, amount)
	if err == nil {
		return nil
	}
	if !s.Config.RewardFallback {
		return err
	}
	log.Printf("atomic increment for %s failed, falling back to update: %v", userID, err)

	current, getErr := s.rewardRepo.GetPoints(ctx, userID)
	if getErr != nil {
		return getErr
	}
	return s.rewardRepo.SetPoints(ctx, userID, current+amount)
}

func (s *rewardService) Summary(ctx context.Context, userID string) (*models.RewardSummary, error) {
	balance, err := s.rewardRepo.GetPoints(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		log.Printf("error reading points for %s: %v", userID, err)
		return nil, apiError.ErrInternalServerError
	}
	count, err := s.reportRepo.CountReportsByUserID(ctx, userID)
	if err != nil {
		log.Printf("error counting reports for %s: %v", userID, err)
		return nil, apiError.ErrInternalServerError
	}

	tier, next := models.TierFor(balance)
	summary := &models.RewardSummary{
		Balance:      balance,
		Tier:         tier.Name,
		ReportsFiled: int(count),
		Level:        models.LevelFor(int(count)),
	}
	if next != nil {
		summary.NextTier = next.Name
		summary.PointsToNext = next.MinPoints - balance
	}
	return summary, nil
}

func (s *rewardService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.Config.LeaderboardSize
	}
	profiles, err := s.rewardRepo.GetTopProfiles(ctx, limit)
	if err != nil {
		log.Printf("error loading leaderboard: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		name := p.Fullname
		if name == "" {
			name = models.DisplayNameFromEmail(p.Email)
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   p.ID,
			FullName: name,
			Points:   p.Points,
		})
	}
	return entries, nil
}
