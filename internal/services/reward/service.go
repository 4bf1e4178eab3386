package reward

import (
	"math"

	"github.com/kinetikids/motionhub/internal/model"
)

// Service computes XP/coin gains, the level-up cascade and rank
// classification from a session score. All methods are pure; the caller
// applies the returned deltas to the profile.
type Service struct{}

// New creates a new RewardService
func New() *Service {
	return &Service{}
}

// Compute returns the XP and coin gain for one completed session.
// Wins always pay at least 100 XP, losses at least 20.
func (s *Service) Compute(score int, win bool, bonusCoins int) model.RewardResult {
	var result model.RewardResult
	if win {
		result.XPGained = max(100, int(math.Floor(float64(score)*2.0)))
		result.CoinsGained = max(10, int(math.Floor(float64(score)*0.2)))
	} else {
		result.XPGained = max(20, int(math.Floor(float64(score)*0.5)))
	}
	result.CoinsGained += bonusCoins
	return result
}

// Apply adds the reward to a profile and runs the leveling cascade:
// while the accumulated XP reaches the current threshold, the threshold is
// subtracted and the level incremented. The threshold grows with each new
// level, so the loop terminates for any finite XP. Returns the result with
// LeveledUp set.
func (s *Service) Apply(profile *model.Profile, result model.RewardResult) model.RewardResult {
	profile.XP += result.XPGained
	profile.Coins += result.CoinsGained

	for profile.XP >= model.XPThreshold(profile.Level) {
		profile.XP -= model.XPThreshold(profile.Level)
		profile.Level++
		result.LeveledUp = true
	}

	return result
}

// Rank classifies a session outcome. Losses rank D regardless of score;
// win thresholds are strict, so ties round down to the lower rank.
func (s *Service) Rank(score int, win bool) model.RankResult {
	if !win {
		return model.RankResult{Rank: model.RankD, Message: "FAILED"}
	}
	switch {
	case score > 3000:
		return model.RankResult{Rank: model.RankS, Message: "LEGENDARY"}
	case score > 1500:
		return model.RankResult{Rank: model.RankA, Message: "EXCELLENT"}
	case score > 800:
		return model.RankResult{Rank: model.RankB, Message: "VERY GOOD"}
	default:
		return model.RankResult{Rank: model.RankC, Message: "SUCCESS"}
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Compute(score int, win bool, bonusCoins int) model.RewardResult
	Apply(profile *model.Profile, result model.RewardResult) model.RewardResult
	Rank(score int, win bool) model.RankResult
}

var _ ServiceInterface = (*Service)(nil)
