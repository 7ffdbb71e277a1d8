package achievement

import (
	"time"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/progression"
)

// Snapshot is the participant state achievements are judged against
type Snapshot struct {
	QuestsCompleted int
	Streak          int
	Gold            int64
	Level           int
	CompletionTimes []time.Time
}

// RuleSet evaluates catalog achievements. It is immutable after construction.
type RuleSet struct {
	achievements []domain.Achievement
	loc          *time.Location
}

// NewRuleSet builds a rule set over the catalog entries. Time-of-day criteria
// are judged in loc; a nil loc means UTC.
func NewRuleSet(achievements []domain.Achievement, loc *time.Location) *RuleSet {
	if loc == nil {
		loc = time.UTC
	}
	entries := make([]domain.Achievement, len(achievements))
	copy(entries, achievements)
	return &RuleSet{achievements: entries, loc: loc}
}

// Achievements returns the catalog entries in catalog order
func (r *RuleSet) Achievements() []domain.Achievement {
	out := make([]domain.Achievement, len(r.achievements))
	copy(out, r.achievements)
	return out
}

// Evaluate returns the achievements that qualify for s and are not in unlocked.
// It does not modify unlocked.
func (r *RuleSet) Evaluate(s Snapshot, unlocked map[string]struct{}) []domain.Achievement {
	var earned []domain.Achievement
	for _, a := range r.achievements {
		if _, done := unlocked[a.Key]; done {
			continue
		}
		if r.qualifies(a, s) {
			earned = append(earned, a)
		}
	}
	return earned
}

func (r *RuleSet) qualifies(a domain.Achievement, s Snapshot) bool {
	switch a.Criterion {
	case domain.CriterionQuestsCompleted:
		return int64(s.QuestsCompleted) >= a.Threshold
	case domain.CriterionStreak:
		return int64(s.Streak) >= a.Threshold
	case domain.CriterionGold:
		return s.Gold >= a.Threshold
	case domain.CriterionLevel:
		return int64(s.Level) >= a.Threshold
	case domain.CriterionCompletedBeforeHour:
		for _, t := range s.CompletionTimes {
			if int64(t.In(r.loc).Hour()) < a.Threshold {
				return true
			}
		}
	}
	return false
}

// Settle applies achievement bonuses on top of res until no further entry
// qualifies. unlocked is updated in place with every newly earned key.
func (r *RuleSet) Settle(res progression.Result, s Snapshot, unlocked map[string]struct{}) (progression.Result, []domain.Achievement) {
	var earned []domain.Achievement
	for round := 0; round < maxSettleRounds; round++ {
		s.Streak = res.NewStreak
		s.Gold = res.NewGold
		s.Level = res.NewLevel

		batch := r.Evaluate(s, unlocked)
		if len(batch) == 0 {
			break
		}
		for _, a := range batch {
			unlocked[a.Key] = struct{}{}
			res = progression.ApplyBonus(res, a.BonusXP)
			earned = append(earned, a)
		}
	}
	return res, earned
}

// TotalBonus sums the XP bonus of earned achievements
func TotalBonus(earned []domain.Achievement) int64 {
	var total int64
	for _, a := range earned {
		total += a.BonusXP
	}
	return total
}
