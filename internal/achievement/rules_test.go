package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/progression"
)

var testCatalog = []domain.Achievement{
	{Key: "first_steps", Name: "First Steps", BonusXP: 50, Criterion: domain.CriterionQuestsCompleted, Threshold: 1},
	{Key: "dedicated", Name: "Dedicated", BonusXP: 100, Criterion: domain.CriterionStreak, Threshold: 7},
	{Key: "gold_collector", Name: "Gold Collector", BonusXP: 100, Criterion: domain.CriterionGold, Threshold: 1000},
	{Key: "rising_star", Name: "Rising Star", BonusXP: 200, Criterion: domain.CriterionLevel, Threshold: 10},
	{Key: "early_bird", Name: "Early Bird", BonusXP: 75, Criterion: domain.CriterionCompletedBeforeHour, Threshold: 8},
}

func keys(as []domain.Achievement) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.Key)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	rules := NewRuleSet(testCatalog, nil)
	morning := time.Date(2026, 1, 5, 7, 59, 0, 0, time.UTC)
	eight := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		snap     Snapshot
		unlocked map[string]struct{}
		want     []string
	}{
		{"nothing yet", Snapshot{Level: 1}, nil, []string{}},
		{"first quest", Snapshot{QuestsCompleted: 1, Level: 1}, nil, []string{"first_steps"}},
		{"already unlocked is skipped", Snapshot{QuestsCompleted: 3}, map[string]struct{}{"first_steps": {}}, []string{}},
		{"streak boundary", Snapshot{Streak: 7}, nil, []string{"dedicated"}},
		{"gold boundary", Snapshot{Gold: 1000}, nil, []string{"gold_collector"}},
		{"level boundary", Snapshot{Level: 10}, nil, []string{"rising_star"}},
		{"before eight", Snapshot{CompletionTimes: []time.Time{eight, morning}}, nil, []string{"early_bird"}},
		{"eight is not early", Snapshot{CompletionTimes: []time.Time{eight}}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(rules.Evaluate(tt.snap, tt.unlocked)))
		})
	}
}

func TestEvaluate_DoesNotMutateUnlocked(t *testing.T) {
	rules := NewRuleSet(testCatalog, nil)
	unlocked := map[string]struct{}{}

	_ = rules.Evaluate(Snapshot{QuestsCompleted: 5}, unlocked)

	assert.Empty(t, unlocked)
}

func TestEvaluate_EarlyBirdJudgedInCampusZone(t *testing.T) {
	campus := time.FixedZone("PHT", 8*3600)
	rules := NewRuleSet(testCatalog, campus)

	// 01:00 UTC is 09:00 on campus; 22:00 UTC is 06:00 on campus
	late := Snapshot{CompletionTimes: []time.Time{time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC)}}
	early := Snapshot{CompletionTimes: []time.Time{time.Date(2026, 1, 5, 22, 0, 0, 0, time.UTC)}}

	assert.Empty(t, rules.Evaluate(late, nil))
	assert.Equal(t, []string{"early_bird"}, keys(rules.Evaluate(early, nil)))
}

func TestSettle_RunsToFixpoint(t *testing.T) {
	// ARRANGE
	rules := NewRuleSet(testCatalog, nil)
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	base := progression.Apply(progression.Snapshot{XP: 8850}, progression.Reward{XP: 100, Gold: 10}, now)
	unlocked := map[string]struct{}{}

	// ACT
	res, earned := rules.Settle(base, Snapshot{QuestsCompleted: 1}, unlocked)

	// ASSERT
	assert.Equal(t, []string{"first_steps", "rising_star"}, keys(earned))
	assert.Equal(t, int64(9200), res.NewXP)
	assert.Equal(t, 10, res.NewLevel)
	assert.Contains(t, unlocked, "rising_star")
	assert.Equal(t, int64(250), TotalBonus(earned))

	// Settling again grants nothing
	again, none := rules.Settle(res, Snapshot{QuestsCompleted: 1}, unlocked)
	assert.Empty(t, none)
	assert.Equal(t, res, again)
}

func TestNewRuleSet_CopiesCatalog(t *testing.T) {
	entries := []domain.Achievement{{Key: "a", Criterion: domain.CriterionGold, Threshold: 1}}
	rules := NewRuleSet(entries, nil)
	entries[0].Key = "changed"

	got := rules.Achievements()
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Key)
}
