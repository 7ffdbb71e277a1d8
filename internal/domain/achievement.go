package domain

import "time"

// CriterionKind selects the stat an achievement threshold is compared against
type CriterionKind string

const (
	CriterionQuestsCompleted     CriterionKind = "quests_completed"
	CriterionStreak              CriterionKind = "streak"
	CriterionGold                CriterionKind = "gold"
	CriterionLevel               CriterionKind = "level"
	CriterionCompletedBeforeHour CriterionKind = "completed_before_hour"
)

// Achievement is a catalog entry
type Achievement struct {
	Key         string        `json:"key" yaml:"key"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Icon        string        `json:"icon,omitempty" yaml:"icon"`
	BonusXP     int64         `json:"bonus_xp" yaml:"bonus_xp"`
	Criterion   CriterionKind `json:"criterion" yaml:"criterion"`
	Threshold   int64         `json:"threshold" yaml:"threshold"`
}

// AchievementUnlock records that a participant earned an achievement
type AchievementUnlock struct {
	ParticipantID  string    `json:"participant_id"`
	AchievementKey string    `json:"achievement_key"`
	UnlockedAt     time.Time `json:"unlocked_at"`
}

// AchievementStatus is a catalog entry annotated for one participant
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
