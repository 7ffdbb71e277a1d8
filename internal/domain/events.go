package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking. These represent domain events that can be published
// and consumed by multiple modules.
//
// Event types follow the pattern: <entity>.<action> (e.g., "quest.completed")
const (
	// EventTypeQuestAccepted is published after an attempt is created
	EventTypeQuestAccepted = "quest.accepted"

	// EventTypeQuestCompleted is published after a completion transaction commits
	EventTypeQuestCompleted = "quest.completed"

	// EventTypeQuestSubmitted is published when a manual submission awaits review
	EventTypeQuestSubmitted = "quest.submitted"

	// EventTypeQuestRejected is published when a reviewer rejects a submission
	EventTypeQuestRejected = "quest.rejected"

	// EventTypeAchievementUnlocked is published once per newly unlocked achievement
	EventTypeAchievementUnlocked = "achievement.unlocked"

	// EventTypeShopPurchase is published after a successful purchase
	EventTypeShopPurchase = "shop.purchase"

	// EventTypeLeaderboardUpdated is published when cached rankings are invalidated
	EventTypeLeaderboardUpdated = "leaderboard.updated"
)

// QuestCompletedPayload is the payload of EventTypeQuestCompleted
type QuestCompletedPayload struct {
	ParticipantID string `json:"participant_id"`
	QuestID       string `json:"quest_id"`
	AttemptID     string `json:"attempt_id"`
	Guild         string `json:"guild"`
	XPAwarded     int64  `json:"xp_awarded"`
	GoldAwarded   int64  `json:"gold_awarded"`
	BonusXP       int64  `json:"bonus_xp"`
	NewLevel      int    `json:"new_level"`
	LeveledUp     bool   `json:"leveled_up"`
}

// QuestAttemptPayload is the payload of accept, submit and reject events
type QuestAttemptPayload struct {
	ParticipantID string `json:"participant_id"`
	QuestID       string `json:"quest_id"`
	AttemptID     string `json:"attempt_id"`
	ReviewerID    string `json:"reviewer_id,omitempty"`
}

// AchievementUnlockedPayload is the payload of EventTypeAchievementUnlocked
type AchievementUnlockedPayload struct {
	ParticipantID  string `json:"participant_id"`
	AchievementKey string `json:"achievement_key"`
	Name           string `json:"name"`
	BonusXP        int64  `json:"bonus_xp"`
}

// ShopPurchasePayload is the payload of EventTypeShopPurchase
type ShopPurchasePayload struct {
	ParticipantID string `json:"participant_id"`
	ItemID        string `json:"item_id"`
	Price         int64  `json:"price"`
}

// LeaderboardUpdatedPayload is the payload of EventTypeLeaderboardUpdated
type LeaderboardUpdatedPayload struct {
	Guild string   `json:"guild"`
	Keys  []string `json:"keys"`
}
