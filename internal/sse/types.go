package sse

// QuestCompletedPayload is the public view of a completion
type QuestCompletedPayload struct {
	ParticipantID string `json:"participant_id"`
	QuestID       string `json:"quest_id"`
	Guild         string `json:"guild"`
	XPAwarded     int64  `json:"xp_awarded"`
	NewLevel      int    `json:"new_level"`
	LeveledUp     bool   `json:"leveled_up"`
}

// AchievementUnlockedPayload announces an unlock
type AchievementUnlockedPayload struct {
	ParticipantID  string `json:"participant_id"`
	AchievementKey string `json:"achievement_key"`
	Name           string `json:"name"`
}

// LeaderboardUpdatedPayload tells clients which rankings to refetch
type LeaderboardUpdatedPayload struct {
	Guild string `json:"guild,omitempty"`
}
