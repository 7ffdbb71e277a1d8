package domain

import "time"

// NotificationType groups notifications for display
type NotificationType string

const (
	NotificationQuest       NotificationType = "quest"
	NotificationAchievement NotificationType = "achievement"
	NotificationGuild       NotificationType = "guild"
	NotificationSystem      NotificationType = "system"
)

// Notification is handed to the delivery collaborator and shown in the inbox
type Notification struct {
	ID            string           `json:"id"`
	ParticipantID string           `json:"participant_id"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Type          NotificationType `json:"type"`
	IsRead        bool             `json:"is_read"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NotificationInbox is a page of notifications plus the unread total
type NotificationInbox struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// Activity action types
const (
	ActionQuestAccepted     = "quest_accepted"
	ActionQuestCompleted    = "quest_completed"
	ActionQuestSubmitted    = "quest_submitted"
	ActionQuestReviewed     = "quest_reviewed"
	ActionAchievementEarned = "achievement_unlocked"
	ActionShopPurchase      = "shop_purchase"
)

// ActivityLog is an append-only audit entry
type ActivityLog struct {
	ID            string         `json:"id"`
	ParticipantID string         `json:"participant_id"`
	ActionType    string         `json:"action_type"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
