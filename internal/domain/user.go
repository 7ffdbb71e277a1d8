package domain

import "time"

// Role governs which privileged actions a participant may take
type Role string

const (
	RolePlayer     Role = "player"
	RoleQuestGiver Role = "quest_giver"
	RoleGameMaster Role = "game_master"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleQuestGiver, RoleGameMaster:
		return true
	}
	return false
}

// CanAuthorQuests reports whether the role may create quests and review submissions
func (r Role) CanAuthorQuests() bool {
	return r == RoleQuestGiver || r == RoleGameMaster
}

// ParticipantProfile is a participant's persistent game state.
// Level is derived from XP and recomputed on every write.
type ParticipantProfile struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"display_name"`
	Email          string     `json:"email,omitempty"`
	Guild          string     `json:"guild"`
	Role           Role       `json:"role"`
	XP             int64      `json:"xp"`
	Gold           int64      `json:"gold"`
	Level          int        `json:"level"`
	ActivityStreak int        `json:"activity_streak"`
	LastActiveAt   *time.Time `json:"last_active_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProfileUpdate is the full set of reward-driven fields written in one statement
type ProfileUpdate struct {
	XP             int64
	Gold           int64
	Level          int
	ActivityStreak int
	LastActiveAt   time.Time
}

// Guild is a fixed cohort participants are ranked by
type Guild struct {
	Code    string `json:"code" yaml:"code"`
	Name    string `json:"name" yaml:"name"`
	College string `json:"college" yaml:"college"`
}

// ParticipantStats is the read model behind the stats endpoint
type ParticipantStats struct {
	ParticipantID        string  `json:"participant_id"`
	DisplayName          string  `json:"display_name"`
	Guild                string  `json:"guild"`
	XP                   int64   `json:"xp"`
	Gold                 int64   `json:"gold"`
	Level                int     `json:"level"`
	LevelProgress        float64 `json:"level_progress"`
	XPToNextLevel        int64   `json:"xp_to_next_level"`
	ActivityStreak       int     `json:"activity_streak"`
	QuestsCompleted      int     `json:"quests_completed"`
	AchievementsUnlocked int     `json:"achievements_unlocked"`
	GuildRank            int     `json:"guild_rank"`
}
