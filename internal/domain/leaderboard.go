package domain

// LeaderboardEntry is one participant's position in the global XP ranking
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
	Guild         string `json:"guild"`
	XP            int64  `json:"xp"`
	Level         int    `json:"level"`
}

// GuildStanding is a guild's aggregate in the guild ranking
type GuildStanding struct {
	Rank         int     `json:"rank"`
	Guild        string  `json:"guild"`
	Name         string  `json:"name,omitempty"`
	TotalXP      int64   `json:"total_xp"`
	TotalMembers int     `json:"total_members"`
	AverageLevel float64 `json:"average_level"`
}

// GuildStats is one guild's standing plus its strongest members
type GuildStats struct {
	GuildStanding
	TopMembers []LeaderboardEntry `json:"top_members"`
}
