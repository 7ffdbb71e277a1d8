package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Difficulty is the ordered quest tier. Each tier carries a reward multiplier.
type Difficulty string

const (
	DifficultyCommon    Difficulty = "common"
	DifficultyUncommon  Difficulty = "uncommon"
	DifficultyRare      Difficulty = "rare"
	DifficultyEpic      Difficulty = "epic"
	DifficultyLegendary Difficulty = "legendary"
)

// Difficulties lists every tier from lowest to highest
var Difficulties = []Difficulty{
	DifficultyCommon,
	DifficultyUncommon,
	DifficultyRare,
	DifficultyEpic,
	DifficultyLegendary,
}

var difficultyMultipliers = map[Difficulty]float64{
	DifficultyCommon:    1.0,
	DifficultyUncommon:  1.5,
	DifficultyRare:      2.0,
	DifficultyEpic:      3.0,
	DifficultyLegendary: 5.0,
}

// Valid reports whether d is a known tier
func (d Difficulty) Valid() bool {
	_, ok := difficultyMultipliers[d]
	return ok
}

// Multiplier returns the reward multiplier for the tier. Unknown tiers scale by 1.
func (d Difficulty) Multiplier() float64 {
	if m, ok := difficultyMultipliers[d]; ok {
		return m
	}
	return 1.0
}

// Rank returns the tier's position in the ordering, or -1 if unknown
func (d Difficulty) Rank() int {
	return slices.Index(Difficulties, d)
}

// Quest is an offered activity with a reward and a completion requirement.
type Quest struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Difficulty          Difficulty  `json:"difficulty"`
	XPReward            int64       `json:"xp_reward"`
	GoldReward          int64       `json:"gold_reward"`
	Requirement         Requirement `json:"-"`
	StartsAt            time.Time   `json:"starts_at"`
	ExpiresAt           *time.Time  `json:"expires_at,omitempty"`
	MaxParticipants     *int        `json:"max_participants,omitempty"`
	CurrentParticipants int         `json:"current_participants"`
	TargetGuilds        []string    `json:"target_guilds,omitempty"`
	IsActive            bool        `json:"is_active"`
	CreatedBy           string      `json:"created_by,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// IsExpired reports whether the quest's expiry has passed at now
func (q *Quest) IsExpired(now time.Time) bool {
	return q.ExpiresAt != nil && !now.Before(*q.ExpiresAt)
}

// IsOpen reports whether the quest can currently be accepted, ignoring capacity
func (q *Quest) IsOpen(now time.Time) bool {
	return q.IsActive && !q.IsExpired(now) && !now.Before(q.StartsAt)
}

// HasCapacity reports whether another participant fits under the cap
func (q *Quest) HasCapacity() bool {
	return q.MaxParticipants == nil || q.CurrentParticipants < *q.MaxParticipants
}

// TargetsGuild reports whether the quest is offered to members of guild.
// An empty target list means every guild.
func (q *Quest) TargetsGuild(guild string) bool {
	return len(q.TargetGuilds) == 0 || slices.Contains(q.TargetGuilds, guild)
}

type questJSON struct {
	*questAlias
	Requirement json.RawMessage `json:"requirement"`
}

type questAlias Quest

// MarshalJSON encodes the quest with its requirement as a tagged object
func (q Quest) MarshalJSON() ([]byte, error) {
	req, err := MarshalRequirement(q.Requirement)
	if err != nil {
		return nil, err
	}
	alias := questAlias(q)
	return json.Marshal(questJSON{questAlias: &alias, Requirement: req})
}

// UnmarshalJSON decodes a quest and its tagged requirement
func (q *Quest) UnmarshalJSON(data []byte) error {
	aux := questJSON{questAlias: (*questAlias)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Requirement) == 0 || string(aux.Requirement) == "null" {
		q.Requirement = nil
		return nil
	}
	req, err := UnmarshalRequirement(aux.Requirement)
	if err != nil {
		return fmt.Errorf("quest %s: %w", q.ID, err)
	}
	q.Requirement = req
	return nil
}

// QuestFilter narrows the list of available quests
type QuestFilter struct {
	Difficulty Difficulty
	Guild      string
}

// AttemptStatus is the stored state of a quest attempt
type AttemptStatus string

const (
	AttemptStatusAvailable  AttemptStatus = "available"
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
	// AttemptStatusExpired is never stored; it is derived from the quest expiry.
	AttemptStatusExpired AttemptStatus = "expired"
)

// QuestAttempt is one participant's record of pursuing one quest
type QuestAttempt struct {
	ID             string        `json:"id"`
	ParticipantID  string        `json:"participant_id"`
	QuestID        string        `json:"quest_id"`
	Status         AttemptStatus `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	ProofReference *string       `json:"proof_reference,omitempty"`
	SubmittedAt    *time.Time    `json:"submitted_at,omitempty"`
	ReviewerID     *string       `json:"reviewer_id,omitempty"`
	ReviewedAt     *time.Time    `json:"reviewed_at,omitempty"`
	XPAwarded      int64         `json:"xp_awarded"`
	GoldAwarded    int64         `json:"gold_awarded"`
}

// EffectiveStatus derives the read-time status, turning an unfinished attempt
// on an expired quest into expired.
func (a *QuestAttempt) EffectiveStatus(q *Quest, now time.Time) AttemptStatus {
	if a.Status == AttemptStatusInProgress && q != nil && q.IsExpired(now) {
		return AttemptStatusExpired
	}
	return a.Status
}

// AwaitingReview reports whether a manual submission is waiting on a reviewer.
// A submission need not carry a proof reference.
func (a *QuestAttempt) AwaitingReview() bool {
	return a.Status == AttemptStatusInProgress && a.SubmittedAt != nil
}

// AttemptCompletion is the terminal write applied to an attempt
type AttemptCompletion struct {
	CompletedAt time.Time
	XPAwarded   int64
	GoldAwarded int64
	// ProofReference replaces the stored reference when set
	ProofReference *string
	// ReviewerID is set when the completion came from an approved review
	ReviewerID *string
	ReviewedAt *time.Time
}

// AttemptHistoryEntry is an attempt joined with its quest summary
type AttemptHistoryEntry struct {
	QuestAttempt
	QuestTitle      string        `json:"quest_title"`
	QuestDifficulty Difficulty    `json:"quest_difficulty"`
	QuestExpiresAt  *time.Time    `json:"quest_expires_at,omitempty"`
	DisplayStatus   AttemptStatus `json:"display_status"`
}

// Derive sets DisplayStatus from the quest expiry at now
func (h *AttemptHistoryEntry) Derive(now time.Time) {
	q := Quest{ExpiresAt: h.QuestExpiresAt}
	h.DisplayStatus = h.EffectiveStatus(&q, now)
}

// QuestHistory is a participant's recent attempts with totals
type QuestHistory struct {
	Attempts []AttemptHistoryEntry `json:"attempts"`
	Totals   HistoryTotals         `json:"totals"`
}

// HistoryTotals summarizes a participant's attempts
type HistoryTotals struct {
	Completed  int   `json:"completed"`
	InProgress int   `json:"in_progress"`
	XPEarned   int64 `json:"xp_earned"`
	GoldEarned int64 `json:"gold_earned"`
}

// CompletionStatus is the outcome of a submission that did not fail
type CompletionStatus string

const (
	CompletionStatusCompleted     CompletionStatus = "completed"
	CompletionStatusPendingReview CompletionStatus = "pending_review"
)

// CompletionResult is returned by a successful or pending submission
type CompletionResult struct {
	Status       CompletionStatus    `json:"status"`
	AttemptID    string              `json:"attempt_id"`
	XPAwarded    int64               `json:"xp_awarded"`
	GoldAwarded  int64               `json:"gold_awarded"`
	BonusXP      int64               `json:"bonus_xp"`
	NewXP        int64               `json:"new_xp"`
	NewGold      int64               `json:"new_gold"`
	NewLevel     int                 `json:"new_level"`
	LeveledUp    bool                `json:"leveled_up"`
	NewStreak    int                 `json:"new_streak"`
	Achievements []Achievement       `json:"achievements,omitempty"`
	Verification VerificationOutcome `json:"verification"`
}

// ReviewResult is the outcome of a reviewer decision. Completion is set only on approval.
type ReviewResult struct {
	AttemptID  string            `json:"attempt_id"`
	Approved   bool              `json:"approved"`
	Completion *CompletionResult `json:"completion,omitempty"`
}
