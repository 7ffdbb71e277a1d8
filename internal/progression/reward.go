package progression

import (
	"math"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

// Reward is an amount of XP and gold to grant
type Reward struct {
	XP   int64
	Gold int64
}

// Snapshot is the part of a profile progression math reads
type Snapshot struct {
	XP           int64
	Gold         int64
	Streak       int
	LastActiveAt *time.Time
}

// Result is the value object persisted in one profile write
type Result struct {
	NewXP           int64
	NewGold         int64
	NewLevel        int
	NewStreak       int
	NewLastActiveAt time.Time
	LeveledUp       bool
}

// ScaleReward multiplies a quest's base reward by its difficulty multiplier, rounding down
func ScaleReward(baseXP, baseGold int64, difficulty domain.Difficulty) Reward {
	m := difficulty.Multiplier()
	return Reward{
		XP:   int64(math.Floor(float64(baseXP) * m)),
		Gold: int64(math.Floor(float64(baseGold) * m)),
	}
}

// SnapshotOf extracts the progression fields from a profile
func SnapshotOf(p *domain.ParticipantProfile) Snapshot {
	return Snapshot{
		XP:           p.XP,
		Gold:         p.Gold,
		Streak:       p.ActivityStreak,
		LastActiveAt: p.LastActiveAt,
	}
}

// Apply grants a reward at now. It advances the streak and last-active time.
func Apply(s Snapshot, r Reward, now time.Time) Result {
	newXP := s.XP + r.XP
	return Result{
		NewXP:           newXP,
		NewGold:         s.Gold + r.Gold,
		NewLevel:        Level(newXP),
		NewStreak:       NextStreak(s.Streak, s.LastActiveAt, now),
		NewLastActiveAt: now,
		LeveledUp:       Level(newXP) > Level(s.XP),
	}
}

// ApplyBonus adds bonus XP on top of an earlier result. The streak and
// last-active time are already settled by that result, so only XP and level move.
func ApplyBonus(prev Result, bonusXP int64) Result {
	next := prev
	next.NewXP += bonusXP
	next.NewLevel = Level(next.NewXP)
	next.LeveledUp = prev.LeveledUp || next.NewLevel > prev.NewLevel
	return next
}

// AsSnapshot turns a result back into a snapshot for the next computation
func (r Result) AsSnapshot() Snapshot {
	last := r.NewLastActiveAt
	return Snapshot{XP: r.NewXP, Gold: r.NewGold, Streak: r.NewStreak, LastActiveAt: &last}
}

// ProfileUpdate converts the result into the store's write shape
func (r Result) ProfileUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		XP:             r.NewXP,
		Gold:           r.NewGold,
		Level:          r.NewLevel,
		ActivityStreak: r.NewStreak,
		LastActiveAt:   r.NewLastActiveAt,
	}
}

// Hold returns s as a result with nothing granted. The streak is not advanced
// and a never-active participant keeps a zero last-active time.
func Hold(s Snapshot) Result {
	var last time.Time
	if s.LastActiveAt != nil {
		last = *s.LastActiveAt
	}
	return Result{
		NewXP:           s.XP,
		NewGold:         s.Gold,
		NewLevel:        Level(s.XP),
		NewStreak:       s.Streak,
		NewLastActiveAt: last,
	}
}
