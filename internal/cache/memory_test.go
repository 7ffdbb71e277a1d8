package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestMemoryCache_GetSetInvalidate(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	c := NewMemoryCache(10, 0)
	standings := []domain.GuildStanding{{Rank: 1, Guild: "CCSICT", TotalXP: 1200, TotalMembers: 2, AverageLevel: 1.5}}

	// ACT
	require.NoError(t, c.Set(ctx, GuildLeaderboardKey, standings, LeaderboardTTL))
	var got []domain.GuildStanding
	found, err := c.Get(ctx, GuildLeaderboardKey, &got)

	// ASSERT
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, standings, got)

	require.NoError(t, c.Invalidate(ctx, GuildLeaderboardKey, PlayersLeaderboardKey))
	found, err = c.Get(ctx, GuildLeaderboardKey, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_PerEntryTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(10, 0)
	c.now = clock.Now

	require.NoError(t, c.Set(ctx, "short", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "long", 2, 5*time.Minute))

	clock.t = clock.t.Add(time.Minute)

	var v int
	found, _ := c.Get(ctx, "short", &v)
	assert.False(t, found, "entry expires exactly at its TTL")

	found, _ = c.Get(ctx, "long", &v)
	assert.True(t, found)
	assert.Equal(t, 2, v)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, 0)

	require.NoError(t, c.Set(ctx, "a", 1, time.Hour))
	require.NoError(t, c.Set(ctx, "b", 2, time.Hour))
	require.NoError(t, c.Set(ctx, "c", 3, time.Hour))

	var v int
	found, _ := c.Get(ctx, "a", &v)
	assert.False(t, found)
	assert.Equal(t, 2, c.Len())
}

func TestRewardKeys(t *testing.T) {
	keys := RewardKeys("p-1", "COE")

	assert.ElementsMatch(t, []string{
		"guild:leaderboard",
		"players:leaderboard",
		"user:p-1:rank",
		"guild:COE:stats",
	}, keys)
	assert.Len(t, RewardKeys("p-1", ""), 3)
}
