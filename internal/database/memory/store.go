// Package memory is an in-process record store with the same transactional
// guarantees as the postgres backend. A transaction holds the store lock from
// Begin until Commit or Rollback, so writers are fully serialized.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/progression"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

type pairKey struct {
	participantID string
	questID       string
}

// Store implements repository.Store in memory
type Store struct {
	mu sync.Mutex

	profiles      map[string]*domain.ParticipantProfile
	quests        map[string]*domain.Quest
	attempts      map[string]*domain.QuestAttempt
	attemptByPair map[pairKey]string
	unlocks       map[string]map[string]time.Time
	notifications []*domain.Notification
	activity      []domain.ActivityLog

	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		profiles:      make(map[string]*domain.ParticipantProfile),
		quests:        make(map[string]*domain.Quest),
		attempts:      make(map[string]*domain.QuestAttempt),
		attemptByPair: make(map[pairKey]string),
		unlocks:       make(map[string]map[string]time.Time),
		now:           time.Now,
	}
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() {}

// ---- Participants ----

func (s *Store) UpsertProfile(_ context.Context, profile *domain.ParticipantProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	existing, ok := s.profiles[profile.ID]
	if !ok {
		p := *profile
		if p.Level == 0 {
			p.Level = progression.StartingLevel
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		s.profiles[p.ID] = &p
		*profile = p
		return nil
	}

	existing.DisplayName = profile.DisplayName
	existing.Email = profile.Email
	existing.Guild = profile.Guild
	existing.Role = profile.Role
	existing.UpdatedAt = now
	*profile = *existing
	return nil
}

func (s *Store) GetProfile(_ context.Context, participantID string) (*domain.ParticipantProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileCopy(participantID)
}

func (s *Store) profileCopy(participantID string) (*domain.ParticipantProfile, error) {
	p, ok := s.profiles[participantID]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	cp := *p
	return &cp, nil
}

// ---- Quests ----

func (s *Store) GetQuest(_ context.Context, questID string) (*domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quests[questID]
	if !ok {
		return nil, domain.ErrQuestNotFound
	}
	return copyQuest(q), nil
}

func (s *Store) ListActiveQuests(_ context.Context, now time.Time, filter domain.QuestFilter) ([]domain.Quest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quests := make([]domain.Quest, 0, len(s.quests))
	for _, q := range s.quests {
		if !q.IsOpen(now) {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Guild != "" && !q.TargetsGuild(filter.Guild) {
			continue
		}
		quests = append(quests, *copyQuest(q))
	}
	sort.Slice(quests, func(i, j int) bool {
		if !quests[i].CreatedAt.Equal(quests[j].CreatedAt) {
			return quests[i].CreatedAt.After(quests[j].CreatedAt)
		}
		return quests[i].ID < quests[j].ID
	})
	return quests, nil
}

func (s *Store) CreateQuest(_ context.Context, quest *domain.Quest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quest.ID == "" {
		quest.ID = uuid.New().String()
	}
	if quest.CreatedAt.IsZero() {
		quest.CreatedAt = s.now()
	}
	s.quests[quest.ID] = copyQuest(quest)
	return nil
}

func (s *Store) GetAttempt(_ context.Context, participantID, questID string) (*domain.QuestAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.attemptByPair[pairKey{participantID, questID}]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return copyAttempt(s.attempts[id]), nil
}

func (s *Store) GetAttemptByID(_ context.Context, attemptID string) (*domain.QuestAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attemptCopy(attemptID)
}

func (s *Store) attemptCopy(attemptID string) (*domain.QuestAttempt, error) {
	a, ok := s.attempts[attemptID]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return copyAttempt(a), nil
}

func (s *Store) ListAttempts(_ context.Context, participantID string) ([]domain.QuestAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participantAttempts(participantID), nil
}

// participantAttempts returns the participant's attempts, most recently started first
func (s *Store) participantAttempts(participantID string) []domain.QuestAttempt {
	out := make([]domain.QuestAttempt, 0)
	for _, a := range s.attempts {
		if a.ParticipantID == participantID {
			out = append(out, *copyAttempt(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) GetAttemptHistory(_ context.Context, participantID string, limit int) ([]domain.AttemptHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := s.participantAttempts(participantID)
	if limit > 0 && len(attempts) > limit {
		attempts = attempts[:limit]
	}
	entries := make([]domain.AttemptHistoryEntry, 0, len(attempts))
	for _, a := range attempts {
		entry := domain.AttemptHistoryEntry{QuestAttempt: a}
		if q, ok := s.quests[a.QuestID]; ok {
			entry.QuestTitle = q.Title
			entry.QuestDifficulty = q.Difficulty
			entry.QuestExpiresAt = copyTime(q.ExpiresAt)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ---- Achievements ----

func (s *Store) ListUnlocks(_ context.Context, participantID string) ([]domain.AchievementUnlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.AchievementUnlock, 0, len(s.unlocks[participantID]))
	for key, at := range s.unlocks[participantID] {
		out = append(out, domain.AchievementUnlock{ParticipantID: participantID, AchievementKey: key, UnlockedAt: at})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UnlockedAt.Equal(out[j].UnlockedAt) {
			return out[i].UnlockedAt.Before(out[j].UnlockedAt)
		}
		return out[i].AchievementKey < out[j].AchievementKey
	})
	return out, nil
}

// ---- Leaderboard ----

func (s *Store) GetGuildStandings(_ context.Context) ([]domain.GuildStanding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byGuild := make(map[string]*domain.GuildStanding)
	levelSums := make(map[string]int)
	for _, p := range s.profiles {
		if p.Guild == "" {
			continue
		}
		st, ok := byGuild[p.Guild]
		if !ok {
			st = &domain.GuildStanding{Guild: p.Guild}
			byGuild[p.Guild] = st
		}
		st.TotalXP += p.XP
		st.TotalMembers++
		levelSums[p.Guild] += p.Level
	}

	standings := make([]domain.GuildStanding, 0, len(byGuild))
	for guild, st := range byGuild {
		st.AverageLevel = float64(levelSums[guild]) / float64(st.TotalMembers)
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].TotalXP != standings[j].TotalXP {
			return standings[i].TotalXP > standings[j].TotalXP
		}
		return standings[i].Guild < standings[j].Guild
	})
	return standings, nil
}

func (s *Store) GetTopPlayers(_ context.Context, guild string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.LeaderboardEntry, 0, len(s.profiles))
	for _, p := range s.profiles {
		if guild != "" && p.Guild != guild {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Guild:         p.Guild,
			XP:            p.XP,
			Level:         p.Level,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].ParticipantID < entries[j].ParticipantID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ---- Stats ----

func (s *Store) CountCompletedAttempts(_ context.Context, participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countCompleted(participantID), nil
}

func (s *Store) countCompleted(participantID string) int {
	n := 0
	for _, a := range s.attempts {
		if a.ParticipantID == participantID && a.Status == domain.AttemptStatusCompleted {
			n++
		}
	}
	return n
}

func (s *Store) CountUnlockedAchievements(_ context.Context, participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unlocks[participantID]), nil
}

// ---- Notifications ----

func (s *Store) ListNotifications(_ context.Context, participantID string, limit int) ([]domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.ParticipantID != participantID {
			continue
		}
		out = append(out, *n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CountUnreadNotifications(_ context.Context, participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if n.ParticipantID == participantID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkNotificationsRead(_ context.Context, participantID string, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var updated int64
	for _, n := range s.notifications {
		if _, ok := wanted[n.ID]; ok && n.ParticipantID == participantID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context, participantID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, n := range s.notifications {
		if n.ParticipantID == participantID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

// ActivityLog returns the participant's audit entries in insertion order
func (s *Store) ActivityLog(participantID string) []domain.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.ActivityLog
	for _, entry := range s.activity {
		if entry.ParticipantID == participantID {
			out = append(out, entry)
		}
	}
	return out
}

// ---- Transactions ----

func (s *Store) BeginQuestTx(_ context.Context) (repository.QuestTx, error) {
	return s.begin(), nil
}

func (s *Store) BeginProgressTx(_ context.Context) (repository.ProgressTx, error) {
	return s.begin(), nil
}

func (s *Store) BeginEconomyTx(_ context.Context) (repository.EconomyTx, error) {
	return s.begin(), nil
}

func (s *Store) begin() *tx {
	s.mu.Lock()
	return &tx{s: s}
}

// ---- copies ----

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyQuest(q *domain.Quest) *domain.Quest {
	cp := *q
	cp.ExpiresAt = copyTime(q.ExpiresAt)
	if q.MaxParticipants != nil {
		v := *q.MaxParticipants
		cp.MaxParticipants = &v
	}
	if q.TargetGuilds != nil {
		cp.TargetGuilds = append([]string(nil), q.TargetGuilds...)
	}
	return &cp
}

func copyAttempt(a *domain.QuestAttempt) *domain.QuestAttempt {
	cp := *a
	cp.CompletedAt = copyTime(a.CompletedAt)
	cp.ReviewedAt = copyTime(a.ReviewedAt)
	cp.SubmittedAt = copyTime(a.SubmittedAt)
	cp.ProofReference = copyString(a.ProofReference)
	cp.ReviewerID = copyString(a.ReviewerID)
	return &cp
}
