package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/catalog"
	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/database/memory"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/economy"
	"github.com/osse101/CampusQuest_Go/internal/evidence"
	"github.com/osse101/CampusQuest_Go/internal/handler"
	"github.com/osse101/CampusQuest_Go/internal/leaderboard"
	"github.com/osse101/CampusQuest_Go/internal/notification"
	"github.com/osse101/CampusQuest_Go/internal/quest"
	"github.com/osse101/CampusQuest_Go/internal/stats"
	"github.com/osse101/CampusQuest_Go/internal/user"
)

const testAPIKey = "test-key"

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// newTestRouter wires real services over the in-memory store
func newTestRouter(t *testing.T, readiness map[string]handler.Pinger) http.Handler {
	t.Helper()
	store := memory.NewStore()
	c := cache.NewMemoryCache(cache.DefaultMemorySize, cache.ParticipantStatsTTL)
	cat := catalog.Default()
	rules := achievement.NewRuleSet(cat.Achievements, time.UTC)
	locks := concurrency.NewLockManager()
	lb := leaderboard.NewService(store, c, cat, nil)

	svc := Services{
		User:         user.NewService(store, cat),
		Quest:        quest.NewService(store, cat, rules, locks, lb, nil),
		Evidence:     evidence.NewService(nil, "", evidence.DefaultURLTTL),
		Stats:        stats.NewService(store, c, lb),
		Leaderboard:  lb,
		Achievement:  achievement.NewService(store, rules, locks, lb, nil),
		Economy:      economy.NewService(store, cat, nil),
		Notification: notification.NewService(store),
		Guilds:       cat,
	}
	return NewRouter(Options{Port: 0, APIKey: testAPIKey}, svc, nil, readiness)
}

func apiRequest(t *testing.T, method, path, participantID string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, testAPIKey)
	if participantID != "" {
		req.Header.Set(handler.HeaderParticipantID, participantID)
	}
	return req
}

func TestRouter_PublicEndpointsSkipAuth(t *testing.T) {
	router := newTestRouter(t, map[string]handler.Pinger{
		"store": pingerFunc(func(context.Context) error { return nil }),
	})

	for _, path := range []string{"/healthz", "/readyz", "/version"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, HeaderValueNoSniff, w.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_ReadyzReportsFailingDependency(t *testing.T) {
	router := newTestRouter(t, map[string]handler.Pinger{
		"store": pingerFunc(func(context.Context) error { return errors.New("down") }),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_APIRequiresKey(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, APIPrefix+"/quests", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_QuestLifecycle(t *testing.T) {
	// ARRANGE
	router := newTestRouter(t, nil)
	do := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(apiRequest(t, http.MethodPost, APIPrefix+"/participants", "giver", map[string]string{
		"display_name": "Prof. Santos", "guild": "CCSICT", "role": "quest_giver",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(apiRequest(t, http.MethodPost, APIPrefix+"/participants", "p1", map[string]string{
		"display_name": "Ana", "guild": "CCSICT",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(apiRequest(t, http.MethodPost, APIPrefix+"/quests", "giver", map[string]interface{}{
		"title":       "Find the library plaque",
		"difficulty":  "common",
		"xp_reward":   100,
		"gold_reward": 10,
		"requirement": map[string]string{"type": "qr_code", "code": "PLAQUE-1"},
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Quest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// ACT
	accept := do(apiRequest(t, http.MethodPost, APIPrefix+"/quests/"+created.ID+"/accept", "p1", nil))
	wrong := do(apiRequest(t, http.MethodPost, APIPrefix+"/quests/"+created.ID+"/complete", "p1", map[string]string{"code": "NOPE"}))
	right := do(apiRequest(t, http.MethodPost, APIPrefix+"/quests/"+created.ID+"/complete", "p1", map[string]string{"code": "PLAQUE-1"}))
	statsResp := do(apiRequest(t, http.MethodGet, APIPrefix+"/participants/me/stats", "p1", nil))

	// ASSERT
	assert.Equal(t, http.StatusCreated, accept.Code, accept.Body.String())
	assert.Equal(t, http.StatusUnprocessableEntity, wrong.Code, wrong.Body.String())

	require.Equal(t, http.StatusOK, right.Code, right.Body.String())
	var result domain.CompletionResult
	require.NoError(t, json.Unmarshal(right.Body.Bytes(), &result))
	assert.Equal(t, domain.CompletionStatusCompleted, result.Status)
	assert.Positive(t, result.XPAwarded)

	require.Equal(t, http.StatusOK, statsResp.Code)
	var st domain.ParticipantStats
	require.NoError(t, json.Unmarshal(statsResp.Body.Bytes(), &st))
	assert.Equal(t, 1, st.QuestsCompleted)
	assert.Equal(t, result.NewXP, st.XP)
	assert.Equal(t, 1, st.GuildRank)
}

func TestRouter_PlayerCannotCreateQuest(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, apiRequest(t, http.MethodPost, APIPrefix+"/participants", "p1", map[string]string{
		"display_name": "Ana", "guild": "COE",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, apiRequest(t, http.MethodPost, APIPrefix+"/quests", "p1", map[string]interface{}{
		"title":       "Sneaky quest",
		"requirement": map[string]string{"type": "manual", "instructions": "Trust me"},
	}))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
