package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/leaderboard"
)

// GuildLookup resolves guild codes from the catalog
type GuildLookup interface {
	Guild(code string) (domain.Guild, bool)
}

// HandleGuildLeaderboard returns every guild ranked by total XP
// @Summary Guild leaderboard
// @Tags leaderboard
// @Produce json
// @Success 200 {array} domain.GuildStanding
// @Router /leaderboard/guilds [get]
func HandleGuildLeaderboard(svc leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := svc.Guilds(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, standings)
	}
}

// HandlePlayerLeaderboard returns the top participants by XP
// @Summary Player leaderboard
// @Tags leaderboard
// @Produce json
// @Success 200 {array} domain.LeaderboardEntry
// @Router /leaderboard/players [get]
func HandlePlayerLeaderboard(svc leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.TopPlayers(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

// HandleGuildStats returns one guild's standing and its top members
// @Summary Guild stats
// @Tags leaderboard
// @Produce json
// @Param guild path string true "Guild code"
// @Success 200 {object} domain.GuildStats
// @Failure 404 {object} ErrorResponse
// @Router /leaderboard/guilds/{guild} [get]
func HandleGuildStats(svc leaderboard.Service, guilds GuildLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "guild")
		if _, ok := guilds.Guild(code); !ok {
			respondError(w, http.StatusNotFound, ErrMsgUnknownGuild)
			return
		}

		stats, err := svc.GuildStats(r.Context(), code)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
