package handler

import (
	"net/http"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/domain"
)

// AchievementCheckResponse lists what a manual check unlocked
type AchievementCheckResponse struct {
	Unlocked []domain.Achievement `json:"unlocked"`
}

// HandleListAchievements returns the achievement catalog with the caller's unlock state
// @Summary List achievements
// @Tags achievements
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Success 200 {array} domain.AchievementStatus
// @Failure 401 {object} ErrorResponse
// @Router /achievements [get]
func HandleListAchievements(svc achievement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		statuses, err := svc.List(r.Context(), participantID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, statuses)
	}
}

// HandleCheckAchievements re-evaluates the rule set for the caller
// @Summary Check achievements
// @Description Unlocks anything the caller already qualifies for. Repeating the call unlocks nothing new.
// @Tags achievements
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Success 200 {object} AchievementCheckResponse
// @Failure 404 {object} ErrorResponse
// @Router /achievements/check [post]
func HandleCheckAchievements(svc achievement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		unlocked, err := svc.Check(r.Context(), participantID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		if unlocked == nil {
			unlocked = []domain.Achievement{}
		}
		respondJSON(w, http.StatusOK, AchievementCheckResponse{Unlocked: unlocked})
	}
}
