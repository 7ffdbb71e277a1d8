package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/quest"
	"github.com/osse101/CampusQuest_Go/internal/stats"
	"github.com/osse101/CampusQuest_Go/internal/user"
)

// RegisterRequest carries the profile fields for the caller named by X-Participant-ID
type RegisterRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=64,singleline"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Guild       string `json:"guild" validate:"required,max=16"`
	Role        string `json:"role" validate:"omitempty,role"`
}

// HandleRegister creates or refreshes the caller's profile
// @Summary Register participant
// @Description Create the caller's profile, or refresh its identity fields. Progress is never reset.
// @Tags participants
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param request body RegisterRequest true "Profile details"
// @Success 200 {object} domain.ParticipantProfile
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /participants [post]
func HandleRegister(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		var req RegisterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "register"); err != nil {
			return
		}

		profile, err := svc.Register(r.Context(), user.RegisterInput{
			ID:          participantID,
			DisplayName: req.DisplayName,
			Email:       req.Email,
			Guild:       req.Guild,
			Role:        domain.Role(req.Role),
		})
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgParticipantRegistered, "participant_id", participantID, "guild", profile.Guild)
		respondJSON(w, http.StatusOK, profile)
	}
}

// HandleGetMe returns the caller's profile
// @Summary Get own profile
// @Tags participants
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Success 200 {object} domain.ParticipantProfile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /participants/me [get]
func HandleGetMe(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		profile, err := svc.Get(r.Context(), participantID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}

// HandleGetStats returns progression stats for the caller, or for {id} when the route has one
// @Summary Get participant stats
// @Tags participants
// @Produce json
// @Param X-Participant-ID header string false "Participant id (for /me)"
// @Param id path string false "Participant id"
// @Success 200 {object} domain.ParticipantStats
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /participants/me/stats [get]
// @Router /participants/{id}/stats [get]
func HandleGetStats(svc stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID := chi.URLParam(r, "id")
		if participantID == "" {
			var ok bool
			if participantID, ok = requireParticipant(w, r); !ok {
				return
			}
		}

		result, err := svc.GetParticipantStats(r.Context(), participantID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleGetHistory returns the caller's recent quest attempts with totals
// @Summary Get quest history
// @Tags participants
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Success 200 {object} domain.QuestHistory
// @Failure 401 {object} ErrorResponse
// @Router /participants/me/history [get]
func HandleGetHistory(svc quest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		history, err := svc.History(r.Context(), participantID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, history)
	}
}
