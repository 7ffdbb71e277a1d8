package handler

import (
	"net/http"

	"github.com/osse101/CampusQuest_Go/internal/notification"
)

// MarkReadRequest marks the listed notifications, or every one when All is set
type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"omitempty,max=100,dive,required"`
	All bool     `json:"all"`
}

// MarkReadResponse reports how many notifications changed
type MarkReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// HandleListNotifications returns the caller's newest notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param limit query int false "Maximum notifications to return"
// @Success 200 {object} domain.NotificationInbox
// @Failure 400 {object} ErrorResponse
// @Router /notifications [get]
func HandleListNotifications(svc notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}
		limit, ok := getLimitParam(w, r)
		if !ok {
			return
		}

		inbox, err := svc.List(r.Context(), participantID, limit)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, inbox)
	}
}

// HandleMarkNotificationsRead marks notifications as read
// @Summary Mark notifications read
// @Tags notifications
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param request body MarkReadRequest true "Notifications to mark"
// @Success 200 {object} MarkReadResponse
// @Failure 400 {object} ErrorResponse
// @Router /notifications/read [post]
func HandleMarkNotificationsRead(svc notification.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		var req MarkReadRequest
		if err := DecodeAndValidateRequest(r, w, &req, "mark read"); err != nil {
			return
		}
		if !req.All && len(req.IDs) == 0 {
			respondError(w, http.StatusBadRequest, ErrMsgNothingToMark)
			return
		}

		var (
			updated int64
			err     error
		)
		if req.All {
			updated, err = svc.MarkAllRead(r.Context(), participantID)
		} else {
			updated, err = svc.MarkRead(r.Context(), participantID, req.IDs)
		}
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, MarkReadResponse{Message: MsgNotificationsMarkedRead, Updated: updated})
	}
}
