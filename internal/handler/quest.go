package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/evidence"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/quest"
)

// QuestView is a catalog entry with the caller's attempt overlaid
type QuestView struct {
	Quest     domain.Quest         `json:"quest"`
	Status    domain.AttemptStatus `json:"status"`
	AttemptID string               `json:"attempt_id,omitempty"`
}

// CreateQuestRequest is the body for authoring a quest.
// Requirement is a tagged object, e.g. {"type":"qr_code","code":"ABC123"}.
type CreateQuestRequest struct {
	Title           string          `json:"title" validate:"required,max=200,singleline"`
	Description     string          `json:"description" validate:"max=2000"`
	Difficulty      string          `json:"difficulty" validate:"omitempty,difficulty"`
	XPReward        int64           `json:"xp_reward" validate:"gte=0"`
	GoldReward      int64           `json:"gold_reward" validate:"gte=0"`
	Requirement     json.RawMessage `json:"requirement" validate:"required" swaggertype:"object"`
	StartsAt        *time.Time      `json:"starts_at"`
	ExpiresAt       *time.Time      `json:"expires_at"`
	MaxParticipants *int            `json:"max_participants" validate:"omitempty,gt=0"`
	TargetGuilds    []string        `json:"target_guilds" validate:"omitempty,dive,required,max=16"`
}

// CompleteQuestRequest is the proof submitted for a quest. Which fields matter
// depends on the quest requirement.
type CompleteQuestRequest struct {
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Code           string   `json:"code" validate:"max=128"`
	ProofReference string   `json:"proof_reference" validate:"max=1024"`
}

// ReviewRequest is a reviewer decision on a pending attempt
type ReviewRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Note    string `json:"note" validate:"max=500"`
}

// EvidenceUploadRequest names the content type of the file to be uploaded
type EvidenceUploadRequest struct {
	ContentType string `json:"content_type" validate:"required,max=100"`
}

// QuestHandler serves the quest lifecycle endpoints
type QuestHandler struct {
	questService    quest.Service
	evidenceService evidence.Service
	now             func() time.Time
}

// NewQuestHandler creates a quest handler
func NewQuestHandler(questService quest.Service, evidenceService evidence.Service) *QuestHandler {
	return &QuestHandler{
		questService:    questService,
		evidenceService: evidenceService,
		now:             time.Now,
	}
}

// HandleList returns the quests open to the caller's guild with their attempt status
// @Summary List available quests
// @Tags quests
// @Produce json
// @Param X-Participant-ID header string false "Participant id"
// @Param difficulty query string false "Difficulty filter"
// @Param guild query string false "Guild filter"
// @Success 200 {array} QuestView
// @Failure 400 {object} ErrorResponse
// @Router /quests [get]
func (h *QuestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := domain.QuestFilter{
		Difficulty: domain.Difficulty(GetOptionalQueryParam(r, "difficulty", "")),
		Guild:      GetOptionalQueryParam(r, "guild", ""),
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidDifficulty)
		return
	}

	quests, err := h.questService.ListAvailable(ctx, filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	attempts := map[string]domain.QuestAttempt{}
	if participantID := ParticipantID(r); participantID != "" {
		list, err := h.questService.Attempts(ctx, participantID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		for _, a := range list {
			attempts[a.QuestID] = a
		}
	}

	now := h.now()
	views := make([]QuestView, 0, len(quests))
	for i := range quests {
		q := quests[i]
		view := QuestView{Quest: redactRequirement(q), Status: domain.AttemptStatusAvailable}
		if a, ok := attempts[q.ID]; ok {
			view.Status = a.EffectiveStatus(&q, now)
			view.AttemptID = a.ID
		}
		views = append(views, view)
	}

	respondJSON(w, http.StatusOK, views)
}

// redactRequirement hides secrets that would let a participant skip the requirement
func redactRequirement(q domain.Quest) domain.Quest {
	if _, ok := q.Requirement.(domain.QRCodeRequirement); ok {
		q.Requirement = domain.QRCodeRequirement{}
	}
	return q
}

// HandleCreate authors a new quest
// @Summary Create quest
// @Description Quest givers and game masters only
// @Tags quests
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Author id"
// @Param request body CreateQuestRequest true "Quest definition"
// @Success 201 {object} domain.Quest
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /quests [post]
func (h *QuestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	authorID, ok := requireParticipant(w, r)
	if !ok {
		return
	}

	var req CreateQuestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "create quest"); err != nil {
		return
	}

	requirement, err := domain.UnmarshalRequirement(req.Requirement)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: map[string]string{"requirement": err.Error()},
		})
		return
	}

	created, err := h.questService.Create(r.Context(), authorID, quest.CreateQuestInput{
		Title:           req.Title,
		Description:     req.Description,
		Difficulty:      domain.Difficulty(req.Difficulty),
		XPReward:        req.XPReward,
		GoldReward:      req.GoldReward,
		Requirement:     requirement,
		StartsAt:        req.StartsAt,
		ExpiresAt:       req.ExpiresAt,
		MaxParticipants: req.MaxParticipants,
		TargetGuilds:    req.TargetGuilds,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgQuestCreated, "quest_id", created.ID, "author_id", authorID)
	respondJSON(w, http.StatusCreated, created)
}

// HandleAccept starts an attempt on a quest
// @Summary Accept quest
// @Tags quests
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param id path string true "Quest id"
// @Success 201 {object} domain.QuestAttempt
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /quests/{id}/accept [post]
func (h *QuestHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireParticipant(w, r)
	if !ok {
		return
	}

	attempt, err := h.questService.Accept(r.Context(), participantID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, attempt)
}

// HandleComplete submits proof for an accepted quest
// @Summary Submit quest completion
// @Description Automatic requirements are verified immediately. Manual requirements wait for review.
// @Tags quests
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param id path string true "Quest id"
// @Param request body CompleteQuestRequest true "Proof"
// @Success 200 {object} domain.CompletionResult
// @Success 202 {object} domain.CompletionResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} VerificationErrorResponse
// @Router /quests/{id}/complete [post]
func (h *QuestHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireParticipant(w, r)
	if !ok {
		return
	}

	var req CompleteQuestRequest
	if err := DecodeAndValidateRequest(r, w, &req, "complete quest"); err != nil {
		return
	}

	questID := chi.URLParam(r, "id")
	result, err := h.questService.SubmitCompletion(r.Context(), participantID, questID, domain.SubmittedProof{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Code:           req.Code,
		ProofReference: req.ProofReference,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgCompletionHandled,
		"participant_id", participantID, "quest_id", questID, "status", result.Status)

	status := http.StatusOK
	if result.Status == domain.CompletionStatusPendingReview {
		status = http.StatusAccepted
	}
	respondJSON(w, status, result)
}

// HandleReview approves or rejects an attempt waiting for review
// @Summary Review attempt
// @Tags quests
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Reviewer id"
// @Param id path string true "Attempt id"
// @Param request body ReviewRequest true "Decision"
// @Success 200 {object} domain.ReviewResult
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /attempts/{id}/review [post]
func (h *QuestHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := requireParticipant(w, r)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := DecodeAndValidateRequest(r, w, &req, "review"); err != nil {
		return
	}

	result, err := h.questService.Review(r.Context(), reviewerID, chi.URLParam(r, "id"), *req.Approve, req.Note)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleEvidenceUpload issues a presigned upload URL for quest evidence
// @Summary Request evidence upload URL
// @Tags quests
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param id path string true "Quest id"
// @Param request body EvidenceUploadRequest true "Upload details"
// @Success 200 {object} evidence.Upload
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /quests/{id}/evidence [post]
func (h *QuestHandler) HandleEvidenceUpload(w http.ResponseWriter, r *http.Request) {
	participantID, ok := requireParticipant(w, r)
	if !ok {
		return
	}

	var req EvidenceUploadRequest
	if err := DecodeAndValidateRequest(r, w, &req, "evidence upload"); err != nil {
		return
	}

	upload, err := h.evidenceService.UploadURL(r.Context(), participantID, chi.URLParam(r, "id"), req.ContentType)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, upload)
}

// HandleEvidenceView issues a presigned download URL for an attempt's evidence
// @Summary View attempt evidence
// @Description Available to the attempt owner and to reviewers
// @Tags quests
// @Produce json
// @Param X-Participant-ID header string true "Viewer id"
// @Param id path string true "Attempt id"
// @Success 200 {object} evidence.View
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /attempts/{id}/evidence [get]
func (h *QuestHandler) HandleEvidenceView(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := requireParticipant(w, r)
	if !ok {
		return
	}

	reference, err := h.questService.EvidenceReference(r.Context(), viewerID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.evidenceService.ViewURL(r.Context(), reference)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
