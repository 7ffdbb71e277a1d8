package quest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/metrics"
	"github.com/osse101/CampusQuest_Go/internal/repository"
	"github.com/osse101/CampusQuest_Go/internal/verification"
)

// Repository is the slice of the record store the orchestrator needs
type Repository interface {
	repository.Participant
	repository.Quest
}

// GuildCatalog resolves guild codes
type GuildCatalog interface {
	Guild(code string) (domain.Guild, bool)
}

// CreateQuestInput is what an author supplies for a new quest
type CreateQuestInput struct {
	Title           string
	Description     string
	Difficulty      domain.Difficulty
	XPReward        int64
	GoldReward      int64
	Requirement     domain.Requirement
	StartsAt        *time.Time
	ExpiresAt       *time.Time
	MaxParticipants *int
	TargetGuilds    []string
}

// Service orchestrates the quest lifecycle
type Service interface {
	ListAvailable(ctx context.Context, filter domain.QuestFilter) ([]domain.Quest, error)
	// Attempts returns every attempt of the participant, used to overlay status on the catalog
	Attempts(ctx context.Context, participantID string) ([]domain.QuestAttempt, error)
	Create(ctx context.Context, authorID string, input CreateQuestInput) (*domain.Quest, error)

	Accept(ctx context.Context, participantID, questID string) (*domain.QuestAttempt, error)
	SubmitCompletion(ctx context.Context, participantID, questID string, proof domain.SubmittedProof) (*domain.CompletionResult, error)
	Review(ctx context.Context, reviewerID, attemptID string, approve bool, note string) (*domain.ReviewResult, error)
	// EvidenceReference returns the submitted proof of an attempt to its owner or a reviewer
	EvidenceReference(ctx context.Context, viewerID, attemptID string) (string, error)

	History(ctx context.Context, participantID string) (*domain.QuestHistory, error)
}

type service struct {
	repo        Repository
	guilds      GuildCatalog
	rules       *achievement.RuleSet
	locks       *concurrency.LockManager
	invalidator achievement.RewardInvalidator
	publisher   event.Publisher
	now         func() time.Time
}

// NewService creates the quest orchestrator. invalidator and publisher may be nil.
func NewService(
	repo Repository,
	guilds GuildCatalog,
	rules *achievement.RuleSet,
	locks *concurrency.LockManager,
	invalidator achievement.RewardInvalidator,
	publisher event.Publisher,
) Service {
	return &service{
		repo:        repo,
		guilds:      guilds,
		rules:       rules,
		locks:       locks,
		invalidator: invalidator,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *service) ListAvailable(ctx context.Context, filter domain.QuestFilter) ([]domain.Quest, error) {
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: "+ErrMsgBadDifficulty, domain.ErrInvalidInput, filter.Difficulty)
	}
	return s.repo.ListActiveQuests(ctx, s.now(), filter)
}

func (s *service) Attempts(ctx context.Context, participantID string) ([]domain.QuestAttempt, error) {
	return s.repo.ListAttempts(ctx, participantID)
}

func (s *service) Accept(ctx context.Context, participantID, questID string) (*domain.QuestAttempt, error) {
	log := logger.FromContext(ctx)

	if _, err := s.repo.GetProfile(ctx, participantID); err != nil {
		return nil, err
	}

	// Checks run in a fixed order so callers see the most fundamental failure
	quest, err := s.repo.GetQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !quest.IsActive || quest.IsExpired(now) {
		return nil, domain.ErrQuestUnavailable
	}
	if now.Before(quest.StartsAt) {
		return nil, domain.ErrQuestNotStarted
	}
	if !quest.HasCapacity() {
		return nil, domain.ErrQuestFull
	}
	if _, err := s.repo.GetAttempt(ctx, participantID, questID); err == nil {
		return nil, domain.ErrAlreadyAccepted
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	tx, err := s.repo.BeginQuestTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	// Both guards are re-checked by the store; a lost race surfaces here
	if err := tx.IncrementParticipants(ctx, questID); err != nil {
		return nil, err
	}
	attempt := &domain.QuestAttempt{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		QuestID:       questID,
		Status:        domain.AttemptStatusInProgress,
		StartedAt:     now,
	}
	if err := tx.InsertAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	if err := tx.InsertActivity(ctx, &domain.ActivityLog{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		ActionType:    domain.ActionQuestAccepted,
		Metadata:      map[string]any{"quest_id": questID},
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTxFailed, err)
	}

	s.publish(ctx, event.NewQuestAcceptedEvent(domain.QuestAttemptPayload{
		ParticipantID: participantID,
		QuestID:       questID,
		AttemptID:     attempt.ID,
	}))

	log.Info(LogMsgQuestAccepted, "participant_id", participantID, "quest_id", questID, "attempt_id", attempt.ID)
	return attempt, nil
}

func (s *service) SubmitCompletion(ctx context.Context, participantID, questID string, proof domain.SubmittedProof) (*domain.CompletionResult, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgSubmitCompletion, "participant_id", participantID, "quest_id", questID)

	quest, err := s.repo.GetQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.repo.GetAttempt(ctx, participantID, questID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := checkSubmittable(attempt, quest, now); err != nil {
		return nil, err
	}

	outcome := verification.Evaluate(quest.Requirement, proof)
	if verification.RequiresReview(quest.Requirement) {
		return s.submitForReview(ctx, quest, attempt, proof, outcome)
	}
	if !outcome.Satisfied {
		metrics.VerificationFailures.WithLabelValues(string(outcome.Detail.Reason)).Inc()
		log.Info(LogMsgVerificationFailed, "participant_id", participantID, "quest_id", questID, "reason", outcome.Detail.Reason)
		return nil, domain.NewVerificationError(outcome)
	}

	result, err := s.complete(ctx, quest, attempt.ID, participantID, proofReference(proof), nil)
	if err != nil {
		return nil, err
	}
	result.Verification = outcome
	return result, nil
}

func checkSubmittable(attempt *domain.QuestAttempt, quest *domain.Quest, now time.Time) error {
	switch attempt.EffectiveStatus(quest, now) {
	case domain.AttemptStatusInProgress:
		return nil
	case domain.AttemptStatusExpired:
		return domain.ErrQuestUnavailable
	default:
		return domain.ErrAttemptNotActive
	}
}

// proofReference returns the trimmed reference, or nil when none was sent
func proofReference(proof domain.SubmittedProof) *string {
	ref := strings.TrimSpace(proof.ProofReference)
	if ref == "" {
		return nil
	}
	return &ref
}

// submitForReview marks a manual quest attempt as awaiting review; it awards
// nothing. A proof reference is optional.
func (s *service) submitForReview(ctx context.Context, quest *domain.Quest, attempt *domain.QuestAttempt, proof domain.SubmittedProof, outcome domain.VerificationOutcome) (*domain.CompletionResult, error) {
	log := logger.FromContext(ctx)

	ref := proofReference(proof)
	now := s.now()

	tx, err := s.repo.BeginQuestTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.SubmitProof(ctx, attempt.ID, ref, now); err != nil {
		return nil, err
	}
	metadata := map[string]any{"quest_id": quest.ID}
	if ref != nil {
		metadata["proof_reference"] = *ref
	}
	if err := tx.InsertActivity(ctx, &domain.ActivityLog{
		ID:            uuid.New().String(),
		ParticipantID: attempt.ParticipantID,
		ActionType:    domain.ActionQuestSubmitted,
		Metadata:      metadata,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTxFailed, err)
	}

	s.publish(ctx, event.NewQuestSubmittedEvent(domain.QuestAttemptPayload{
		ParticipantID: attempt.ParticipantID,
		QuestID:       quest.ID,
		AttemptID:     attempt.ID,
	}))

	log.Info(LogMsgSubmissionPending, "participant_id", attempt.ParticipantID, "quest_id", quest.ID, "attempt_id", attempt.ID)
	return &domain.CompletionResult{
		Status:       domain.CompletionStatusPendingReview,
		AttemptID:    attempt.ID,
		Verification: outcome,
	}, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
