package quest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/repository"
	"github.com/osse101/CampusQuest_Go/internal/verification"
)

func (s *service) Review(ctx context.Context, reviewerID, attemptID string, approve bool, note string) (*domain.ReviewResult, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgReviewCalled, "reviewer_id", reviewerID, "attempt_id", attemptID, "approve", approve)

	reviewer, err := s.repo.GetProfile(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewer.Role.CanAuthorQuests() {
		return nil, fmt.Errorf("%w: role %s cannot review submissions", domain.ErrForbidden, reviewer.Role)
	}

	attempt, err := s.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.ParticipantID == reviewerID {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, ErrMsgSelfReview)
	}
	quest, err := s.repo.GetQuest(ctx, attempt.QuestID)
	if err != nil {
		return nil, err
	}
	if !verification.RequiresReview(quest.Requirement) {
		return nil, domain.ErrReviewNotApplicable
	}
	if attempt.Status != domain.AttemptStatusInProgress {
		return nil, domain.ErrAttemptNotActive
	}
	if !attempt.AwaitingReview() {
		return nil, domain.ErrNothingToReview
	}

	by := &approval{reviewerID: reviewerID, note: note}
	if approve {
		completion, err := s.complete(ctx, quest, attempt.ID, attempt.ParticipantID, nil, by)
		if err != nil {
			return nil, err
		}
		return &domain.ReviewResult{AttemptID: attempt.ID, Approved: true, Completion: completion}, nil
	}

	if err := s.reject(ctx, quest, attempt, by); err != nil {
		return nil, err
	}
	return &domain.ReviewResult{AttemptID: attempt.ID, Approved: false}, nil
}

// reject clears the proof so the participant can resubmit. Nothing is awarded.
func (s *service) reject(ctx context.Context, quest *domain.Quest, attempt *domain.QuestAttempt, by *approval) error {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(concurrency.ParticipantKey(attempt.ParticipantID))
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.repo.BeginQuestTx(ctx)
	if err != nil {
		return fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	current, err := tx.GetAttemptForUpdate(ctx, attempt.ID)
	if err != nil {
		return err
	}
	if !current.AwaitingReview() {
		return domain.ErrNothingToReview
	}

	now := s.now()
	if err := tx.RejectSubmission(ctx, attempt.ID, by.reviewerID, now); err != nil {
		return err
	}
	if err := tx.InsertActivity(ctx, reviewActivity(attempt.ParticipantID, quest.ID, by, false, now)); err != nil {
		return fmt.Errorf("failed to log review: %w", err)
	}

	message := fmt.Sprintf(NotificationRejectedFormat, quest.Title)
	if by.note != "" {
		message += fmt.Sprintf(NotificationRejectedNote, by.note)
	}
	if err := tx.InsertNotification(ctx, &domain.Notification{
		ID:            uuid.New().String(),
		ParticipantID: attempt.ParticipantID,
		Title:         NotificationRejectedTitle,
		Message:       message,
		Type:          domain.NotificationQuest,
		CreatedAt:     now,
	}); err != nil {
		return fmt.Errorf("failed to notify rejection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf(ErrMsgCommitTxFailed, err)
	}

	s.publish(ctx, event.NewQuestRejectedEvent(domain.QuestAttemptPayload{
		ParticipantID: attempt.ParticipantID,
		QuestID:       quest.ID,
		AttemptID:     attempt.ID,
		ReviewerID:    by.reviewerID,
	}))

	log.Info(LogMsgSubmissionRejected, "attempt_id", attempt.ID, "reviewer_id", by.reviewerID)
	return nil
}

func (s *service) EvidenceReference(ctx context.Context, viewerID, attemptID string) (string, error) {
	attempt, err := s.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return "", err
	}
	if attempt.ParticipantID != viewerID {
		viewer, err := s.repo.GetProfile(ctx, viewerID)
		if err != nil {
			return "", err
		}
		if !viewer.Role.CanAuthorQuests() {
			return "", fmt.Errorf("%w: role %s cannot view other participants' evidence", domain.ErrForbidden, viewer.Role)
		}
	}
	if attempt.ProofReference == nil || *attempt.ProofReference == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, ErrMsgNoEvidence)
	}
	return *attempt.ProofReference, nil
}
