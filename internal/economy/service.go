package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/logger"
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// ShopCatalog provides the purchasable items
type ShopCatalog interface {
	ShopItem(id string) (domain.ShopItem, bool)
	ShopItems() []domain.ShopItem
}

// Service defines the interface for shop operations
type Service interface {
	Catalog(ctx context.Context) []domain.ShopItem
	// Purchase debits the item price atomically. The balance never goes negative.
	Purchase(ctx context.Context, participantID, itemID string) (*domain.PurchaseResult, error)
}

type service struct {
	repo      repository.Economy
	catalog   ShopCatalog
	publisher event.Publisher
	now       func() time.Time
}

// NewService creates a new shop service. publisher may be nil.
// Cached stats are dropped by subscribers of the purchase event.
func NewService(repo repository.Economy, catalog ShopCatalog, publisher event.Publisher) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) Catalog(_ context.Context) []domain.ShopItem {
	return s.catalog.ShopItems()
}

func (s *service) Purchase(ctx context.Context, participantID, itemID string) (*domain.PurchaseResult, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgPurchaseCalled, "participant_id", participantID, "item_id", itemID)

	item, ok := s.catalog.ShopItem(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrShopItemNotFound, itemID)
	}

	tx, err := s.repo.BeginEconomyTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	remaining, err := tx.DebitGold(ctx, participantID, item.Price)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			log.Info(LogMsgPurchaseRejected, "participant_id", participantID, "item_id", itemID, "price", item.Price, "balance", remaining)
			return nil, fmt.Errorf("%w: %s costs %d, balance is %d", domain.ErrInsufficientFunds, item.Name, item.Price, remaining)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf(ErrMsgDebitFailed, err)
	}

	now := s.now()
	if err := tx.InsertActivity(ctx, &domain.ActivityLog{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		ActionType:    domain.ActionShopPurchase,
		Metadata: map[string]any{
			"item_id":   item.ID,
			"item_name": item.Name,
			"price":     item.Price,
		},
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf(ErrMsgJournalFailed, err)
	}
	if err := tx.InsertNotification(ctx, &domain.Notification{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		Title:         NotificationPurchaseTitle,
		Message:       fmt.Sprintf(NotificationPurchaseFormat, item.Name, item.Price),
		Type:          domain.NotificationSystem,
		CreatedAt:     now,
	}); err != nil {
		return nil, fmt.Errorf(ErrMsgJournalFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewShopPurchaseEvent(domain.ShopPurchasePayload{
			ParticipantID: participantID,
			ItemID:        item.ID,
			Price:         item.Price,
		}))
	}

	log.Info(LogMsgItemPurchased, "participant_id", participantID, "item_id", item.ID, "price", item.Price, "remaining", remaining)
	return &domain.PurchaseResult{Item: item, RemainingGold: remaining}, nil
}
