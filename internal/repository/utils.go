package repository

import (
	"context"
	"errors"

	"github.com/osse101/CampusQuest_Go/internal/domain"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// SafeRollback is meant to be deferred right after a transaction begins.
// Once the transaction has committed the rollback is a no-op.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || errors.Is(err, domain.ErrTxClosed) {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
