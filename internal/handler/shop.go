package handler

import (
	"net/http"

	"github.com/osse101/CampusQuest_Go/internal/economy"
	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// PurchaseRequest names the shop item to buy
type PurchaseRequest struct {
	ItemID string `json:"item_id" validate:"required,max=64"`
}

// HandleShopCatalog returns the shop ordered by category then price
// @Summary Shop catalog
// @Tags shop
// @Produce json
// @Success 200 {array} domain.ShopItem
// @Router /shop/items [get]
func HandleShopCatalog(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.Catalog(r.Context()))
	}
}

// HandlePurchase buys an item with the caller's gold
// @Summary Purchase item
// @Tags shop
// @Accept json
// @Produce json
// @Param X-Participant-ID header string true "Participant id"
// @Param request body PurchaseRequest true "Item to buy"
// @Success 200 {object} domain.PurchaseResult
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shop/purchase [post]
func HandlePurchase(svc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participantID, ok := requireParticipant(w, r)
		if !ok {
			return
		}

		var req PurchaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "purchase"); err != nil {
			return
		}

		result, err := svc.Purchase(r.Context(), participantID, req.ItemID)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgPurchaseHandled,
			"participant_id", participantID, "item_id", req.ItemID, "remaining_gold", result.RemainingGold)
		respondJSON(w, http.StatusOK, result)
	}
}
