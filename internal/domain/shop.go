package domain

// ShopCategory groups cosmetic and boost items
type ShopCategory string

const (
	ShopCategoryAvatar ShopCategory = "avatar"
	ShopCategoryFrame  ShopCategory = "frame"
	ShopCategoryBadge  ShopCategory = "badge"
	ShopCategoryBoost  ShopCategory = "boost"
)

// ShopItem is something gold can buy
type ShopItem struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Price       int64        `json:"price" yaml:"price"`
	Category    ShopCategory `json:"category" yaml:"category"`
}

// PurchaseResult is returned after a successful debit
type PurchaseResult struct {
	Item          ShopItem `json:"item"`
	RemainingGold int64    `json:"remaining_gold"`
}
