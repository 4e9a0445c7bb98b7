package persistence

import (
	"time"

	"github.com/shopspring/decimal"

	"cpc_bidder/internal/domain/entity"
)

// bidSchema — внутренняя структура для маппинга строки product_bids.
type bidSchema struct {
	ID           int64           `db:"id"`
	ProductID    int64           `db:"product_id"`
	CurrentCPC   decimal.Decimal `db:"current_cpc"`
	TargetROAS   decimal.Decimal `db:"target_roas"`
	AdjustedCPC  decimal.Decimal `db:"adjusted_cpc"`
	CalculatedAt time.Time       `db:"calculated_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (s bidSchema) toDomain() entity.Bid {
	return entity.Bid{
		ID:           s.ID,
		ProductID:    s.ProductID,
		CurrentCPC:   s.CurrentCPC,
		TargetROAS:   s.TargetROAS,
		AdjustedCPC:  s.AdjustedCPC,
		CalculatedAt: s.CalculatedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
