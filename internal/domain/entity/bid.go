package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid — один принятый расчёт CPC. Запись пишется один раз и не обновляется,
// AdjustedCPC считается при создании.
type Bid struct {
	ID           int64
	ProductID    int64
	CurrentCPC   decimal.Decimal
	TargetROAS   decimal.Decimal
	AdjustedCPC  decimal.Decimal
	CalculatedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
