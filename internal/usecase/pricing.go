package usecase

import (
	"hotel-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

// stayPrice sums the stored nightly price of every night times the units.
func stayPrice(nights []*entity.Inventory, units int) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range nights {
		total = total.Add(inv.Price.Mul(decimal.NewFromInt(int64(units))))
	}
	return total.Round(2)
}
