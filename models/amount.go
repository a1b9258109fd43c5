package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// MaxAmountDigits and AmountPlaces describe the fixed-point column amounts are
// stored in: 12 integer digits and 8 decimal places.
const (
	MaxAmountDigits = 12
	AmountPlaces    = 8
)

// Amount is a money value stored without loss on every driver. SQLite gives
// DECIMAL columns numeric affinity and turns the value into a REAL, so there
// it is kept as the decimal string in a TEXT column.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (Amount) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "decimal(20,8)"
}
