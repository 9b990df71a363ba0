package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product the user intends to buy. Price, name and image
// are denormalized snapshots captured at add-to-cart time; later catalogue
// changes do not affect them.
type CartLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	AddedAt   time.Time       `json:"addedAt"`
}

// LineTotal returns unit price times quantity rounded to currency precision.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Cart holds a user's pending purchases.
type Cart struct {
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return c == nil || len(c.Lines) == 0
}

// Total returns the sum of all line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
