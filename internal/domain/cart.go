package domain

import "github.com/shopspring/decimal"

// CartLine is one chosen item in a session cart. Price is the snapshot taken
// when the item was added and is only used for display.
type CartLine struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Image    string   `json:"image,omitempty"`
	Category Category `json:"category,omitempty"`
	Quantity int      `json:"quantity"`
}

// Cart is the ordered list of lines owned by a single session
type Cart []CartLine

// Find returns the index of the line for itemID, or -1
func (c Cart) Find(itemID int64) int {
	for i, line := range c {
		if line.ID == itemID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line or appends a new one with quantity 1
func (c Cart) Add(line CartLine) Cart {
	if i := c.Find(line.ID); i >= 0 {
		c[i].Quantity++
		return c
	}
	line.Quantity = 1
	return append(c, line)
}

// Remove drops the line for itemID and reports whether it was present
func (c Cart) Remove(itemID int64) (Cart, bool) {
	i := c.Find(itemID)
	if i < 0 {
		return c, false
	}
	return append(c[:i:i], c[i+1:]...), true
}

// ChangeQuantity adjusts a line by delta, removing it once the quantity drops to zero or below
func (c Cart) ChangeQuantity(itemID int64, delta int) (Cart, bool) {
	i := c.Find(itemID)
	if i < 0 {
		return c, false
	}
	c[i].Quantity += delta
	if c[i].Quantity <= 0 {
		return c.Remove(itemID)
	}
	return c, true
}

// Total is the display total using the snapshotted prices
func (c Cart) Total() float64 {
	sum := decimal.Zero
	for _, line := range c {
		sum = sum.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return sum.Round(2).InexactFloat64()
}
