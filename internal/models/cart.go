package models

// Cart maps a product sequential ID to a quantity. It lives in the browser
// session only: never persisted, recreated empty when absent, cleared when
// an order is created. Totals are derived from live catalog prices at render
// time, not snapshotted here.
type Cart map[uint64]int

// Add puts one more unit of the product in the cart.
func (c Cart) Add(productID uint64) {
	c[productID]++
}

// Decrement removes one unit, dropping the line when it reaches zero.
func (c Cart) Decrement(productID uint64) {
	if c[productID] > 1 {
		c[productID]--
		return
	}
	delete(c, productID)
}

// Remove drops the product line entirely.
func (c Cart) Remove(productID uint64) {
	delete(c, productID)
}

// Count returns the total number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		n += qty
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
