package money

// Price is a monetary amount in minor currency units. The zero value means
// "no charge"; an absent price is always represented as zero, never as a
// pointer.
type Price int

// Add returns the sum of two prices.
func (p Price) Add(other Price) Price {
	return p + other
}

// Multiply returns the price scaled by a quantity.
func (p Price) Multiply(multiplier int) Price {
	return p * Price(multiplier)
}

func (p Price) Int() int {
	return int(p)
}
