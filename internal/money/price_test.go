package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

func TestPrice_Add(t *testing.T) {
	tests := []struct {
		name     string
		a        money.Price
		b        money.Price
		expected money.Price
	}{
		{name: "both_positive", a: 1000, b: 500, expected: 1500},
		{name: "zero_identity", a: 1000, b: 0, expected: 1000},
		{name: "both_zero", a: 0, b: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Add(tt.b))
		})
	}
}

func TestPrice_Multiply(t *testing.T) {
	tests := []struct {
		name       string
		price      money.Price
		multiplier int
		expected   money.Price
	}{
		{name: "simple", price: 1200, multiplier: 3, expected: 3600},
		{name: "by_one", price: 1200, multiplier: 1, expected: 1200},
		{name: "by_zero", price: 1200, multiplier: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.price.Multiply(tt.multiplier))
		})
	}
}

func TestPrice_Immutability(t *testing.T) {
	original := money.Price(100)

	_ = original.Add(50)
	_ = original.Multiply(4)

	assert.Equal(t, money.Price(100), original)
}
