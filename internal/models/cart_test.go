package models_test

import (
	"testing"

	"drogaria/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCart_AddAndCount(t *testing.T) {
	cart := models.Cart{}
	assert.True(t, cart.IsEmpty())

	cart.Add(1)
	cart.Add(1)
	cart.Add(2)

	assert.False(t, cart.IsEmpty())
	assert.Equal(t, 3, cart.Count())
	assert.Equal(t, 2, cart[1])
	assert.Equal(t, 1, cart[2])
}

func TestCart_DecrementRemovesLineAtZero(t *testing.T) {
	cart := models.Cart{1: 2, 2: 1}

	cart.Decrement(1)
	assert.Equal(t, 1, cart[1])

	cart.Decrement(2)
	_, exists := cart[2]
	assert.False(t, exists)

	// decrementing a missing line is a no-op
	cart.Decrement(99)
	assert.Equal(t, 1, cart.Count())
}

func TestCart_Remove(t *testing.T) {
	cart := models.Cart{1: 5}
	cart.Remove(1)
	assert.True(t, cart.IsEmpty())
}
