package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "empty", input: nil, expected: []string{}},
		{name: "only blanks", input: []string{"", "  "}, expected: []string{}},
		{name: "trims and upper-cases", input: []string{" usd", "eur "}, expected: []string{"USD", "EUR"}},
		{name: "case-insensitive duplicates keep first", input: []string{"gbp", "EUR", "GBP", "eur"}, expected: []string{"GBP", "EUR"}},
		{name: "drops sentinel", input: []string{"All", "USD"}, expected: []string{"USD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeList(tt.input))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("USD"))
	assert.True(t, Valid("eur"))
	assert.False(t, Valid("US"))
	assert.False(t, Valid("USDT"))
	assert.False(t, Valid("U$D"))
	assert.False(t, Valid(""))
}

func TestComplement_OrderIndependent(t *testing.T) {
	universe := []string{"USD", "EUR", "GBP", "JPY"}

	assert.Equal(t, []string{"GBP", "JPY"}, Complement(universe, []string{"USD", "EUR"}))
	assert.Equal(t, []string{"GBP", "JPY"}, Complement(universe, []string{"EUR", "USD"}))
	assert.Equal(t, []string{"GBP", "JPY"}, Complement(universe, []string{"eur", " usd"}))
	assert.Empty(t, Complement(universe, universe))
}

func TestNewCandidates(t *testing.T) {
	c := NewCandidates([]string{"USD", "EUR", "GBP", "JPY"}, []string{"USD", "EUR"})

	assert.Equal(t, []string{"GBP", "JPY"}, c.Add)
	assert.Equal(t, []string{"USD", "EUR"}, c.Remove)
	assert.Equal(t, []string{All, "USD", "EUR"}, c.Display)
	assert.NotContains(t, c.Remove, All)
}

func TestContainsAndIsAll(t *testing.T) {
	assert.True(t, Contains([]string{"USD", "EUR"}, "eur"))
	assert.False(t, Contains([]string{"USD"}, "GBP"))
	assert.True(t, IsAll("all"))
	assert.True(t, IsAll(" ALL "))
	assert.False(t, IsAll("USD"))
}
