package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, c *Calculator, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.Press(k), "key %q", k)
	}
}

func TestCalculator_Arithmetic(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		display string
		history string
	}{
		{"add", []string{"1", "2", "+", "3", "="}, "15", "12 + 3 = 15"},
		{"subtract", []string{"5", "-", "8", "="}, "-3", "5 - 8 = -3"},
		{"multiply", []string{"2", ".", "5", "x", "4", "="}, "10", "2.5 × 4 = 10"},
		{"divide", []string{"1", "/", "3", "="}, "0.33333333", "1 ÷ 3 = 0.33333333"},
		{"chained", []string{"2", "+", "3", "*", "4", "="}, "20", "5 × 4 = 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(0)
			press(t, c, tt.keys...)
			assert.Equal(t, tt.display, c.Display)
			require.NotEmpty(t, c.History)
			assert.Equal(t, tt.history, c.History[0])
		})
	}
}

func TestCalculator_Input(t *testing.T) {
	c := NewCalculator(0)
	press(t, c, "0", "0", "7", ".", "5", ".", "1")
	assert.Equal(t, "7.51", c.Display)

	press(t, c, "C")
	assert.Equal(t, "0", c.Display)

	press(t, c, "+", ".", "5")
	assert.Equal(t, "0.5", c.Display)
	assert.Equal(t, "0 +", c.Pending())

	assert.ErrorIs(t, c.Press("%"), ErrUnknownKey)
}

func TestCalculator_DivideByZero(t *testing.T) {
	c := NewCalculator(0)
	press(t, c, "9", "÷", "0")

	assert.ErrorIs(t, c.Press("="), ErrDivideByZero)
	assert.Equal(t, "0", c.Display)
	assert.Empty(t, c.Pending())
	assert.Empty(t, c.History)
}

func TestCalculator_HistoryLimit(t *testing.T) {
	c := NewCalculator(3)
	for i := 1; i <= 5; i++ {
		press(t, c, "AC", fmt.Sprint(i), "+", "1", "=")
	}

	assert.Equal(t, []string{"5 + 1 = 6", "4 + 1 = 5", "3 + 1 = 4"}, c.History)

	c.ClearHistory()
	assert.Empty(t, c.History)
}
