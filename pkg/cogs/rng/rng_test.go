package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiceRoll(t *testing.T) {
	tests := []struct {
		spec  string
		want  DiceRoll
		valid bool
	}{
		{"2d20", DiceRoll{Count: 2, Sides: 20}, true},
		{"1D6", DiceRoll{Count: 1, Sides: 6}, true},
		{"d20", DiceRoll{Count: 1, Sides: 20}, true},
		{"25d1000", DiceRoll{Count: 25, Sides: 1000}, true},
		{"26d6", DiceRoll{}, false},
		{"0d6", DiceRoll{}, false},
		{"2d1", DiceRoll{}, false},
		{"2d1001", DiceRoll{}, false},
		{"2x6", DiceRoll{}, false},
		{"banana", DiceRoll{}, false},
		{"", DiceRoll{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseDiceRoll(tt.spec)
			if !tt.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiceRollBounds(t *testing.T) {
	dice := DiceRoll{Count: 10, Sides: 6}
	rolls, total := dice.roll()

	require.Len(t, rolls, 10)
	sum := 0
	for _, n := range rolls {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 6)
		sum += n
	}
	assert.Equal(t, sum, total)
}

func TestDiceRollString(t *testing.T) {
	assert.Equal(t, "3d8", DiceRoll{Count: 3, Sides: 8}.String())
}

func TestSplitChoices(t *testing.T) {
	assert.Equal(t, []string{"tea", "coffee"}, SplitChoices("tea or coffee"))
	assert.Equal(t, []string{"a b", "c"}, SplitChoices("  a b or c "))
	assert.Nil(t, SplitChoices(""))
	assert.Equal(t, []string{"just one"}, SplitChoices("just one"))
}
