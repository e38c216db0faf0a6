package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScoreValue(t *testing.T) {
	expected := map[string]int{
		"X": 10, "10": 10, "9": 9, "8": 8, "7": 7, "6": 6, "5": 5,
		"4": 4, "3": 3, "2": 2, "1": 1, "M": 0, "0": 0, "": 0,
	}
	for token, value := range expected {
		assert.Equal(t, value, ParseScoreValue(token), "token %q", token)
	}
	assert.Equal(t, ParseScoreValue("X"), ParseScoreValue("10"))
}

func TestParseScoreValueUnknownTokensAreZero(t *testing.T) {
	for _, token := range []string{"11", "x ", "ten", "-1", "A"} {
		assert.Equal(t, 0, ParseScoreValue(token), "token %q", token)
	}
}

func TestParseArrowToken(t *testing.T) {
	token, err := ParseArrowToken(" x ")
	assert.NoError(t, err)
	assert.Equal(t, X, token)

	token, err = ParseArrowToken("m")
	assert.NoError(t, err)
	assert.Equal(t, M, token)

	token, err = ParseArrowToken("0")
	assert.NoError(t, err)
	assert.Equal(t, M, token)

	token, err = ParseArrowToken("")
	assert.NoError(t, err)
	assert.Equal(t, Empty, token)

	_, err = ParseArrowToken("11")
	assert.ErrorIs(t, err, ErrInvalidArrowToken)
}
