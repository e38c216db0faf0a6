package scoring

import (
	"errors"
	"fmt"
	"strings"
)

type ArrowToken string

const (
	X     ArrowToken = "X"
	Ten   ArrowToken = "10"
	Nine  ArrowToken = "9"
	Eight ArrowToken = "8"
	Seven ArrowToken = "7"
	Six   ArrowToken = "6"
	Five  ArrowToken = "5"
	Four  ArrowToken = "4"
	Three ArrowToken = "3"
	Two   ArrowToken = "2"
	One   ArrowToken = "1"
	M     ArrowToken = "M"
	Empty ArrowToken = ""
)

var ErrInvalidArrowToken = errors.New("invalid arrow token")

var arrowValues = map[ArrowToken]int{
	X:     10,
	Ten:   10,
	Nine:  9,
	Eight: 8,
	Seven: 7,
	Six:   6,
	Five:  5,
	Four:  4,
	Three: 3,
	Two:   2,
	One:   1,
	M:     0,
	"0":   0,
	Empty: 0,
}

// ParseScoreValue returns the points for a single arrow. Tokens outside the
// scoring set count as 0.
func ParseScoreValue(token string) int {
	return arrowValues[ArrowToken(token)]
}

func (a ArrowToken) Value() int {
	return arrowValues[a]
}

func (a ArrowToken) IsShot() bool {
	return a != Empty
}

func (a ArrowToken) IsTen() bool {
	return a == X || a == Ten
}

// ParseArrowToken validates raw input from a client. "0" is stored as a miss.
func ParseArrowToken(raw string) (ArrowToken, error) {
	token := ArrowToken(strings.ToUpper(strings.TrimSpace(raw)))
	if token == "0" {
		return M, nil
	}
	if _, ok := arrowValues[token]; !ok {
		return Empty, fmt.Errorf("%w: %q", ErrInvalidArrowToken, raw)
	}
	return token, nil
}
