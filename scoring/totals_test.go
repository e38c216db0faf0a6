package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func end(number int, a, b, c ArrowToken) End {
	return End{EndNumber: number, Arrows: [3]ArrowToken{a, b, c}}
}

func fullRound(token ArrowToken) []End {
	ends := make([]End, EndsPerRound)
	for i := range ends {
		ends[i] = end(i+1, token, token, token)
	}
	return ends
}

func TestEndTotalAndTensAndXs(t *testing.T) {
	e := end(1, X, Nine, M)
	assert.Equal(t, 19, EndTotal(e))
	tens, xs := EndTensAndXs(e)
	assert.Equal(t, 1, tens)
	assert.Equal(t, 1, xs)

	tens, xs = EndTensAndXs(end(2, Ten, X, X))
	assert.Equal(t, 3, tens)
	assert.Equal(t, 2, xs)
}

func TestEndTotalWithMissingArrows(t *testing.T) {
	assert.Equal(t, 17, EndTotal(end(1, Eight, Nine, Empty)))
	assert.Equal(t, 0, EndTotal(End{EndNumber: 1}))
}

func TestRunningTotalAndAverage(t *testing.T) {
	ends := []End{
		end(1, Ten, Ten, Ten),
		end(2, Nine, Nine, Nine),
	}
	assert.Equal(t, 30, RunningTotal(ends, 1))
	assert.Equal(t, 57, RunningTotal(ends, 2))
	assert.Equal(t, "9.5", RunningAverage(ends, 2))
	// ends without data still count
	assert.Equal(t, 57, RunningTotal(ends, 12))
	assert.Equal(t, "0.0", RunningAverage([]End{end(1, M, M, M)}, 1))
}

func TestRunningAverageDividesByCapacity(t *testing.T) {
	ends := []End{end(1, Nine, Nine, Empty)}
	// 18 points over 3 slots, not over the 2 arrows shot
	assert.Equal(t, "6.0", RunningAverage(ends, 1))
	assert.Equal(t, 9.0, FinalTotals(ends).Average)
}

func TestFinalTotals(t *testing.T) {
	ends := EmptyEnds()
	ends[0] = end(1, X, Ten, Nine)
	ends[1] = end(2, X, M, Empty)

	totals := FinalTotals(ends)
	assert.Equal(t, 39, totals.TotalScore)
	assert.Equal(t, 3, totals.TotalTens)
	assert.Equal(t, 2, totals.TotalXs)
	assert.Equal(t, 5, totals.TotalArrows)
	assert.Equal(t, 7.8, totals.Average)
	assert.Equal(t, totals, FinalTotals(ends))
}

func TestFinalTotalsEmpty(t *testing.T) {
	assert.Equal(t, Totals{}, FinalTotals(EmptyEnds()))
}

func TestFinalTotalsPerfectRound(t *testing.T) {
	totals := FinalTotals(fullRound(X))
	assert.Equal(t, MaxRoundScore, totals.TotalScore)
	assert.Equal(t, 36, totals.TotalXs)
	assert.Equal(t, 36, totals.TotalTens)
	assert.Equal(t, 10.0, totals.Average)
}

func TestIsComplete(t *testing.T) {
	ends := fullRound(Eight)
	ends[11].Arrows[2] = Empty
	assert.False(t, IsComplete(ends))

	ends[11].Arrows[2] = M
	assert.True(t, IsComplete(ends))

	assert.False(t, IsComplete(ends[:11]))
}

func TestEndSummaries(t *testing.T) {
	ends := []End{
		end(1, Ten, Ten, Ten),
		end(2, Nine, Nine, Nine),
	}
	summaries := EndSummaries(ends)
	assert.Len(t, summaries, 2)
	second := summaries["end2"]
	assert.Equal(t, 2, second.EndNumber)
	assert.Equal(t, Nine, second.Arrow1)
	assert.Equal(t, 27, second.EndTotal)
	assert.Equal(t, 57, second.RunningTotal)
	assert.Equal(t, "9.5", second.Average)
	assert.Equal(t, 3, summaries["end1"].Tens)
}
