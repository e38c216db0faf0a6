package scoring

import (
	"fmt"
	"math"
	"strconv"
)

const (
	RoundTypeOAS  = "OAS"
	EndsPerRound  = 12
	ArrowsPerEnd  = 3
	MaxRoundScore = EndsPerRound * ArrowsPerEnd * 10
)

type End struct {
	EndNumber int                      `json:"endNumber" yaml:"end"`
	Arrows    [ArrowsPerEnd]ArrowToken `json:"arrows" yaml:"arrows"`
}

type Totals struct {
	TotalScore  int     `json:"totalScore"`
	TotalTens   int     `json:"totalTens"`
	TotalXs     int     `json:"totalXs"`
	TotalArrows int     `json:"totalArrows"`
	Average     float64 `json:"average"`
}

// EndSummary is the per-end shape stored with a verified scorecard.
type EndSummary struct {
	EndNumber    int        `json:"endNumber"`
	Arrow1       ArrowToken `json:"arrow1"`
	Arrow2       ArrowToken `json:"arrow2"`
	Arrow3       ArrowToken `json:"arrow3"`
	Tens         int        `json:"tens"`
	Xs           int        `json:"xs"`
	EndTotal     int        `json:"endTotal"`
	RunningTotal int        `json:"runningTotal"`
	Average      string     `json:"average"`
}

func EndTotal(end End) int {
	total := 0
	for _, arrow := range end.Arrows {
		total += arrow.Value()
	}
	return total
}

// EndTensAndXs counts tens and Xs in an end. An X is also a ten.
func EndTensAndXs(end End) (tens int, xs int) {
	for _, arrow := range end.Arrows {
		if arrow.IsTen() {
			tens++
		}
		if arrow == X {
			xs++
		}
	}
	return tens, xs
}

func (e End) ShotCount() int {
	count := 0
	for _, arrow := range e.Arrows {
		if arrow.IsShot() {
			count++
		}
	}
	return count
}

func (e End) IsFull() bool {
	return e.ShotCount() == ArrowsPerEnd
}

// RunningTotal sums the ends numbered 1..throughEnd. Ends that are absent count as 0.
func RunningTotal(ends []End, throughEnd int) int {
	total := 0
	for _, end := range ends {
		if end.EndNumber >= 1 && end.EndNumber <= throughEnd {
			total += EndTotal(end)
		}
	}
	return total
}

// RunningAverage divides by the arrow capacity of the ends so far (3 per end),
// not by the arrows actually entered.
func RunningAverage(ends []End, throughEnd int) string {
	total := RunningTotal(ends, throughEnd)
	if total <= 0 || throughEnd <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(total)/float64(throughEnd*ArrowsPerEnd))
}

// FinalTotals averages over the arrows actually shot, unlike RunningAverage.
func FinalTotals(ends []End) Totals {
	totals := Totals{}
	for _, end := range ends {
		if end.EndNumber < 1 || end.EndNumber > EndsPerRound {
			continue
		}
		tens, xs := EndTensAndXs(end)
		totals.TotalScore += EndTotal(end)
		totals.TotalTens += tens
		totals.TotalXs += xs
		totals.TotalArrows += end.ShotCount()
	}
	if totals.TotalArrows > 0 {
		totals.Average = roundTo(float64(totals.TotalScore)/float64(totals.TotalArrows), 1)
	}
	return totals
}

// IsComplete reports whether every end of the round has all of its arrows.
func IsComplete(ends []End) bool {
	full := make(map[int]bool, EndsPerRound)
	for _, end := range ends {
		if end.IsFull() {
			full[end.EndNumber] = true
		}
	}
	for n := 1; n <= EndsPerRound; n++ {
		if !full[n] {
			return false
		}
	}
	return true
}

func EmptyEnds() []End {
	ends := make([]End, EndsPerRound)
	for i := range ends {
		ends[i] = End{EndNumber: i + 1}
	}
	return ends
}

func EndSummaries(ends []End) map[string]EndSummary {
	summaries := make(map[string]EndSummary, len(ends))
	for _, end := range ends {
		tens, xs := EndTensAndXs(end)
		summaries["end"+strconv.Itoa(end.EndNumber)] = EndSummary{
			EndNumber:    end.EndNumber,
			Arrow1:       end.Arrows[0],
			Arrow2:       end.Arrows[1],
			Arrow3:       end.Arrows[2],
			Tens:         tens,
			Xs:           xs,
			EndTotal:     EndTotal(end),
			RunningTotal: RunningTotal(ends, end.EndNumber),
			Average:      RunningAverage(ends, end.EndNumber),
		}
	}
	return summaries
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
