package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func roster(count int, gender string, classification string, firstID int) []BaleArcher {
	archers := make([]BaleArcher, count)
	for i := range archers {
		archers[i] = BaleArcher{
			ID:             firstID + i,
			Name:           fmt.Sprintf("Archer %d", firstID+i),
			Gender:         gender,
			Classification: classification,
		}
	}
	return archers
}

func baleSizes(bales []Bale) []int {
	sizes := make([]int, len(bales))
	for i, bale := range bales {
		sizes[i] = len(bale.Archers)
	}
	return sizes
}

func TestDeriveDivision(t *testing.T) {
	assert.Equal(t, "GV", DeriveDivision("F", "V"))
	assert.Equal(t, "GJV", DeriveDivision("F", "JV"))
	assert.Equal(t, "BV", DeriveDivision("M", "V"))
	assert.Equal(t, "BJV", DeriveDivision("M", "JV"))
	assert.Equal(t, "Unknown", DeriveDivision("M", "MS"))
	assert.Equal(t, "Unknown", DeriveDivision("", "V"))
}

func TestGenerateBalesEvensOutBaleSizes(t *testing.T) {
	bales := GenerateBales(roster(10, "M", "V", 1), AssignmentSchool, 3, 4)
	assert.Equal(t, []int{4, 4, 2}, baleSizes(bales))
	for i, bale := range bales {
		assert.Equal(t, i+1, bale.BaleNumber)
		assert.Equal(t, "BV", bale.Division)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, []string{
		bales[0].Archers[0].Target, bales[0].Archers[1].Target,
		bales[0].Archers[2].Target, bales[0].Archers[3].Target,
	})

	// 9 archers: ceil(9/ceil(9/4)) = 3 per bale rather than 4, 4, 1
	assert.Equal(t, []int{3, 3, 3}, baleSizes(GenerateBales(roster(9, "M", "V", 1), AssignmentSchool, 3, 4)))
}

func TestGenerateBalesDropsSingleArcherChunks(t *testing.T) {
	// 5 archers with a cap of 4 pack as 3 + 2; a cap of 2 packs as 2 + 2 + 1
	assert.Equal(t, []int{3, 2}, baleSizes(GenerateBales(roster(5, "F", "V", 1), AssignmentSchool, 2, 4)))
	bales := GenerateBales(roster(5, "F", "V", 1), AssignmentSchool, 3, 2)
	assert.Equal(t, []int{2, 2}, baleSizes(bales))
	assert.Equal(t, 4, bales[1].Archers[1].ArcherID)
}

func TestGenerateBalesSmallGroupsAreDroppedWhenStillTooSmall(t *testing.T) {
	archers := append(roster(1, "F", "V", 1), roster(1, "F", "JV", 2)...)
	archers = append(archers, roster(5, "M", "V", 3)...)

	bales := GenerateBales(archers, AssignmentSchool, 4, 4)
	assert.Equal(t, []int{3, 2}, baleSizes(bales))
	for _, bale := range bales {
		assert.Equal(t, "BV", bale.Division)
	}
}

func TestGenerateBalesCombinesSmallGroups(t *testing.T) {
	archers := roster(1, "F", "JV", 1)
	archers = append(archers, roster(4, "M", "V", 2)...)
	archers = append(archers, roster(1, "M", "JV", 6)...)
	archers = append(archers, roster(1, "F", "V", 7)...)
	archers = append(archers, roster(1, "M", "MS", 8)...)

	bales := GenerateBales(archers, AssignmentSchoolVsSchool, 4, 4)
	assert.Len(t, bales, 2)
	assert.Equal(t, "BV", bales[0].Division)
	assert.Equal(t, 1, bales[0].BaleNumber)
	assert.Equal(t, "Combined JV", bales[1].Division)
	assert.Equal(t, 2, bales[1].BaleNumber)
	assert.Equal(t, []int{1, 6}, []int{bales[1].Archers[0].ArcherID, bales[1].Archers[1].ArcherID})
	assert.Equal(t, "GJV", bales[1].Archers[0].Division)
	assert.Equal(t, "BJV", bales[1].Archers[1].Division)
}

func TestGenerateBalesCombinesLoneVarsityArchers(t *testing.T) {
	archers := roster(1, "F", "V", 1)
	archers = append(archers, roster(3, "M", "JV", 2)...)
	archers = append(archers, roster(1, "M", "V", 5)...)

	bales := GenerateBales(archers, AssignmentSchool, 2, 4)
	assert.Len(t, bales, 2)
	assert.Equal(t, "BJV", bales[0].Division)
	assert.Equal(t, []int{3}, baleSizes(bales[:1]))

	combined := bales[1]
	assert.Equal(t, "Combined Varsity", combined.Division)
	assert.Equal(t, 2, combined.BaleNumber)
	assert.Len(t, combined.Archers, 2)
	assert.Equal(t, 1, combined.Archers[0].ArcherID)
	assert.Equal(t, "GV", combined.Archers[0].Division)
	assert.Equal(t, "A", combined.Archers[0].Target)
	assert.Equal(t, 5, combined.Archers[1].ArcherID)
	assert.Equal(t, "BV", combined.Archers[1].Division)
	assert.Equal(t, "B", combined.Archers[1].Target)
}

func TestGenerateBalesNumbersFollowGroupOrder(t *testing.T) {
	archers := roster(2, "F", "JV", 1)
	archers = append(archers, roster(6, "M", "V", 3)...)
	archers = append(archers, roster(3, "F", "V", 9)...)

	bales := GenerateBales(archers, AssignmentSchool, 5, 4)
	divisions := make([]string, len(bales))
	for i, bale := range bales {
		divisions[i] = bale.Division
		assert.Equal(t, i+1, bale.BaleNumber)
	}
	assert.Equal(t, []string{"GJV", "BV", "BV", "GV"}, divisions)
	assert.Equal(t, []int{2, 3, 3, 3}, baleSizes(bales))
}

func TestGenerateBalesMixed(t *testing.T) {
	archers := append(roster(4, "M", "V", 1), roster(3, "F", "JV", 5)...)
	bales := GenerateBales(archers, AssignmentMixed, 2, 6)
	assert.Equal(t, []int{4, 3}, baleSizes(bales))
	assert.Equal(t, "Mixed", bales[0].Division)
	assert.Equal(t, "BV", bales[0].Archers[0].Division)

	bales = GenerateBales(roster(6, "F", "V", 1), AssignmentMixed, 1, 6)
	targets := make([]string, 0)
	for _, slot := range bales[0].Archers {
		targets = append(targets, slot.Target)
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, targets)

	assert.Empty(t, GenerateBales(roster(1, "F", "V", 1), AssignmentMixed, 1, 4))
	assert.Empty(t, GenerateBales(nil, AssignmentMixed, 1, 4))
}

func TestValidateBaleCapacity(t *testing.T) {
	assert.NoError(t, ValidateBaleCapacity(16, 4, 4))
	assert.NoError(t, ValidateBaleCapacity(24, 4, 6))
	assert.ErrorIs(t, ValidateBaleCapacity(17, 4, 4), ErrTooManyArchers)
	assert.ErrorIs(t, ValidateBaleCapacity(4, 0, 4), ErrInvalidBaleCapacity)
	assert.ErrorIs(t, ValidateBaleCapacity(4, 1, 5), ErrInvalidBaleCapacity)
}
