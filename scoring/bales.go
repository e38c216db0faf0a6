package scoring

import (
	"errors"
	"fmt"
	"strings"
)

type AssignmentType string

const (
	AssignmentSchool         AssignmentType = "school"
	AssignmentSchoolVsSchool AssignmentType = "school-vs-school"
	AssignmentMixed          AssignmentType = "mixed"
)

const (
	DivisionGirlsVarsity    = "GV"
	DivisionGirlsJV         = "GJV"
	DivisionBoysVarsity     = "BV"
	DivisionBoysJV          = "BJV"
	DivisionUnknown         = "Unknown"
	DivisionMixed           = "Mixed"
	DivisionCombinedJV      = "Combined JV"
	DivisionCombinedVarsity = "Combined Varsity"
)

const minArchersPerBale = 2

var (
	ErrTooManyArchers      = errors.New("too many archers for the available bales")
	ErrInvalidBaleCapacity = errors.New("invalid bale configuration")
)

var (
	fourTargets = []string{"A", "B", "C", "D"}
	sixTargets  = []string{"A", "B", "C", "D", "E", "F"}
)

type BaleArcher struct {
	ID             int    `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	School         string `json:"school" yaml:"school"`
	Gender         string `json:"gender" yaml:"gender"`
	Classification string `json:"classification" yaml:"classification"`
}

type BaleSlot struct {
	ArcherID int    `json:"archerId" yaml:"archer_id"`
	Name     string `json:"name" yaml:"name"`
	School   string `json:"school" yaml:"school"`
	Division string `json:"division" yaml:"division"`
	Target   string `json:"target" yaml:"target"`
}

type Bale struct {
	BaleNumber int        `json:"baleNumber" yaml:"bale"`
	Division   string     `json:"division" yaml:"division"`
	Archers    []BaleSlot `json:"archers" yaml:"archers"`
}

// DeriveDivision maps gender (M/F) and classification (V/JV) to a division code.
func DeriveDivision(gender string, classification string) string {
	switch {
	case gender == "F" && classification == "V":
		return DivisionGirlsVarsity
	case gender == "F" && classification == "JV":
		return DivisionGirlsJV
	case gender == "M" && classification == "V":
		return DivisionBoysVarsity
	case gender == "M" && classification == "JV":
		return DivisionBoysJV
	default:
		return DivisionUnknown
	}
}

// ValidateBaleCapacity checks a selection against the bale layout before bales
// are generated.
func ValidateBaleCapacity(selected int, numberOfBales int, maxArchersPerBale int) error {
	if numberOfBales < 1 {
		return fmt.Errorf("%w: number of bales must be at least 1", ErrInvalidBaleCapacity)
	}
	if maxArchersPerBale != 4 && maxArchersPerBale != 6 {
		return fmt.Errorf("%w: archers per bale must be 4 or 6, got %d", ErrInvalidBaleCapacity, maxArchersPerBale)
	}
	if capacity := numberOfBales * maxArchersPerBale; selected > capacity {
		return fmt.Errorf("%w: %d archers selected, %d bales hold %d", ErrTooManyArchers, selected, numberOfBales, capacity)
	}
	return nil
}

type divisionGroup struct {
	label   string
	archers []BaleArcher
}

// GenerateBales groups archers by division (or into one mixed group), merges
// groups that are too small to fill a bale, and packs each group into evenly
// sized bales. Bale numbers follow group order.
func GenerateBales(archers []BaleArcher, assignmentType AssignmentType, numberOfBales int, maxArchersPerBale int) []Bale {
	if maxArchersPerBale < 1 {
		return []Bale{}
	}
	groups := consolidate(groupArchers(archers, assignmentType))
	targets := fourTargets
	if maxArchersPerBale == 6 {
		targets = sixTargets
	}

	bales := make([]Bale, 0, numberOfBales)
	baleNumber := 1
	for _, group := range groups {
		size := len(group.archers)
		perBale := ceilDiv(size, ceilDiv(size, maxArchersPerBale))
		for start := 0; start < size; start += perBale {
			chunk := group.archers[start:min(start+perBale, size)]
			if len(chunk) < minArchersPerBale {
				continue
			}
			bale := Bale{BaleNumber: baleNumber, Division: group.label, Archers: make([]BaleSlot, 0, len(chunk))}
			for i, archer := range chunk {
				bale.Archers = append(bale.Archers, BaleSlot{
					ArcherID: archer.ID,
					Name:     archer.Name,
					School:   archer.School,
					Division: DeriveDivision(archer.Gender, archer.Classification),
					Target:   targets[i%len(targets)],
				})
			}
			bales = append(bales, bale)
			baleNumber++
		}
	}
	return bales
}

func groupArchers(archers []BaleArcher, assignmentType AssignmentType) []*divisionGroup {
	if assignmentType == AssignmentMixed {
		if len(archers) == 0 {
			return nil
		}
		return []*divisionGroup{{label: DivisionMixed, archers: append([]BaleArcher(nil), archers...)}}
	}
	groups := make([]*divisionGroup, 0)
	index := make(map[string]*divisionGroup)
	for _, archer := range archers {
		division := DeriveDivision(archer.Gender, archer.Classification)
		group, ok := index[division]
		if !ok {
			group = &divisionGroup{label: division}
			index[division] = group
			groups = append(groups, group)
		}
		group.archers = append(group.archers, archer)
	}
	return groups
}

// consolidate keeps groups that can fill a bale and merges single archers into
// Combined JV or Combined Varsity. Merged groups that are still too small are
// dropped.
func consolidate(groups []*divisionGroup) []*divisionGroup {
	result := make([]*divisionGroup, 0, len(groups))
	combinedJV := &divisionGroup{label: DivisionCombinedJV}
	combinedVarsity := &divisionGroup{label: DivisionCombinedVarsity}
	for _, group := range groups {
		switch {
		case len(group.archers) >= minArchersPerBale:
			result = append(result, group)
		case strings.Contains(group.label, "JV"):
			combinedJV.archers = append(combinedJV.archers, group.archers...)
		case strings.Contains(group.label, "V"):
			combinedVarsity.archers = append(combinedVarsity.archers, group.archers...)
		}
	}
	for _, merged := range []*divisionGroup{combinedJV, combinedVarsity} {
		if len(merged.archers) >= minArchersPerBale {
			result = append(result, merged)
		}
	}
	return result
}

func ceilDiv(a int, b int) int {
	return (a + b - 1) / b
}
