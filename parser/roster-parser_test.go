package parser

import (
	"strings"
	"testing"

	"archersedge/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRosterWithSplitNames(t *testing.T) {
	csv := "First Name,Last_Name,Gender,School,Class\n" +
		"Ava,Lee,female,North,Varsity\n" +
		" Ben , Ortiz ,M,North,jv\n" +
		",,F,North,V\n"

	entries, err := ParseRoster(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, RosterEntry{FirstName: "Ava", LastName: "Lee", Gender: "F", School: "North", Classification: "V"}, entries[0])
	assert.Equal(t, "Ben Ortiz", entries[1].FullName())
	assert.Equal(t, "JV", entries[1].Classification)
}

func TestParseRosterWithFullNameColumn(t *testing.T) {
	csv := "name,gender,school,classification\n" +
		"Cara Jo Smith,girl,South,JV\n" +
		"Dee,F,South,V\n"

	entries, err := ParseRoster(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Cara", entries[0].FirstName)
	assert.Equal(t, "Jo Smith", entries[0].LastName)
	assert.Equal(t, "Dee", entries[1].FirstName)
	assert.Equal(t, "", entries[1].LastName)

	archer := entries[0].ToBaleArcher(9)
	assert.Equal(t, 9, archer.ID)
	assert.Equal(t, scoring.DivisionGirlsJV, scoring.DeriveDivision(archer.Gender, archer.Classification))
}

func TestParseRosterNeedsNameColumn(t *testing.T) {
	_, err := ParseRoster(strings.NewReader("gender,school\nM,North\n"))
	assert.ErrorIs(t, err, ErrMissingNameColumn)
}

func TestParseRosterEmptyInput(t *testing.T) {
	entries, err := ParseRoster(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "M", NormalizeGender("Boys"))
	assert.Equal(t, "X", NormalizeGender("x"))
	assert.Equal(t, "JV", NormalizeClassification("Junior Varsity"))
	assert.Equal(t, "MS", NormalizeClassification("ms"))
}
