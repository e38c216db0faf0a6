package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"archersedge/scoring"
)

var ErrMissingNameColumn = errors.New("roster needs a name column or first and last name columns")

type RosterEntry struct {
	FirstName      string
	LastName       string
	Gender         string
	School         string
	Classification string
}

func (e RosterEntry) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e RosterEntry) ToBaleArcher(id int) scoring.BaleArcher {
	return scoring.BaleArcher{
		ID:             id,
		Name:           e.FullName(),
		School:         e.School,
		Gender:         e.Gender,
		Classification: e.Classification,
	}
}

type rosterColumns struct {
	name, first, last, gender, school, classification int
}

// ParseRoster reads a roster CSV with a header row. Column names are matched
// case-insensitively and ignore spaces and underscores. Rows without a name
// are skipped.
func ParseRoster(r io.Reader) ([]RosterEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []RosterEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster header: %w", err)
	}
	cols := findColumns(header)
	if cols.name < 0 && (cols.first < 0 || cols.last < 0) {
		return nil, ErrMissingNameColumn
	}

	entries := make([]RosterEntry, 0)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to parse roster line %d: %w", line, err)
		}

		entry := RosterEntry{
			Gender:         NormalizeGender(field(record, cols.gender)),
			School:         field(record, cols.school),
			Classification: NormalizeClassification(field(record, cols.classification)),
		}
		if cols.first >= 0 && cols.last >= 0 {
			entry.FirstName = field(record, cols.first)
			entry.LastName = field(record, cols.last)
		}
		if entry.FirstName == "" && entry.LastName == "" && cols.name >= 0 {
			entry.FirstName, entry.LastName = scoring.ParseArcherName(field(record, cols.name))
		}
		if entry.FullName() == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func findColumns(header []string) rosterColumns {
	cols := rosterColumns{-1, -1, -1, -1, -1, -1}
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		normalized = strings.ReplaceAll(strings.ReplaceAll(normalized, " ", ""), "_", "")
		switch normalized {
		case "name", "archer", "archername", "fullname":
			cols.name = i
		case "firstname", "first":
			cols.first = i
		case "lastname", "last", "surname":
			cols.last = i
		case "gender", "sex":
			cols.gender = i
		case "school", "team":
			cols.school = i
		case "classification", "class", "level", "defaultclassification":
			cols.classification = i
		}
	}
	return cols
}

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

// NormalizeGender maps the spellings found in rosters to M or F. Anything
// else is returned upper-cased.
func NormalizeGender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male", "boy", "boys", "b":
		return "M"
	case "f", "female", "girl", "girls", "g":
		return "F"
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeClassification maps varsity spellings to V and JV.
func NormalizeClassification(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "")
	switch normalized {
	case "v", "var", "varsity":
		return "V"
	case "jv", "juniorvarsity", "j.v.":
		return "JV"
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}
