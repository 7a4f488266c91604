package entities

import (
	"errors"
	"fmt"
)

var ErrInvalidLevels = errors.New("invalid level configuration")

// Level is one block of questions sharing a difficulty and reward bracket.
type Level struct {
	Count int    `mapstructure:"count" json:"count"` // number of questions in the level
	Name  string `mapstructure:"name" json:"name"`   // display name, e.g. "Level 1"
}

// Levels is the ordered level configuration.
type Levels []Level

// DefaultLevels returns the stock three-level progression.
func DefaultLevels() Levels {
	return Levels{
		{Count: 10, Name: "Level 1"},
		{Count: 25, Name: "Level 2"},
		{Count: 40, Name: "Level 3"},
	}
}

// Validate checks that there is at least one level and every level has questions.
func (ls Levels) Validate() error {
	if len(ls) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidLevels)
	}
	for i, l := range ls {
		if l.Count <= 0 {
			return fmt.Errorf("%w: level %d has %d questions", ErrInvalidLevels, i+1, l.Count)
		}
	}
	return nil
}

// Cumulative returns prefix sums of question counts: cumulative[i] is the number of
// questions needed to finish level i.
func (ls Levels) Cumulative() []int {
	out := make([]int, len(ls))
	total := 0
	for i, l := range ls {
		total += l.Count
		out[i] = total
	}
	return out
}

// StartIndex returns the global question index at which the level starts.
func (ls Levels) StartIndex(level int) int {
	if level <= 0 {
		return 0
	}
	if level > len(ls) {
		level = len(ls)
	}
	return ls.Cumulative()[level-1]
}

// LastIndex returns the global index of the level's final question.
func (ls Levels) LastIndex(level int) int {
	if level < 0 || level >= len(ls) {
		return -1
	}
	return ls.Cumulative()[level] - 1
}

// CanAdvance reports whether a level after the given one exists and the dataset
// holds enough questions to populate it.
func (ls Levels) CanAdvance(level, datasetLen int) bool {
	next := level + 1
	if next >= len(ls) {
		return false
	}
	return datasetLen >= ls.Cumulative()[next]
}

// NameOf returns the display name of a level, falling back to "Level N".
func (ls Levels) NameOf(level int) string {
	if level >= 0 && level < len(ls) && ls[level].Name != "" {
		return ls[level].Name
	}
	return fmt.Sprintf("Level %d", level+1)
}
