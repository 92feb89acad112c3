package domain

import (
	"strconv"
	"strings"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
	QuestionRating         QuestionType = "rating"
)

// Ratings are always on a fixed 1..5 scale.
const (
	MinRating = 1
	MaxRating = 5
)

func ParseQuestionType(s string) (QuestionType, bool) {
	switch t := QuestionType(strings.TrimSpace(s)); t {
	case QuestionMultipleChoice, QuestionText, QuestionRating:
		return t, true
	default:
		return "", false
	}
}

// Question is one entry of a poll. Options is only set for multiple_choice
// questions and is nil for every other type.
type Question struct {
	Text    string       `json:"question"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

// HasOption reports whether value matches one of the question's options exactly.
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Tally is the running aggregate of a single question. Only the field that
// belongs to Type is populated.
type Tally struct {
	Type    QuestionType
	Choices map[string]int
	Ratings map[int]int
	Texts   []string
}

// NewTally returns the empty accumulator for the question: every option and
// every rating bucket starts at zero so none is dropped from the results.
func (q Question) NewTally() Tally {
	t := Tally{Type: q.Type}
	switch q.Type {
	case QuestionMultipleChoice:
		t.Choices = make(map[string]int, len(q.Options))
		for _, opt := range q.Options {
			t.Choices[opt] = 0
		}
	case QuestionRating:
		t.Ratings = make(map[int]int, MaxRating)
		for r := MinRating; r <= MaxRating; r++ {
			t.Ratings[r] = 0
		}
	case QuestionText:
		t.Texts = []string{}
	}
	return t
}

func validRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

func ratingKey(r int) string {
	return strconv.Itoa(r)
}
