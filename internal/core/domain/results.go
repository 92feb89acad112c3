package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type ResultsSummary struct {
	PollID         uuid.UUID        `json:"poll_id"`
	PollTitle      string           `json:"poll_title"`
	TotalResponses int              `json:"total_responses"`
	Questions      []QuestionResult `json:"questions"`
}

// QuestionResult is the per-question block of a summary. Answers holds option
// counts for multiple_choice and "1".."5" bucket counts for rating;
// TextResponses is only used by text questions.
type QuestionResult struct {
	Question      string
	Type          QuestionType
	Answers       map[string]int
	AverageRating float64
	TextResponses []string
}

type questionResultJSON struct {
	Question      string         `json:"question"`
	Type          QuestionType   `json:"type"`
	Answers       map[string]int `json:"answers,omitempty"`
	AverageRating *float64       `json:"average_rating,omitempty"`
	TextResponses *[]string      `json:"text_responses,omitempty"`
}

func (r QuestionResult) MarshalJSON() ([]byte, error) {
	out := questionResultJSON{Question: r.Question, Type: r.Type}
	switch r.Type {
	case QuestionMultipleChoice:
		out.Answers = r.Answers
	case QuestionRating:
		avg := r.AverageRating
		out.Answers = r.Answers
		out.AverageRating = &avg
	case QuestionText:
		texts := r.TextResponses
		if texts == nil {
			texts = []string{}
		}
		out.TextResponses = &texts
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestionType, r.Type)
	}
	return json.Marshal(out)
}

func (r *QuestionResult) UnmarshalJSON(data []byte) error {
	var in questionResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = QuestionResult{Question: in.Question, Type: in.Type, Answers: in.Answers}
	switch {
	case in.AverageRating != nil:
		r.AverageRating = *in.AverageRating
	case in.Type == QuestionRating:
		r.AverageRating = AverageRating(ratingBuckets(in.Answers))
	}
	if in.TextResponses != nil {
		r.TextResponses = *in.TextResponses
	}
	return nil
}

// RatingCount returns the number of responses that gave rating r.
func (r QuestionResult) RatingCount(rating int) int {
	return r.Answers[ratingKey(rating)]
}

// ResultsSnapshot is a summary persisted by the summarizing job.
type ResultsSnapshot struct {
	Summary    ResultsSummary `json:"summary"`
	ComputedAt time.Time      `json:"computed_at"`
}

// Percentage is round(count/total*100), defined as 0 when total is 0.
func Percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// AverageRating is the mean rating of the buckets rounded to one decimal,
// defined as 0 when no ratings were counted.
func AverageRating(buckets map[int]int) float64 {
	sum, n := 0, 0
	for rating, count := range buckets {
		sum += rating * count
		n += count
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// ratingBuckets converts the "1".."5" keyed answers of a rating result back
// into integer buckets.
func ratingBuckets(answers map[string]int) map[int]int {
	out := make(map[int]int, len(answers))
	for k, v := range answers {
		if r, err := strconv.Atoi(k); err == nil {
			out[r] = v
		}
	}
	return out
}
