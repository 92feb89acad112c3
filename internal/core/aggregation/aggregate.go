// Package aggregation folds stored responses into per-question results.
//
// Everything here is pure: inputs are read, never modified, and the same
// poll and response snapshot always produce the same summary.
package aggregation

import (
	"fmt"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

// IntegrityError is raised (as a panic value) when a stored response does not
// fit the poll it references. Validated input never triggers it.
type IntegrityError struct {
	ResponseIndex int
	QuestionIndex int
	Reason        string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("response %d, question %d: %s", e.ResponseIndex, e.QuestionIndex, e.Reason)
}

// Aggregate returns one tally per poll question, in question order.
func Aggregate(poll *domain.Poll, responses []domain.Response) []domain.Tally {
	tallies := make([]domain.Tally, len(poll.Questions))
	for i, q := range poll.Questions {
		tallies[i] = q.NewTally()
	}

	for ri, resp := range responses {
		if len(resp.Answers) != len(poll.Questions) {
			panic(&IntegrityError{ResponseIndex: ri, QuestionIndex: -1, Reason: "answer count does not match question count"})
		}
		for qi, q := range poll.Questions {
			answer, ok := resp.Answers[qi]
			if !ok {
				panic(&IntegrityError{ResponseIndex: ri, QuestionIndex: qi, Reason: "missing answer"})
			}
			fold(&tallies[qi], q, answer, ri, qi)
		}
	}

	return tallies
}

func fold(t *domain.Tally, q domain.Question, a domain.Answer, ri, qi int) {
	switch q.Type {
	case domain.QuestionMultipleChoice:
		if _, ok := t.Choices[a.Text]; !ok {
			panic(&IntegrityError{ResponseIndex: ri, QuestionIndex: qi, Reason: fmt.Sprintf("unknown option %q", a.Text)})
		}
		t.Choices[a.Text]++
	case domain.QuestionRating:
		if _, ok := t.Ratings[a.Rating]; !ok {
			panic(&IntegrityError{ResponseIndex: ri, QuestionIndex: qi, Reason: fmt.Sprintf("rating %d out of range", a.Rating)})
		}
		t.Ratings[a.Rating]++
	case domain.QuestionText:
		t.Texts = append(t.Texts, a.Text)
	default:
		panic(&IntegrityError{ResponseIndex: ri, QuestionIndex: qi, Reason: fmt.Sprintf("unknown question type %q", q.Type)})
	}
}
