package aggregation

import (
	"strconv"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

// Format shapes tallies into the summary consumed by clients.
func Format(poll *domain.Poll, tallies []domain.Tally, totalResponses int) domain.ResultsSummary {
	summary := domain.ResultsSummary{
		PollID:         poll.ID,
		PollTitle:      poll.Title,
		TotalResponses: totalResponses,
		Questions:      make([]domain.QuestionResult, len(poll.Questions)),
	}

	for i, q := range poll.Questions {
		t := tallies[i]
		result := domain.QuestionResult{Question: q.Text, Type: q.Type}

		switch q.Type {
		case domain.QuestionMultipleChoice:
			result.Answers = make(map[string]int, len(t.Choices))
			for opt, n := range t.Choices {
				result.Answers[opt] = n
			}
		case domain.QuestionRating:
			result.Answers = make(map[string]int, len(t.Ratings))
			for r, n := range t.Ratings {
				result.Answers[strconv.Itoa(r)] = n
			}
			result.AverageRating = domain.AverageRating(t.Ratings)
		case domain.QuestionText:
			result.TextResponses = append([]string{}, t.Texts...)
		}

		summary.Questions[i] = result
	}

	return summary
}

// Summarize aggregates a consistent snapshot of a poll's responses and formats it.
func Summarize(poll *domain.Poll, responses []domain.Response) domain.ResultsSummary {
	return Format(poll, Aggregate(poll, responses), len(responses))
}
