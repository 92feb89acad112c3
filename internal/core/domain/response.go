package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

const AnonymousRespondent = "Anonymous"

var foldCaser = cases.Fold()

// Answer is a normalized answer to one question. Rating answers carry Rating,
// every other type carries Text.
type Answer struct {
	Text   string
	Rating int
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Rating != 0 {
		return json.Marshal(a.Rating)
	}
	return json.Marshal(a.Text)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		*a = Answer{Text: val}
	case float64:
		*a = Answer{Rating: int(val)}
	default:
		return fmt.Errorf("unsupported answer value %s", data)
	}
	return nil
}

type Response struct {
	ID             uuid.UUID      `json:"id"`
	PollID         uuid.UUID      `json:"poll_id"`
	RespondentName string         `json:"respondent_name"`
	Answers        map[int]Answer `json:"answers"`
	SubmittedAt    time.Time      `json:"submitted_at"`
}

// Submission is a response as received at the boundary. Answers is keyed by
// the decimal question index; values are decoded JSON (string or number).
type Submission struct {
	RespondentName string
	Answers        map[string]any
}

// NewResponse validates sub against poll. The returned response is bound to
// poll.ID; the id and submission time are left for the caller to assign.
func NewResponse(poll *Poll, sub Submission) (*Response, error) {
	if len(sub.Answers) != len(poll.Questions) {
		return nil, ErrIncompleteResponse
	}
	for i := range poll.Questions {
		if _, ok := sub.Answers[strconv.Itoa(i)]; !ok {
			return nil, ErrIncompleteResponse
		}
	}

	answers := make(map[int]Answer, len(poll.Questions))
	for i, q := range poll.Questions {
		a, err := normalizeAnswer(i, q, sub.Answers[strconv.Itoa(i)])
		if err != nil {
			return nil, err
		}
		answers[i] = a
	}

	name := strings.TrimSpace(sub.RespondentName)
	if name == "" {
		name = AnonymousRespondent
	}

	return &Response{
		PollID:         poll.ID,
		RespondentName: name,
		Answers:        answers,
	}, nil
}

func normalizeAnswer(index int, q Question, raw any) (Answer, error) {
	switch q.Type {
	case QuestionMultipleChoice:
		s, ok := raw.(string)
		if !ok {
			return Answer{}, newValidationError(ErrInvalidAnswer, index)
		}
		s = strings.TrimSpace(s)
		if !q.HasOption(s) {
			verr := newValidationError(ErrInvalidAnswer, index)
			verr.Hint = closestOption(q.Options, s)
			return Answer{}, verr
		}
		return Answer{Text: s}, nil
	case QuestionRating:
		r, ok := parseRating(raw)
		if !ok || !validRating(r) {
			return Answer{}, newValidationError(ErrInvalidAnswer, index)
		}
		return Answer{Rating: r}, nil
	case QuestionText:
		s, ok := raw.(string)
		if !ok {
			return Answer{}, newValidationError(ErrInvalidAnswer, index)
		}
		return Answer{Text: s}, nil
	default:
		return Answer{}, newValidationError(ErrUnknownQuestionType, index)
	}
}

// parseRating accepts integral numbers in any of the shapes a decoded payload
// can carry them: float64, int, json.Number or a numeric string.
func parseRating(raw any) (int, bool) {
	switch v := raw.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return integralRating(f, err)
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		return integralRating(f, err)
	case float64:
		return integralRating(v, nil)
	case int:
		return v, true
	case int64:
		return integralRating(float64(v), nil)
	default:
		return 0, false
	}
}

func integralRating(f float64, err error) (int, bool) {
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// closestOption suggests the option the submitter most likely meant. Options
// further than a third of their length away are not suggested.
func closestOption(options []string, value string) string {
	if value == "" {
		return ""
	}
	folded := foldCaser.String(value)

	best, bestDist := "", math.MaxInt
	for _, opt := range options {
		d := levenshtein.ComputeDistance(folded, foldCaser.String(opt))
		if d < bestDist {
			best, bestDist = opt, d
		}
	}
	if bestDist > max(2, len([]rune(best))/3) {
		return ""
	}
	return best
}
