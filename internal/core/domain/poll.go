package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Poll struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PollDraft is a poll definition as submitted, before validation.
type PollDraft struct {
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Questions   []QuestionDraft `json:"questions" yaml:"questions"`
	Active      *bool           `json:"active,omitempty" yaml:"active,omitempty"`
}

type QuestionDraft struct {
	Question string   `json:"question" yaml:"question"`
	Type     string   `json:"type" yaml:"type"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// NewPoll validates draft and builds an accepted poll from it. Rules are
// checked in order and the first failure is returned; draft is never modified.
func NewPoll(draft PollDraft) (*Poll, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if len(draft.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	questions := make([]Question, 0, len(draft.Questions))
	for i, qd := range draft.Questions {
		q, err := newQuestion(i, qd)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	active := true
	if draft.Active != nil {
		active = *draft.Active
	}

	return &Poll{
		ID:          uuid.New(),
		Title:       title,
		Description: draft.Description,
		Questions:   questions,
		Active:      active,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func newQuestion(index int, qd QuestionDraft) (Question, error) {
	text := strings.TrimSpace(qd.Question)
	if text == "" {
		return Question{}, newValidationError(ErrEmptyQuestionText, index)
	}

	qt, ok := ParseQuestionType(qd.Type)
	if !ok {
		return Question{}, newValidationError(ErrUnknownQuestionType, index)
	}

	q := Question{Text: text, Type: qt}
	switch qt {
	case QuestionMultipleChoice:
		var options []string
		for _, opt := range qd.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		if len(options) < 2 {
			return Question{}, newValidationError(ErrInsufficientOptions, index)
		}
		q.Options = options
	case QuestionText, QuestionRating:
		// options supplied for these types are discarded
	}
	return q, nil
}
