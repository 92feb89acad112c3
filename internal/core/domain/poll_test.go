package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoll_Valid(t *testing.T) {
	draft := PollDraft{
		Title:       "  Book Club  ",
		Description: "October pick",
		Questions: []QuestionDraft{
			{Question: "Which book?", Type: "multiple_choice", Options: []string{" Dune ", "", "Emma", "  "}},
			{Question: "Why?", Type: "text", Options: []string{"ignored"}},
			{Question: "Rate last month", Type: "rating", Options: []string{"ignored"}},
		},
	}

	poll, err := NewPoll(draft)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, poll.ID)
	assert.Equal(t, "Book Club", poll.Title)
	assert.Equal(t, "October pick", poll.Description)
	assert.True(t, poll.Active)
	assert.False(t, poll.CreatedAt.IsZero())

	require.Len(t, poll.Questions, 3)
	assert.Equal(t, []string{"Dune", "Emma"}, poll.Questions[0].Options)
	assert.Nil(t, poll.Questions[1].Options)
	assert.Nil(t, poll.Questions[2].Options)

	// the caller's draft is left alone
	assert.Equal(t, []string{" Dune ", "", "Emma", "  "}, draft.Questions[0].Options)
}

func TestNewPoll_ExplicitInactive(t *testing.T) {
	inactive := false
	poll, err := NewPoll(PollDraft{
		Title:     "Closed",
		Questions: []QuestionDraft{{Question: "Q", Type: "text"}},
		Active:    &inactive,
	})
	require.NoError(t, err)
	assert.False(t, poll.Active)
}

func TestNewPoll_DuplicateOptionsAllowed(t *testing.T) {
	poll, err := NewPoll(PollDraft{
		Title:     "Dupes",
		Questions: []QuestionDraft{{Question: "Q", Type: "multiple_choice", Options: []string{"A", "A"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A"}, poll.Questions[0].Options)
}

func TestNewPoll_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		draft     PollDraft
		wantErr   error
		indexed   bool
		wantIndex int
	}{
		{
			name:    "blank title",
			draft:   PollDraft{Title: "  ", Questions: []QuestionDraft{{Question: "Q", Type: "text"}}},
			wantErr: ErrMissingTitle,
		},
		{
			name:    "title checked before questions",
			draft:   PollDraft{Title: ""},
			wantErr: ErrMissingTitle,
		},
		{
			name:    "no questions",
			draft:   PollDraft{Title: "T"},
			wantErr: ErrNoQuestions,
		},
		{
			name: "empty question text",
			draft: PollDraft{Title: "T", Questions: []QuestionDraft{
				{Question: "Q", Type: "text"},
				{Question: "   ", Type: "text"},
			}},
			wantErr:   ErrEmptyQuestionText,
			indexed:   true,
			wantIndex: 1,
		},
		{
			name: "unknown type",
			draft: PollDraft{Title: "T", Questions: []QuestionDraft{
				{Question: "Q", Type: "checkbox"},
			}},
			wantErr: ErrUnknownQuestionType,
			indexed: true,
		},
		{
			name: "one non-empty option",
			draft: PollDraft{Title: "T", Questions: []QuestionDraft{
				{Question: "Q", Type: "text"},
				{Question: "Q2", Type: "rating"},
				{Question: "Q3", Type: "multiple_choice", Options: []string{"A", " ", ""}},
			}},
			wantErr:   ErrInsufficientOptions,
			indexed:   true,
			wantIndex: 2,
		},
		{
			name: "first failing question wins",
			draft: PollDraft{Title: "T", Questions: []QuestionDraft{
				{Question: "Q", Type: "multiple_choice", Options: []string{"A"}},
				{Question: "", Type: "text"},
			}},
			wantErr: ErrInsufficientOptions,
			indexed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poll, err := NewPoll(tt.draft)
			require.Error(t, err)
			assert.Nil(t, poll)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))

			var verr *ValidationError
			if !tt.indexed {
				assert.NotErrorAs(t, err, &verr)
				return
			}
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantIndex, verr.Index)
		})
	}
}

func TestParseQuestionType(t *testing.T) {
	for _, s := range []string{"multiple_choice", "text", "rating"} {
		qt, ok := ParseQuestionType(s)
		assert.True(t, ok)
		assert.Equal(t, QuestionType(s), qt)
	}

	_, ok := ParseQuestionType("")
	assert.False(t, ok)
	_, ok = ParseQuestionType("Rating")
	assert.False(t, ok)
}

func TestQuestion_NewTally(t *testing.T) {
	mc := Question{Text: "Q", Type: QuestionMultipleChoice, Options: []string{"A", "B"}}
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, mc.NewTally().Choices)

	rating := Question{Text: "Q", Type: QuestionRating}
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, rating.NewTally().Ratings)

	text := Question{Text: "Q", Type: QuestionText}
	tally := text.NewTally()
	assert.NotNil(t, tally.Texts)
	assert.Empty(t, tally.Texts)
	assert.Nil(t, tally.Choices)
	assert.Nil(t, tally.Ratings)
}
