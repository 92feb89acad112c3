package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollkit/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
	"github.com/vncsmyrnk/pollkit/internal/core/services"
)

type testServer struct {
	*httptest.Server
	summary ports.SummaryService
}

func setupServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	pollRepo := memory.NewPollRepository()
	responseRepo := memory.NewResponseRepository()
	resultRepo := memory.NewPollResultRepository()

	router := NewHandler(
		NewPollHandler(services.NewPollService(pollRepo, nil)),
		NewResponseHandler(services.NewResponseService(pollRepo, responseRepo, nil)),
		NewResultsHandler(services.NewResultsService(pollRepo, responseRepo, resultRepo, nil)),
		opts,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{
		Server:  server,
		summary: services.NewSummaryService(pollRepo, responseRepo, resultRepo, nil, 1),
	}
}

func (s *testServer) postJSON(t *testing.T, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := s.Client().Post(s.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := s.Client().Get(s.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

var teamPoll = map[string]any{
	"title":       "Team offsite",
	"description": "Plan the next offsite",
	"questions": []map[string]any{
		{"question": "Where?", "type": "multiple_choice", "options": []string{"Lisbon", "Porto"}},
		{"question": "How was the last one?", "type": "rating"},
		{"question": "Suggestions", "type": "text"},
	},
}

func createPoll(t *testing.T, s *testServer) domain.Poll {
	t.Helper()
	resp := s.postJSON(t, "/api/polls", teamPoll)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[domain.Poll](t, resp)
}

func TestHealth(t *testing.T) {
	s := setupServer(t, RouterOptions{})

	resp := s.get(t, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[healthResponse](t, resp)
	assert.Equal(t, "healthy", body.Status)
}

func TestPollEndpoints(t *testing.T) {
	s := setupServer(t, RouterOptions{})
	poll := createPoll(t, s)

	assert.Equal(t, "Team offsite", poll.Title)
	assert.True(t, poll.Active)
	require.Len(t, poll.Questions, 3)
	assert.Empty(t, poll.Questions[1].Options)

	t.Run("get", func(t *testing.T) {
		resp := s.get(t, "/api/polls/"+poll.ID.String())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, poll.ID, decode[domain.Poll](t, resp).ID)
	})

	t.Run("get malformed id", func(t *testing.T) {
		resp := s.get(t, "/api/polls/not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get missing", func(t *testing.T) {
		resp := s.get(t, "/api/polls/"+uuid.NewString())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("list and search", func(t *testing.T) {
		resp := s.get(t, "/api/polls")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decode[listPollsResponse](t, resp).Polls, 1)

		resp = s.get(t, "/api/polls?q=OFFSITE&page=1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decode[listPollsResponse](t, resp).Polls, 1)

		resp = s.get(t, "/api/polls?q=nothing")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decode[listPollsResponse](t, resp).Polls)

		resp = s.get(t, "/api/polls?page=zero")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = s.get(t, "/api/polls?page=1000000000000000000")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = s.get(t, fmt.Sprintf("/api/polls?page=%d", ports.MaxPollsPage))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decode[listPollsResponse](t, resp).Polls)
	})
}

func TestCreatePoll_Rejections(t *testing.T) {
	s := setupServer(t, RouterOptions{})

	tests := []struct {
		name      string
		payload   any
		wantIndex *int
	}{
		{name: "missing title", payload: map[string]any{"title": " ", "questions": teamPoll["questions"]}},
		{name: "no questions", payload: map[string]any{"title": "Empty"}},
		{
			name: "single option",
			payload: map[string]any{"title": "T", "questions": []map[string]any{
				{"question": "Q1", "type": "text"},
				{"question": "Q2", "type": "multiple_choice", "options": []string{"only", "  "}},
			}},
			wantIndex: ptr(1),
		},
		{
			name: "unknown type",
			payload: map[string]any{"title": "T", "questions": []map[string]any{
				{"question": "Q1", "type": "checkbox"},
			}},
			wantIndex: ptr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.postJSON(t, "/api/polls", tt.payload)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[errorResponse](t, resp)
			assert.Equal(t, "Bad Request", body.Error)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tt.wantIndex, body.Index)
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		resp, err := s.Client().Post(s.URL+"/api/polls", "application/json", bytes.NewBufferString("{"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestResponsesAndResults(t *testing.T) {
	s := setupServer(t, RouterOptions{})
	poll := createPoll(t, s)
	base := fmt.Sprintf("/api/polls/%s", poll.ID)

	submissions := []map[string]any{
		{"respondent_name": "Ana", "answers": map[string]any{"0": "Lisbon", "1": 5, "2": "More hiking"}},
		{"respondent_name": "  ", "answers": map[string]any{"0": "Lisbon", "1": "4", "2": ""}},
		{"respondent_name": "Rui", "responses": map[string]any{"0": "Porto", "1": 5.0, "2": "Less rain"}},
	}
	for _, sub := range submissions {
		resp := s.postJSON(t, base+"/responses", sub)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	t.Run("list responses", func(t *testing.T) {
		resp := s.get(t, base+"/responses")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := decode[listResponsesResponse](t, resp)
		require.Len(t, list.Responses, 3)
		assert.Equal(t, "Ana", list.Responses[0].RespondentName)
		assert.Equal(t, domain.AnonymousRespondent, list.Responses[1].RespondentName)
		assert.Equal(t, 5, list.Responses[2].Answers[1].Rating)
	})

	t.Run("live results", func(t *testing.T) {
		resp := s.get(t, base+"/results")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		assert.Equal(t, "Team offsite", raw["poll_title"])
		assert.EqualValues(t, 3, raw["total_responses"])

		questions := raw["questions"].([]any)
		choice := questions[0].(map[string]any)
		assert.Equal(t, map[string]any{"Lisbon": 2.0, "Porto": 1.0}, choice["answers"])
		assert.NotContains(t, choice, "text_responses")

		rating := questions[1].(map[string]any)
		assert.Equal(t, 4.7, rating["average_rating"])
		assert.Equal(t, map[string]any{"1": 0.0, "2": 0.0, "3": 0.0, "4": 1.0, "5": 2.0}, rating["answers"])

		text := questions[2].(map[string]any)
		assert.Equal(t, []any{"More hiking", "", "Less rain"}, text["text_responses"])
		assert.NotContains(t, text, "answers")
	})

	t.Run("latest snapshot", func(t *testing.T) {
		resp := s.get(t, base+"/results/latest")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		require.NoError(t, s.summary.SummarizeAll(context.Background()))

		resp = s.get(t, base+"/results/latest")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		snap := decode[domain.ResultsSnapshot](t, resp)
		assert.Equal(t, 3, snap.Summary.TotalResponses)
		assert.False(t, snap.ComputedAt.IsZero())
	})

	t.Run("unknown poll", func(t *testing.T) {
		missing := "/api/polls/" + uuid.NewString()
		assert.Equal(t, http.StatusNotFound, s.get(t, missing+"/results").StatusCode)
		assert.Equal(t, http.StatusNotFound, s.get(t, missing+"/responses").StatusCode)
		assert.Equal(t, http.StatusBadRequest, s.get(t, "/api/polls/nope/results").StatusCode)
	})
}

func TestSubmitResponse_Rejections(t *testing.T) {
	s := setupServer(t, RouterOptions{})
	poll := createPoll(t, s)
	path := fmt.Sprintf("/api/polls/%s/responses", poll.ID)

	t.Run("missing answer", func(t *testing.T) {
		resp := s.postJSON(t, path, map[string]any{"answers": map[string]any{"0": "Lisbon", "1": 3}})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		assert.Contains(t, body.Message, domain.ErrIncompleteResponse.Error())
	})

	t.Run("unknown option gets a hint", func(t *testing.T) {
		resp := s.postJSON(t, path, map[string]any{"answers": map[string]any{"0": "lisbn", "1": 3, "2": ""}})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		require.NotNil(t, body.Index)
		assert.Equal(t, 0, *body.Index)
		assert.Equal(t, "Lisbon", body.Hint)
	})

	t.Run("rating out of range", func(t *testing.T) {
		resp := s.postJSON(t, path, map[string]any{"answers": map[string]any{"0": "Porto", "1": 9, "2": ""}})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorResponse](t, resp)
		require.NotNil(t, body.Index)
		assert.Equal(t, 1, *body.Index)
	})

	t.Run("poll not found", func(t *testing.T) {
		resp := s.postJSON(t, "/api/polls/"+uuid.NewString()+"/responses", map[string]any{"answers": map[string]any{}})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	resp := s.get(t, path)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[listResponsesResponse](t, resp).Responses)
}

func TestSubmitResponse_RateLimited(t *testing.T) {
	s := setupServer(t, RouterOptions{SubmitRate: 0.001, SubmitBurst: 2})
	poll := createPoll(t, s)
	path := fmt.Sprintf("/api/polls/%s/responses", poll.ID)
	answer := map[string]any{"answers": map[string]any{"0": "Porto", "1": 2, "2": ""}}

	assert.Equal(t, http.StatusCreated, s.postJSON(t, path, answer).StatusCode)
	assert.Equal(t, http.StatusCreated, s.postJSON(t, path, answer).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, s.postJSON(t, path, answer).StatusCode)

	// reads are not throttled
	assert.Equal(t, http.StatusOK, s.get(t, path).StatusCode)
}

func (s *testServer) postFrom(t *testing.T, path, forwardedFor string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSubmitResponse_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	s := setupServer(t, RouterOptions{SubmitRate: 0.001, SubmitBurst: 1})
	poll := createPoll(t, s)
	path := fmt.Sprintf("/api/polls/%s/responses", poll.ID)
	answer := map[string]any{"answers": map[string]any{"0": "Porto", "1": 2, "2": ""}}

	assert.Equal(t, http.StatusCreated, s.postFrom(t, path, "203.0.113.1", answer).StatusCode)
	for i := 2; i < 10; i++ {
		resp := s.postFrom(t, path, fmt.Sprintf("203.0.113.%d", i), answer)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	}
}

func TestSubmitResponse_RateLimitBehindTrustedProxy(t *testing.T) {
	s := setupServer(t, RouterOptions{
		SubmitRate:     0.001,
		SubmitBurst:    1,
		TrustedProxies: []netip.Prefix{netip.MustParsePrefix("127.0.0.0/8"), netip.MustParsePrefix("::1/128")},
	})
	poll := createPoll(t, s)
	path := fmt.Sprintf("/api/polls/%s/responses", poll.ID)
	answer := map[string]any{"answers": map[string]any{"0": "Porto", "1": 2, "2": ""}}

	assert.Equal(t, http.StatusCreated, s.postFrom(t, path, "203.0.113.1", answer).StatusCode)
	assert.Equal(t, http.StatusCreated, s.postFrom(t, path, "203.0.113.2", answer).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, s.postFrom(t, path, "203.0.113.1", answer).StatusCode)
}

func TestCORS(t *testing.T) {
	s := setupServer(t, RouterOptions{AllowedOrigins: []string{"https://polls.example.com"}})

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/api/polls", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://polls.example.com")
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://polls.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example.com")
	resp2, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupServer(t, RouterOptions{MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("polls_created_total 1\n"))
	})})

	resp := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func ptr[T any](v T) *T { return &v }
