package http

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	AllowedOrigins []string
	// SubmitRate and SubmitBurst throttle response submissions per client IP.
	SubmitRate  rate.Limit
	SubmitBurst int
	// TrustedProxies are the peers whose X-Forwarded-For header is believed
	// when identifying the submitting client.
	TrustedProxies []netip.Prefix
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewHandler(pollHandler *PollHandler, responseHandler *ResponseHandler, resultsHandler *ResultsHandler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(opts.AllowedOrigins))

	if opts.MetricsHandler != nil {
		r.Handle("/metrics", opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Message: "poll service is running"})
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Post("/", pollHandler.CreatePoll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", pollHandler.GetPoll)

				r.With(RateLimit(opts.SubmitRate, opts.SubmitBurst, opts.TrustedProxies)).Post("/responses", responseHandler.SubmitResponse)
				r.Get("/responses", responseHandler.ListResponses)

				r.Get("/results", resultsHandler.GetResults)
				r.Get("/results/latest", resultsHandler.GetLatestResults)
			})
		})
	})

	return r
}
