// Package api declares HTTP contracts and route registration for the
// scorekeeping service.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tyresmoke/burnboard/internal/adapters/repository"
	"github.com/tyresmoke/burnboard/internal/app"
	"github.com/tyresmoke/burnboard/internal/domain/scoring"
)

// Dependencies bundles everything the handlers need. *app.Service
// satisfies it; tests substitute fakes per concern.
type Dependencies interface {
	ScoreService
	LeaderboardService
	ReviewService
	RosterService
	RoundService
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	scores      *ScoresHandler
	leaderboard *LeaderboardHandler
	review      *ReviewHandler
	roster      *RosterHandler
	rounds      *RoundsHandler
	health      *HealthHandler
	stats       *StatsHandler
	docs        *DocsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{policy: scoring.CoerceToZero, maxLeaderboardLimit: defaultMaxLeaderboardLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	v := newValidator()
	return &Server{
		scores:      NewScoresHandler(deps, v, cfg.policy),
		leaderboard: NewLeaderboardHandler(deps, cfg.maxLeaderboardLimit),
		review:      NewReviewHandler(deps),
		roster:      NewRosterHandler(deps, v),
		rounds:      NewRoundsHandler(deps, v),
		health:      NewHealthHandler(),
		stats:       NewStatsHandler(deps),
		docs:        NewDocsHandler(),
	}
}

// Register attaches all routes to mux using method-qualified patterns.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.stats.HandleStats, "stats"))
	mux.HandleFunc("GET /openapi.yaml", s.docs.HandleOpenAPI)

	mux.HandleFunc("POST /api/judge/scores", MetricsMiddleware(s.scores.HandleSubmit, "judge_scores"))
	mux.HandleFunc("POST /api/judge/scores/preview", MetricsMiddleware(s.scores.HandlePreview, "judge_preview"))
	mux.HandleFunc("GET /api/judge/scores", MetricsMiddleware(s.scores.HandleListByJudge, "judge_scores"))

	mux.HandleFunc("GET /api/admin/scores", MetricsMiddleware(s.scores.HandleListAll, "admin_scores"))
	mux.HandleFunc("PUT /api/admin/scores/{id}", MetricsMiddleware(s.scores.HandleEdit, "admin_scores"))
	mux.HandleFunc("DELETE /api/admin/scores/{id}", MetricsMiddleware(s.scores.HandleDelete, "admin_scores"))
	mux.HandleFunc("GET /api/admin/emails/pending", MetricsMiddleware(s.scores.HandlePendingEmails, "admin_emails"))
	mux.HandleFunc("POST /api/admin/scores/{id}/email-sent", MetricsMiddleware(s.scores.HandleMarkEmailSent, "admin_emails"))

	mux.HandleFunc("GET /api/admin/scoring-errors", MetricsMiddleware(s.review.HandleScoringErrors, "scoring_errors"))
	mux.HandleFunc("POST /api/admin/scores/{id}/acknowledge-deviation", MetricsMiddleware(s.review.HandleAcknowledge, "scoring_errors"))
	mux.HandleFunc("POST /api/admin/scores/{id}/unacknowledge-deviation", MetricsMiddleware(s.review.HandleUnacknowledge, "scoring_errors"))
	mux.HandleFunc("GET /api/admin/settings/score-deviation", MetricsMiddleware(s.review.HandleGetThreshold, "settings"))
	mux.HandleFunc("PUT /api/admin/settings/score-deviation", MetricsMiddleware(s.review.HandleSetThreshold, "settings"))

	mux.HandleFunc("POST /api/admin/classes", MetricsMiddleware(s.roster.HandleCreateClass, "classes"))
	mux.HandleFunc("GET /api/admin/classes", MetricsMiddleware(s.roster.HandleListClasses, "classes"))
	mux.HandleFunc("PUT /api/admin/classes/{id}", MetricsMiddleware(s.roster.HandleUpdateClass, "classes"))
	mux.HandleFunc("DELETE /api/admin/classes/{id}", MetricsMiddleware(s.roster.HandleDeleteClass, "classes"))

	mux.HandleFunc("POST /api/admin/competitors", MetricsMiddleware(s.roster.HandleCreateCompetitor, "competitors"))
	mux.HandleFunc("GET /api/admin/competitors", MetricsMiddleware(s.roster.HandleListCompetitors, "competitors"))
	mux.HandleFunc("PUT /api/admin/competitors/{id}", MetricsMiddleware(s.roster.HandleUpdateCompetitor, "competitors"))
	mux.HandleFunc("DELETE /api/admin/competitors/{id}", MetricsMiddleware(s.roster.HandleDeleteCompetitor, "competitors"))

	mux.HandleFunc("POST /api/admin/rounds", MetricsMiddleware(s.rounds.HandleCreate, "rounds"))
	mux.HandleFunc("GET /api/admin/rounds", MetricsMiddleware(s.rounds.HandleList, "rounds"))
	mux.HandleFunc("PUT /api/admin/rounds/{id}", MetricsMiddleware(s.rounds.HandleUpdate, "rounds"))
	mux.HandleFunc("DELETE /api/admin/rounds/{id}", MetricsMiddleware(s.rounds.HandleDelete, "rounds"))

	mux.HandleFunc("GET /api/leaderboard/minor-rounds/cumulative", MetricsMiddleware(s.leaderboard.HandleCumulative, "leaderboard"))
	mux.HandleFunc("GET /api/leaderboard/{round_id}", MetricsMiddleware(s.leaderboard.HandleRound, "leaderboard"))
}

const defaultMaxLeaderboardLimit = 1000

type serverConfig struct {
	policy              scoring.Policy
	maxLeaderboardLimit int
}

// Option applies a configuration option to the server.
type Option func(*serverConfig)

// WithCoercionPolicy controls how malformed category values are treated.
func WithCoercionPolicy(p scoring.Policy) Option {
	return func(c *serverConfig) {
		c.policy = p
	}
}

// WithMaxLeaderboardLimit caps the leaderboard limit query parameter.
func WithMaxLeaderboardLimit(n int) Option {
	return func(c *serverConfig) {
		c.maxLeaderboardLimit = n
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps domain sentinels onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, app.ErrUnknownCompetitor),
		errors.Is(err, app.ErrUnknownRound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrUnknownClass),
		errors.Is(err, repository.ErrInvalidThreshold),
		errors.Is(err, scoring.ErrMalformedValue):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrDuplicateID):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, app.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

// newValidator builds the shared request validator. Category values move
// in half-point steps on the score sheet; the halfstep rule enforces it.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		doubled := fl.Field().Float() * 2
		return doubled == math.Trunc(doubled)
	})
	return v
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
		return errors.New(strings.Join(parts, "; "))
	}
	return err
}
