package chi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/philodex/internal/domain/vote"
	browseuc "github.com/kailas-cloud/philodex/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/philodex/internal/usecase/catalog"
	featureduc "github.com/kailas-cloud/philodex/internal/usecase/featured"
	healthuc "github.com/kailas-cloud/philodex/internal/usecase/health"
	votesuc "github.com/kailas-cloud/philodex/internal/usecase/votes"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// Options configures route guards.
type Options struct {
	// APIKeys guard /admin routes. Empty disables the check.
	APIKeys []string
	// VoteLimiter throttles vote submissions per client. Nil disables throttling.
	VoteLimiter *ClientLimiter
}

// Server serves the catalog HTTP API.
type Server struct {
	catalog       *cataloguc.Service
	browse        *browseuc.Service
	votes         *votesuc.Service
	featured      *featureduc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	browse *browseuc.Service,
	votes *votesuc.Service,
	featured *featureduc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	return &Server{
		catalog:       catalog,
		browse:        browse,
		votes:         votes,
		featured:      featured,
		health:        health,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/philosophers", s.ListPhilosophers)
	r.Get("/philosophers/{name}", s.GetPhilosopher)
	r.Get("/arguments", s.ListArguments)
	r.Get("/timeline", s.Timeline)

	r.Get("/featured", s.GetFeatured)
	r.Get("/featured/quiz", s.GetQuiz)
	r.Post("/featured/quiz", s.AnswerQuiz)

	r.Post("/sessions", s.CreateSession)
	r.Get("/sessions/{id}", s.GetSession)
	r.Delete("/sessions/{id}", s.EndSession)
	r.Post("/sessions/{id}/search", s.SearchSession)
	r.Post("/sessions/{id}/category", s.SelectSessionCategory)
	r.Post("/sessions/{id}/{carousel}/{direction}", s.NavigateSession)

	r.Get("/arguments/{title}/votes", s.GetVotes)
	r.Group(func(r chi.Router) {
		if s.opts.VoteLimiter != nil {
			r.Use(s.opts.VoteLimiter.Middleware)
		}
		r.Post("/arguments/{title}/votes", s.CastVote)
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(s.opts.APIKeys))
		r.Post("/admin/reload", s.Reload)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// ListPhilosophers handles GET /philosophers?q=.
func (s *Server) ListPhilosophers(w http.ResponseWriter, r *http.Request) {
	items := philosophersToResponse(s.catalog.Search(r.URL.Query().Get("q")))
	writeJSON(w, http.StatusOK, ListResponse[PhilosopherResponse]{Items: items, Total: len(items)})
}

// GetPhilosopher handles GET /philosophers/{name}.
func (s *Server) GetPhilosopher(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Philosopher(pathParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, philosopherToResponse(p))
}

// ListArguments handles GET /arguments?category=&q=.
func (s *Server) ListArguments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	args := s.catalog.Arguments(q.Get("q"), cataloguc.ParseFilter(q.Get("category")))
	items := argumentsToResponse(args)
	writeJSON(w, http.StatusOK, ListResponse[ArgumentResponse]{Items: items, Total: len(items)})
}

// Timeline handles GET /timeline?q=.
func (s *Server) Timeline(w http.ResponseWriter, r *http.Request) {
	items := timelineToResponse(s.catalog.Timeline(r.URL.Query().Get("q")))
	writeJSON(w, http.StatusOK, ListResponse[TimelineEntryResponse]{Items: items, Total: len(items)})
}

// GetFeatured handles GET /featured.
func (s *Server) GetFeatured(w http.ResponseWriter, r *http.Request) {
	a, err := s.featured.Current()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, argumentToResponse(a))
}

// GetQuiz handles GET /featured/quiz.
func (s *Server) GetQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.featured.Quiz()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizToResponse(q))
}

// AnswerQuiz handles POST /featured/quiz.
func (s *Server) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "title is required")
		return
	}

	res, err := s.featured.Answer(req.Title, req.Answer)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResultToResponse(res))
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.browse.Create(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.browse.Get(r.Context(), chi.URLParam(r, "id"))
	s.writeSession(w, r, sess, err)
}

// EndSession handles DELETE /sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.browse.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchSession handles POST /sessions/{id}/search.
func (s *Server) SearchSession(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.browse.Search(r.Context(), chi.URLParam(r, "id"), req.Query)
	s.writeSession(w, r, sess, err)
}

// SelectSessionCategory handles POST /sessions/{id}/category.
func (s *Server) SelectSessionCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.browse.SelectCategory(r.Context(), chi.URLParam(r, "id"), cataloguc.ParseFilter(req.Category))
	s.writeSession(w, r, sess, err)
}

// NavigateSession handles POST /sessions/{id}/{carousel}/{direction}.
func (s *Server) NavigateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.browse.Navigate(r.Context(),
		chi.URLParam(r, "id"),
		browseuc.Carousel(chi.URLParam(r, "carousel")),
		browseuc.Direction(chi.URLParam(r, "direction")),
	)
	s.writeSession(w, r, sess, err)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, sess browseuc.Session, err error) {
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

// GetVotes handles GET /arguments/{title}/votes.
func (s *Server) GetVotes(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")
	c, err := s.votes.Count(r.Context(), title)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, voteToResponse(title, c))
}

// CastVote handles POST /arguments/{title}/votes.
func (s *Server) CastVote(w http.ResponseWriter, r *http.Request) {
	var req VoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	title := pathParam(r, "title")
	c, err := s.votes.Cast(r.Context(), title, vote.Choice(req.Choice))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, voteToResponse(title, c))
}

// Reload handles POST /admin/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Load(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	idx := s.catalog.Index()
	writeJSON(w, http.StatusOK, ReloadResponse{
		Philosophers: idx.Len(),
		Arguments:    len(idx.Arguments()),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathParam returns a decoded path parameter. chi matches on the raw path
// when the request carries escaped slashes, leaving the value escaped.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
