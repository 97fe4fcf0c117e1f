package chi

import (
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
	"github.com/kailas-cloud/philodex/internal/domain/timeline"
	"github.com/kailas-cloud/philodex/internal/domain/vote"
	browseuc "github.com/kailas-cloud/philodex/internal/usecase/browse"
	featureduc "github.com/kailas-cloud/philodex/internal/usecase/featured"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest      ErrorCode = "bad_request"
	ErrorCodeUnauthorized    ErrorCode = "unauthorized"
	ErrorCodeNotFound        ErrorCode = "not_found"
	ErrorCodeSessionNotFound ErrorCode = "session_not_found"
	ErrorCodeRateLimited     ErrorCode = "rate_limited"
	ErrorCodeDataLoadFailed  ErrorCode = "data_load_failed"
	ErrorCodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ArgumentResponse is one argument.
type ArgumentResponse struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	BriefOverview   string `json:"brief_overview,omitempty"`
	Summary         string `json:"summary,omitempty"`
	RealLifeExample string `json:"real_life_example,omitempty"`
	Pro             string `json:"pro,omitempty"`
	Con             string `json:"con,omitempty"`
	KeyPhilosopher  string `json:"key_philosopher,omitempty"`
	Featured        bool   `json:"featured"`
}

// PhilosopherResponse is one philosopher record.
type PhilosopherResponse struct {
	Name            string             `json:"name"`
	Bio             string             `json:"bio,omitempty"`
	Influence       string             `json:"influence,omitempty"`
	Born            string             `json:"born,omitempty"`
	Image           string             `json:"image,omitempty"`
	Works           []string           `json:"works"`
	CentralArgument string             `json:"central_argument"`
	Arguments       []ArgumentResponse `json:"arguments"`
}

// ListResponse wraps a list of items.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// TimelineEntryResponse is one point on the timeline.
type TimelineEntryResponse struct {
	Name  string   `json:"name"`
	Date  string   `json:"date,omitempty"`
	Year  *int     `json:"year"`
	Works []string `json:"works"`
}

// PageResponse is the visible window of one carousel.
type PageResponse[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	MaxPage int  `json:"max_page"`
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	CanPrev bool `json:"can_prev"`
	CanNext bool `json:"can_next"`
}

// SessionResponse is the rendered state of a browse session.
type SessionResponse struct {
	ID           string                            `json:"id"`
	Query        string                            `json:"query"`
	Category     string                            `json:"category"`
	Philosophers PageResponse[PhilosopherResponse] `json:"philosophers"`
	Arguments    PageResponse[ArgumentResponse]    `json:"arguments"`
}

// SearchRequest is the body of POST /sessions/{id}/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// CategoryRequest is the body of POST /sessions/{id}/category.
type CategoryRequest struct {
	Category string `json:"category"`
}

// VoteRequest is the body of POST /arguments/{title}/votes.
type VoteRequest struct {
	Choice string `json:"choice"`
}

// VoteResponse is the tally of one argument.
type VoteResponse struct {
	Title    string `json:"title"`
	Agree    int64  `json:"agree"`
	Disagree int64  `json:"disagree"`
	Total    int64  `json:"total"`
}

// QuizResponse is a quiz without its answer.
type QuizResponse struct {
	Title    string   `json:"title"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizAnswerRequest is the body of POST /featured/quiz. Answer is 1-based.
type QuizAnswerRequest struct {
	Title  string `json:"title"`
	Answer int    `json:"answer"`
}

// QuizResultResponse is the outcome of a quiz answer.
type QuizResultResponse struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Answer        string `json:"answer"`
}

// ReloadResponse reports the catalog published by POST /admin/reload.
type ReloadResponse struct {
	Philosophers int `json:"philosophers"`
	Arguments    int `json:"arguments"`
}

func argumentToResponse(a philosopher.Argument) ArgumentResponse {
	return ArgumentResponse{
		Title:           a.Title(),
		Category:        string(a.Category()),
		Description:     a.Description(),
		BriefOverview:   a.BriefOverview(),
		Summary:         a.Summary(),
		RealLifeExample: a.RealLifeExample(),
		Pro:             a.Pro(),
		Con:             a.Con(),
		KeyPhilosopher:  a.KeyPhilosopher(),
		Featured:        a.Featured(),
	}
}

func argumentsToResponse(args []philosopher.Argument) []ArgumentResponse {
	out := make([]ArgumentResponse, len(args))
	for i, a := range args {
		out[i] = argumentToResponse(a)
	}
	return out
}

func philosopherToResponse(p philosopher.Philosopher) PhilosopherResponse {
	return PhilosopherResponse{
		Name:            p.Name(),
		Bio:             p.Bio(),
		Influence:       p.Influence(),
		Born:            p.Born(),
		Image:           p.Image(),
		Works:           p.Works(),
		CentralArgument: p.CentralArgument().Title(),
		Arguments:       argumentsToResponse(p.Arguments()),
	}
}

func philosophersToResponse(ps []philosopher.Philosopher) []PhilosopherResponse {
	out := make([]PhilosopherResponse, len(ps))
	for i, p := range ps {
		out[i] = philosopherToResponse(p)
	}
	return out
}

func timelineToResponse(entries []timeline.Entry) []TimelineEntryResponse {
	out := make([]TimelineEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = TimelineEntryResponse{Name: e.Name, Date: e.Date, Works: e.Works}
		if e.Known {
			year := e.Year
			out[i].Year = &year
		}
	}
	return out
}

func pageToResponse[T, R any](p browseuc.Page[T], conv func([]T) []R) PageResponse[R] {
	return PageResponse[R]{
		Items:   conv(p.Items),
		Page:    p.Page,
		MaxPage: p.MaxPage,
		Total:   p.Total,
		Offset:  p.Offset,
		CanPrev: p.CanPrev,
		CanNext: p.CanNext,
	}
}

func sessionToResponse(s browseuc.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		Query:        s.View.Query,
		Category:     string(s.View.Category),
		Philosophers: pageToResponse(s.View.Philosophers, philosophersToResponse),
		Arguments:    pageToResponse(s.View.Arguments, argumentsToResponse),
	}
}

func voteToResponse(title string, c vote.Count) VoteResponse {
	return VoteResponse{Title: title, Agree: c.Agree, Disagree: c.Disagree, Total: c.Total()}
}

func quizToResponse(q featureduc.Quiz) QuizResponse {
	return QuizResponse{Title: q.Title, Question: q.Question, Options: q.Options}
}

func quizResultToResponse(r featureduc.Result) QuizResultResponse {
	return QuizResultResponse{Correct: r.Correct, CorrectAnswer: r.CorrectAnswer, Answer: r.Answer}
}
