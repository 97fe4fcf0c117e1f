package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/philodex/internal/db/memory"
	catalogrepo "github.com/kailas-cloud/philodex/internal/repository/catalog"
	"github.com/kailas-cloud/philodex/internal/repository/session"
	votesrepo "github.com/kailas-cloud/philodex/internal/repository/votes"
	browseuc "github.com/kailas-cloud/philodex/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/philodex/internal/usecase/catalog"
	featureduc "github.com/kailas-cloud/philodex/internal/usecase/featured"
	healthuc "github.com/kailas-cloud/philodex/internal/usecase/health"
	votesuc "github.com/kailas-cloud/philodex/internal/usecase/votes"
)

const catalogJSON = `[
  {
    "name": "René Descartes",
    "birthYear": "1596",
    "works": ["Meditations on First Philosophy"],
    "arguments": [
      {"title": "Cogito", "description": "I think, therefore I am.", "featured": true},
      {"title": "Ontological Argument", "keyPhilosopher": "Anselm of Canterbury", "featured": true}
    ]
  },
  {
    "name": "Aristotle",
    "birthYear": "384 BC",
    "works": ["Nicomachean Ethics"],
    "arguments": [{"title": "Virtue Ethics", "description": "Character over rules."}]
  },
  {
    "name": "Anselm of Canterbury",
    "birthYear": 1033,
    "works": ["Proslogion"],
    "arguments": [{"title": "Ontological Argument", "keyPhilosopher": "Anselm of Canterbury"}]
  },
  {
    "name": "Immanuel Kant",
    "birthYear": "1724",
    "works": ["Critique of Pure Reason"],
    "arguments": [{"title": "Categorical Imperative", "category": "ethics"}]
  },
  {
    "name": "Søren Kierkegaard",
    "birthYear": "1813",
    "works": ["Fear and Trembling"],
    "arguments": [{"title": "Leap of Faith"}]
  }
]`

type testEnv struct {
	handler http.Handler
	catalog *cataloguc.Service
	path    string
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "philosophers.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	store := memory.NewStore(time.Minute)

	catalogSvc := cataloguc.New(catalogrepo.New(path, time.Second, logger), logger)
	if err := catalogSvc.Load(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	rotator, err := featureduc.NewRotator(catalogSvc, "", logger)
	if err != nil {
		t.Fatal(err)
	}

	srv := NewServer(
		catalogSvc,
		browseuc.New(catalogSvc, session.New[browseuc.State](time.Minute, time.Minute), browseuc.DefaultLayout()),
		votesuc.New(votesrepo.New(store, ""), catalogSvc),
		featureduc.New(catalogSvc, rotator),
		healthuc.New(store, catalogSvc),
		opts,
		logger,
	)

	r := chi.NewRouter()
	srv.Register(r)
	return &testEnv{handler: r, catalog: catalogSvc, path: path}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	rr := env.do(t, http.MethodGet, "/health", nil)
	expectStatus(t, rr, http.StatusOK)

	resp := decode[HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["catalog"] != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestListPhilosophers(t *testing.T) {
	env := newTestEnv(t, Options{})

	tests := []struct {
		query string
		want  int
	}{
		{"", 5},
		{"a", 5},
		{"ontological", 2},
		{"PROSLOGION", 1},
		{"nobody", 0},
	}
	for _, tc := range tests {
		rr := env.do(t, http.MethodGet, "/philosophers?q="+tc.query, nil)
		expectStatus(t, rr, http.StatusOK)
		resp := decode[ListResponse[PhilosopherResponse]](t, rr)
		if resp.Total != tc.want || len(resp.Items) != tc.want {
			t.Errorf("q=%q: total %d, want %d", tc.query, resp.Total, tc.want)
		}
	}
}

func TestGetPhilosopher(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := env.do(t, http.MethodGet, "/philosophers/Ren%C3%A9%20Descartes", nil)
	expectStatus(t, rr, http.StatusOK)
	p := decode[PhilosopherResponse](t, rr)
	if p.CentralArgument != "Cogito" || len(p.Arguments) != 2 {
		t.Errorf("unexpected philosopher %+v", p)
	}

	rr = env.do(t, http.MethodGet, "/philosophers/Plato", nil)
	expectStatus(t, rr, http.StatusNotFound)
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeNotFound {
		t.Errorf("error code = %s", e.Code)
	}
}

func TestListArguments(t *testing.T) {
	env := newTestEnv(t, Options{})

	tests := []struct {
		target string
		want   []string
	}{
		{"/arguments", []string{"Cogito", "Ontological Argument", "Virtue Ethics", "Categorical Imperative", "Leap of Faith"}},
		{"/arguments?category=ethics", []string{"Virtue Ethics", "Categorical Imperative"}},
		{"/arguments?category=all&q=descartes", []string{"Cogito", "Ontological Argument"}},
		{"/arguments?category=existence&q=descartes", []string{"Ontological Argument"}},
		{"/arguments?category=astrology", []string{}},
	}
	for _, tc := range tests {
		rr := env.do(t, http.MethodGet, tc.target, nil)
		expectStatus(t, rr, http.StatusOK)
		resp := decode[ListResponse[ArgumentResponse]](t, rr)
		got := make([]string, len(resp.Items))
		for i, a := range resp.Items {
			got[i] = a.Title
		}
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.target, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.target, got, tc.want)
				break
			}
		}
	}
}

func TestTimeline(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := env.do(t, http.MethodGet, "/timeline", nil)
	expectStatus(t, rr, http.StatusOK)
	resp := decode[ListResponse[TimelineEntryResponse]](t, rr)

	if resp.Total != 5 {
		t.Fatalf("expected 5 entries, got %d", resp.Total)
	}
	if resp.Items[0].Name != "Aristotle" || resp.Items[0].Year == nil || *resp.Items[0].Year != -384 {
		t.Errorf("expected Aristotle first at -384, got %+v", resp.Items[0])
	}
	if resp.Items[4].Name != "Søren Kierkegaard" {
		t.Errorf("expected Kierkegaard last, got %s", resp.Items[4].Name)
	}
}

func TestFeaturedAndQuiz(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := env.do(t, http.MethodGet, "/featured", nil)
	expectStatus(t, rr, http.StatusOK)
	if a := decode[ArgumentResponse](t, rr); a.Title != "Cogito" {
		t.Errorf("featured = %q, want Cogito", a.Title)
	}

	rr = env.do(t, http.MethodGet, "/featured/quiz", nil)
	expectStatus(t, rr, http.StatusOK)
	quiz := decode[QuizResponse](t, rr)
	if quiz.Question != "Who proposed the Cogito?" || len(quiz.Options) != 4 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}

	correct := 0
	for i, o := range quiz.Options {
		if o == "René Descartes" {
			correct = i + 1
		}
	}
	rr = env.do(t, http.MethodPost, "/featured/quiz", QuizAnswerRequest{Title: quiz.Title, Answer: correct})
	expectStatus(t, rr, http.StatusOK)
	if res := decode[QuizResultResponse](t, rr); !res.Correct || res.Answer != "René Descartes" {
		t.Errorf("unexpected result %+v", res)
	}

	rr = env.do(t, http.MethodPost, "/featured/quiz", QuizAnswerRequest{Title: quiz.Title, Answer: 9})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, http.MethodPost, "/featured/quiz", QuizAnswerRequest{Answer: 1})
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestSessionFlow(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := env.do(t, http.MethodPost, "/sessions", nil)
	expectStatus(t, rr, http.StatusCreated)
	sess := decode[SessionResponse](t, rr)
	if rr.Header().Get("Location") != "/sessions/"+sess.ID {
		t.Errorf("unexpected Location %q", rr.Header().Get("Location"))
	}
	if len(sess.Philosophers.Items) != 3 || sess.Philosophers.MaxPage != 1 || !sess.Philosophers.CanNext {
		t.Fatalf("unexpected initial philosophers page %+v", sess.Philosophers)
	}

	rr = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/philosophers/next", nil)
	expectStatus(t, rr, http.StatusOK)
	sess = decode[SessionResponse](t, rr)
	if sess.Philosophers.Page != 1 || len(sess.Philosophers.Items) != 2 || sess.Philosophers.Offset != 990 {
		t.Errorf("unexpected second page %+v", sess.Philosophers)
	}

	rr = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/category", CategoryRequest{Category: "Ethics"})
	expectStatus(t, rr, http.StatusOK)
	sess = decode[SessionResponse](t, rr)
	if sess.Category != "ethics" || sess.Arguments.Total != 2 {
		t.Errorf("unexpected category view %s/%d", sess.Category, sess.Arguments.Total)
	}

	rr = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/search", SearchRequest{Query: "kant"})
	expectStatus(t, rr, http.StatusOK)
	sess = decode[SessionResponse](t, rr)
	if sess.Philosophers.Total != 1 || sess.Philosophers.Page != 0 || sess.Arguments.Total != 1 {
		t.Errorf("unexpected search view %+v", sess)
	}

	rr = env.do(t, http.MethodGet, "/sessions/"+sess.ID, nil)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[SessionResponse](t, rr); got.Query != "kant" {
		t.Errorf("expected query kept, got %q", got.Query)
	}

	rr = env.do(t, http.MethodDelete, "/sessions/"+sess.ID, nil)
	expectStatus(t, rr, http.StatusNoContent)
	rr = env.do(t, http.MethodGet, "/sessions/"+sess.ID, nil)
	expectStatus(t, rr, http.StatusNotFound)
	rr = env.do(t, http.MethodDelete, "/sessions/"+sess.ID, nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestSessionErrors(t *testing.T) {
	env := newTestEnv(t, Options{})

	rr := env.do(t, http.MethodGet, "/sessions/unknown", nil)
	expectStatus(t, rr, http.StatusNotFound)
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeSessionNotFound {
		t.Errorf("error code = %s", e.Code)
	}

	sess := decode[SessionResponse](t, env.do(t, http.MethodPost, "/sessions", nil))

	rr = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/timeline/next", nil)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, http.MethodPost, "/sessions/"+sess.ID+"/search", "{not json")
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestVotes(t *testing.T) {
	env := newTestEnv(t, Options{})

	target := "/arguments/Virtue%20Ethics/votes"
	rr := env.do(t, http.MethodGet, target, nil)
	expectStatus(t, rr, http.StatusOK)
	if v := decode[VoteResponse](t, rr); v.Total != 0 || v.Title != "Virtue Ethics" {
		t.Errorf("unexpected initial votes %+v", v)
	}

	for _, c := range []string{"agree", "agree", "disagree"} {
		expectStatus(t, env.do(t, http.MethodPost, target, VoteRequest{Choice: c}), http.StatusOK)
	}

	v := decode[VoteResponse](t, env.do(t, http.MethodGet, target, nil))
	if v.Agree != 2 || v.Disagree != 1 || v.Total != 3 {
		t.Errorf("unexpected tally %+v", v)
	}

	expectStatus(t, env.do(t, http.MethodPost, target, VoteRequest{Choice: "maybe"}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/arguments/Nope/votes", VoteRequest{Choice: "agree"}), http.StatusNotFound)
}

func TestVotes_RateLimited(t *testing.T) {
	env := newTestEnv(t, Options{VoteLimiter: NewClientLimiter(0.001, 1, time.Minute)})

	target := "/arguments/Cogito/votes"
	expectStatus(t, env.do(t, http.MethodPost, target, VoteRequest{Choice: "agree"}), http.StatusOK)

	rr := env.do(t, http.MethodPost, target, VoteRequest{Choice: "agree"})
	expectStatus(t, rr, http.StatusTooManyRequests)
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeRateLimited {
		t.Errorf("error code = %s", e.Code)
	}

	// Reads are not throttled.
	expectStatus(t, env.do(t, http.MethodGet, target, nil), http.StatusOK)
}

func TestReload(t *testing.T) {
	env := newTestEnv(t, Options{APIKeys: []string{"ops"}})

	expectStatus(t, env.do(t, http.MethodPost, "/admin/reload", nil), http.StatusUnauthorized)

	rr := env.do(t, http.MethodPost, "/admin/reload", nil, "Authorization", "Bearer ops")
	expectStatus(t, rr, http.StatusOK)
	if resp := decode[ReloadResponse](t, rr); resp.Philosophers != 5 || resp.Arguments != 5 {
		t.Errorf("unexpected reload %+v", resp)
	}

	if err := os.WriteFile(env.path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	rr = env.do(t, http.MethodPost, "/admin/reload", nil, "Authorization", "Bearer ops")
	expectStatus(t, rr, http.StatusBadGateway)
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeDataLoadFailed {
		t.Errorf("error code = %s", e.Code)
	}

	// Previous catalog is still served.
	resp := decode[ListResponse[PhilosopherResponse]](t, env.do(t, http.MethodGet, "/philosophers", nil))
	if resp.Total != 5 {
		t.Errorf("expected previous catalog after failed reload, got %d", resp.Total)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, Options{})
	rr := env.do(t, http.MethodGet, "/nowhere", nil)
	expectStatus(t, rr, http.StatusNotFound)
	if e := decode[ErrorResponse](t, rr); e.Code != ErrorCodeNotFound {
		t.Errorf("error code = %s", e.Code)
	}
}

func TestHandleDomainError_UnknownIsInternal(t *testing.T) {
	srv := &Server{logger: zap.NewNop(), errorHandlers: defaultErrorHandlers()}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	srv.handleDomainError(rr, req, errSecret)
	expectStatus(t, rr, http.StatusInternalServerError)
	if e := decode[ErrorResponse](t, rr); e.Message != "internal error" {
		t.Errorf("internal details leaked: %q", e.Message)
	}
}

var errSecret = &secretError{}

type secretError struct{}

func (*secretError) Error() string { return "dial tcp 10.0.0.5:6379: connection refused" }
