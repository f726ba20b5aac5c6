package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobsphere/jobsphere/internal/analysis"
	"github.com/jobsphere/jobsphere/internal/auth"
	"github.com/jobsphere/jobsphere/internal/database"
	"github.com/jobsphere/jobsphere/internal/jobs"
)

type fakeAnalyzer struct {
	skills    []string
	ideas     []analysis.ProjectIdea
	questions []string
	err       error
}

func (f *fakeAnalyzer) MissingSkills(context.Context, string, string) ([]string, error) {
	return f.skills, f.err
}

func (f *fakeAnalyzer) ProjectIdeas(context.Context, string, string) []analysis.ProjectIdea {
	return f.ideas
}

func (f *fakeAnalyzer) InterviewQuestions(context.Context, string, string) ([]string, error) {
	return f.questions, f.err
}

type fakeScorer struct{ score float64 }

func (f *fakeScorer) Score(string, string) float64 { return f.score }

type fakeSearcher struct {
	listings []jobs.Listing
	err      error
}

func (f *fakeSearcher) Search(context.Context, string, string) ([]jobs.Listing, error) {
	return f.listings, f.err
}

type fakeUserStore struct {
	users map[string]database.User
}

func (f *fakeUserStore) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	u := database.User{ID: arg.ID, Email: arg.Email, PasswordDigest: arg.PasswordDigest}
	f.users[arg.Email] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	u, ok := f.users[email]
	if !ok {
		return database.User{}, sql.ErrNoRows
	}
	return u, nil
}

func newTestApp(h *Handlers) *fiber.App {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	if h.Tokens == nil {
		h.Tokens = auth.NewTokenIssuer("test-secret")
	}
	if h.Users == nil {
		h.Users = &fakeUserStore{users: map[string]database.User{}}
	}
	app := fiber.New()
	Register(app, h)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestProcessResumeWithoutFile(t *testing.T) {
	app := newTestApp(&Handlers{})

	resp, body := postJSON(t, app, "/api/process-resume", "{}")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No resume file found", body["error"])
}

func TestProcessResumeRejectsTxtBeforeValidation(t *testing.T) {
	app := newTestApp(&Handlers{})

	// The body is full of resume keywords, but the extension check must
	// fire before the heuristic ever sees the text.
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("education experience skills projects summary"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("jobRole", "Backend Engineer"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Unsupported file type")
}

func TestProcessResumeCorruptPDF(t *testing.T) {
	app := newTestApp(&Handlers{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume", "resume.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a pdf at all"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process-resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestATSScore(t *testing.T) {
	app := newTestApp(&Handlers{Scorer: &fakeScorer{score: 73.5}})

	resp, body := postJSON(t, app, "/api/analyze/ats-score",
		`{"job_role":"Backend Engineer","job_description":"Go services","resume_text":"Go developer"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Job Match Analysis", body["title"])
	assert.Equal(t, 73.5, body["score"])
	assert.Len(t, body["details"], 3)
}

func TestMissingSkills(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := newTestApp(&Handlers{Analyzer: &fakeAnalyzer{skills: []string{"A", "B"}}})

		resp, body := postJSON(t, app, "/api/analyze/missing-skills",
			`{"job_role":"Backend Engineer","resume_text":"text"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Missing Skills Analysis", body["title"])
		assert.Equal(t, []any{"A", "B"}, body["skills"])
	})

	t.Run("pipeline failure is a 500", func(t *testing.T) {
		app := newTestApp(&Handlers{Analyzer: &fakeAnalyzer{err: errors.New("diff stage failed")}})

		resp, _ := postJSON(t, app, "/api/analyze/missing-skills",
			`{"job_role":"Backend Engineer","resume_text":"text"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestProjectIdeasDegradesToEmptyList(t *testing.T) {
	app := newTestApp(&Handlers{Analyzer: &fakeAnalyzer{ideas: []analysis.ProjectIdea{}}})

	resp, body := postJSON(t, app, "/api/analyze/project-ideas",
		`{"job_role":"Backend Engineer","job_description":"Go"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["projects"])
}

func TestInterviewPrepParseFailure(t *testing.T) {
	app := newTestApp(&Handlers{Analyzer: &fakeAnalyzer{err: errors.New("bad reply")}})

	resp, body := postJSON(t, app, "/api/analyze/interview-prep",
		`{"job_role":"Backend Engineer","resume_text":"text"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Could not parse LLM response", body["error"])
}

func TestJobMatches(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app := newTestApp(&Handlers{Jobs: &fakeSearcher{listings: []jobs.Listing{
			{Title: "Go Developer", Company: "Acme", Location: "Berlin", Link: "https://x"},
		}}})

		resp, body := postJSON(t, app, "/api/analyze/job-matches",
			`{"job_role":"Go Developer","location":"Berlin"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Live Job Matches in Berlin", body["title"])
		require.Len(t, body["jobs"], 1)
	})

	t.Run("aggregator wipeout is a soft 500 with empty jobs", func(t *testing.T) {
		app := newTestApp(&Handlers{Jobs: &fakeSearcher{err: jobs.ErrAllProvidersFailed}})

		resp, body := postJSON(t, app, "/api/analyze/job-matches",
			`{"job_role":"Go Developer","location":"Berlin"}`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, []any{}, body["jobs"])
	})
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(&Handlers{})

	// Signup.
	resp, body := postJSON(t, app, "/api/auth/signup", `{"email":"a@b.c","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["user_id"])

	// Duplicate signup.
	resp, body = postJSON(t, app, "/api/auth/signup", `{"email":"a@b.c","password":"hunter2"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	// Wrong password.
	resp, _ = postJSON(t, app, "/api/auth/login", `{"email":"a@b.c","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Login sets the session cookie.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	loginResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var sessionCookie *http.Cookie
	for _, cookie := range loginResp.Cookies() {
		if cookie.Name == auth.CookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	// Me without the cookie.
	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meResp, err := app.Test(meReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, meResp.StatusCode)

	// Me with the cookie.
	meReq = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meReq.AddCookie(sessionCookie)
	meResp, err = app.Test(meReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	raw, _ := io.ReadAll(meResp.Body)
	assert.Contains(t, string(raw), "user_id")
}
