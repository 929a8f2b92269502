package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/datallboy/toolfetch/internal/api/controllers"
	"github.com/datallboy/toolfetch/internal/app"
	"github.com/datallboy/toolfetch/internal/auth"
	"github.com/datallboy/toolfetch/internal/domain"
	"github.com/datallboy/toolfetch/internal/infra/config"
	"github.com/datallboy/toolfetch/internal/infra/logger"
)

type fakeDownloads struct {
	startErr  error
	cancelErr error
	decide    bool
	started   []string
	cancelled []string
}

func (f *fakeDownloads) StartDownload(source domain.Source, url string) error {
	f.started = append(f.started, string(source.ID)+" "+url)
	return f.startErr
}

func (f *fakeDownloads) Cancel(url string) error {
	f.cancelled = append(f.cancelled, url)
	return f.cancelErr
}

func (f *fakeDownloads) Active() []string { return []string{"http://a/x.dmg"} }

func (f *fakeDownloads) DecideNavigation(source domain.Source, url string) bool { return f.decide }

type fakeStatus struct {
	last string
}

func (f *fakeStatus) Last() string          { return f.last }
func (f *fakeStatus) SetStatus(text string) { f.last = text }
func (f *fakeStatus) Downloads() []domain.DownloadStatus {
	return []domain.DownloadStatus{{URL: "http://a/x.dmg", Status: "12%", Progress: 12, HasProgress: true}}
}

type fakeEvents struct {
	err error
	url string
}

func (f *fakeEvents) ListEvents(ctx context.Context, url string) ([]domain.LoggedEvent, error) {
	f.url = url
	if f.err != nil {
		return nil, f.err
	}
	return []domain.LoggedEvent{{ID: "1", Event: domain.Event{Kind: domain.EventStarted, URL: url}}}, nil
}

type testServer struct {
	e         *echo.Echo
	app       *app.Context
	downloads *fakeDownloads
	status    *fakeStatus
	events    *fakeEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		e:         echo.New(),
		downloads: &fakeDownloads{},
		status:    &fakeStatus{},
		events:    &fakeEvents{},
	}
	s.app = &app.Context{
		Config: &config.Config{Auth: config.AuthConfig{CookieName: auth.DefaultCookieName}},
		Logger: logger.NewWriter(io.Discard, logger.LevelDebug),
		Tokens: auth.NewTokenStore(),

		Downloads: s.downloads,
		Status:    s.status,
		Events:    s.events,
	}
	RegisterRoutes(s.e, s.app)
	return s
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestSources(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/sources", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	sources := decode[[]domain.Source](t, rec)
	if len(sources) != 2 || sources[0].ID != domain.SourceTools {
		t.Errorf("Unexpected catalog: %+v", sources)
	}
}

func TestStartDownload(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/downloads", `{"source":"video","url":"https://example.com/a.mp4"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(s.downloads.started) != 1 || s.downloads.started[0] != "video https://example.com/a.mp4" {
		t.Errorf("Unexpected start calls: %v", s.downloads.started)
	}
}

func TestStartDownloadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		code   int
		status string
	}{
		{"unknown source", `{"source":"music","url":"http://a"}`, nil, http.StatusBadRequest, domain.StatusUnknownSource},
		{"missing url", `{"source":"video"}`, domain.ErrMissingURL, http.StatusBadRequest, domain.StatusURLNotFound},
		{"missing token", `{"source":"tools","url":"http://a"}`, fmt.Errorf("source tools: %w", domain.ErrMissingAuthToken), http.StatusPreconditionFailed, domain.StatusAuthTokenNotFound},
		{"in progress", `{"source":"video","url":"http://a"}`, domain.ErrDownloadInProgress, http.StatusConflict, domain.StatusInProgress},
		{"launch failure", `{"source":"video","url":"http://a"}`, fmt.Errorf("%w: boom", domain.ErrLaunchFailure), http.StatusBadGateway, domain.StatusLaunchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.downloads.startErr = tt.err

			rec := s.do(http.MethodPost, "/api/downloads", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("Expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if got := decode[controllers.StatusResponse](t, rec); got.Status != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, got.Status)
			}
		})
	}
}

func TestListDownloads(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/downloads", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	list := decode[controllers.DownloadList](t, rec)
	if len(list.Active) != 1 || len(list.Downloads) != 1 || list.Downloads[0].Progress != 12 {
		t.Errorf("Unexpected list: %+v", list)
	}
}

func TestCancelDownload(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodDelete, "/api/downloads?url=http://a/x.dmg", ""); rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if len(s.downloads.cancelled) != 1 || s.downloads.cancelled[0] != "http://a/x.dmg" {
		t.Errorf("Unexpected cancel calls: %v", s.downloads.cancelled)
	}

	s.downloads.cancelErr = domain.ErrNotRunning
	if rec := s.do(http.MethodDelete, "/api/downloads?url=http://b", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}

	if rec := s.do(http.MethodDelete, "/api/downloads", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without url, got %d", rec.Code)
	}
}

func TestSetToken(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodPost, "/api/token", `{"token":"abc"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	if tok, ok := s.app.Tokens.Get(); !ok || tok != "abc" {
		t.Errorf("Expected token abc, got %q (%v)", tok, ok)
	}
}

func TestIngestCookies(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/cookies", `[{"name":"other","value":"x"}]`)
	if got := decode[controllers.StatusResponse](t, rec); got.Status != domain.StatusAuthTokenNotFound {
		t.Errorf("Expected %s, got %s", domain.StatusAuthTokenNotFound, got.Status)
	}
	if _, ok := s.app.Tokens.Get(); ok {
		t.Error("Expected no token to be stored")
	}

	rec = s.do(http.MethodPost, "/api/cookies", `[{"name":"ADCDownloadAuth","value":"secret"}]`)
	if got := decode[controllers.StatusResponse](t, rec); got.Status != domain.StatusAuthTokenSuccess {
		t.Errorf("Expected %s, got %s", domain.StatusAuthTokenSuccess, got.Status)
	}
	if tok, _ := s.app.Tokens.Get(); tok != "secret" {
		t.Errorf("Expected token secret, got %q", tok)
	}
	if s.status.last != domain.StatusAuthTokenSuccess {
		t.Errorf("Expected status board update, got %q", s.status.last)
	}
}

func TestIngestCookieHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cookies", nil)
	req.Header.Set("Cookie", "a=1; ADCDownloadAuth=fromheader")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if got := decode[controllers.StatusResponse](t, rec); got.Status != domain.StatusAuthTokenSuccess {
		t.Errorf("Expected %s, got %s", domain.StatusAuthTokenSuccess, got.Status)
	}
	if tok, _ := s.app.Tokens.Get(); tok != "fromheader" {
		t.Errorf("Expected token fromheader, got %q", tok)
	}
}

func TestNavigation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/navigation/decide", `{"source":"video","url":"https://example.com/page"}`)
	if got := decode[controllers.NavigationPolicy](t, rec); got.Policy != controllers.PolicyAllow {
		t.Errorf("Expected allow, got %s", got.Policy)
	}

	s.downloads.decide = true
	rec = s.do(http.MethodPost, "/api/navigation/decide", `{"source":"video","url":"https://example.com/a.mp4"}`)
	if got := decode[controllers.NavigationPolicy](t, rec); got.Policy != controllers.PolicyCancel {
		t.Errorf("Expected cancel, got %s", got.Policy)
	}

	rec = s.do(http.MethodPost, "/api/navigation/finished", `{"url":"https://idmsa.apple.com/signin"}`)
	if got := decode[controllers.StatusResponse](t, rec); got.Status != domain.StatusLoginRequired {
		t.Errorf("Expected %s, got %s", domain.StatusLoginRequired, got.Status)
	}

	rec = s.do(http.MethodGet, "/api/status", "")
	if got := decode[controllers.StatusResponse](t, rec); got.Status != domain.StatusLoginRequired {
		t.Errorf("Expected last status %s, got %s", domain.StatusLoginRequired, got.Status)
	}
}

func TestEvents(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/events?url=http://a/x.dmg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if s.events.url != "http://a/x.dmg" {
		t.Errorf("Expected url filter to be passed through, got %q", s.events.url)
	}
	events := decode[[]domain.LoggedEvent](t, rec)
	if len(events) != 1 || events[0].Kind != domain.EventStarted {
		t.Errorf("Unexpected events: %+v", events)
	}

	s.events.err = fmt.Errorf("db closed")
	if rec := s.do(http.MethodGet, "/api/events", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}
