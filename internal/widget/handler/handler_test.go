package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"proxyauth/internal/platform/middleware"
	"proxyauth/internal/staticdata"
	"proxyauth/internal/widget/assets"
	"proxyauth/internal/widget/audit"
	"proxyauth/internal/widget/callback"
	"proxyauth/internal/widget/dispatch"
	"proxyauth/internal/widget/loader"
	"proxyauth/internal/widget/registry"
	"proxyauth/internal/widget/session"
	"proxyauth/internal/widget/token"
)

const mobileUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

type HandlerSuite struct {
	suite.Suite
	assetSrv *httptest.Server
	sessions *session.InMemory
	auditor  *audit.Memory
	router   http.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.assetSrv = httptest.NewServer(assets.Handler())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	inv := callback.New(logger, nil)

	reg := registry.New()
	ld, err := loader.New(reg, loader.NewHTTPSource(nil), s.assetSrv.URL, inv,
		loader.WithLogger(logger),
	)
	s.Require().NoError(err)

	rt := dispatch.New(reg, ld, staticdata.NewFixture(), inv, dispatch.WithLogger(logger))

	s.sessions = session.NewInMemory()
	s.auditor = audit.NewMemory()
	signer := token.NewSigner("handler-test-key", "proxyauth", time.Minute)

	h := New(rt, s.sessions, signer, s.auditor, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Variant)
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.assetSrv.Close()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) postJSON(path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) createSession(body string) SessionResponse {
	rec := s.postJSON("/widget/sessions", body, nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp SessionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestCreateSessionDefaults() {
	resp := s.createSession(`{}`)

	s.NotEmpty(resp.ID)
	s.Equal("user-details", resp.Type)
	s.Contains(resp.HTML, "Avery Collins")
	s.Contains(resp.HTML, "<style>")
	s.NotEmpty(resp.Actions)
	s.NotEmpty(resp.ActionToken)
}

func (s *HandlerSuite) TestCreateSessionExplicitType() {
	resp := s.createSession(`{"type": "company-directory"}`)

	s.Equal("company-directory", resp.Type)
	s.Contains(resp.HTML, "Northwind Traders")
	s.Contains(resp.Actions, "leave")
}

func (s *HandlerSuite) TestCreateSessionUnknownType() {
	rec := s.postJSON("/widget/sessions", `{"type": "bogus-embed"}`, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "unknown_embed_type")
}

func (s *HandlerSuite) TestCreateSessionInvalidSelector() {
	rec := s.postJSON("/widget/sessions", `{"selector": ".class-selector"}`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreateSessionMalformedBody() {
	rec := s.postJSON("/widget/sessions", `{not json`, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCreateSessionMobileVariant() {
	req := httptest.NewRequest(http.MethodPost, "/widget/sessions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", mobileUA)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusCreated, rec.Code)
	var resp SessionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Contains(resp.HTML, "pa-embed compact", "mobile clients get the compact variant")
}

func (s *HandlerSuite) TestExplicitVariantOverridesDetection() {
	req := httptest.NewRequest(http.MethodPost, "/widget/sessions", strings.NewReader(`{"variant": "dark"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", mobileUA)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusCreated, rec.Code)
	var resp SessionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Contains(resp.HTML, "pa-embed dark")
	s.NotContains(resp.HTML, "compact")
}

func (s *HandlerSuite) TestGetSession() {
	created := s.createSession(`{}`)

	req := httptest.NewRequest(http.MethodGet, "/widget/sessions/"+created.ID, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp SessionViewResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(created.ID, resp.ID)
	s.NotNil(resp.Payloads)
	s.Empty(resp.Payloads)
}

func (s *HandlerSuite) TestGetSessionMissing() {
	req := httptest.NewRequest(http.MethodGet, "/widget/sessions/not-a-session", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestTriggerAction() {
	created := s.createSession(`{"type": "user-management"}`)
	s.Require().Contains(created.Actions, "add-user")

	rec := s.postJSON(
		"/widget/sessions/"+created.ID+"/actions/add-user",
		`{"params": {"name": "New Person", "email": "new@example.com", "role": "member"}}`,
		map[string]string{"Authorization": "Bearer " + created.ActionToken},
	)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp ActionResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("add-user", resp.Action)
	s.Require().Len(resp.Payloads, 1)
	s.Equal("add-user", resp.Payloads[0].Action)
	s.Equal("new@example.com", resp.Payloads[0].Data["email"])

	events := s.auditor.Events()
	s.Require().Len(events, 1)
	s.Equal(created.ID, events[0].SessionID)
	s.Equal("add-user", events[0].Action)
}

func (s *HandlerSuite) TestTriggerActionEmptyBody() {
	created := s.createSession(`{}`)
	s.Require().Contains(created.Actions, "refresh")

	rec := s.postJSON(
		"/widget/sessions/"+created.ID+"/actions/refresh",
		"",
		map[string]string{"Authorization": "Bearer " + created.ActionToken},
	)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *HandlerSuite) TestTriggerActionRequiresToken() {
	created := s.createSession(`{}`)

	rec := s.postJSON("/widget/sessions/"+created.ID+"/actions/refresh", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestTriggerActionRejectsForeignToken() {
	first := s.createSession(`{}`)
	second := s.createSession(`{}`)

	rec := s.postJSON(
		"/widget/sessions/"+first.ID+"/actions/refresh",
		"",
		map[string]string{"Authorization": "Bearer " + second.ActionToken},
	)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestTriggerActionNotCovered() {
	created := s.createSession(`{}`) // user-details: no add-user action

	rec := s.postJSON(
		"/widget/sessions/"+created.ID+"/actions/add-user",
		"",
		map[string]string{"Authorization": "Bearer " + created.ActionToken},
	)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestTriggerActionGarbageToken() {
	created := s.createSession(`{}`)

	rec := s.postJSON(
		"/widget/sessions/"+created.ID+"/actions/refresh",
		"",
		map[string]string{"Authorization": "Bearer not.a.token"},
	)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestDeleteSession() {
	created := s.createSession(`{}`)

	req := httptest.NewRequest(http.MethodDelete, "/widget/sessions/"+created.ID, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/widget/sessions/"+created.ID, nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestDeleteSessionMissing() {
	req := httptest.NewRequest(http.MethodDelete, "/widget/sessions/ghost", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusNotFound, rec.Code)
}
