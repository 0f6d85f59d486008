// Package handler exposes the widget runtime over HTTP. Hosts create a
// session to mount an embed, read back the rendered markup, and trigger the
// actions their session's token covers.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "proxyauth/pkg/domain-errors"
	"proxyauth/pkg/platform/httputil"
	psync "proxyauth/pkg/platform/sync"

	"proxyauth/internal/platform/middleware"
	"proxyauth/internal/widget/audit"
	"proxyauth/internal/widget/dispatch"
	"proxyauth/internal/widget/hostdoc"
	"proxyauth/internal/widget/metrics"
	"proxyauth/internal/widget/models"
	"proxyauth/internal/widget/session"
	"proxyauth/internal/widget/token"
)

// DefaultInitTimeout bounds how long a session request waits for the embed
// to load and render.
const DefaultInitTimeout = 10 * time.Second

type Handler struct {
	runtime  *dispatch.Runtime
	sessions *session.InMemory
	signer   *token.Signer
	audit    audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// actionLocks serializes triggers per session so a session's payload
	// stream stays ordered; different sessions proceed in parallel.
	actionLocks *psync.ShardedMutex

	initTimeout time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithInitTimeout overrides the per-session init timeout.
func WithInitTimeout(d time.Duration) Option {
	return func(h *Handler) { h.initTimeout = d }
}

// WithMetrics injects transport metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func New(rt *dispatch.Runtime, sessions *session.InMemory, signer *token.Signer, auditor audit.Publisher, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		runtime:     rt,
		sessions:    sessions,
		signer:      signer,
		audit:       auditor,
		logger:      logger,
		actionLocks: psync.NewShardedMutex(),
		initTimeout: DefaultInitTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/widget/sessions", h.HandleCreateSession)
	r.Get("/widget/sessions/{id}", h.HandleGetSession)
	r.Delete("/widget/sessions/{id}", h.HandleDeleteSession)
	r.Post("/widget/sessions/{id}/actions/{action}", h.HandleTriggerAction)
}

// HandleCreateSession mounts an embed into a fresh host document and returns
// the rendered markup together with an action token covering the actions the
// embed bound.
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSessionRequest](w, r, h.logger)
	if !ok {
		return
	}

	embedType := models.Type(req.Type)
	if embedType == "" {
		embedType = models.DefaultType
	}
	variant := req.Variant
	if variant == "" {
		variant = middleware.GetVariant(ctx)
	}

	doc := hostdoc.NewReadyDocument()
	el := doc.CreateElement(req.mountID())
	sess := session.New(embedType, doc, el)

	cfg := &models.Config{
		Type:        embedType,
		Selector:    req.Selector,
		ReferenceID: req.ReferenceID,
		ContainerID: req.ContainerID,
		Variant:     variant,
		Extra:       req.Extra,
		Success:     sess.Record,
		Failure: func(err error) {
			h.logger.WarnContext(ctx, "embed init failed",
				"session_id", sess.ID,
				"embed_type", embedType,
				"error", err,
				"request_id", requestID,
			)
		},
	}

	initCtx, cancel := context.WithTimeout(ctx, h.initTimeout)
	defer cancel()

	if err := h.runtime.InitVerification(initCtx, doc, cfg); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if children := el.AttachShadow().Children(); len(children) > 0 {
		sess.Surface = children[len(children)-1]
	}

	if err := h.sessions.Save(ctx, sess); err != nil {
		h.logger.ErrorContext(ctx, "save session failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}
	h.metrics.AddActiveSessions(1)

	var actions []string
	if sess.Surface != nil {
		actions = sess.Surface.Actions()
	}
	signed, err := h.signer.Sign(sess.ID, embedType, actions)
	if err != nil {
		h.logger.ErrorContext(ctx, "sign action token failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue action token"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, NewSessionResponse(sess, signed))
}

// HandleGetSession returns the current state of a session, including every
// payload its embed has emitted so far.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := h.findSession(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewSessionViewResponse(sess))
}

// HandleDeleteSession tears a session down.
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := chi.URLParam(r, "id")
	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "session not found"))
			return
		}
		httputil.WriteError(w, err)
		return
	}
	h.metrics.AddActiveSessions(-1)

	w.WriteHeader(http.StatusNoContent)
}

// HandleTriggerAction runs an action bound on the session's surface. The
// request must carry a bearer token minted for this session that covers the
// named action.
func (h *Handler) HandleTriggerAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	sessionID := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")

	if err := h.authorize(r, sessionID, action); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess, err := h.findSession(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if sess.Surface == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "session has no mounted surface"))
		return
	}

	req, ok := decodeActionRequest(w, r, h.logger)
	if !ok {
		return
	}

	h.actionLocks.Lock(sessionID)
	before := sess.PayloadCount()
	err = sess.Surface.Trigger(ctx, action, req.Params)
	payloads := sess.PayloadsSince(before)
	h.actionLocks.Unlock(sessionID)

	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, session.ErrNotFound) {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "action not bound on this embed"))
			return
		}
		h.logger.ErrorContext(ctx, "trigger action failed",
			"session_id", sessionID,
			"action", action,
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "action failed"))
		return
	}
	h.metrics.IncAction(sess.Type.String(), action)

	event := audit.NewEvent(sess.ID, sess.Type, action, req.Params)
	if err := h.audit.Publish(ctx, event); err != nil {
		// Audit is best-effort; the action already ran.
		h.logger.WarnContext(ctx, "publish audit event failed",
			"session_id", sessionID,
			"action", action,
			"error", err,
		)
	}

	httputil.WriteJSON(w, http.StatusOK, NewActionResponse(sess, action, payloads))
}

// authorize validates the bearer token against the session and action being
// targeted.
func (h *Handler) authorize(r *http.Request, sessionID, action string) error {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "missing bearer token")
	}

	claims, err := h.signer.Verify(raw)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return dErrors.New(dErrors.CodeForbidden, "token was not issued for this session")
	}
	if !claims.AllowsAction(action) {
		return dErrors.New(dErrors.CodeForbidden, "token does not cover this action")
	}
	return nil
}

func (h *Handler) findSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := h.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return nil, err
	}
	return sess, nil
}
