package handler

import (
	"time"

	"proxyauth/internal/widget/models"
	"proxyauth/internal/widget/session"
)

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	HTML        string    `json:"html"`
	Actions     []string  `json:"actions"`
	ActionToken string    `json:"action_token"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewSessionResponse(sess *session.Session, signedToken string) *SessionResponse {
	resp := &SessionResponse{
		ID:          sess.ID,
		Type:        sess.Type.String(),
		HTML:        shadowHTML(sess),
		Actions:     []string{},
		ActionToken: signedToken,
		CreatedAt:   sess.CreatedAt,
	}
	if sess.Surface != nil {
		resp.Actions = sess.Surface.Actions()
	}
	return resp
}

// SessionViewResponse is the read model for an existing session.
type SessionViewResponse struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	HTML      string           `json:"html"`
	Actions   []string         `json:"actions"`
	Payloads  []models.Payload `json:"payloads"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewSessionViewResponse(sess *session.Session) *SessionViewResponse {
	resp := &SessionViewResponse{
		ID:        sess.ID,
		Type:      sess.Type.String(),
		HTML:      shadowHTML(sess),
		Actions:   []string{},
		Payloads:  sess.Payloads(),
		CreatedAt: sess.CreatedAt,
	}
	if resp.Payloads == nil {
		resp.Payloads = []models.Payload{}
	}
	if sess.Surface != nil {
		resp.Actions = sess.Surface.Actions()
	}
	return resp
}

// ActionResponse reports the outcome of a triggered action.
type ActionResponse struct {
	SessionID string           `json:"session_id"`
	Action    string           `json:"action"`
	Payloads  []models.Payload `json:"payloads"`
	HTML      string           `json:"html"`
}

func NewActionResponse(sess *session.Session, action string, payloads []models.Payload) *ActionResponse {
	if payloads == nil {
		payloads = []models.Payload{}
	}
	return &ActionResponse{
		SessionID: sess.ID,
		Action:    action,
		Payloads:  payloads,
		HTML:      shadowHTML(sess),
	}
}

func shadowHTML(sess *session.Session) string {
	if sess.Element == nil {
		return ""
	}
	if root := sess.Element.Shadow(); root != nil {
		return root.HTML()
	}
	return ""
}
