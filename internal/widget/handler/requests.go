package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	dErrors "proxyauth/pkg/domain-errors"
	"proxyauth/pkg/platform/httputil"
	"proxyauth/pkg/platform/validation"

	"proxyauth/internal/widget/models"
)

// CreateSessionRequest mirrors the host-page init configuration. Unrecognized
// host keys ride in Extra and reach the renderer untouched.
type CreateSessionRequest struct {
	Type        string         `json:"type"`
	ContainerID string         `json:"containerId"`
	ReferenceID string         `json:"referenceId"`
	Selector    string         `json:"selector"`
	Variant     string         `json:"variant"`
	Extra       map[string]any `json:"extra"`
}

func (r *CreateSessionRequest) Normalize() {
	r.Type = strings.TrimSpace(r.Type)
	r.ContainerID = strings.TrimSpace(r.ContainerID)
	r.ReferenceID = strings.TrimSpace(r.ReferenceID)
	r.Selector = strings.TrimSpace(r.Selector)
	r.Variant = strings.TrimSpace(r.Variant)
}

func (r *CreateSessionRequest) Validate() error {
	if r.Selector != "" && !strings.HasPrefix(r.Selector, "#") {
		return fmt.Errorf("selector must be an id selector, got %q", r.Selector)
	}
	if err := validation.CheckStringLength("type", r.Type, validation.MaxEmbedTypeLength); err != nil {
		return err
	}
	for _, field := range []struct{ name, value string }{
		{"containerId", r.ContainerID},
		{"referenceId", r.ReferenceID},
		{"selector", r.Selector},
	} {
		if err := validation.CheckStringLength(field.name, field.value, validation.MaxElementIDLength); err != nil {
			return err
		}
	}
	if err := validation.CheckStringLength("variant", r.Variant, validation.MaxVariantLength); err != nil {
		return err
	}
	return validation.CheckMapCount("extra keys", r.Extra, validation.MaxExtraKeys)
}

// mountID picks the element id to create on the fresh host document, using
// the same precedence the runtime resolves mount targets with.
func (r *CreateSessionRequest) mountID() string {
	if r.Selector != "" {
		return strings.TrimPrefix(r.Selector, "#")
	}
	if r.ReferenceID != "" {
		return r.ReferenceID
	}
	if r.ContainerID != "" {
		return r.ContainerID
	}
	return models.DefaultContainerID
}

// TriggerActionRequest carries optional parameters for a triggered action.
type TriggerActionRequest struct {
	Params map[string]any `json:"params"`
}

// decodeActionRequest decodes the trigger body, tolerating an empty body
// since most actions carry no parameters.
func decodeActionRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*TriggerActionRequest, bool) {
	var req TriggerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return &req, true
		}
		logger.WarnContext(r.Context(), "failed to decode action request body", "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	if err := validation.CheckMapCount("params", req.Params, validation.MaxActionParams); err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return &req, true
}
