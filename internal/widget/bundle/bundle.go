// Package bundle implements the embed bundle format: a manifest carrying a
// display template and the actions the embed exposes. Installing a bundle
// compiles the template into a renderer and self-registers it under the
// type the manifest declares, the runtime equivalent of a fetched embed
// script registering itself on execution.
package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"proxyauth/internal/staticdata"
	"proxyauth/internal/widget/callback"
	"proxyauth/internal/widget/models"
)

// ActionSpec declares one user interaction an embed exposes. Fields lists
// the parameter names carried into the success payload; parameters outside
// the declared set are dropped.
type ActionSpec struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields,omitempty"`
}

// Manifest is the parsed bundle.
type Manifest struct {
	Type     models.Type  `json:"type"`
	Version  string       `json:"version"`
	Title    string       `json:"title"`
	Template string       `json:"template"`
	Actions  []ActionSpec `json:"actions,omitempty"`
}

// Parse decodes and validates a bundle manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode bundle manifest: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("bundle manifest missing type")
	}
	if m.Template == "" {
		return nil, fmt.Errorf("bundle %q missing template", m.Type)
	}
	return &m, nil
}

// templateData is the root value bundle templates execute against.
type templateData struct {
	Title string
	Data  *staticdata.Snapshot
	Extra map[string]any
}

// Install parses raw bundle bytes, compiles the template, and registers the
// resulting renderer under the manifest's declared type. Registration uses
// the manifest's own type key: a bundle fetched for one type but declaring
// another leaves the requested type unregistered, which the dispatcher
// reports as a contract violation.
func Install(raw []byte, reg models.RegistryHandle, inv *callback.Invoker) (*Manifest, error) {
	m, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(string(m.Type)).Parse(m.Template)
	if err != nil {
		return nil, fmt.Errorf("compile bundle %q template: %w", m.Type, err)
	}

	reg.Register(m.Type, renderer(m, tmpl, inv))
	return m, nil
}

// renderer builds the RenderFunc for an installed bundle: execute the
// template into the surface, then bind the declared actions so user
// interactions emit success payloads through the guarded invoker.
func renderer(m *Manifest, tmpl *template.Template, inv *callback.Invoker) models.RenderFunc {
	return func(_ context.Context, rc *models.RenderContext) error {
		var buf bytes.Buffer
		data := templateData{Title: m.Title, Data: rc.Data, Extra: rc.Config.Extra}
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("render embed %q: %w", m.Type, err)
		}
		rc.Surface.SetHTML(buf.String())

		cfg := rc.Config
		for _, spec := range m.Actions {
			rc.Surface.BindAction(spec.Name, func(_ context.Context, params map[string]any) error {
				inv.Success(cfg.Success, models.Payload{
					Action: spec.Name,
					Data:   pickFields(params, spec.Fields),
				})
				return nil
			})
		}
		return nil
	}
}

func pickFields(params map[string]any, fields []string) map[string]any {
	if len(fields) == 0 || len(params) == 0 {
		return nil
	}
	out := make(map[string]any)
	for _, f := range fields {
		if v, ok := params[f]; ok {
			out[f] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
