package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "proxyauth/widget"

// OTel adapts an OpenTelemetry tracer to the runtime's Tracer interface.
type OTel struct {
	tracer trace.Tracer
}

// NewOTel returns an adapter over the global tracer provider. Pass a tracer
// to use a specific provider, e.g. in tests.
func NewOTel(t ...trace.Tracer) *OTel {
	if len(t) > 0 && t[0] != nil {
		return &OTel{tracer: t[0]}
	}
	return &OTel{tracer: otel.Tracer(instrumentationName)}
}

func (o *OTel) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, s := o.tracer.Start(ctx, name, trace.WithAttributes(otelAttrs(attrs)...))
	return ctx, otelSpan{s}
}

type otelSpan struct {
	s trace.Span
}

func (w otelSpan) End(err error) {
	if err != nil {
		w.s.RecordError(err)
		w.s.SetStatus(codes.Error, err.Error())
	}
	w.s.End()
}

func otelAttrs(attrs []Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		}
	}
	return out
}

var _ Tracer = (*OTel)(nil)
