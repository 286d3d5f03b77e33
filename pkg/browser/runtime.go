package browser

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/dom"
	"github.com/vango-dev/batchdom/pkg/heap"
	"github.com/vango-dev/batchdom/pkg/metrics"
	"github.com/vango-dev/batchdom/pkg/renderer"
)

// TracerName is the default OpenTelemetry tracer name.
const TracerName = "github.com/vango-dev/batchdom"

// Runtime dispatches host calls to renderers.
type Runtime struct {
	doc          *dom.Document
	registry     *renderer.Registry
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	rendererOpts []renderer.Option
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used by the runtime and its renderers.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithMetrics records dispatch metrics to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

// WithTracer sets the tracer (default: the global provider's TracerName).
func WithTracer(tracer trace.Tracer) Option {
	return func(rt *Runtime) {
		rt.tracer = tracer
	}
}

// WithRendererOptions passes opts to every renderer the runtime creates.
func WithRendererOptions(opts ...renderer.Option) Option {
	return func(rt *Runtime) {
		rt.rendererOpts = append(rt.rendererOpts, opts...)
	}
}

// New creates a runtime over doc.
func New(doc *dom.Document, opts ...Option) *Runtime {
	rt := &Runtime{doc: doc}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	if rt.tracer == nil {
		rt.tracer = otel.Tracer(TracerName)
	}
	ropts := append([]renderer.Option{renderer.WithLogger(rt.logger)}, rt.rendererOpts...)
	rt.registry = renderer.NewRegistry(doc, ropts...)
	return rt
}

// Document returns the live document.
func (rt *Runtime) Document() *dom.Document {
	return rt.doc
}

// Registry returns the renderer registry.
func (rt *Runtime) Registry() *renderer.Registry {
	return rt.registry
}

// AttachRootComponentToElement resolves selector, creates the renderer on
// first use and makes componentID the root of the matched element.
func (rt *Runtime) AttachRootComponentToElement(ctx context.Context, rendererID int32, selector string, componentID int32) (err error) {
	_, span := rt.tracer.Start(ctx, "batchdom.AttachRootComponentToElement",
		trace.WithAttributes(
			attribute.Int("batchdom.renderer_id", int(rendererID)),
			attribute.Int("batchdom.component_id", int(componentID)),
			attribute.String("batchdom.selector", selector),
		))
	defer func() {
		endSpan(span, err)
		rt.metrics.ObserveAttach(err)
	}()

	element, err := rt.doc.QuerySelector(selector)
	if err != nil {
		return errors.New(errors.CodeInvalidSelector).WithDetailf("'%s'", selector).Wrap(err)
	}
	if element == nil {
		return errors.New(errors.CodeNoElementForSelector).WithDetailf("'%s'", selector)
	}

	r := rt.registry.GetOrCreate(rendererID)
	rt.metrics.SetRenderers(rt.registry.Len())
	if err := r.AttachRootComponentToElement(componentID, element); err != nil {
		return err
	}
	rt.logger.Info("root component attached",
		"renderer", rendererID, "component", componentID, "selector", selector)
	return nil
}

// AttachRootComponentToElementAt is AttachRootComponentToElement with the
// selector passed as a heap string, the way a host hands over strings.
func (rt *Runtime) AttachRootComponentToElementAt(ctx context.Context, rendererID int32, h *heap.Heap, selector heap.Address, componentID int32) error {
	s, err := h.ReadString(selector)
	if err != nil {
		return errors.New(errors.CodeMalformedBatch).WithDetail("selector string").Wrap(err)
	}
	return rt.AttachRootComponentToElement(ctx, rendererID, s, componentID)
}

// RemoveRenderer releases the renderer for rendererID and its bindings.
func (rt *Runtime) RemoveRenderer(rendererID int32) bool {
	ok := rt.registry.Remove(rendererID)
	if ok {
		rt.metrics.SetRenderers(rt.registry.Len())
		rt.logger.Info("renderer removed", "renderer", rendererID)
	}
	return ok
}

// DispatchEvent fires an event of eventType on the first element matching
// selector. It returns the number of listeners invoked.
func (rt *Runtime) DispatchEvent(selector, eventType, value string) (int, error) {
	element, err := rt.doc.QuerySelector(selector)
	if err != nil {
		return 0, errors.New(errors.CodeInvalidSelector).WithDetailf("'%s'", selector).Wrap(err)
	}
	if element == nil {
		return 0, errors.New(errors.CodeNoElementForSelector).WithDetailf("'%s'", selector)
	}
	return rt.doc.Dispatch(element, eventType, value), nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := errors.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("batchdom.error_code", code))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
