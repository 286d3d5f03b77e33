package browser

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/heap"
	"github.com/vango-dev/batchdom/pkg/metrics"
	"github.com/vango-dev/batchdom/pkg/renderbatch"
	"github.com/vango-dev/batchdom/pkg/renderer"
)

// Stats summarizes one dispatched batch.
type Stats struct {
	UpdatedComponents     int // Diffs applied
	Edits                 int // Edits applied across all diffs
	DisposedComponents    int // Components that were registered and are now gone
	DisposedEventHandlers int // Handlers released by explicit disposal
}

// RenderBatch applies the batch at addr in h to the renderer for
// rendererID. The heap only needs to stay valid for the duration of the
// call.
func (rt *Runtime) RenderBatch(ctx context.Context, rendererID int32, h *heap.Heap, addr heap.Address) (stats Stats, err error) {
	start := time.Now()
	_, span := rt.tracer.Start(ctx, "batchdom.RenderBatch",
		trace.WithAttributes(attribute.Int("batchdom.renderer_id", int(rendererID))))
	defer func() {
		span.SetAttributes(
			attribute.Int("batchdom.updated_components", stats.UpdatedComponents),
			attribute.Int("batchdom.edits", stats.Edits),
			attribute.Int("batchdom.disposed_components", stats.DisposedComponents),
			attribute.Int("batchdom.disposed_event_handlers", stats.DisposedEventHandlers),
		)
		endSpan(span, err)
		rt.metrics.ObserveBatch(time.Since(start).Seconds(), metrics.BatchStats(stats), err)
		if err != nil {
			rt.logger.Warn("render batch rejected", "renderer", rendererID, "error", err)
		}
	}()

	r, ok := rt.registry.Get(rendererID)
	if !ok {
		return stats, errors.New(errors.CodeUnknownRenderer).
			WithDetailf("there is no renderer with ID %d", rendererID)
	}

	batch, err := renderbatch.ReadBatch(h, addr)
	if err != nil {
		return stats, malformed(err, "batch header")
	}

	if err := rt.updateComponents(r, h, batch, &stats); err != nil {
		return stats, err
	}
	if err := rt.disposeComponents(r, h, batch, &stats); err != nil {
		return stats, err
	}
	if err := rt.disposeEventHandlers(r, h, batch, &stats); err != nil {
		return stats, err
	}

	rt.logger.Debug("render batch applied",
		"renderer", rendererID,
		"components", stats.UpdatedComponents,
		"edits", stats.Edits,
		"disposed_components", stats.DisposedComponents,
		"disposed_handlers", stats.DisposedEventHandlers)
	return stats, nil
}

func (rt *Runtime) updateComponents(r *renderer.Renderer, h *heap.Heap, batch renderbatch.Batch, stats *Stats) error {
	for i := int32(0); i < batch.UpdatedComponents.Count; i++ {
		addr, err := batch.UpdatedComponents.Entry(i, renderbatch.RenderTreeDiffLength)
		if err != nil {
			return malformed(err, "updated component entry")
		}
		diff, err := renderbatch.ReadDiff(h, addr)
		if err != nil {
			return malformed(err, "updated component entry")
		}
		n, err := r.UpdateComponent(diff.ComponentID, h, diff.Edits, batch.ReferenceFrames)
		stats.Edits += n
		if err != nil {
			return err
		}
		stats.UpdatedComponents++
	}
	return nil
}

func (rt *Runtime) disposeComponents(r *renderer.Renderer, h *heap.Heap, batch renderbatch.Batch, stats *Stats) error {
	for i := int32(0); i < batch.DisposedComponentIDs.Count; i++ {
		id, err := readInt32Entry(h, batch.DisposedComponentIDs, i)
		if err != nil {
			return malformed(err, "disposed component id")
		}
		if r.DisposeComponent(id) {
			stats.DisposedComponents++
		}
	}
	return nil
}

func (rt *Runtime) disposeEventHandlers(r *renderer.Renderer, h *heap.Heap, batch renderbatch.Batch, stats *Stats) error {
	for i := int32(0); i < batch.DisposedEventHandlerIDs.Count; i++ {
		id, err := readInt32Entry(h, batch.DisposedEventHandlerIDs, i)
		if err != nil {
			return malformed(err, "disposed event handler id")
		}
		if r.DisposeEventHandler(id) {
			stats.DisposedEventHandlers++
		}
	}
	return nil
}

func readInt32Entry(h *heap.Heap, r renderbatch.ArrayRange, i int32) (int32, error) {
	addr, err := r.Entry(i, renderbatch.Int32Length)
	if err != nil {
		return 0, err
	}
	return h.ReadInt32(addr)
}

func malformed(err error, what string) error {
	return errors.New(errors.CodeMalformedBatch).WithDetail(what).Wrap(err)
}
