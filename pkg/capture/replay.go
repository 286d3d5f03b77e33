package capture

import (
	"context"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/browser"
	"github.com/vango-dev/batchdom/pkg/heap"
)

// Observer is called after each successfully replayed step. stats is zero
// for non-batch steps.
type Observer func(index int, step Step, stats browser.Stats)

// Replay applies every step of rec to rt in order and stops at the first
// failing step. The returned error carries CodeCaptureStep and wraps the
// runtime error.
func Replay(ctx context.Context, rt *browser.Runtime, rec *Recording, observe Observer) error {
	for i, step := range rec.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats, err := replayStep(ctx, rt, step)
		if err != nil {
			return errors.New(errors.CodeCaptureStep).
				WithDetailf("step %d (%s)", i, step.Kind).
				Wrap(err)
		}
		if observe != nil {
			observe(i, step, stats)
		}
	}
	return nil
}

func replayStep(ctx context.Context, rt *browser.Runtime, step Step) (browser.Stats, error) {
	switch step.Kind {
	case KindAttach:
		return browser.Stats{}, rt.AttachRootComponentToElement(ctx, step.RendererID, step.Selector, step.ComponentID)
	case KindBatch:
		h := heap.New(step.Heap)
		defer h.Release()
		return rt.RenderBatch(ctx, step.RendererID, h, step.Address())
	case KindEvent:
		_, err := rt.DispatchEvent(step.Selector, step.EventType, step.Value)
		return browser.Stats{}, err
	default:
		return browser.Stats{}, errors.New(errors.CodeCaptureStep).WithDetailf("unknown kind %q", step.Kind)
	}
}
