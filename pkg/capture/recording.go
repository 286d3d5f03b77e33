package capture

import (
	"bytes"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/heap"
	"github.com/vango-dev/batchdom/pkg/renderbatch"
)

// Version is the recording format version written by this package.
const Version = 1

// Kind identifies what a Step replays.
type Kind string

const (
	KindAttach Kind = "attach"
	KindBatch  Kind = "batch"
	KindEvent  Kind = "event"
)

// Step is one recorded host call.
type Step struct {
	Kind       Kind  `msgpack:"kind"`
	RendererID int32 `msgpack:"renderer"`

	// attach
	Selector    string `msgpack:"selector,omitempty"`
	ComponentID int32  `msgpack:"component,omitempty"`

	// batch
	Heap  []byte `msgpack:"heap,omitempty"`
	Batch int32  `msgpack:"batch,omitempty"`

	// event; Selector names the target
	EventType string `msgpack:"event,omitempty"`
	Value     string `msgpack:"value,omitempty"`
}

// Address returns the batch address of a batch step.
func (s Step) Address() heap.Address {
	return heap.Address(s.Batch)
}

// Decode decodes the batch of a batch step.
func (s Step) Decode() (*renderbatch.Spec, error) {
	if s.Kind != KindBatch {
		return nil, errors.New(errors.CodeCaptureStep).WithDetailf("%s step has no batch", s.Kind)
	}
	return renderbatch.Decode(heap.New(s.Heap), s.Address())
}

// Recording is a replayable sequence of steps.
type Recording struct {
	Version int    `msgpack:"version"`
	Page    string `msgpack:"page,omitempty"`
	Steps   []Step `msgpack:"steps"`
}

// New returns an empty recording. page is the initial HTML the steps
// apply to; it may be empty when the page is supplied at replay time.
func New(page string) *Recording {
	return &Recording{Version: Version, Page: page}
}

// Attach records a root component attachment.
func (r *Recording) Attach(rendererID int32, selector string, componentID int32) {
	r.Steps = append(r.Steps, Step{
		Kind:        KindAttach,
		RendererID:  rendererID,
		Selector:    selector,
		ComponentID: componentID,
	})
}

// Batch records a render batch. The heap bytes are copied.
func (r *Recording) Batch(rendererID int32, h *heap.Heap, addr heap.Address) {
	r.Steps = append(r.Steps, Step{
		Kind:       KindBatch,
		RendererID: rendererID,
		Heap:       bytes.Clone(h.Bytes()),
		Batch:      int32(addr),
	})
}

// BatchSpec encodes spec and records it as a render batch.
func (r *Recording) BatchSpec(rendererID int32, spec *renderbatch.Spec) {
	h, addr := renderbatch.Build(spec)
	r.Batch(rendererID, h, addr)
}

// Event records an event dispatched to the element matching selector.
func (r *Recording) Event(selector, eventType, value string) {
	r.Steps = append(r.Steps, Step{
		Kind:      KindEvent,
		Selector:  selector,
		EventType: eventType,
		Value:     value,
	})
}

// Encode writes the recording as MessagePack.
func (r *Recording) Encode(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	return enc.Encode(r)
}

// Decode reads a MessagePack recording.
func Decode(rd io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(rd).Decode(&rec); err != nil {
		return nil, errors.New(errors.CodeCaptureRead).Wrap(err)
	}
	if rec.Version != Version {
		return nil, errors.New(errors.CodeCaptureRead).
			WithDetailf("unsupported version %d", rec.Version)
	}
	for i, s := range rec.Steps {
		switch s.Kind {
		case KindAttach, KindBatch, KindEvent:
		default:
			return nil, errors.New(errors.CodeCaptureStep).
				WithDetailf("step %d: unknown kind %q", i, s.Kind)
		}
	}
	return &rec, nil
}

// WriteFile writes the recording to path.
func (r *Recording) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile reads a recording from path.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.CodeCaptureRead).WithDetail(path).Wrap(err)
	}
	defer f.Close()
	return Decode(f)
}
