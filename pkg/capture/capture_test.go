package capture

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/browser"
	"github.com/vango-dev/batchdom/pkg/dom"
	"github.com/vango-dev/batchdom/pkg/renderbatch"
)

const page = `<html><body><div id="app">loading</div></body></html>`

func counterRecording() *Recording {
	rec := New(page)
	rec.Attach(1, "#app", 1)
	rec.BatchSpec(1, &renderbatch.Spec{
		Diffs: []renderbatch.DiffSpec{{ComponentID: 1, Edits: []renderbatch.Edit{
			renderbatch.Prepend(0, 0),
		}}},
		Frames: []renderbatch.Frame{
			renderbatch.ElementFrame("button", 2),
			renderbatch.HandlerFrame("onclick", 4),
			renderbatch.TextFrame("count 0"),
		},
	})
	rec.Event("button", "click", "")
	rec.BatchSpec(1, &renderbatch.Spec{
		Diffs: []renderbatch.DiffSpec{{ComponentID: 1, Edits: []renderbatch.Edit{
			renderbatch.StepIn(0),
			renderbatch.UpdateText(0, 0),
			renderbatch.StepOut(),
		}}},
		Frames: []renderbatch.Frame{renderbatch.TextFrame("count 1")},
	})
	return rec
}

func newRuntime(t *testing.T, html string) *browser.Runtime {
	t.Helper()
	doc, err := dom.ParseString(html)
	if err != nil {
		t.Fatal(err)
	}
	return browser.New(doc, browser.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestEncodeDecode(t *testing.T) {
	rec := counterRecording()
	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Page != page || len(got.Steps) != len(rec.Steps) {
		t.Fatalf("decoded %d steps, page %q", len(got.Steps), got.Page)
	}
	spec, err := got.Steps[1].Decode()
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Frames) != 3 || spec.Frames[0].Name != "button" {
		t.Errorf("frames = %+v", spec.Frames)
	}
	if _, err := got.Steps[0].Decode(); !errors.HasCode(err, errors.CodeCaptureStep) {
		t.Errorf("attach step Decode() error = %v", err)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		rec  *Recording
		code string
	}{
		{"version", &Recording{Version: 99}, errors.CodeCaptureRead},
		{"kind", &Recording{Version: Version, Steps: []Step{{Kind: "paint"}}}, errors.CodeCaptureStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.rec.Encode(&buf); err != nil {
				t.Fatal(err)
			}
			if _, err := Decode(&buf); !errors.HasCode(err, tt.code) {
				t.Errorf("Decode() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := Decode(bytes.NewReader([]byte{0xc1})); !errors.HasCode(err, errors.CodeCaptureRead) {
		t.Errorf("Decode(garbage) error = %v", err)
	}
}

func TestReplay(t *testing.T) {
	rec := counterRecording()
	rt := newRuntime(t, rec.Page)

	var kinds []Kind
	var edits int
	err := Replay(context.Background(), rt, rec, func(i int, s Step, stats browser.Stats) {
		kinds = append(kinds, s.Kind)
		edits += stats.Edits
	})
	if err != nil {
		t.Fatal(err)
	}

	n, _ := rt.Document().QuerySelector("#app")
	if got := dom.InnerHTML(n); got != "<button>count 1</button>" {
		t.Errorf("#app = %q", got)
	}
	if len(kinds) != 4 || kinds[2] != KindEvent {
		t.Errorf("observed kinds = %v", kinds)
	}
	if edits != 4 {
		t.Errorf("edits = %d, want 4", edits)
	}
}

func TestReplayStopsAtFailingStep(t *testing.T) {
	rec := New(page)
	rec.Attach(1, "#missing", 1)
	rec.Attach(1, "#app", 1)
	rt := newRuntime(t, page)

	calls := 0
	err := Replay(context.Background(), rt, rec, func(int, Step, browser.Stats) { calls++ })
	if !errors.HasCode(err, errors.CodeCaptureStep) {
		t.Fatalf("error = %v, want %s", err, errors.CodeCaptureStep)
	}
	if !errors.HasCode(err, errors.CodeNoElementForSelector) {
		t.Errorf("error = %v, want wrapped %s", err, errors.CodeNoElementForSelector)
	}
	if calls != 0 || rt.Registry().Len() != 0 {
		t.Errorf("replay continued after failure: calls=%d renderers=%d", calls, rt.Registry().Len())
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.bdc")
	if err := counterRecording().WriteFile(path); err != nil {
		t.Fatal(err)
	}
	rec, err := NewSource().Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Steps) != 4 {
		t.Errorf("steps = %d, want 4", len(rec.Steps))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.bdc")); !errors.HasCode(err, errors.CodeCaptureRead) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}
}

type fakeGetter struct {
	objects map[string][]byte
	input   *s3.GetObjectInput
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestOpenS3(t *testing.T) {
	var buf bytes.Buffer
	if err := counterRecording().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	getter := &fakeGetter{objects: map[string][]byte{"traces/run/1.bdc": buf.Bytes()}}
	src := NewSource(WithObjectGetter(getter))

	rec, err := src.Open(context.Background(), "s3://traces/run/1.bdc")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Steps) != 4 {
		t.Errorf("steps = %d, want 4", len(rec.Steps))
	}
	if *getter.input.Bucket != "traces" || *getter.input.Key != "run/1.bdc" {
		t.Errorf("GetObject(%s, %s)", *getter.input.Bucket, *getter.input.Key)
	}

	if _, err := src.Open(context.Background(), "s3://traces/none"); !errors.HasCode(err, errors.CodeCaptureRead) {
		t.Errorf("missing object error = %v", err)
	}
}

func TestOpenBadLocation(t *testing.T) {
	tests := []string{"s3://bucket-only", "s3:///key", "https://example.com/trace.bdc"}
	for _, loc := range tests {
		t.Run(loc, func(t *testing.T) {
			_, err := NewSource(WithObjectGetter(&fakeGetter{})).Open(context.Background(), loc)
			if !errors.HasCode(err, errors.CodeCaptureSource) {
				t.Errorf("Open(%q) error = %v, want %s", loc, err, errors.CodeCaptureSource)
			}
		})
	}

	if _, err := NewSource().Open(context.Background(), "s3://b/k"); !errors.HasCode(err, errors.CodeCaptureSource) {
		t.Errorf("Open without client error = %v", err)
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	c := NewS3Client(S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	opts := c.Options()
	if opts.Region != "eu-west-1" || !opts.UsePathStyle || *opts.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("options = region %q path-style %v", opts.Region, opts.UsePathStyle)
	}
}
