package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "protocol error",
			code:    CodeUnknownRenderer,
			wantMsg: "Unknown renderer",
			wantCat: CategoryProtocol,
		},
		{
			name:    "document error",
			code:    CodeNoElementForSelector,
			wantMsg: "Could not find any element matching selector",
			wantCat: CategoryDocument,
		},
		{
			name:    "config error",
			code:    CodeConfigInvalid,
			wantMsg: "Invalid configuration value",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestRenderError_Error(t *testing.T) {
	err := New(CodeNoElementForSelector).WithDetail("'#app'")
	want := "E300: Could not find any element matching selector: '#app'"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if got := (&RenderError{Message: "plain"}).Error(); got != "plain" {
		t.Errorf("Error() = %q, want plain", got)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := New(CodeMalformedBatch).Wrap(cause)
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is did not reach wrapped cause")
	}
	if !strings.HasSuffix(err.Error(), cause.Error()) {
		t.Errorf("Error() = %q, want cause suffix", err.Error())
	}
}

func TestIsByCode(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", New(CodeUnknownComponent).WithDetail("component 4"))
	if !stderrors.Is(err, New(CodeUnknownComponent)) {
		t.Error("errors.Is by code failed")
	}
	if stderrors.Is(err, New(CodeUnknownRenderer)) {
		t.Error("errors.Is matched a different code")
	}
}

func TestHasCode(t *testing.T) {
	inner := New(CodeInvalidEdit)
	outer := New(CodeCaptureStep).Wrap(fmt.Errorf("step 2: %w", inner))

	if !HasCode(outer, CodeCaptureStep) || !HasCode(outer, CodeInvalidEdit) {
		t.Error("HasCode missed a code in the chain")
	}
	if HasCode(outer, CodeUnknownRenderer) {
		t.Error("HasCode found an absent code")
	}
	if HasCode(io.EOF, CodeInvalidEdit) {
		t.Error("HasCode matched a plain error")
	}
	if CodeOf(outer) != CodeCaptureStep || CodeOf(io.EOF) != "" {
		t.Error("CodeOf returned wrong code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeCaptureRead) != nil {
		t.Error("FromError(nil) != nil")
	}
	re := New(CodeInvalidFrame)
	if FromError(re, CodeCaptureRead) != re {
		t.Error("FromError rewrapped a RenderError")
	}
	wrapped := FromError(io.EOF, CodeCaptureRead)
	if wrapped.Code != CodeCaptureRead || wrapped.Wrapped != io.EOF {
		t.Errorf("FromError() = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeUnknownRenderer).WithDetail("renderer 3").Wrap(io.EOF)
	out := err.Format()
	for _, want := range []string{"ERROR E200: Unknown renderer", "renderer 3", "cause: EOF", "Hint: "} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if got := err.FormatCompact(); got != "[E200] Unknown renderer" {
		t.Errorf("FormatCompact() = %q", got)
	}

	var buf bytes.Buffer
	Fprint(&buf, io.EOF)
	if buf.String() != "ERROR EOF\n" {
		t.Errorf("Fprint() = %q", buf.String())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCapture, "bad step %q", "paint")
	if err.Message != `bad step "paint"` || err.Category != CategoryCapture {
		t.Errorf("Newf() = %+v", err)
	}
}

func TestRegistryCategories(t *testing.T) {
	for code, tmpl := range registry {
		if tmpl.Message == "" {
			t.Errorf("%s has no message", code)
		}
		if tmpl.Category == "" {
			t.Errorf("%s has no category", code)
		}
	}
	if _, ok := Lookup(CodeStepOutOfRoot); !ok {
		t.Error("Lookup missed a registered code")
	}
}
