package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMakeCode(t *testing.T) {
	code := MakeCode(ServiceDocsum, CategoryTimeout, 1)
	if code != 2111001 {
		t.Errorf("expected 2111001, got %d", code)
	}

	service, category, sequence := ParseCode(code)
	if service != ServiceDocsum || category != CategoryTimeout || sequence != 1 {
		t.Errorf("ParseCode roundtrip failed: %d/%d/%d", service, category, sequence)
	}
}

func TestCodeClassification(t *testing.T) {
	if !IsClientError(ErrDocumentNotFound.Code) {
		t.Error("expected ErrDocumentNotFound to be a client error")
	}
	if !IsServerError(ErrSummarizeFailed.Code) {
		t.Error("expected ErrSummarizeFailed to be a server error")
	}
	if IsClientError(ErrSummarizeFailed.Code) {
		t.Error("ErrSummarizeFailed must not be a client error")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		errno *Errno
		want  int
	}{
		{ErrInvalidRequest, http.StatusBadRequest},
		{ErrInvalidContent, http.StatusBadRequest},
		{ErrDocumentNotFound, http.StatusNotFound},
		{ErrSummaryNotFound, http.StatusNotFound},
		{ErrExtractionFailed, http.StatusInternalServerError},
		{ErrSummarizeTimeout, http.StatusGatewayTimeout},
		{ErrStorageFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.errno.HTTPStatus(); got != tc.want {
			t.Errorf("code %d: expected HTTP %d, got %d", tc.errno.Code, tc.want, got)
		}
	}
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	e := ErrStorageFailed.WithCause(cause)

	if e.Code != ErrStorageFailed.Code {
		t.Errorf("WithCause must preserve code: got %d", e.Code)
	}
	if !stderrors.Is(e, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}

	// 原始 Errno 不受影响
	if stderrors.Is(ErrStorageFailed, cause) {
		t.Error("WithCause must not mutate the registered Errno")
	}
}

func TestBilingualMessage(t *testing.T) {
	if got := ErrDocumentNotFound.Message("en"); got != "Document not found" {
		t.Errorf("unexpected EN message: %q", got)
	}
	if got := ErrDocumentNotFound.Message("zh"); got != "文档不存在" {
		t.Errorf("unexpected ZH message: %q", got)
	}
}

func TestFromError(t *testing.T) {
	t.Run("PassThrough", func(t *testing.T) {
		e := FromError(ErrSummarizeTimeout, ErrInternal)
		if e.Code != ErrSummarizeTimeout.Code {
			t.Errorf("expected passthrough, got code %d", e.Code)
		}
	})

	t.Run("Wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("stage failed: %w", ErrExtractionFailed)
		e := FromError(wrapped, ErrInternal)
		if e.Code != ErrExtractionFailed.Code {
			t.Errorf("expected unwrapped errno, got code %d", e.Code)
		}
	})

	t.Run("Fallback", func(t *testing.T) {
		e := FromError(fmt.Errorf("plain error"), ErrInternal)
		if e.Code != ErrInternal.Code {
			t.Errorf("expected fallback errno, got code %d", e.Code)
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if e := FromError(nil, ErrInternal); e != nil {
			t.Errorf("expected nil, got %v", e)
		}
	})
}

func TestRegistryLookup(t *testing.T) {
	e, ok := Lookup(ErrSummaryNotFound.Code)
	if !ok {
		t.Fatal("expected registered errno")
	}
	if e != ErrSummaryNotFound {
		t.Error("Lookup returned a different instance")
	}

	if _, ok := Lookup(9999999); ok {
		t.Error("expected unknown code to be absent")
	}
}
