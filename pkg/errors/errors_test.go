package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, publicMsg: "validation failed", detailsOK: true},
		{code: CodeInvalidTransition, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeNotFound, publicMsg: "resource not found"},
		{code: CodeInternal, publicMsg: "internal error", retryable: true},
		{code: CodeDependency, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.PublicMessage != "internal error" {
		t.Fatalf("expected internal metadata, got %q", meta.PublicMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "notes too short")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "notes too short" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "notes"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "load line item")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Error() != "DEPENDENCY_ERROR: load line item" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestCodeHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("record completion: %w", New(CodeInvalidTransition, "item already completed"))
	if !IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition through fmt wrapping")
	}
	if IsValidation(err) {
		t.Fatalf("invalid transition must not report as validation")
	}
	if IsValidation(nil) {
		t.Fatalf("nil error has no code")
	}
	if got := As(err); got == nil || got.Code() != CodeInvalidTransition {
		t.Fatalf("As failed to return typed error")
	}
}

func TestRetryableFollowsCodeMetadata(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{New(CodeValidation, "notes too short"), false},
		{New(CodeInvalidTransition, "item cancelled"), false},
		{New(CodeNotFound, "line item not found"), false},
		{Wrap(CodeDependency, stdErrors.New("conn reset"), "load line item"), true},
		{stdErrors.New("untyped"), true},
		{nil, false},
	}
	for _, tc := range cases {
		if got := Retryable(tc.err); got != tc.want {
			t.Fatalf("Retryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", New(CodeNotFound, "missing"))) {
		t.Fatalf("expected not found through wrapping")
	}
}
