package services_test

import (
	"errors"
	"strings"
	"testing"

	"samplesort/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternal, "classify", "ai batch", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"classify", "ai batch", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"validation", services.Wrap(services.ErrValidation, "proposals", "generate", "empty matrix", nil), true},
		{"not found", services.Wrap(services.ErrNotFound, "review", "override", "missing", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "classify", "ai", "timeout", errors.New("io")), false},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Recoverable(tt.err); got != tt.want {
				t.Fatalf("Recoverable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "proposals", "generate", "empty matrix", nil)
	marker, msg := services.Details(err)
	if marker != services.ErrValidation.Error() {
		t.Fatalf("marker = %q", marker)
	}
	if msg != "proposals: generate: empty matrix" {
		t.Fatalf("message = %q", msg)
	}
	if marker, msg := services.Details(errors.New("plain")); marker != "" || msg != "plain" {
		t.Fatalf("plain error = %q %q", marker, msg)
	}
}
