package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seqvault/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrIO, "commit", "relocate", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"commit", "relocate", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "scan", "walk", "unreadable", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected nil marker to default to ErrIO, got %v", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{services.Wrap(services.ErrConfiguration, "pattern", "compile", "duplicate identifier", nil), 2},
		{services.Wrap(services.ErrAmbiguous, "scan", "classify", "cannot determine read", nil), 2},
		{services.Wrap(services.ErrIO, "commit", "relocate", "rename failed", errors.New("io")), 1},
		{errors.New("untagged"), 1},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithTarget(ctx, 42, "S_001")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id lost: %q %v", id, ok)
	}
	if pk, ok := services.TargetPKFromContext(ctx); !ok || pk != 42 {
		t.Fatalf("target pk lost: %d %v", pk, ok)
	}
	if sid, ok := services.SystemIDFromContext(ctx); !ok || sid != "S_001" {
		t.Fatalf("system id lost: %q %v", sid, ok)
	}
}
