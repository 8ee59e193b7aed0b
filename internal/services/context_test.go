package services_test

import (
	"context"
	"testing"

	"samplesort/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithStage(ctx, "classify")
	ctx = services.WithPackID(ctx, "pack-42")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "classify" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if id, ok := services.PackIDFromContext(ctx); !ok || id != "pack-42" {
		t.Fatalf("unexpected pack id: %v %v", id, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithPackID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id")
	}
	if _, ok := services.PackIDFromContext(ctx); ok {
		t.Fatal("expected no pack id")
	}
}
