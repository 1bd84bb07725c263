package judgelog

import (
	"context"
	"testing"
)

func TestNewBuildsLoggerForBothFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(Config{Level: "debug", Format: format, OutputPath: "stdout"})
		if err != nil {
			t.Fatalf("New(%q) error: %v", format, err)
		}
		if l == nil {
			t.Fatalf("New(%q) returned nil logger", format)
		}
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	if _, err := New(Config{Level: "not-a-level"}); err == nil {
		t.Error("expected an error for an invalid log level")
	}
}

func TestContextEnrichmentRoundTrips(t *testing.T) {
	ctx := WithChalID(context.Background(), 7)
	ctx = WithGroupIndex(ctx, 2)

	fields := fieldsFromContext(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %+v", len(fields), fields)
	}
}

func TestGlobalLoggingIsNoopBeforeInit(t *testing.T) {
	// Calling Debug/Info/Warn/Error before Init must not panic.
	Debug(context.Background(), "noop")
	Info(context.Background(), "noop")
	Warn(context.Background(), "noop")
	Error(context.Background(), "noop")
}
