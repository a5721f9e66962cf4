package reporting

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Belphemur/ShowCatalog/internal/apperrors"
	"github.com/Belphemur/ShowCatalog/internal/config"
)

func TestReportable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "cancelled", err: fmt.Errorf("fetch: %w", context.Canceled), expected: false},
		{name: "not found", err: apperrors.NewShowNotFoundError(42), expected: false},
		{name: "upstream status", err: &apperrors.ErrUnexpectedStatus{URL: "x", StatusCode: 502}, expected: true},
		{name: "plain error", err: errors.New("boom"), expected: true},
	}

	for _, tt := range tests {
		tt := tt // per-iteration copy (pre-Go 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Reportable(tt.err); got != tt.expected {
				t.Errorf("Reportable(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestInit_WithoutDSN(t *testing.T) {
	flush, err := Init(&config.Config{}, "test")
	if err != nil {
		t.Fatalf("Init without DSN should not fail: %v", err)
	}
	flush()

	// Capturing without a configured client must be a harmless no-op.
	CaptureError("load_shows", errors.New("boom"))
}
