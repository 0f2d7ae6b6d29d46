package utils

import (
	"strings"
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		code   string
		amount float64
		want   string
	}{
		{"USD", 0, "USD 0"},
		{"USD", 999, "USD 999"},
		{"USD", 1234.4, "USD 1,234"},
		{"USD", 1234.5, "USD 1,235"},
		{"KES", 1234567, "KES 1,234,567"},
		{"EUR", -1500.2, "EUR -1,500"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.code, tt.amount); got != tt.want {
			t.Errorf("FormatAmount(%q, %v) = %q, want %q", tt.code, tt.amount, got, tt.want)
		}
	}
}

func TestRoundTendered(t *testing.T) {
	if got := RoundTendered(99.49); got != 99 {
		t.Errorf("RoundTendered(99.49) = %v", got)
	}
	if got := RoundTendered(99.5); got != 100 {
		t.Errorf("RoundTendered(99.5) = %v", got)
	}
}

func TestReceiptCode(t *testing.T) {
	at := time.Date(2026, time.August, 29, 15, 42, 33, 0, time.UTC)
	code := ReceiptCode(at)
	if !strings.HasPrefix(code, "RCP-20260829-") {
		t.Errorf("unexpected receipt code %q", code)
	}
}
