package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"aapl", "AAPL"},
		{" msft ", "MSFT"},
		{"$TSLA", "TSLA"},
		{"brk.b", "BRK-B"},
		{"BRK-B", "BRK-B"},
		{"BF.A", "BF-A"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeTicker(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPadCIK(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"320193", "0000320193"},
		{"0000320193", "0000320193"},
		{"1", "0000000001"},
		{"12345678901", "12345678901"}, // Already longer
	}
	for _, tt := range tests {
		got := PadCIK(tt.input)
		if got != tt.expected {
			t.Errorf("PadCIK(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatCIK(t *testing.T) {
	if got := FormatCIK(320193); got != "0000320193" {
		t.Errorf("FormatCIK(320193) = %q, want %q", got, "0000320193")
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"12345", true},
		{"0", true},
		{"", false},
		{"abc", false},
		{"12a34", false},
	}
	for _, tt := range tests {
		got := IsNumeric(tt.input)
		if got != tt.expected {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
