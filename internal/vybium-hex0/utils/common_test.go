package utils

import "testing"

// TestIsPowerOfTwo tests the IsPowerOfTwo function
func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		name     string
		input    uint64
		expected bool
	}{
		{"zero", 0, false},
		{"one", 1, true},
		{"two", 2, true},
		{"three", 3, false},
		{"four", 4, true},
		{"fifteen", 15, false},
		{"sixteen", 16, true},
		{"large power", 1024, true},
		{"large non-power", 1023, false},
		{"top bit", 1 << 63, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPowerOfTwo(tt.input)
			if result != tt.expected {
				t.Errorf("IsPowerOfTwo(%d) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestLog2 tests the Log2 function
func TestLog2(t *testing.T) {
	tests := []struct {
		name     string
		input    uint64
		expected int
	}{
		{"one", 1, 0},
		{"two", 2, 1},
		{"eight", 8, 3},
		{"1024", 1024, 10},
		{"non-power of 2", 3, -1},
		{"zero", 0, -1},
		{"large power", 1 << 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Log2(tt.input)
			if result != tt.expected {
				t.Errorf("Log2(%d) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

// TestNextPowerOfTwo tests the NextPowerOfTwo function
func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		input    uint64
		expected uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{1024, 1024},
		{1025, 2048},
	}

	for _, tt := range tests {
		if result := NextPowerOfTwo(tt.input); result != tt.expected {
			t.Errorf("NextPowerOfTwo(%d) = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}
