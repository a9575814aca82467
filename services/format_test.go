package services

import "testing"

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		dp     int
		expect string
	}{
		{"height", 179.5, 3, "179.500"},
		{"chainage", 25, 2, "25.00"},
		{"laser", 100.0 / 90, 4, "1.1111"},
		{"rounds", 1.23456, 3, "1.235"},
		{"negative", -0.25, 3, "-0.250"},
		{"negative zero", -0.0001, 3, "0.000"},
		{"literal negative zero", -0.0, 2, "0.00"},
		{"zero decimals", 3, 0, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFixed(tt.input, tt.dp)
			if got != tt.expect {
				t.Errorf("FormatFixed(%v, %d) = %q, want %q", tt.input, tt.dp, got, tt.expect)
			}
		})
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"whole", 90, "90"},
		{"fraction", 100.0 / 1.1111, "90.001"},
		{"rounds to whole", 100 / (100.0 / 90), "90"},
		{"three decimals", 133.3333, "133.333"},
		{"small", 0.5, "0.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRatio(tt.input)
			if got != tt.expect {
				t.Errorf("FormatRatio(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestFormatSigned(t *testing.T) {
	tests := []struct {
		input  float64
		dp     int
		expect string
	}{
		{30, 0, "+30"},
		{-0.5, 3, "-0.500"},
		{0, 3, "0.000"},
		{0.0004, 3, "0.000"},
	}

	for _, tt := range tests {
		if got := FormatSigned(tt.input, tt.dp); got != tt.expect {
			t.Errorf("FormatSigned(%v, %d) = %q, want %q", tt.input, tt.dp, got, tt.expect)
		}
	}
}
