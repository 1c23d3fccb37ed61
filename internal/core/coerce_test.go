package core

import "testing"

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   int
		wantOK bool
	}{
		{"plain digit", "2", 2, true},
		{"padded digit", " 3 ", 3, true},
		{"numeric-looking float format", "4.0", 4, true},
		{"zero is not a dispatch", "0", 0, false},
		{"negative", "-1", 0, false},
		{"fractional", "1.5", 0, false},
		{"empty", "", 0, false},
		{"non-numeric", "x", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePositiveInt(tt.value)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePositiveInt(%q) = %d, %v, want %d, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"integer", "120", 120},
		{"decimal", "3.5", 3.5},
		{"thousands separator", "1,234.5", 1234.5},
		{"blank means zero", "", 0},
		{"whitespace means zero", "  ", 0},
		{"garbage means zero", "n/a", 0},
		{"negative clamped to zero", "-5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.value); got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsBareNumber(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"integer", "45000", true},
		{"decimal", "45000.5", true},
		{"iso date is not bare", "2023-03-15", false},
		{"slash date is not bare", "2023/03/15", false},
		{"dotted date is not bare", "2023.03.15", false},
		{"time is not bare", "12:30", false},
		{"empty", "", false},
		{"words", "today", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBareNumber(tt.value); got != tt.want {
				t.Errorf("IsBareNumber(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
