package sanitizer

import (
	"strings"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Diwali  ",
			want:  "Diwali",
		},
		{
			name:  "multiple spaces between words",
			input: "Company    offsite",
			want:  "Company offsite",
		},
		{
			name:  "tabs and newlines",
			input: "Company\t\noffsite",
			want:  "Company offsite",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("trimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := trimAndNormalize(got); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestUserID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "u-17", want: "u-17"},
		{name: "surrounding whitespace", input: "  u-17\t", want: "u-17"},
		{name: "control characters", input: "u-\x0017\r", want: "u-17"},
		{name: "inner space", input: "u 17", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "too long", input: strings.Repeat("a", MaxUserIDLength+1), want: ""},
		{name: "at limit", input: strings.Repeat("a", MaxUserIDLength), want: strings.Repeat("a", MaxUserIDLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserID(tt.input); got != tt.want {
				t.Errorf("UserID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		" Active ": "active",
		"RELEASED": "released",
		"":         "",
	}
	for input, want := range tests {
		if got := Label(input); got != want {
			t.Errorf("Label(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestHolidayReason(t *testing.T) {
	if got := HolidayReason(" Republic\x07  Day "); got != "Republic Day" {
		t.Errorf("HolidayReason() = %q", got)
	}
}
